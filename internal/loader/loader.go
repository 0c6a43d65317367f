// Package loader batches relation-set lookups for workout plans. Listing a
// page of plans costs one query per relation kind, not one per plan.
// Loaders are created per call: batching happens within a single ForPlans
// invocation, results are never cached across calls.
package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/fitforge/fitplan-backend/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

// relationRepo is the batch read each relation repository provides. The map
// is keyed by the stored plan_id text, which is the storage-prepared form of
// the identifier ("007" is stored and grouped as "7").
type relationRepo[T any] interface {
	ListForPlans(ctx context.Context, planIDs []domain.FlexID) (map[string][]T, error)
}

// Loader resolves the relation sets of workout plans.
type Loader struct {
	tags         relationRepo[domain.Tag]
	muscleGroups relationRepo[domain.MuscleGroup]
	equipment    relationRepo[domain.Equipment]
}

// New creates a Loader over the three relation repositories.
func New(
	tags relationRepo[domain.Tag],
	muscleGroups relationRepo[domain.MuscleGroup],
	equipment relationRepo[domain.Equipment],
) *Loader {
	return &Loader{
		tags:         tags,
		muscleGroups: muscleGroups,
		equipment:    equipment,
	}
}

// ForPlan returns the relation sets of a single plan.
func (l *Loader) ForPlan(ctx context.Context, planID domain.FlexID) (domain.PlanRelations, error) {
	all, err := l.ForPlans(ctx, []domain.FlexID{planID})
	if err != nil {
		return domain.PlanRelations{}, err
	}
	return all[planID.String()], nil
}

// ForPlans returns the relation sets of every given plan with one batch
// query per relation kind. Every requested ID is present in the result map;
// plans with no relations get empty slices. Any batch failure fails the
// whole call.
func (l *Loader) ForPlans(ctx context.Context, planIDs []domain.FlexID) (map[string]domain.PlanRelations, error) {
	if len(planIDs) == 0 {
		return map[string]domain.PlanRelations{}, nil
	}

	keys := make([]string, len(planIDs))
	byKey := make(map[string]domain.FlexID, len(planIDs))
	for i, id := range planIDs {
		keys[i] = id.String()
		byKey[keys[i]] = id
	}

	tagLoader := newBatchedLoader(byKey, l.tags)
	mgLoader := newBatchedLoader(byKey, l.muscleGroups)
	eqLoader := newBatchedLoader(byKey, l.equipment)

	tagThunk := tagLoader.LoadMany(ctx, keys)
	mgThunk := mgLoader.LoadMany(ctx, keys)
	eqThunk := eqLoader.LoadMany(ctx, keys)

	tags, errs := tagThunk()
	if err := firstError(errs); err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	muscleGroups, errs := mgThunk()
	if err := firstError(errs); err != nil {
		return nil, fmt.Errorf("load muscle groups: %w", err)
	}
	equipment, errs := eqThunk()
	if err := firstError(errs); err != nil {
		return nil, fmt.Errorf("load equipment: %w", err)
	}

	result := make(map[string]domain.PlanRelations, len(keys))
	for i, key := range keys {
		result[key] = domain.PlanRelations{
			Tags:         tags[i],
			MuscleGroups: muscleGroups[i],
			Equipment:    equipment[i],
		}
	}

	return result, nil
}

// newBatchedLoader builds a per-call dataloader over one relation repo.
func newBatchedLoader[T any](ids map[string]domain.FlexID, repo relationRepo[T]) *dataloader.Loader[string, []T] {
	batchFn := func(ctx context.Context, keys []string) []*dataloader.Result[[]T] {
		flexIDs := make([]domain.FlexID, len(keys))
		for i, key := range keys {
			flexIDs[i] = ids[key]
		}

		grouped, err := repo.ListForPlans(ctx, flexIDs)
		if err != nil {
			return errorResults[[]T](len(keys), err)
		}

		// The repository groups rows by the stored plan_id, so the join must
		// run on the storage form of each requested ID, not its spelling.
		storageKeys := make([]string, len(keys))
		for i, key := range keys {
			storageKeys[i] = storageKey(ids[key])
		}
		return mapResults(storageKeys, grouped, emptySlice[T])
	}

	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[string, []T](wait),
		dataloader.WithBatchCapacity[string, []T](maxBatch),
	)
}

// errorResults returns a slice of error results for all keys.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps grouped results back to key order, using defaultFn for missing keys.
func mapResults[V any](keys []string, grouped map[string]V, defaultFn func() V) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		if v, ok := grouped[key]; ok {
			results[i] = &dataloader.Result[V]{Data: v}
		} else {
			results[i] = &dataloader.Result[V]{Data: defaultFn()}
		}
	}
	return results
}

// storageKey renders the identifier the way the storage layer writes it,
// matching the plan_id text the repositories group by.
func storageKey(id domain.FlexID) string {
	return fmt.Sprintf("%v", id.StorageValue())
}

// emptySlice returns a non-nil empty slice.
func emptySlice[T any]() []T {
	return []T{}
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
