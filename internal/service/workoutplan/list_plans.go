package workoutplan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fitforge/fitplan-backend/internal/cache"
	"github.com/fitforge/fitplan-backend/internal/domain"
	"github.com/fitforge/fitplan-backend/pkg/ctxutil"
)

// cachedList is the serialized form of a list cache entry. Relation sets
// are attached after the cache step, so they are never part of the payload.
type cachedList struct {
	Plans []*domain.WorkoutPlan `json:"plans"`
	Total int                   `json:"total"`
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

// List returns a filtered page of plans plus the unpaged total. Relation
// sets are batch-loaded for the whole page. Only filter combinations with no
// free-text search, no creator scope and no tag filter are cached: those are
// too cardinality-diverse to cache profitably.
func (s *Service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	f := input.Filter

	if input.MineOnly {
		callerID, ok := ctxutil.CallerIDFromCtx(ctx)
		if !ok {
			return nil, domain.ErrUnauthorized
		}
		f.CreatorID = &callerID
	}

	if f.Limit <= 0 {
		f.Limit = s.cfg.DefaultPageSize
	}
	if f.Limit > s.cfg.MaxPageSize {
		f.Limit = s.cfg.MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	cacheable := (f.Search == nil || *f.Search == "") &&
		f.CreatorID == nil &&
		len(f.TagIDs) == 0
	key := cache.ListKey(f)

	var (
		plans []*domain.WorkoutPlan
		total int
	)

	if cacheable {
		plans, total = s.listFromCache(ctx, key)
	}

	if plans == nil {
		var err error
		plans, total, err = s.plans.FindWithFilters(ctx, f)
		if err != nil {
			return nil, s.wrapInternal(ctx, "list plans", err)
		}

		if cacheable {
			s.listToCache(ctx, key, plans, total)
		}
	}

	if err := s.attachRelations(ctx, plans); err != nil {
		return nil, s.wrapInternal(ctx, "list plans", err)
	}

	return &ListResult{Plans: plans, Total: total}, nil
}

// attachRelations batch-loads the relation sets for a page of plans. One
// query per relation kind regardless of page size.
func (s *Service) attachRelations(ctx context.Context, plans []*domain.WorkoutPlan) error {
	if len(plans) == 0 {
		return nil
	}

	ids := make([]domain.FlexID, len(plans))
	for i, p := range plans {
		ids[i] = p.ID
	}

	byPlan, err := s.relations.ForPlans(ctx, ids)
	if err != nil {
		return fmt.Errorf("load relations: %w", err)
	}

	for _, p := range plans {
		rel := byPlan[p.ID.String()]
		p.Tags = rel.Tags
		p.MuscleGroups = rel.MuscleGroups
		p.Equipment = rel.Equipment
	}

	return nil
}

func (s *Service) listFromCache(ctx context.Context, key string) ([]*domain.WorkoutPlan, int) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.log.WarnContext(ctx, "list cache get failed", "key", key, "error", err)
		}
		return nil, 0
	}

	var entry cachedList
	if err := json.Unmarshal(raw, &entry); err != nil {
		s.log.WarnContext(ctx, "list cache entry corrupt", "key", key, "error", err)
		return nil, 0
	}
	if entry.Plans == nil {
		entry.Plans = []*domain.WorkoutPlan{}
	}

	return entry.Plans, entry.Total
}

func (s *Service) listToCache(ctx context.Context, key string, plans []*domain.WorkoutPlan, total int) {
	raw, err := json.Marshal(cachedList{Plans: plans, Total: total})
	if err != nil {
		s.log.WarnContext(ctx, "list cache marshal failed", "key", key, "error", err)
		return
	}

	if err := s.cache.Set(ctx, key, raw, s.cfg.ListTTL); err != nil {
		s.log.WarnContext(ctx, "list cache set failed", "key", key, "error", err)
	}
}
