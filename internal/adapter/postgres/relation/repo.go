// Package relation implements persistence for the three many-to-many sets
// attached to workout plans (tags, muscle groups, equipment). The three
// junction tables share a shape, so one generic repository covers them all.
package relation

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/fitforge/fitplan-backend/internal/adapter/postgres"
	"github.com/fitforge/fitplan-backend/internal/domain"
)

// named is the constraint shared by all relation entities.
type named interface {
	domain.Tag | domain.MuscleGroup | domain.Equipment
}

// Repo provides persistence for one relation kind. Instantiate via
// NewTagRepo, NewMuscleGroupRepo or NewEquipmentRepo.
type Repo[T named] struct {
	pool *pgxpool.Pool

	entityTable   string // e.g. "tags"
	junctionTable string // e.g. "workout_plan_tags"
	refColumn     string // e.g. "tag_id"
	entityName    string // for error mapping
	make          func(id, name string) T
}

// NewTagRepo creates the repository for plan tags.
func NewTagRepo(pool *pgxpool.Pool) *Repo[domain.Tag] {
	return &Repo[domain.Tag]{
		pool:          pool,
		entityTable:   "tags",
		junctionTable: "workout_plan_tags",
		refColumn:     "tag_id",
		entityName:    "tag",
		make: func(id, name string) domain.Tag {
			return domain.Tag{ID: domain.IDFromString(id), Name: name}
		},
	}
}

// NewMuscleGroupRepo creates the repository for plan muscle groups.
func NewMuscleGroupRepo(pool *pgxpool.Pool) *Repo[domain.MuscleGroup] {
	return &Repo[domain.MuscleGroup]{
		pool:          pool,
		entityTable:   "muscle_groups",
		junctionTable: "workout_plan_muscle_groups",
		refColumn:     "muscle_group_id",
		entityName:    "muscle_group",
		make: func(id, name string) domain.MuscleGroup {
			return domain.MuscleGroup{ID: domain.IDFromString(id), Name: name}
		},
	}
}

// NewEquipmentRepo creates the repository for plan equipment.
func NewEquipmentRepo(pool *pgxpool.Pool) *Repo[domain.Equipment] {
	return &Repo[domain.Equipment]{
		pool:          pool,
		entityTable:   "equipment",
		junctionTable: "workout_plan_equipment",
		refColumn:     "equipment_id",
		entityName:    "equipment",
		make: func(id, name string) domain.Equipment {
			return domain.Equipment{ID: domain.IDFromString(id), Name: name}
		},
	}
}

// ListForPlan returns the relation entities attached to one plan, ordered by
// name for stable output.
func (r *Repo[T]) ListForPlan(ctx context.Context, planID domain.FlexID) ([]T, error) {
	query := fmt.Sprintf(`
SELECT e.id, e.name
FROM %s e
JOIN %s j ON j.%s = e.id
WHERE j.plan_id = $1::text
ORDER BY e.name`, r.entityTable, r.junctionTable, r.refColumn)

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, query, planID.StorageValue())
	if err != nil {
		return nil, fmt.Errorf("list %s for plan: %w", r.entityName, err)
	}
	defer rows.Close()

	result := []T{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.entityName, err)
		}
		result = append(result, r.make(id, name))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s for plan: %w", r.entityName, err)
	}

	return result, nil
}

// ListForPlans fetches the relation entities of many plans with a single
// query, grouped by the plan's canonical string ID. Plans with no attached
// entities are absent from the map.
func (r *Repo[T]) ListForPlans(ctx context.Context, planIDs []domain.FlexID) (map[string][]T, error) {
	if len(planIDs) == 0 {
		return map[string][]T{}, nil
	}

	query := fmt.Sprintf(`
SELECT j.plan_id, e.id, e.name
FROM %s e
JOIN %s j ON j.%s = e.id
WHERE j.plan_id = ANY($1)
ORDER BY j.plan_id, e.name`, r.entityTable, r.junctionTable, r.refColumn)

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, query, postgres.StorageTexts(planIDs))
	if err != nil {
		return nil, fmt.Errorf("batch list %s: %w", r.entityName, err)
	}
	defer rows.Close()

	result := make(map[string][]T, len(planIDs))
	for rows.Next() {
		var planID, id, name string
		if err := rows.Scan(&planID, &id, &name); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.entityName, err)
		}
		result[planID] = append(result[planID], r.make(id, name))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("batch list %s: %w", r.entityName, err)
	}

	return result, nil
}

// Link attaches one relation entity to a plan. Attaching an already-linked
// entity is a no-op. An unknown entity ID surfaces as domain.ErrNotFound
// through the foreign key.
func (r *Repo[T]) Link(ctx context.Context, planID, id domain.FlexID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (plan_id, %s) VALUES ($1::text, $2::text) ON CONFLICT DO NOTHING",
		r.junctionTable, r.refColumn)
	if _, err := querier.Exec(ctx, insertSQL, planID.StorageValue(), id.StorageValue()); err != nil {
		return postgres.MapError(err, r.entityName, id)
	}

	return nil
}

// Unlink detaches one relation entity from a plan. Detaching an entity that
// is not linked is a no-op.
func (r *Repo[T]) Unlink(ctx context.Context, planID, id domain.FlexID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	deleteSQL := fmt.Sprintf(
		"DELETE FROM %s WHERE plan_id = $1::text AND %s = $2::text",
		r.junctionTable, r.refColumn)
	if _, err := querier.Exec(ctx, deleteSQL, planID.StorageValue(), id.StorageValue()); err != nil {
		return postgres.MapError(err, r.entityName, id)
	}

	return nil
}

// ReplaceForPlan swaps the plan's relation set for the given IDs. Meant to
// run inside the plan write transaction. Unknown entity IDs surface as
// domain.ErrNotFound through the foreign key.
func (r *Repo[T]) ReplaceForPlan(ctx context.Context, planID domain.FlexID, ids []domain.FlexID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	deleteSQL := fmt.Sprintf("DELETE FROM %s WHERE plan_id = $1::text", r.junctionTable)
	if _, err := querier.Exec(ctx, deleteSQL, planID.StorageValue()); err != nil {
		return postgres.MapError(err, r.entityName, planID)
	}

	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (plan_id, %s) VALUES ($1::text, $2::text) ON CONFLICT DO NOTHING",
		r.junctionTable, r.refColumn)
	for _, id := range ids {
		if _, err := querier.Exec(ctx, insertSQL, planID.StorageValue(), id.StorageValue()); err != nil {
			return postgres.MapError(err, r.entityName, id)
		}
	}

	return nil
}
