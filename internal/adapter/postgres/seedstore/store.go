// Package seedstore provides the bulk write operations used by the offline
// seeder. Regular request paths never touch this package; it favors
// idempotent name-keyed upserts over the per-row contracts of the serving
// repositories.
package seedstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/fitforge/fitplan-backend/internal/adapter/postgres"
	"github.com/fitforge/fitplan-backend/internal/domain"
)

// Store provides bulk seed persistence backed by PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new seed store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// UpsertExercises inserts catalog exercises that are not yet present,
// matching case-insensitively on name. Returns inserted and skipped counts.
func (s *Store) UpsertExercises(ctx context.Context, exercises []domain.Exercise) (int, int, error) {
	querier := postgres.QuerierFromCtx(ctx, s.pool)

	inserted, skipped := 0, 0
	for _, ex := range exercises {
		var existingID string
		err := querier.QueryRow(ctx,
			`SELECT id FROM exercises WHERE lower(name) = lower($1)`,
			ex.Name,
		).Scan(&existingID)
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return inserted, skipped, fmt.Errorf("check exercise %q: %w", ex.Name, err)
		}

		id := ex.ID
		if id.IsZero() {
			id = domain.NewID()
		}
		_, err = querier.Exec(ctx,
			`INSERT INTO exercises (id, name, description) VALUES ($1, $2, $3)`,
			postgres.StorageText(id), ex.Name, ex.Description,
		)
		if err != nil {
			return inserted, skipped, fmt.Errorf("insert exercise %q: %w", ex.Name, err)
		}
		inserted++
	}

	return inserted, skipped, nil
}

// UpsertTags inserts tags by unique name.
func (s *Store) UpsertTags(ctx context.Context, names []string) (int, int, error) {
	return s.upsertNamed(ctx, "tags", names)
}

// UpsertMuscleGroups inserts muscle groups by unique name.
func (s *Store) UpsertMuscleGroups(ctx context.Context, names []string) (int, int, error) {
	return s.upsertNamed(ctx, "muscle_groups", names)
}

// UpsertEquipment inserts equipment by unique name.
func (s *Store) UpsertEquipment(ctx context.Context, names []string) (int, int, error) {
	return s.upsertNamed(ctx, "equipment", names)
}

func (s *Store) upsertNamed(ctx context.Context, table string, names []string) (int, int, error) {
	querier := postgres.QuerierFromCtx(ctx, s.pool)

	inserted, skipped := 0, 0
	for _, name := range names {
		tag, err := querier.Exec(ctx,
			`INSERT INTO `+table+` (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			postgres.StorageText(domain.NewID()), name,
		)
		if err != nil {
			return inserted, skipped, fmt.Errorf("insert into %s %q: %w", table, name, err)
		}
		if tag.RowsAffected() == 0 {
			skipped++
		} else {
			inserted++
		}
	}

	return inserted, skipped, nil
}

// SystemPlanExists reports whether a curated plan with the given name is
// already present. Custom plans never block seeding.
func (s *Store) SystemPlanExists(ctx context.Context, name string) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, s.pool)

	var exists bool
	err := querier.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM workout_plans WHERE lower(name) = lower($1) AND NOT is_custom)`,
		name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check system plan %q: %w", name, err)
	}
	return exists, nil
}

// ExerciseIDByName resolves a catalog exercise ID by case-insensitive name.
func (s *Store) ExerciseIDByName(ctx context.Context, name string) (domain.FlexID, error) {
	querier := postgres.QuerierFromCtx(ctx, s.pool)

	var raw string
	err := querier.QueryRow(ctx,
		`SELECT id FROM exercises WHERE lower(name) = lower($1)`,
		name,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.FlexID{}, fmt.Errorf("exercise %q: %w", name, domain.ErrNotFound)
		}
		return domain.FlexID{}, fmt.Errorf("resolve exercise %q: %w", name, err)
	}
	return domain.IDFromString(raw), nil
}

// InsertSystemPlan writes one curated plan, its child exercises, and its
// relation links. Attribute names that do not resolve link nothing; the
// vocabulary phase runs first, so a miss indicates a dataset typo.
func (s *Store) InsertSystemPlan(ctx context.Context, plan domain.WorkoutPlan, children []domain.WorkoutExercise, tags, muscleGroups, equipment []string) error {
	querier := postgres.QuerierFromCtx(ctx, s.pool)

	id := plan.ID
	if id.IsZero() {
		id = domain.NewID()
	}

	_, err := querier.Exec(ctx,
		`INSERT INTO workout_plans (id, name, description, difficulty, category, estimated_duration, is_custom)
		 VALUES ($1, $2, $3, $4, $5, $6, FALSE)`,
		postgres.StorageText(id), plan.Name, plan.Description,
		plan.Difficulty.String(), plan.Category.String(), plan.EstimatedDuration,
	)
	if err != nil {
		return fmt.Errorf("insert plan %q: %w", plan.Name, err)
	}

	for i, child := range children {
		_, err := querier.Exec(ctx,
			`INSERT INTO workout_exercises (id, plan_id, exercise_id, position, sets, repetitions, duration, rest_time)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			postgres.StorageText(domain.NewID()), postgres.StorageText(id),
			postgres.StorageText(child.ExerciseID), i,
			child.Sets, child.Repetitions, child.Duration, child.RestTime,
		)
		if err != nil {
			return fmt.Errorf("insert plan %q exercise %d: %w", plan.Name, i, err)
		}
	}

	for _, link := range []struct {
		junction string
		refTable string
		column   string
		names    []string
	}{
		{"workout_plan_tags", "tags", "tag_id", tags},
		{"workout_plan_muscle_groups", "muscle_groups", "muscle_group_id", muscleGroups},
		{"workout_plan_equipment", "equipment", "equipment_id", equipment},
	} {
		for _, name := range link.names {
			_, err := querier.Exec(ctx,
				`INSERT INTO `+link.junction+` (plan_id, `+link.column+`)
				 SELECT $1, id FROM `+link.refTable+` WHERE lower(name) = lower($2)
				 ON CONFLICT DO NOTHING`,
				postgres.StorageText(id), name,
			)
			if err != nil {
				return fmt.Errorf("link plan %q to %s %q: %w", plan.Name, link.refTable, name, err)
			}
		}
	}

	return nil
}
