package testhelper

import (
	"context"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitforge/fitplan-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// numericIDCounter hands out sequential numeric identifiers. Starting high
// keeps them clear of any hand-written fixture IDs.
var numericIDCounter atomic.Int64

func init() {
	numericIDCounter.Store(100_000)
}

// NextNumericID returns a fresh numeric-form identifier. Use it alongside
// the default UUID-form IDs to cover both key shapes the schema carries.
func NextNumericID() domain.FlexID {
	return domain.IDFromString(strconv.FormatInt(numericIDCounter.Add(1), 10))
}

// SeedExercise creates a catalog exercise row and returns the domain value.
func SeedExercise(t *testing.T, pool *pgxpool.Pool) domain.Exercise {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	ex := domain.Exercise{
		ID:          domain.NewID(),
		Name:        "Exercise " + suffix,
		Description: "Test catalog exercise " + suffix,
		CreatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO exercises (id, name, description, created_at)
		 VALUES ($1, $2, $3, $4)`,
		ex.ID.String(), ex.Name, ex.Description, ex.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedExercise insert: %v", err)
	}

	return ex
}

// SeedSystemPlan creates a curated (non-custom) workout plan.
func SeedSystemPlan(t *testing.T, pool *pgxpool.Pool) domain.WorkoutPlan {
	t.Helper()
	return seedPlan(t, pool, false, nil)
}

// SeedCustomPlan creates a user-authored plan owned by creatorID.
func SeedCustomPlan(t *testing.T, pool *pgxpool.Pool, creatorID domain.FlexID) domain.WorkoutPlan {
	t.Helper()
	return seedPlan(t, pool, true, &creatorID)
}

func seedPlan(t *testing.T, pool *pgxpool.Pool, isCustom bool, creatorID *domain.FlexID) domain.WorkoutPlan {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	plan := domain.WorkoutPlan{
		ID:                domain.NewID(),
		Name:              "Plan " + suffix,
		Description:       "Test workout plan " + suffix,
		Difficulty:        domain.DifficultyBeginner,
		Category:          domain.CategoryFullBody,
		EstimatedDuration: 30,
		IsCustom:          isCustom,
		CreatorID:         creatorID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	var creator any
	if creatorID != nil {
		creator = creatorID.String()
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO workout_plans (id, name, description, difficulty, category, estimated_duration, is_custom, creator_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		plan.ID.String(), plan.Name, plan.Description, plan.Difficulty.String(), plan.Category.String(),
		plan.EstimatedDuration, plan.IsCustom, creator, plan.CreatedAt, plan.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: seedPlan insert: %v", err)
	}

	return plan
}

// SeedPlanExercise attaches a catalog exercise to a plan at the given position.
func SeedPlanExercise(t *testing.T, pool *pgxpool.Pool, planID, exerciseID domain.FlexID, position int) domain.WorkoutExercise {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	we := domain.WorkoutExercise{
		ID:          domain.NewID(),
		PlanID:      planID,
		ExerciseID:  exerciseID,
		Order:       position,
		Sets:        3,
		Repetitions: 10,
		RestTime:    30,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO workout_exercises (id, plan_id, exercise_id, position, sets, repetitions, duration, rest_time, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		we.ID.String(), we.PlanID.String(), we.ExerciseID.String(), we.Order,
		we.Sets, we.Repetitions, we.Duration, we.RestTime, we.CreatedAt, we.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPlanExercise insert: %v", err)
	}

	return we
}

// SeedTag creates a tag row.
func SeedTag(t *testing.T, pool *pgxpool.Pool) domain.Tag {
	t.Helper()
	id, name := seedNamed(t, pool, "tags", "tag")
	return domain.Tag{ID: id, Name: name}
}

// SeedMuscleGroup creates a muscle group row.
func SeedMuscleGroup(t *testing.T, pool *pgxpool.Pool) domain.MuscleGroup {
	t.Helper()
	id, name := seedNamed(t, pool, "muscle_groups", "muscle-group")
	return domain.MuscleGroup{ID: id, Name: name}
}

// SeedEquipment creates an equipment row.
func SeedEquipment(t *testing.T, pool *pgxpool.Pool) domain.Equipment {
	t.Helper()
	id, name := seedNamed(t, pool, "equipment", "equipment")
	return domain.Equipment{ID: id, Name: name}
}

func seedNamed(t *testing.T, pool *pgxpool.Pool, table, prefix string) (domain.FlexID, string) {
	t.Helper()
	ctx := context.Background()

	id := domain.NewID()
	name := prefix + "-" + uniqueSuffix()

	_, err := pool.Exec(ctx,
		`INSERT INTO `+table+` (id, name) VALUES ($1, $2)`,
		id.String(), name,
	)
	if err != nil {
		t.Fatalf("testhelper: seed %s insert: %v", table, err)
	}

	return id, name
}

// LinkTag attaches a tag to a plan.
func LinkTag(t *testing.T, pool *pgxpool.Pool, planID, tagID domain.FlexID) {
	t.Helper()
	linkRelation(t, pool, "workout_plan_tags", "tag_id", planID, tagID)
}

// LinkMuscleGroup attaches a muscle group to a plan.
func LinkMuscleGroup(t *testing.T, pool *pgxpool.Pool, planID, mgID domain.FlexID) {
	t.Helper()
	linkRelation(t, pool, "workout_plan_muscle_groups", "muscle_group_id", planID, mgID)
}

// LinkEquipment attaches a piece of equipment to a plan.
func LinkEquipment(t *testing.T, pool *pgxpool.Pool, planID, eqID domain.FlexID) {
	t.Helper()
	linkRelation(t, pool, "workout_plan_equipment", "equipment_id", planID, eqID)
}

func linkRelation(t *testing.T, pool *pgxpool.Pool, table, column string, planID, refID domain.FlexID) {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx,
		`INSERT INTO `+table+` (plan_id, `+column+`) VALUES ($1, $2)`,
		planID.String(), refID.String(),
	)
	if err != nil {
		t.Fatalf("testhelper: link %s insert: %v", table, err)
	}
}
