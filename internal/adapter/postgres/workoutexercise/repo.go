// Package workoutexercise implements persistence for the ordered child rows
// of a workout plan. Children are only ever addressed through their parent
// plan; batch writes happen inside the caller's transaction scope.
package workoutexercise

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/fitforge/fitplan-backend/internal/adapter/postgres"
	"github.com/fitforge/fitplan-backend/internal/domain"
)

const exerciseColumns = "id, plan_id, exercise_id, position, sets, repetitions, duration, rest_time, superset_with_id, created_at, updated_at"

// Repo provides workout exercise persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new workout exercise repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const listByPlanSQL = `
SELECT ` + exerciseColumns + `
FROM workout_exercises
WHERE plan_id = $1::text
ORDER BY position, created_at`

// ListByPlanID returns the plan's children ordered by position. Returns an
// empty slice (not nil) when the plan has no exercises.
func (r *Repo) ListByPlanID(ctx context.Context, planID domain.FlexID) ([]domain.WorkoutExercise, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByPlanSQL, planID.StorageValue())
	if err != nil {
		return nil, fmt.Errorf("list workout exercises: %w", err)
	}
	defer rows.Close()

	result := []domain.WorkoutExercise{}
	for rows.Next() {
		we, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workout exercise: %w", err)
		}
		result = append(result, we)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list workout exercises: %w", err)
	}

	return result, nil
}

// Create inserts one child row and returns the persisted row. A zero ID is
// replaced with a fresh UUID-backed identifier.
func (r *Repo) Create(ctx context.Context, we domain.WorkoutExercise) (*domain.WorkoutExercise, error) {
	id := we.ID
	if id.IsZero() {
		id = domain.NewID()
	}

	var superset any
	if we.SupersetWithID != nil && !we.SupersetWithID.IsZero() {
		superset = postgres.StorageText(*we.SupersetWithID)
	}

	sql, args, err := postgres.Builder().
		Insert("workout_exercises").
		Columns("id", "plan_id", "exercise_id", "position", "sets",
			"repetitions", "duration", "rest_time", "superset_with_id").
		Values(postgres.StorageText(id), postgres.StorageText(we.PlanID),
			postgres.StorageText(we.ExerciseID), we.Order, we.Sets,
			we.Repetitions, we.Duration, we.RestTime, superset).
		Suffix("RETURNING " + exerciseColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	created, err := scanExercise(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "workout_exercise", id)
	}

	return &created, nil
}

// CreateBatch inserts all given children. Meant to run inside the plan
// creation transaction: the first failing insert aborts the whole batch.
func (r *Repo) CreateBatch(ctx context.Context, planID domain.FlexID, list []domain.WorkoutExercise) error {
	for i := range list {
		list[i].PlanID = planID
		if _, err := r.Create(ctx, list[i]); err != nil {
			return fmt.Errorf("batch insert exercise %d: %w", i, err)
		}
	}
	return nil
}

// Update applies a partial update to one child row.
// Returns domain.ErrNotFound when no row matches.
func (r *Repo) Update(ctx context.Context, id domain.FlexID, params domain.ExerciseUpdateParams) error {
	qb := postgres.Builder().
		Update("workout_exercises").
		Set("updated_at", time.Now().UTC())

	if params.ExerciseID != nil {
		qb = qb.Set("exercise_id", postgres.StorageText(*params.ExerciseID))
	}
	if params.Order != nil {
		qb = qb.Set("position", *params.Order)
	}
	if params.Sets != nil {
		qb = qb.Set("sets", *params.Sets)
	}
	if params.Repetitions != nil {
		qb = qb.Set("repetitions", *params.Repetitions)
	}
	if params.Duration != nil {
		qb = qb.Set("duration", *params.Duration)
	}
	if params.RestTime != nil {
		qb = qb.Set("rest_time", *params.RestTime)
	}
	if params.SupersetWithID != nil {
		if params.SupersetWithID.IsZero() {
			qb = qb.Set("superset_with_id", nil)
		} else {
			qb = qb.Set("superset_with_id", postgres.StorageText(*params.SupersetWithID))
		}
	}

	sql, args, err := qb.Where(postgres.IDPredicate("id", id)).ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "workout_exercise", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workout_exercise %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete removes one child row. Returns domain.ErrNotFound when no row
// matches.
func (r *Repo) Delete(ctx context.Context, id domain.FlexID) error {
	sql, args, err := postgres.Builder().
		Delete("workout_exercises").
		Where(postgres.IDPredicate("id", id)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "workout_exercise", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workout_exercise %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

const updateOrderSQL = `
UPDATE workout_exercises
SET position = $1, updated_at = now()
WHERE id = $2::text AND plan_id = $3::text`

// UpdateOrders applies the given position assignments. Meant to run inside
// one transaction; the plan_id guard keeps a stray ID from touching another
// plan's rows.
func (r *Repo) UpdateOrders(ctx context.Context, planID domain.FlexID, items []domain.ReorderItem) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	for _, item := range items {
		_, err := querier.Exec(ctx, updateOrderSQL,
			item.Order, item.ID.StorageValue(), planID.StorageValue())
		if err != nil {
			return postgres.MapError(err, "workout_exercise", item.ID)
		}
	}

	return nil
}

const maxOrderSQL = `
SELECT COALESCE(MAX(position), -1)
FROM workout_exercises
WHERE plan_id = $1::text`

// MaxOrder returns the highest position among the plan's children, or -1
// when the plan has none.
func (r *Repo) MaxOrder(ctx context.Context, planID domain.FlexID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var max int
	if err := querier.QueryRow(ctx, maxOrderSQL, planID.StorageValue()).Scan(&max); err != nil {
		return 0, fmt.Errorf("max order: %w", err)
	}

	return max, nil
}

// scanExercise scans one child row from either pgx.Row or pgx.Rows.
func scanExercise(row pgx.Row) (domain.WorkoutExercise, error) {
	var (
		id         string
		planID     string
		exerciseID string
		position   int
		sets       int
		reps       int
		duration   int
		restTime   int
		superset   pgtype.Text
		createdAt  time.Time
		updatedAt  time.Time
	)

	if err := row.Scan(&id, &planID, &exerciseID, &position, &sets, &reps,
		&duration, &restTime, &superset, &createdAt, &updatedAt); err != nil {
		return domain.WorkoutExercise{}, err
	}

	we := domain.WorkoutExercise{
		ID:          domain.IDFromString(id),
		PlanID:      domain.IDFromString(planID),
		ExerciseID:  domain.IDFromString(exerciseID),
		Order:       position,
		Sets:        sets,
		Repetitions: reps,
		Duration:    duration,
		RestTime:    restTime,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}

	if superset.Valid {
		ref := domain.IDFromString(superset.String)
		we.SupersetWithID = &ref
	}

	return we, nil
}
