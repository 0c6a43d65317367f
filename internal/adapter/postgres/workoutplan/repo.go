// Package workoutplan implements the WorkoutPlan aggregate-root repository
// using PostgreSQL. Queries are composed dynamically with squirrel; relation
// sets and child exercises live in their own repositories.
package workoutplan

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

var planColumns = []string{
	"id", "name", "description", "difficulty", "category",
	"estimated_duration", "popularity", "rating", "is_custom", "creator_id",
	"created_at", "updated_at",
}

// Repo provides workout plan persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new workout plan repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns the base plan row. Returns domain.ErrNotFound when no row
// matches. Child exercises and relation sets are not loaded here.
func (r *Repo) GetByID(ctx context.Context, id domain.FlexID) (*domain.WorkoutPlan, error) {
	sql, args, err := postgres.Builder().
		Select(planColumns...).
		From("workout_plans").
		Where(postgres.IDPredicate("id", id)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	plan, err := scanPlan(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "workout_plan", id)
	}

	return plan, nil
}

// FindWithFilters returns one page of plans plus the total count for the
// filter. The page is empty (not nil) when nothing matches.
func (r *Repo) FindWithFilters(ctx context.Context, f domain.PlanFilter) ([]*domain.WorkoutPlan, int, error) {
	sortCol, sortOrder := normalize(&f)
	preds := predicates(f)

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	countQB := postgres.Builder().Select("count(*)").From("workout_plans")
	for _, p := range preds {
		countQB = countQB.Where(p)
	}
	countSQL, countArgs, err := countQB.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count plans: %w", err)
	}

	// Secondary sort on id keeps pagination deterministic when the primary
	// sort column has duplicates.
	pageQB := postgres.Builder().
		Select(planColumns...).
		From("workout_plans").
		OrderBy(sortCol+" "+sortOrder, "id ASC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))
	for _, p := range preds {
		pageQB = pageQB.Where(p)
	}
	pageSQL, pageArgs, err := pageQB.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build page query: %w", err)
	}

	rows, err := querier.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	plans := []*domain.WorkoutPlan{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate plans: %w", err)
	}

	return plans, total, nil
}

// Create inserts the plan row and returns the persisted plan. A zero ID is
// replaced with a fresh UUID-backed identifier.
func (r *Repo) Create(ctx context.Context, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error) {
	id := plan.ID
	if id.IsZero() {
		id = domain.NewID()
	}

	var creator any
	if plan.CreatorID != nil {
		creator = postgres.StorageText(*plan.CreatorID)
	}

	sql, args, err := postgres.Builder().
		Insert("workout_plans").
		Columns("id", "name", "description", "difficulty", "category",
			"estimated_duration", "is_custom", "creator_id").
		Values(postgres.StorageText(id), plan.Name, plan.Description,
			plan.Difficulty.String(), plan.Category.String(),
			plan.EstimatedDuration, plan.IsCustom, creator).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	created, err := scanPlan(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "workout_plan", id)
	}

	return created, nil
}

// Update applies a partial update and returns the refreshed row.
// Returns domain.ErrNotFound when no row matches.
func (r *Repo) Update(ctx context.Context, id domain.FlexID, params domain.PlanUpdateParams) (*domain.WorkoutPlan, error) {
	qb := postgres.Builder().
		Update("workout_plans").
		Set("updated_at", time.Now().UTC())

	if params.Name != nil {
		qb = qb.Set("name", *params.Name)
	}
	if params.Description != nil {
		qb = qb.Set("description", *params.Description)
	}
	if params.Difficulty != nil {
		qb = qb.Set("difficulty", params.Difficulty.String())
	}
	if params.Category != nil {
		qb = qb.Set("category", params.Category.String())
	}
	if params.EstimatedDuration != nil {
		qb = qb.Set("estimated_duration", *params.EstimatedDuration)
	}

	sql, args, err := qb.
		Where(postgres.IDPredicate("id", id)).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	updated, err := scanPlan(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "workout_plan", id)
	}

	return updated, nil
}

// Delete removes the plan row. Child exercises and junction rows cascade at
// the storage layer. Returns domain.ErrNotFound when no row matches.
func (r *Repo) Delete(ctx context.Context, id domain.FlexID) error {
	sql, args, err := postgres.Builder().
		Delete("workout_plans").
		Where(postgres.IDPredicate("id", id)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "workout_plan", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workout_plan %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func columnList() string {
	out := planColumns[0]
	for _, c := range planColumns[1:] {
		out += ", " + c
	}
	return out
}

// scanPlan scans one plan row from either pgx.Row or pgx.Rows.
func scanPlan(row pgx.Row) (*domain.WorkoutPlan, error) {
	var (
		id          string
		name        string
		description string
		difficulty  string
		category    string
		duration    int
		popularity  int
		rating      float64
		isCustom    bool
		creator     pgtype.Text
		createdAt   time.Time
		updatedAt   time.Time
	)

	if err := row.Scan(&id, &name, &description, &difficulty, &category,
		&duration, &popularity, &rating, &isCustom, &creator,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}

	plan := &domain.WorkoutPlan{
		ID:                domain.IDFromString(id),
		Name:              name,
		Description:       description,
		Difficulty:        domain.Difficulty(difficulty),
		Category:          domain.WorkoutCategory(category),
		EstimatedDuration: duration,
		Popularity:        popularity,
		Rating:            rating,
		IsCustom:          isCustom,
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
	}

	if creator.Valid {
		creatorID := domain.IDFromString(creator.String)
		plan.CreatorID = &creatorID
	}

	return plan, nil
}
