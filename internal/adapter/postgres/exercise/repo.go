// Package exercise implements the read side of the exercise catalog. The
// aggregate service only ever resolves references into the catalog; writes
// happen through seeding and migrations.
package exercise

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/fitforge/fitplan-backend/internal/adapter/postgres"
	"github.com/fitforge/fitplan-backend/internal/domain"
)

// Repo provides read access to the exercise catalog.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new exercise catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getByIDSQL = `
SELECT id, name, description, created_at
FROM exercises
WHERE id = $1::text`

// GetByID returns one catalog entry. Returns domain.ErrNotFound when no row
// matches.
func (r *Repo) GetByID(ctx context.Context, id domain.FlexID) (*domain.Exercise, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		e     domain.Exercise
		rawID string
	)
	err := querier.QueryRow(ctx, getByIDSQL, id.StorageValue()).
		Scan(&rawID, &e.Name, &e.Description, &e.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "exercise", id)
	}
	e.ID = domain.IDFromString(rawID)

	return &e, nil
}

const existsSQL = `SELECT EXISTS (SELECT 1 FROM exercises WHERE id = $1::text)`

// ExistsByID reports whether the catalog contains the given exercise.
func (r *Repo) ExistsByID(ctx context.Context, id domain.FlexID) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := querier.QueryRow(ctx, existsSQL, id.StorageValue()).Scan(&exists); err != nil {
		return false, fmt.Errorf("check exercise exists: %w", err)
	}

	return exists, nil
}
