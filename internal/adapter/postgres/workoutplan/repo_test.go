package workoutplan_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitforge/fitplan-backend/internal/adapter/postgres/testhelper"
	"github.com/fitforge/fitplan-backend/internal/adapter/postgres/workoutplan"
	"github.com/fitforge/fitplan-backend/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*workoutplan.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return workoutplan.New(pool), pool
}

// buildPlan creates a minimal custom plan suitable for Create.
func buildPlan(creatorID domain.FlexID) *domain.WorkoutPlan {
	return &domain.WorkoutPlan{
		Name:              "Leg Day " + domain.NewID().String()[:8],
		Description:       "Quad focused session",
		Difficulty:        domain.DifficultyIntermediate,
		Category:          domain.CategoryLowerBody,
		EstimatedDuration: 45,
		IsCustom:          true,
		CreatorID:         &creatorID,
	}
}

func assertIsDomainError(t *testing.T, err, want error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %v, got nil", want)
	}
	if !errors.Is(err, want) {
		t.Fatalf("expected error %v, got %v", want, err)
	}
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func TestRepo_Create_HappyPath(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	creator := domain.NewID()
	plan := buildPlan(creator)

	got, err := repo.Create(ctx, plan)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if got.ID.IsZero() {
		t.Error("expected generated ID")
	}
	if got.Name != plan.Name {
		t.Errorf("Name mismatch: got %q, want %q", got.Name, plan.Name)
	}
	if got.Difficulty != domain.DifficultyIntermediate {
		t.Errorf("Difficulty mismatch: got %s", got.Difficulty)
	}
	if !got.IsCustom {
		t.Error("expected custom plan")
	}
	if got.CreatorID == nil || !got.CreatorID.Equal(creator) {
		t.Errorf("CreatorID mismatch: got %v, want %s", got.CreatorID, creator)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestRepo_Create_SystemPlanWithoutCreator(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	plan := buildPlan(domain.NewID())
	plan.IsCustom = false
	plan.CreatorID = nil

	got, err := repo.Create(ctx, plan)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}
	if got.CreatorID != nil {
		t.Errorf("expected nil CreatorID, got %v", got.CreatorID)
	}
}

func TestRepo_GetByID_NumericAndCanonicalForms(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	numericID := testhelper.NextNumericID()
	plan := buildPlan(domain.NewID())
	plan.ID = numericID

	if _, err := repo.Create(ctx, plan); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A zero-padded spelling of the same number resolves the same row.
	padded := domain.IDFromString("00" + numericID.String())
	got, err := repo.GetByID(ctx, padded)
	if err != nil {
		t.Fatalf("GetByID with padded form: %v", err)
	}
	if got.ID.String() != numericID.String() {
		t.Errorf("expected id %s, got %s", numericID, got.ID)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.GetByID(context.Background(), domain.NewID())
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_Update_PartialFields(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, buildPlan(domain.NewID()))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := repo.Update(ctx, created.ID, domain.PlanUpdateParams{
		Name:              strPtr("Renamed"),
		EstimatedDuration: intPtr(60),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Name != "Renamed" {
		t.Errorf("Name not updated: got %q", updated.Name)
	}
	if updated.EstimatedDuration != 60 {
		t.Errorf("EstimatedDuration not updated: got %d", updated.EstimatedDuration)
	}
	if updated.Description != created.Description {
		t.Errorf("Description should be untouched: got %q", updated.Description)
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Error("expected UpdatedAt not to regress")
	}
}

func TestRepo_Update_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.Update(context.Background(), domain.NewID(), domain.PlanUpdateParams{
		Name: strPtr("ghost"),
	})
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_Delete_CascadesChildren(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, buildPlan(domain.NewID()))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ex := testhelper.SeedExercise(t, pool)
	testhelper.SeedPlanExercise(t, pool, created.ID, ex.ID, 0)

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var count int
	err = pool.QueryRow(ctx,
		`SELECT count(*) FROM workout_exercises WHERE plan_id = $1`,
		created.ID.String(),
	).Scan(&count)
	if err != nil {
		t.Fatalf("count children: %v", err)
	}
	if count != 0 {
		t.Errorf("expected children to cascade, %d remain", count)
	}

	_, err = repo.GetByID(ctx, created.ID)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_Delete_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	err := repo.Delete(context.Background(), domain.NewID())
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_FindWithFilters_CreatorScope(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	creator := domain.NewID()
	mine, err := repo.Create(ctx, buildPlan(creator))
	if err != nil {
		t.Fatalf("Create mine: %v", err)
	}
	if _, err := repo.Create(ctx, buildPlan(domain.NewID())); err != nil {
		t.Fatalf("Create other: %v", err)
	}

	plans, total, err := repo.FindWithFilters(ctx, domain.PlanFilter{CreatorID: &creator})
	if err != nil {
		t.Fatalf("FindWithFilters: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected total 1, got %d", total)
	}
	if len(plans) != 1 || !plans[0].ID.Equal(mine.ID) {
		t.Errorf("expected only the creator's plan, got %d plans", len(plans))
	}
}

func TestRepo_FindWithFilters_TagMembership(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	tagged, err := repo.Create(ctx, buildPlan(domain.NewID()))
	if err != nil {
		t.Fatalf("Create tagged: %v", err)
	}
	if _, err := repo.Create(ctx, buildPlan(domain.NewID())); err != nil {
		t.Fatalf("Create untagged: %v", err)
	}

	tag := testhelper.SeedTag(t, pool)
	testhelper.LinkTag(t, pool, tagged.ID, tag.ID)

	plans, total, err := repo.FindWithFilters(ctx, domain.PlanFilter{
		TagIDs: []domain.FlexID{tag.ID},
	})
	if err != nil {
		t.Fatalf("FindWithFilters: %v", err)
	}
	if total != 1 || len(plans) != 1 {
		t.Fatalf("expected exactly the tagged plan, got total=%d len=%d", total, len(plans))
	}
	if !plans[0].ID.Equal(tagged.ID) {
		t.Errorf("expected plan %s, got %s", tagged.ID, plans[0].ID)
	}
}

func TestRepo_FindWithFilters_SearchEscapesWildcards(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	plan := buildPlan(domain.NewID())
	plan.Name = "100% effort " + domain.NewID().String()[:8]
	created, err := repo.Create(ctx, plan)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	search := "100% effort"
	plans, _, err := repo.FindWithFilters(ctx, domain.PlanFilter{Search: &search})
	if err != nil {
		t.Fatalf("FindWithFilters: %v", err)
	}

	found := false
	for _, p := range plans {
		if p.ID.Equal(created.ID) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected literal %%-search to match the plan")
	}

	// A bare % must not act as a match-everything wildcard.
	noise := "zz%qq"
	plans, _, err = repo.FindWithFilters(ctx, domain.PlanFilter{Search: &noise})
	if err != nil {
		t.Fatalf("FindWithFilters noise: %v", err)
	}
	for _, p := range plans {
		if p.ID.Equal(created.ID) {
			t.Error("escaped search must not match unrelated names")
		}
	}
}

func TestRepo_FindWithFilters_PaginationDeterministic(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	creator := domain.NewID()
	for i := 0; i < 5; i++ {
		if _, err := repo.Create(ctx, buildPlan(creator)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	seen := map[string]bool{}
	for offset := 0; offset < 5; offset += 2 {
		plans, total, err := repo.FindWithFilters(ctx, domain.PlanFilter{
			CreatorID: &creator,
			SortBy:    "name",
			Limit:     2,
			Offset:    offset,
		})
		if err != nil {
			t.Fatalf("FindWithFilters offset=%d: %v", offset, err)
		}
		if total != 5 {
			t.Fatalf("expected total 5, got %d", total)
		}
		for _, p := range plans {
			if seen[p.ID.String()] {
				t.Errorf("plan %s appeared on two pages", p.ID)
			}
			seen[p.ID.String()] = true
		}
	}
	if len(seen) != 5 {
		t.Errorf("expected 5 distinct plans across pages, got %d", len(seen))
	}
}
