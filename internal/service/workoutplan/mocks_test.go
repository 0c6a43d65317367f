package workoutplan

import (
	"context"
	"log/slog"
	"time"

	"github.com/fitforge/fitplan-backend/internal/cache"
	"github.com/fitforge/fitplan-backend/internal/domain"
	"github.com/fitforge/fitplan-backend/pkg/ctxutil"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockPlanRepo struct {
	GetByIDFunc         func(ctx context.Context, id domain.FlexID) (*domain.WorkoutPlan, error)
	FindWithFiltersFunc func(ctx context.Context, f domain.PlanFilter) ([]*domain.WorkoutPlan, int, error)
	CreateFunc          func(ctx context.Context, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error)
	UpdateFunc          func(ctx context.Context, id domain.FlexID, params domain.PlanUpdateParams) (*domain.WorkoutPlan, error)
	DeleteFunc          func(ctx context.Context, id domain.FlexID) error

	GetByIDCalls int
	FindCalls    int
}

func (m *mockPlanRepo) GetByID(ctx context.Context, id domain.FlexID) (*domain.WorkoutPlan, error) {
	m.GetByIDCalls++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPlanRepo) FindWithFilters(ctx context.Context, f domain.PlanFilter) ([]*domain.WorkoutPlan, int, error) {
	m.FindCalls++
	if m.FindWithFiltersFunc != nil {
		return m.FindWithFiltersFunc(ctx, f)
	}
	return []*domain.WorkoutPlan{}, 0, nil
}

func (m *mockPlanRepo) Create(ctx context.Context, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, plan)
	}
	created := *plan
	if created.ID.IsZero() {
		created.ID = domain.NewID()
	}
	return &created, nil
}

func (m *mockPlanRepo) Update(ctx context.Context, id domain.FlexID, params domain.PlanUpdateParams) (*domain.WorkoutPlan, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return &domain.WorkoutPlan{ID: id}, nil
}

func (m *mockPlanRepo) Delete(ctx context.Context, id domain.FlexID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type mockChildRepo struct {
	ListByPlanIDFunc func(ctx context.Context, planID domain.FlexID) ([]domain.WorkoutExercise, error)
	CreateFunc       func(ctx context.Context, we domain.WorkoutExercise) (*domain.WorkoutExercise, error)
	CreateBatchFunc  func(ctx context.Context, planID domain.FlexID, list []domain.WorkoutExercise) error
	UpdateFunc       func(ctx context.Context, id domain.FlexID, params domain.ExerciseUpdateParams) error
	DeleteFunc       func(ctx context.Context, id domain.FlexID) error
	UpdateOrdersFunc func(ctx context.Context, planID domain.FlexID, items []domain.ReorderItem) error
	MaxOrderFunc     func(ctx context.Context, planID domain.FlexID) (int, error)
}

func (m *mockChildRepo) ListByPlanID(ctx context.Context, planID domain.FlexID) ([]domain.WorkoutExercise, error) {
	if m.ListByPlanIDFunc != nil {
		return m.ListByPlanIDFunc(ctx, planID)
	}
	return []domain.WorkoutExercise{}, nil
}

func (m *mockChildRepo) Create(ctx context.Context, we domain.WorkoutExercise) (*domain.WorkoutExercise, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, we)
	}
	created := we
	if created.ID.IsZero() {
		created.ID = domain.NewID()
	}
	return &created, nil
}

func (m *mockChildRepo) CreateBatch(ctx context.Context, planID domain.FlexID, list []domain.WorkoutExercise) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, planID, list)
	}
	return nil
}

func (m *mockChildRepo) Update(ctx context.Context, id domain.FlexID, params domain.ExerciseUpdateParams) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil
}

func (m *mockChildRepo) Delete(ctx context.Context, id domain.FlexID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockChildRepo) UpdateOrders(ctx context.Context, planID domain.FlexID, items []domain.ReorderItem) error {
	if m.UpdateOrdersFunc != nil {
		return m.UpdateOrdersFunc(ctx, planID, items)
	}
	return nil
}

func (m *mockChildRepo) MaxOrder(ctx context.Context, planID domain.FlexID) (int, error) {
	if m.MaxOrderFunc != nil {
		return m.MaxOrderFunc(ctx, planID)
	}
	return -1, nil
}

type mockCatalogRepo struct {
	ExistsByIDFunc func(ctx context.Context, id domain.FlexID) (bool, error)
}

func (m *mockCatalogRepo) ExistsByID(ctx context.Context, id domain.FlexID) (bool, error) {
	if m.ExistsByIDFunc != nil {
		return m.ExistsByIDFunc(ctx, id)
	}
	return true, nil
}

type mockRelationLoader struct {
	ForPlanFunc  func(ctx context.Context, planID domain.FlexID) (domain.PlanRelations, error)
	ForPlansFunc func(ctx context.Context, planIDs []domain.FlexID) (map[string]domain.PlanRelations, error)

	ForPlansCalls int
}

func (m *mockRelationLoader) ForPlan(ctx context.Context, planID domain.FlexID) (domain.PlanRelations, error) {
	if m.ForPlanFunc != nil {
		return m.ForPlanFunc(ctx, planID)
	}
	return domain.PlanRelations{
		Tags:         []domain.Tag{},
		MuscleGroups: []domain.MuscleGroup{},
		Equipment:    []domain.Equipment{},
	}, nil
}

func (m *mockRelationLoader) ForPlans(ctx context.Context, planIDs []domain.FlexID) (map[string]domain.PlanRelations, error) {
	m.ForPlansCalls++
	if m.ForPlansFunc != nil {
		return m.ForPlansFunc(ctx, planIDs)
	}
	out := make(map[string]domain.PlanRelations, len(planIDs))
	for _, id := range planIDs {
		out[id.String()] = domain.PlanRelations{
			Tags:         []domain.Tag{},
			MuscleGroups: []domain.MuscleGroup{},
			Equipment:    []domain.Equipment{},
		}
	}
	return out, nil
}

type mockRelationWriter struct {
	ReplaceForPlanFunc func(ctx context.Context, planID domain.FlexID, ids []domain.FlexID) error

	ReplaceCalls int
}

func (m *mockRelationWriter) ReplaceForPlan(ctx context.Context, planID domain.FlexID, ids []domain.FlexID) error {
	m.ReplaceCalls++
	if m.ReplaceForPlanFunc != nil {
		return m.ReplaceForPlanFunc(ctx, planID, ids)
	}
	return nil
}

type mockTxManager struct {
	RunInTxFunc func(ctx context.Context, fn func(context.Context) error) error

	Calls int
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

// ===========================================================================
// Helpers
// ===========================================================================

func defaultCfg() Config {
	return Config{
		DefaultPageSize:          20,
		MaxPageSize:              100,
		DefaultEstimatedDuration: 30,
		MaxExercisesPerPlan:      50,
		EntityTTL:                time.Hour,
		ListTTL:                  5 * time.Minute,
	}
}

type testDeps struct {
	plans        *mockPlanRepo
	children     *mockChildRepo
	catalog      *mockCatalogRepo
	relations    *mockRelationLoader
	tags         *mockRelationWriter
	muscleGroups *mockRelationWriter
	equipment    *mockRelationWriter
	cache        *cache.Memory
	tx           *mockTxManager
}

func newTestService(cfg Config) (*Service, *testDeps) {
	deps := &testDeps{
		plans:        &mockPlanRepo{},
		children:     &mockChildRepo{},
		catalog:      &mockCatalogRepo{},
		relations:    &mockRelationLoader{},
		tags:         &mockRelationWriter{},
		muscleGroups: &mockRelationWriter{},
		equipment:    &mockRelationWriter{},
		cache:        cache.NewMemory(),
		tx:           &mockTxManager{},
	}
	svc := NewService(slog.Default(), Deps{
		Plans:        deps.plans,
		Children:     deps.children,
		Catalog:      deps.catalog,
		Relations:    deps.relations,
		Tags:         deps.tags,
		MuscleGroups: deps.muscleGroups,
		Equipment:    deps.equipment,
		Cache:        deps.cache,
		Tx:           deps.tx,
	}, cfg)
	return svc, deps
}

func authCtx() (context.Context, domain.FlexID) {
	callerID := domain.NewID()
	return ctxutil.WithCallerID(context.Background(), callerID), callerID
}

func ptrInt(n int) *int          { return &n }
func ptrString(s string) *string { return &s }

// customPlan returns a custom plan owned by the given caller, wired into the
// plan repo mock so GetByID resolves it.
func customPlan(owner domain.FlexID) *domain.WorkoutPlan {
	return &domain.WorkoutPlan{
		ID:                domain.NewID(),
		Name:              "Push Day",
		Description:       "Chest, shoulders, triceps",
		Difficulty:        domain.DifficultyIntermediate,
		Category:          domain.CategoryUpperBody,
		EstimatedDuration: 45,
		IsCustom:          true,
		CreatorID:         &owner,
	}
}

func servePlan(repo *mockPlanRepo, plan *domain.WorkoutPlan) {
	repo.GetByIDFunc = func(_ context.Context, id domain.FlexID) (*domain.WorkoutPlan, error) {
		if plan.ID.Equal(id) {
			copied := *plan
			return &copied, nil
		}
		return nil, domain.ErrNotFound
	}
}
