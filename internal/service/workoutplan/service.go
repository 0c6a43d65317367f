// Package workoutplan implements the workout plan aggregate service. It
// orchestrates the plan, child-exercise and relation repositories behind a
// single API, enforces ownership of custom plans, and maintains the plan
// cache around every mutation.
package workoutplan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fitforge/fitplan-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type planRepo interface {
	GetByID(ctx context.Context, id domain.FlexID) (*domain.WorkoutPlan, error)
	FindWithFilters(ctx context.Context, f domain.PlanFilter) ([]*domain.WorkoutPlan, int, error)
	Create(ctx context.Context, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error)
	Update(ctx context.Context, id domain.FlexID, params domain.PlanUpdateParams) (*domain.WorkoutPlan, error)
	Delete(ctx context.Context, id domain.FlexID) error
}

type childRepo interface {
	ListByPlanID(ctx context.Context, planID domain.FlexID) ([]domain.WorkoutExercise, error)
	Create(ctx context.Context, we domain.WorkoutExercise) (*domain.WorkoutExercise, error)
	CreateBatch(ctx context.Context, planID domain.FlexID, list []domain.WorkoutExercise) error
	Update(ctx context.Context, id domain.FlexID, params domain.ExerciseUpdateParams) error
	Delete(ctx context.Context, id domain.FlexID) error
	UpdateOrders(ctx context.Context, planID domain.FlexID, items []domain.ReorderItem) error
	MaxOrder(ctx context.Context, planID domain.FlexID) (int, error)
}

type catalogRepo interface {
	ExistsByID(ctx context.Context, id domain.FlexID) (bool, error)
}

type relationLoader interface {
	ForPlan(ctx context.Context, planID domain.FlexID) (domain.PlanRelations, error)
	ForPlans(ctx context.Context, planIDs []domain.FlexID) (map[string]domain.PlanRelations, error)
}

// relationWriter is the write side of one relation kind. The three relation
// repositories share this shape regardless of the related entity.
type relationWriter interface {
	ReplaceForPlan(ctx context.Context, planID domain.FlexID, ids []domain.FlexID) error
}

type cacheGateway interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Deps bundles the service dependencies.
type Deps struct {
	Plans        planRepo
	Children     childRepo
	Catalog      catalogRepo
	Relations    relationLoader
	Tags         relationWriter
	MuscleGroups relationWriter
	Equipment    relationWriter
	Cache        cacheGateway
	Tx           txManager
}

// Config holds service limits, defaults and cache TTL policy.
type Config struct {
	DefaultPageSize          int
	MaxPageSize              int
	DefaultEstimatedDuration int
	MaxExercisesPerPlan      int
	EntityTTL                time.Duration
	ListTTL                  time.Duration
}

// Service implements the workout plan business logic.
type Service struct {
	log          *slog.Logger
	plans        planRepo
	children     childRepo
	catalog      catalogRepo
	relations    relationLoader
	tags         relationWriter
	muscleGroups relationWriter
	equipment    relationWriter
	cache        cacheGateway
	tx           txManager
	cfg          Config
}

// NewService creates a new workout plan service.
func NewService(logger *slog.Logger, deps Deps, cfg Config) *Service {
	return &Service{
		log:          logger.With("service", "workoutplan"),
		plans:        deps.Plans,
		children:     deps.Children,
		catalog:      deps.Catalog,
		relations:    deps.Relations,
		tags:         deps.Tags,
		muscleGroups: deps.MuscleGroups,
		equipment:    deps.Equipment,
		cache:        deps.Cache,
		tx:           deps.Tx,
		cfg:          cfg,
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// authorizeWrite loads the plan and checks the caller may mutate it.
// Built-in (non-custom) plans are immutable through this service.
func (s *Service) authorizeWrite(ctx context.Context, planID, callerID domain.FlexID) (*domain.WorkoutPlan, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	if !plan.IsCustom {
		return nil, fmt.Errorf("workout plan %s is not custom: %w", planID, domain.ErrForbidden)
	}
	if !plan.OwnedBy(callerID) {
		return nil, fmt.Errorf("workout plan %s: %w", planID, domain.ErrForbidden)
	}

	return plan, nil
}

// loadAggregate assembles the full plan: base row, children, relation sets.
func (s *Service) loadAggregate(ctx context.Context, id domain.FlexID) (*domain.WorkoutPlan, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	children, err := s.children.ListByPlanID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load exercises: %w", err)
	}
	plan.Exercises = children

	rel, err := s.relations.ForPlan(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load relations: %w", err)
	}
	plan.Tags = rel.Tags
	plan.MuscleGroups = rel.MuscleGroups
	plan.Equipment = rel.Equipment

	return plan, nil
}

// wrapInternal hides unexpected failures behind domain.ErrInternal at the
// public method boundary. Domain errors pass through untouched.
func (s *Service) wrapInternal(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrAlreadyExists) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrUnauthorized) ||
		errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	s.log.ErrorContext(ctx, "operation failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, domain.ErrInternal)
}
