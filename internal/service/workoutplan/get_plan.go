package workoutplan

import (
	"context"
	"fmt"

	"github.com/fitforge/fitplan-backend/internal/domain"
	"github.com/fitforge/fitplan-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// GetByID
// ---------------------------------------------------------------------------

// GetByID returns the full plan aggregate. The base row and children are
// read through the cache; relation sets are loaded fresh on every call, hit
// or miss. A custom plan is only visible to its creator when a caller
// identity is present; anonymous reads proceed, which supports system and
// background access.
func (s *Service) GetByID(ctx context.Context, id domain.FlexID) (*domain.WorkoutPlan, error) {
	plan := s.planFromCache(ctx, id)
	cacheHit := plan != nil

	if plan == nil {
		loaded, err := s.plans.GetByID(ctx, id)
		if err != nil {
			return nil, s.wrapInternal(ctx, "get plan", err)
		}
		plan = loaded

		children, err := s.children.ListByPlanID(ctx, id)
		if err != nil {
			return nil, s.wrapInternal(ctx, "get plan", fmt.Errorf("load exercises: %w", err))
		}
		plan.Exercises = children
	}

	if plan.IsCustom {
		if callerID, ok := ctxutil.CallerIDFromCtx(ctx); ok && !plan.OwnedBy(callerID) {
			return nil, fmt.Errorf("workout plan %s: %w", id, domain.ErrForbidden)
		}
	}

	rel, err := s.relations.ForPlan(ctx, plan.ID)
	if err != nil {
		return nil, s.wrapInternal(ctx, "get plan", fmt.Errorf("load relations: %w", err))
	}
	plan.Tags = rel.Tags
	plan.MuscleGroups = rel.MuscleGroups
	plan.Equipment = rel.Equipment

	if !cacheHit {
		s.planToCache(ctx, plan)
	}

	return plan, nil
}
