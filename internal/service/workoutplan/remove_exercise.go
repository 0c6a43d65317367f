package workoutplan

import (
	"context"
	"fmt"

	"github.com/fitforge/fitplan-backend/internal/domain"
	"github.com/fitforge/fitplan-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// RemoveExercise
// ---------------------------------------------------------------------------

// RemoveExercise deletes one child from a plan the caller owns and returns
// the refreshed aggregate. Remaining children keep their positions; gaps are
// tolerated.
func (s *Service) RemoveExercise(ctx context.Context, planID, exerciseID domain.FlexID) (*domain.WorkoutPlan, error) {
	callerID, ok := ctxutil.CallerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		plan, err := s.authorizeWrite(txCtx, planID, callerID)
		if err != nil {
			return err
		}

		child, err := s.childOfPlan(txCtx, plan.ID, exerciseID)
		if err != nil {
			return err
		}

		if err := s.children.Delete(txCtx, child.ID); err != nil {
			return fmt.Errorf("remove exercise: %w", err)
		}

		return nil
	})
	if txErr != nil {
		return nil, s.wrapInternal(ctx, "remove exercise", txErr)
	}

	s.invalidate(ctx, planID)

	fresh, err := s.loadAggregate(ctx, planID)
	if err != nil {
		return nil, s.wrapInternal(ctx, "remove exercise", err)
	}
	s.planToCache(ctx, fresh)

	return fresh, nil
}
