package workoutplan

import (
	"context"
	"fmt"

	"github.com/fitforge/fitplan-backend/internal/domain"
	"github.com/fitforge/fitplan-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// AddExercise
// ---------------------------------------------------------------------------

// AddExercise appends one exercise to a plan the caller owns. The referenced
// catalog exercise must exist. Unless the payload sets an explicit order,
// the new child lands after the current last one.
func (s *Service) AddExercise(ctx context.Context, planID domain.FlexID, input ExerciseInput) (*domain.WorkoutPlan, error) {
	callerID, ok := ctxutil.CallerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if input.ExerciseID.IsZero() {
		return nil, domain.NewValidationError("exercise_id", "required")
	}
	if errs := validateExerciseNumbers(0, input); len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}

	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		plan, err := s.authorizeWrite(txCtx, planID, callerID)
		if err != nil {
			return err
		}

		exists, err := s.catalog.ExistsByID(txCtx, input.ExerciseID)
		if err != nil {
			return fmt.Errorf("check exercise: %w", err)
		}
		if !exists {
			return fmt.Errorf("exercise %s: %w", input.ExerciseID, domain.ErrNotFound)
		}

		maxOrder, err := s.children.MaxOrder(txCtx, plan.ID)
		if err != nil {
			return err
		}

		child := childFromInput(input, maxOrder+1)
		child.PlanID = plan.ID
		if _, err := s.children.Create(txCtx, child); err != nil {
			return fmt.Errorf("add exercise: %w", err)
		}

		return nil
	})
	if txErr != nil {
		return nil, s.wrapInternal(ctx, "add exercise", txErr)
	}

	s.invalidate(ctx, planID)

	fresh, err := s.loadAggregate(ctx, planID)
	if err != nil {
		return nil, s.wrapInternal(ctx, "add exercise", err)
	}
	s.planToCache(ctx, fresh)

	return fresh, nil
}
