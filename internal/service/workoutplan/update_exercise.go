package workoutplan

import (
	"context"
	"fmt"

	"github.com/fitforge/fitplan-backend/internal/domain"
	"github.com/fitforge/fitplan-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// UpdateExercise
// ---------------------------------------------------------------------------

// UpdateExercise applies a partial update to one child of a plan the caller
// owns. A child that exists but belongs to another plan is reported the same
// way as one that does not exist at all: not found in this plan.
func (s *Service) UpdateExercise(ctx context.Context, planID, exerciseID domain.FlexID, input ExerciseInput) (*domain.WorkoutPlan, error) {
	callerID, ok := ctxutil.CallerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if errs := validateExerciseNumbers(0, input); len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
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

		params := domain.ExerciseUpdateParams{
			Order:          input.Order,
			Sets:           input.Sets,
			Repetitions:    input.Repetitions,
			Duration:       input.Duration,
			RestTime:       input.RestTime,
			SupersetWithID: input.SupersetWithID,
		}
		if !input.ExerciseID.IsZero() {
			exists, err := s.catalog.ExistsByID(txCtx, input.ExerciseID)
			if err != nil {
				return fmt.Errorf("check exercise: %w", err)
			}
			if !exists {
				return fmt.Errorf("exercise %s: %w", input.ExerciseID, domain.ErrNotFound)
			}
			exID := input.ExerciseID
			params.ExerciseID = &exID
		}

		if err := s.children.Update(txCtx, child.ID, params); err != nil {
			return fmt.Errorf("update exercise: %w", err)
		}

		return nil
	})
	if txErr != nil {
		return nil, s.wrapInternal(ctx, "update exercise", txErr)
	}

	s.invalidate(ctx, planID)

	fresh, err := s.loadAggregate(ctx, planID)
	if err != nil {
		return nil, s.wrapInternal(ctx, "update exercise", err)
	}
	s.planToCache(ctx, fresh)

	return fresh, nil
}

// childOfPlan resolves a child by ID within one plan. Membership is FlexID
// equality against the plan's own children, never a bare lookup by child ID.
func (s *Service) childOfPlan(ctx context.Context, planID, exerciseID domain.FlexID) (*domain.WorkoutExercise, error) {
	children, err := s.children.ListByPlanID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("load exercises: %w", err)
	}

	child := findChild(children, exerciseID)
	if child == nil {
		return nil, fmt.Errorf("exercise %s not found in workout plan %s: %w",
			exerciseID, planID, domain.ErrNotFound)
	}

	return child, nil
}
