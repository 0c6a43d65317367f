package workoutplan

import (
	"context"
	"fmt"

	"github.com/fitforge/fitplan-backend/internal/domain"
	"github.com/fitforge/fitplan-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

// Update applies a partial update to a plan the caller owns. Exercise
// entries are diffed against the current children by ID: known IDs update in
// place, entries without an ID are inserted, and with DeleteRemaining any
// current child absent from the payload is removed. The read and every write
// happen inside one transaction.
func (s *Service) Update(ctx context.Context, id domain.FlexID, input UpdateInput) (*domain.WorkoutPlan, error) {
	callerID, ok := ctxutil.CallerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		plan, err := s.authorizeWrite(txCtx, id, callerID)
		if err != nil {
			return err
		}

		params := domain.PlanUpdateParams{
			Name:              input.Name,
			Description:       input.Description,
			Difficulty:        input.Difficulty,
			Category:          input.Category,
			EstimatedDuration: input.EstimatedDuration,
		}
		if params != (domain.PlanUpdateParams{}) {
			if _, err := s.plans.Update(txCtx, id, params); err != nil {
				return fmt.Errorf("update plan row: %w", err)
			}
		}

		if err := s.applyExerciseDiff(txCtx, plan, input); err != nil {
			return err
		}

		if input.TagIDs != nil {
			if err := s.tags.ReplaceForPlan(txCtx, id, *input.TagIDs); err != nil {
				return fmt.Errorf("replace tags: %w", err)
			}
		}
		if input.MuscleGroupIDs != nil {
			if err := s.muscleGroups.ReplaceForPlan(txCtx, id, *input.MuscleGroupIDs); err != nil {
				return fmt.Errorf("replace muscle groups: %w", err)
			}
		}
		if input.EquipmentIDs != nil {
			if err := s.equipment.ReplaceForPlan(txCtx, id, *input.EquipmentIDs); err != nil {
				return fmt.Errorf("replace equipment: %w", err)
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, s.wrapInternal(ctx, "update plan", txErr)
	}

	s.invalidate(ctx, id)

	fresh, err := s.loadAggregate(ctx, id)
	if err != nil {
		return nil, s.wrapInternal(ctx, "update plan", err)
	}
	s.planToCache(ctx, fresh)

	return fresh, nil
}

// applyExerciseDiff reconciles the payload's exercise entries with the
// plan's current children.
func (s *Service) applyExerciseDiff(ctx context.Context, plan *domain.WorkoutPlan, input UpdateInput) error {
	if len(input.Exercises) == 0 && !input.DeleteRemaining {
		return nil
	}

	current, err := s.children.ListByPlanID(ctx, plan.ID)
	if err != nil {
		return fmt.Errorf("load exercises: %w", err)
	}
	plan.Exercises = current

	seen := make(map[string]bool, len(input.Exercises))
	nextOrder := plan.MaxExerciseOrder()

	for _, e := range input.Exercises {
		matched := findChild(current, e.ID)
		if matched != nil {
			seen[matched.ID.String()] = true
			params := domain.ExerciseUpdateParams{
				Order:          e.Order,
				Sets:           e.Sets,
				Repetitions:    e.Repetitions,
				Duration:       e.Duration,
				RestTime:       e.RestTime,
				SupersetWithID: e.SupersetWithID,
			}
			if !e.ExerciseID.IsZero() {
				exID := e.ExerciseID
				params.ExerciseID = &exID
			}
			if err := s.children.Update(ctx, matched.ID, params); err != nil {
				return fmt.Errorf("update exercise %s: %w", matched.ID, err)
			}
			continue
		}

		exists, err := s.catalog.ExistsByID(ctx, e.ExerciseID)
		if err != nil {
			return fmt.Errorf("check exercise: %w", err)
		}
		if !exists {
			return fmt.Errorf("exercise %s: %w", e.ExerciseID, domain.ErrNotFound)
		}

		nextOrder++
		child := childFromInput(e, nextOrder)
		child.PlanID = plan.ID
		if _, err := s.children.Create(ctx, child); err != nil {
			return fmt.Errorf("insert exercise: %w", err)
		}
	}

	if input.DeleteRemaining {
		for _, we := range current {
			if seen[we.ID.String()] {
				continue
			}
			if err := s.children.Delete(ctx, we.ID); err != nil {
				return fmt.Errorf("delete exercise %s: %w", we.ID, err)
			}
		}
	}

	return nil
}

// findChild locates a current child by identifier through the aggregate's
// own lookup, so numeric and string forms of the same ID match. A zero ID
// marks a payload entry with no ID at all, never a match.
func findChild(children []domain.WorkoutExercise, id domain.FlexID) *domain.WorkoutExercise {
	if id.IsZero() {
		return nil
	}
	plan := domain.WorkoutPlan{Exercises: children}
	return plan.FindExercise(id)
}
