package workoutplan

import (
	"context"
	"fmt"

	"github.com/fitforge/fitplan-backend/internal/domain"
	"github.com/fitforge/fitplan-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

// Create creates a custom workout plan owned by the caller. IsCustom and the
// creator are always taken from the authenticated identity, never from the
// payload. The plan row, its children and its relation sets are written in
// one transaction.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.WorkoutPlan, error) {
	callerID, ok := ctxutil.CallerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	if len(input.Exercises) > s.cfg.MaxExercisesPerPlan {
		return nil, domain.NewValidationError("exercises",
			fmt.Sprintf("too many (max %d)", s.cfg.MaxExercisesPerPlan))
	}

	plan := &domain.WorkoutPlan{
		Name:              input.Name,
		Description:       input.Description,
		Difficulty:        domain.DifficultyBeginner,
		Category:          domain.CategoryFullBody,
		EstimatedDuration: s.cfg.DefaultEstimatedDuration,
		IsCustom:          true,
		CreatorID:         &callerID,
	}
	if input.Difficulty != nil {
		plan.Difficulty = *input.Difficulty
	}
	if input.Category != nil {
		plan.Category = *input.Category
	}
	if input.EstimatedDuration != nil {
		plan.EstimatedDuration = *input.EstimatedDuration
	}

	var createdID domain.FlexID
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		created, err := s.plans.Create(txCtx, plan)
		if err != nil {
			return fmt.Errorf("create plan: %w", err)
		}
		createdID = created.ID

		children := make([]domain.WorkoutExercise, len(input.Exercises))
		for i, e := range input.Exercises {
			exists, err := s.catalog.ExistsByID(txCtx, e.ExerciseID)
			if err != nil {
				return fmt.Errorf("check exercise: %w", err)
			}
			if !exists {
				return fmt.Errorf("exercise %s: %w", e.ExerciseID, domain.ErrNotFound)
			}
			children[i] = childFromInput(e, i)
		}
		if err := s.children.CreateBatch(txCtx, createdID, children); err != nil {
			return fmt.Errorf("create exercises: %w", err)
		}

		if len(input.TagIDs) > 0 {
			if err := s.tags.ReplaceForPlan(txCtx, createdID, input.TagIDs); err != nil {
				return fmt.Errorf("attach tags: %w", err)
			}
		}
		if len(input.MuscleGroupIDs) > 0 {
			if err := s.muscleGroups.ReplaceForPlan(txCtx, createdID, input.MuscleGroupIDs); err != nil {
				return fmt.Errorf("attach muscle groups: %w", err)
			}
		}
		if len(input.EquipmentIDs) > 0 {
			if err := s.equipment.ReplaceForPlan(txCtx, createdID, input.EquipmentIDs); err != nil {
				return fmt.Errorf("attach equipment: %w", err)
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, s.wrapInternal(ctx, "create plan", txErr)
	}

	s.invalidate(ctx, createdID)

	fresh, err := s.loadAggregate(ctx, createdID)
	if err != nil {
		return nil, s.wrapInternal(ctx, "create plan", err)
	}
	s.planToCache(ctx, fresh)

	return fresh, nil
}

// childFromInput applies the server-side defaults for a new child exercise:
// order falls back to the payload index, sets to 1, repetitions and duration
// to 0, rest time to 30 seconds.
func childFromInput(e ExerciseInput, index int) domain.WorkoutExercise {
	we := domain.WorkoutExercise{
		ExerciseID:  e.ExerciseID,
		Order:       index,
		Sets:        1,
		Repetitions: 0,
		Duration:    0,
		RestTime:    30,
	}
	if e.Order != nil {
		we.Order = *e.Order
	}
	if e.Sets != nil {
		we.Sets = *e.Sets
	}
	if e.Repetitions != nil {
		we.Repetitions = *e.Repetitions
	}
	if e.Duration != nil {
		we.Duration = *e.Duration
	}
	if e.RestTime != nil {
		we.RestTime = *e.RestTime
	}
	if e.SupersetWithID != nil && !e.SupersetWithID.IsZero() {
		id := *e.SupersetWithID
		we.SupersetWithID = &id
	}
	return we
}
