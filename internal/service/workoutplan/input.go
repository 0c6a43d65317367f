package workoutplan

import (
	"fmt"

	"github.com/fitforge/fitplan-backend/internal/domain"
)

// ExerciseInput holds the parameters for one child exercise in a create or
// update payload. Absent numeric fields take server-side defaults.
type ExerciseInput struct {
	ID             domain.FlexID // set on update payloads to address an existing child
	ExerciseID     domain.FlexID
	Order          *int
	Sets           *int
	Repetitions    *int
	Duration       *int
	RestTime       *int
	SupersetWithID *domain.FlexID
}

// CreateInput holds the parameters for creating a workout plan. CreatorID
// and IsCustom are never taken from the payload: creation is always
// attributed to the caller.
type CreateInput struct {
	Name              string
	Description       string
	Difficulty        *domain.Difficulty
	Category          *domain.WorkoutCategory
	EstimatedDuration *int
	Exercises         []ExerciseInput
	TagIDs            []domain.FlexID
	MuscleGroupIDs    []domain.FlexID
	EquipmentIDs      []domain.FlexID
}

// Validate checks all fields and collects all errors.
func (i *CreateInput) Validate() error {
	var errs []domain.FieldError

	if i.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if i.Description == "" {
		errs = append(errs, domain.FieldError{Field: "description", Message: "required"})
	}
	if i.Difficulty != nil && !i.Difficulty.IsValid() {
		errs = append(errs, domain.FieldError{Field: "difficulty", Message: "unknown value"})
	}
	if i.Category != nil && !i.Category.IsValid() {
		errs = append(errs, domain.FieldError{Field: "category", Message: "unknown value"})
	}
	if i.EstimatedDuration != nil && *i.EstimatedDuration < 0 {
		errs = append(errs, domain.FieldError{Field: "estimated_duration", Message: "must be >= 0"})
	}
	for idx, e := range i.Exercises {
		if e.ExerciseID.IsZero() {
			errs = append(errs, domain.FieldError{Field: exerciseField(idx, "exercise_id"), Message: "required"})
		}
		errs = append(errs, validateExerciseNumbers(idx, e)...)
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateInput holds a partial update of a workout plan. nil fields are left
// untouched. Exercises are diffed against the current children by ID:
// entries with a known ID update in place, entries without one are inserted,
// and DeleteRemaining removes current children absent from the payload.
type UpdateInput struct {
	Name              *string
	Description       *string
	Difficulty        *domain.Difficulty
	Category          *domain.WorkoutCategory
	EstimatedDuration *int

	Exercises       []ExerciseInput
	DeleteRemaining bool

	// Relation sets replace wholesale when present, nil leaves them alone.
	TagIDs         *[]domain.FlexID
	MuscleGroupIDs *[]domain.FlexID
	EquipmentIDs   *[]domain.FlexID
}

// Validate checks all fields and collects all errors.
func (i *UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.Name != nil && *i.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "must not be empty"})
	}
	if i.Description != nil && *i.Description == "" {
		errs = append(errs, domain.FieldError{Field: "description", Message: "must not be empty"})
	}
	if i.Difficulty != nil && !i.Difficulty.IsValid() {
		errs = append(errs, domain.FieldError{Field: "difficulty", Message: "unknown value"})
	}
	if i.Category != nil && !i.Category.IsValid() {
		errs = append(errs, domain.FieldError{Field: "category", Message: "unknown value"})
	}
	if i.EstimatedDuration != nil && *i.EstimatedDuration < 0 {
		errs = append(errs, domain.FieldError{Field: "estimated_duration", Message: "must be >= 0"})
	}
	for idx, e := range i.Exercises {
		if e.ID.IsZero() && e.ExerciseID.IsZero() {
			errs = append(errs, domain.FieldError{Field: exerciseField(idx, "exercise_id"), Message: "required for new entries"})
		}
		errs = append(errs, validateExerciseNumbers(idx, e)...)
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListInput holds list-query parameters. Zero Limit takes the configured
// default page size; MineOnly scopes results to the caller's plans.
type ListInput struct {
	Filter   domain.PlanFilter
	MineOnly bool
}

func validateExerciseNumbers(idx int, e ExerciseInput) []domain.FieldError {
	var errs []domain.FieldError

	check := func(name string, v *int) {
		if v != nil && *v < 0 {
			errs = append(errs, domain.FieldError{Field: exerciseField(idx, name), Message: "must be >= 0"})
		}
	}
	check("order", e.Order)
	check("sets", e.Sets)
	check("repetitions", e.Repetitions)
	check("duration", e.Duration)
	check("rest_time", e.RestTime)

	return errs
}

func exerciseField(idx int, name string) string {
	return fmt.Sprintf("exercises[%d].%s", idx, name)
}
