package domain

import "time"

// WorkoutPlan is the aggregate root: a plan plus its ordered exercises and
// three independently loaded relation sets. Popularity and Rating are
// aggregated elsewhere and are read-only from this service's perspective.
type WorkoutPlan struct {
	ID                FlexID
	Name              string
	Description       string
	Difficulty        Difficulty
	Category          WorkoutCategory
	EstimatedDuration int // minutes
	Popularity        int
	Rating            float64
	IsCustom          bool
	CreatorID         *FlexID // nil for system plans
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Exercises    []WorkoutExercise
	Tags         []Tag
	MuscleGroups []MuscleGroup
	Equipment    []Equipment
}

// OwnedBy reports whether the given caller may mutate this plan. System
// plans (IsCustom == false) are never owned by ordinary callers.
func (p *WorkoutPlan) OwnedBy(callerID FlexID) bool {
	if !p.IsCustom || p.CreatorID == nil {
		return false
	}
	return p.CreatorID.Equal(callerID)
}

// FindExercise returns the child with the given identifier, using canonical
// identifier comparison. Returns nil when the exercise is not part of this
// plan, a distinct condition from the exercise not existing at all.
func (p *WorkoutPlan) FindExercise(id FlexID) *WorkoutExercise {
	for i := range p.Exercises {
		if p.Exercises[i].ID.Equal(id) {
			return &p.Exercises[i]
		}
	}
	return nil
}

// MaxExerciseOrder returns the highest Order among children, or -1 when the
// plan has no exercises.
func (p *WorkoutPlan) MaxExerciseOrder() int {
	max := -1
	for i := range p.Exercises {
		if p.Exercises[i].Order > max {
			max = p.Exercises[i].Order
		}
	}
	return max
}

// WorkoutExercise is a child row of a plan: one exercise slot with its
// position and prescription. It is exclusively owned by its parent plan.
type WorkoutExercise struct {
	ID          FlexID
	PlanID      FlexID
	ExerciseID  FlexID
	Order       int
	Sets        int
	Repetitions int
	Duration    int // seconds, 0 for rep-based entries
	RestTime    int // seconds
	// SupersetWithID references another WorkoutExercise in the same plan.
	SupersetWithID *FlexID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PlanUpdateParams carries a partial update of plan fields. nil fields are
// left untouched.
type PlanUpdateParams struct {
	Name              *string
	Description       *string
	Difficulty        *Difficulty
	Category          *WorkoutCategory
	EstimatedDuration *int
}

// ExerciseUpdateParams carries a partial update of one child exercise.
// nil fields are left untouched.
type ExerciseUpdateParams struct {
	ExerciseID     *FlexID
	Order          *int
	Sets           *int
	Repetitions    *int
	Duration       *int
	RestTime       *int
	SupersetWithID *FlexID // zero FlexID clears the reference
}

// PlanRelations bundles the three M2M relation sets of one plan.
type PlanRelations struct {
	Tags         []Tag
	MuscleGroups []MuscleGroup
	Equipment    []Equipment
}

// Exercise is a row of the exercise catalog. Read-only here: the aggregate
// service only checks existence and carries the reference.
type Exercise struct {
	ID          FlexID
	Name        string
	Description string
	CreatedAt   time.Time
}

// Tag is a free-form label attached to plans (M2M).
type Tag struct {
	ID   FlexID
	Name string
}

// MuscleGroup is a target muscle-group category attached to plans (M2M).
type MuscleGroup struct {
	ID   FlexID
	Name string
}

// Equipment is a required piece of equipment attached to plans (M2M).
type Equipment struct {
	ID   FlexID
	Name string
}
