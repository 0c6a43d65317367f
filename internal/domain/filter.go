package domain

// PlanFilter contains filtering/pagination parameters for plan listings.
// Absent (nil/empty) fields add no predicate; present fields AND together.
// List-valued fields use OR semantics within the field.
type PlanFilter struct {
	Search            *string
	Difficulty        *Difficulty
	Category          *WorkoutCategory
	MinDuration       *int
	MaxDuration       *int
	TagIDs            []FlexID
	MuscleGroupIDs    []FlexID
	EquipmentIDs      []FlexID
	CreatorID         *FlexID
	IncludeCustomOnly bool
	SortBy            string
	SortOrder         string
	Limit             int
	Offset            int
}

// ReorderItem assigns a new position to one child exercise.
type ReorderItem struct {
	ID    FlexID
	Order int
}
