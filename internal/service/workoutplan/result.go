package workoutplan

import "github.com/fitforge/fitplan-backend/internal/domain"

// ListResult is a page of plans plus the unpaged total.
type ListResult struct {
	Plans []*domain.WorkoutPlan
	Total int
}

// ReorderReport states what a reorder actually did. IDs that matched a
// child of the plan were updated; IDs that matched nothing were skipped.
// A non-empty Skipped list is not an error: the caller decides whether a
// partial apply is acceptable.
type ReorderReport struct {
	Updated []domain.FlexID
	Skipped []domain.FlexID
}
