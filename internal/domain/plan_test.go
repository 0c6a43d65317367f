package domain

import "testing"

func TestWorkoutPlan_OwnedBy(t *testing.T) {
	t.Parallel()

	creator := IDFromInt64(1)
	other := IDFromInt64(2)

	custom := &WorkoutPlan{IsCustom: true, CreatorID: &creator}
	if !custom.OwnedBy(creator) {
		t.Error("creator should own their custom plan")
	}
	if custom.OwnedBy(other) {
		t.Error("non-creator should not own a custom plan")
	}
	// Mixed-representation creator match.
	if !custom.OwnedBy(IDFromString("1")) {
		t.Error("ownership check must use canonical identifier comparison")
	}

	system := &WorkoutPlan{IsCustom: false}
	if system.OwnedBy(creator) {
		t.Error("system plans are owned by nobody")
	}
}

func TestWorkoutPlan_FindExercise(t *testing.T) {
	t.Parallel()

	plan := &WorkoutPlan{
		Exercises: []WorkoutExercise{
			{ID: IDFromInt64(10), Order: 0},
			{ID: IDFromString("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), Order: 1},
		},
	}

	// Path parameters arrive as strings even for numeric IDs.
	if got := plan.FindExercise(IDFromString("10")); got == nil || got.Order != 0 {
		t.Errorf("FindExercise(\"10\") = %v, want the first child", got)
	}
	if got := plan.FindExercise(IDFromString("6BA7B810-9DAD-11D1-80B4-00C04FD430C8")); got == nil || got.Order != 1 {
		t.Errorf("uuid lookup should be case-insensitive, got %v", got)
	}
	if got := plan.FindExercise(IDFromInt64(99)); got != nil {
		t.Errorf("unknown ID should return nil, got %v", got)
	}
}

func TestWorkoutPlan_MaxExerciseOrder(t *testing.T) {
	t.Parallel()

	empty := &WorkoutPlan{}
	if got := empty.MaxExerciseOrder(); got != -1 {
		t.Errorf("empty plan: got %d, want -1", got)
	}

	// Gaps in positions are tolerated.
	plan := &WorkoutPlan{
		Exercises: []WorkoutExercise{
			{ID: IDFromInt64(1), Order: 0},
			{ID: IDFromInt64(2), Order: 4},
			{ID: IDFromInt64(3), Order: 2},
		},
	}
	if got := plan.MaxExerciseOrder(); got != 4 {
		t.Errorf("got %d, want 4", got)
	}
}
