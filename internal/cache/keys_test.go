package cache

import (
	"testing"

	"github.com/fitforge/fitplan-backend/internal/domain"
)

func TestPlanKey_Base(t *testing.T) {
	id := domain.IDFromInt64(42)

	if got := PlanKey(id); got != "workout_plan:42" {
		t.Errorf("expected workout_plan:42, got %q", got)
	}
}

func TestPlanKey_NumericStringFolded(t *testing.T) {
	// "007" and 7 address the same plan and must share a cache key.
	a := PlanKey(domain.IDFromString("007"))
	b := PlanKey(domain.IDFromInt64(7))

	if a != b {
		t.Errorf("expected identical keys, got %q and %q", a, b)
	}
}

func TestPlanKey_ExpansionsSorted(t *testing.T) {
	id := domain.IDFromString("abc")

	a := PlanKey(id, "tags", "equipment")
	b := PlanKey(id, "equipment", "tags")

	if a != b {
		t.Errorf("expansion order changed the key: %q vs %q", a, b)
	}
	if a != "workout_plan:abc:equipment-tags" {
		t.Errorf("unexpected key: %q", a)
	}
}

func TestPlanKeyPrefix_CoversExpansions(t *testing.T) {
	id := domain.IDFromInt64(7)
	prefix := PlanKeyPrefix(id)

	keys := []string{
		PlanKey(id),
		PlanKey(id, "tags"),
		PlanKey(id, "tags", "muscle_groups", "equipment"),
	}
	for _, key := range keys {
		if len(key) < len(prefix) || key[:len(prefix)] != prefix {
			t.Errorf("key %q not covered by prefix %q", key, prefix)
		}
	}
}

func TestListKey_Deterministic(t *testing.T) {
	diff := domain.DifficultyBeginner
	minDur := 10

	f := domain.PlanFilter{
		Difficulty:  &diff,
		MinDuration: &minDur,
		TagIDs: []domain.FlexID{
			domain.IDFromString("ztag"),
			domain.IDFromString("atag"),
		},
		Limit:  20,
		Offset: 0,
	}

	want := "workout_plans:list:difficulty=BEGINNER:min_duration=10:tags=atag,ztag:limit=20:offset=0"
	if got := ListKey(f); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestListKey_IDOrderInsensitive(t *testing.T) {
	a := domain.PlanFilter{TagIDs: []domain.FlexID{domain.IDFromInt64(1), domain.IDFromInt64(2)}, Limit: 20}
	b := domain.PlanFilter{TagIDs: []domain.FlexID{domain.IDFromInt64(2), domain.IDFromInt64(1)}, Limit: 20}

	if ListKey(a) != ListKey(b) {
		t.Errorf("tag ID order changed the key: %q vs %q", ListKey(a), ListKey(b))
	}
}

func TestListKey_AbsentFieldsOmitted(t *testing.T) {
	got := ListKey(domain.PlanFilter{Limit: 20, Offset: 40})

	if got != "workout_plans:list:limit=20:offset=40" {
		t.Errorf("unexpected key for empty filter: %q", got)
	}
}
