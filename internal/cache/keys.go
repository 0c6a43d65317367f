package cache

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fitforge/fitplan-backend/internal/domain"
)

// Key namespaces. Invalidation relies on these prefixes, so every key built
// here must start with one of them.
const (
	planKeyPrefix = "workout_plan:"
	ListKeyPrefix = "workout_plans:list:"
)

// PlanKey derives the cache key for one plan aggregate. The ID is folded to
// its canonical storage form first, so "007" and 7 share a key. Expansion
// names are sorted so the same set always yields the same key.
func PlanKey(id domain.FlexID, expansions ...string) string {
	key := planKeyPrefix + canonicalID(id)
	if len(expansions) == 0 {
		return key
	}

	sorted := make([]string, len(expansions))
	copy(sorted, expansions)
	sort.Strings(sorted)

	return key + ":" + strings.Join(sorted, "-")
}

// PlanKeyPrefix returns the prefix covering every cached variant of one
// plan, expansions included.
func PlanKeyPrefix(id domain.FlexID) string {
	return planKeyPrefix + canonicalID(id)
}

func canonicalID(id domain.FlexID) string {
	return fmt.Sprintf("%v", id.StorageValue())
}

// ListKey derives a deterministic, human-readable key for a filtered list
// query. Fields appear in a fixed order; absent fields are omitted;
// list-valued fields are sorted. Two equal filters always map to the same
// key.
func ListKey(f domain.PlanFilter) string {
	tokens := make([]string, 0, 12)

	add := func(field, value string) {
		tokens = append(tokens, field+"="+value)
	}

	if f.Search != nil && *f.Search != "" {
		add("search", *f.Search)
	}
	if f.Difficulty != nil {
		add("difficulty", string(*f.Difficulty))
	}
	if f.Category != nil {
		add("category", string(*f.Category))
	}
	if f.MinDuration != nil {
		add("min_duration", fmt.Sprintf("%d", *f.MinDuration))
	}
	if f.MaxDuration != nil {
		add("max_duration", fmt.Sprintf("%d", *f.MaxDuration))
	}
	if len(f.TagIDs) > 0 {
		add("tags", joinIDs(f.TagIDs))
	}
	if len(f.MuscleGroupIDs) > 0 {
		add("muscle_groups", joinIDs(f.MuscleGroupIDs))
	}
	if len(f.EquipmentIDs) > 0 {
		add("equipment", joinIDs(f.EquipmentIDs))
	}
	if f.CreatorID != nil {
		add("creator", f.CreatorID.String())
	}
	if f.IncludeCustomOnly {
		add("custom", "1")
	}
	if f.SortBy != "" {
		add("sort", f.SortBy)
	}
	if f.SortOrder != "" {
		add("order", f.SortOrder)
	}
	add("limit", fmt.Sprintf("%d", f.Limit))
	add("offset", fmt.Sprintf("%d", f.Offset))

	return ListKeyPrefix + strings.Join(tokens, ":")
}

func joinIDs(ids []domain.FlexID) string {
	ss := make([]string, len(ids))
	for i, id := range ids {
		ss[i] = canonicalID(id)
	}
	sort.Strings(ss)
	return strings.Join(ss, ",")
}
