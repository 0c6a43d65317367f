package seeder

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fitforge/fitplan-backend/internal/domain"
)

// Dataset is the on-disk seed format: a single JSON document carrying the
// exercise catalog, the three attribute vocabularies, and curated system
// plans that reference catalog entries and attributes by name.
type Dataset struct {
	Exercises    []DatasetExercise `json:"exercises"`
	Tags         []string          `json:"tags"`
	MuscleGroups []string          `json:"muscle_groups"`
	Equipment    []string          `json:"equipment"`
	Plans        []DatasetPlan     `json:"plans"`
}

// DatasetExercise is one catalog exercise.
type DatasetExercise struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DatasetPlan is one curated system plan.
type DatasetPlan struct {
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	Difficulty        string             `json:"difficulty"`
	Category          string             `json:"category"`
	EstimatedDuration int                `json:"estimated_duration"`
	Exercises         []DatasetPlanEntry `json:"exercises"`
	Tags              []string           `json:"tags"`
	MuscleGroups      []string           `json:"muscle_groups"`
	Equipment         []string           `json:"equipment"`
}

// DatasetPlanEntry references a catalog exercise by name with its prescription.
type DatasetPlanEntry struct {
	Exercise    string `json:"exercise"`
	Sets        int    `json:"sets"`
	Repetitions int    `json:"repetitions"`
	Duration    int    `json:"duration"`
	RestTime    int    `json:"rest_time"`
}

// ParseDataset reads and validates a dataset file. Validation is structural
// only: names must be non-empty and plan entries must reference exercises
// declared in the same file. Enum values are checked against the domain.
func ParseDataset(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var ds Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	if err := ds.validate(); err != nil {
		return nil, fmt.Errorf("validate dataset: %w", err)
	}

	return &ds, nil
}

func (ds *Dataset) validate() error {
	catalog := make(map[string]bool, len(ds.Exercises))
	for i, ex := range ds.Exercises {
		if strings.TrimSpace(ex.Name) == "" {
			return fmt.Errorf("exercises[%d]: empty name", i)
		}
		key := strings.ToLower(ex.Name)
		if catalog[key] {
			return fmt.Errorf("exercises[%d]: duplicate name %q", i, ex.Name)
		}
		catalog[key] = true
	}

	for _, group := range []struct {
		field string
		names []string
	}{
		{"tags", ds.Tags},
		{"muscle_groups", ds.MuscleGroups},
		{"equipment", ds.Equipment},
	} {
		for i, name := range group.names {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("%s[%d]: empty name", group.field, i)
			}
		}
	}

	for i, plan := range ds.Plans {
		if strings.TrimSpace(plan.Name) == "" {
			return fmt.Errorf("plans[%d]: empty name", i)
		}
		if plan.Difficulty != "" && !domain.Difficulty(plan.Difficulty).IsValid() {
			return fmt.Errorf("plans[%d]: unknown difficulty %q", i, plan.Difficulty)
		}
		if plan.Category != "" && !domain.WorkoutCategory(plan.Category).IsValid() {
			return fmt.Errorf("plans[%d]: unknown category %q", i, plan.Category)
		}
		for j, entry := range plan.Exercises {
			if !catalog[strings.ToLower(entry.Exercise)] {
				return fmt.Errorf("plans[%d].exercises[%d]: unknown exercise %q", i, j, entry.Exercise)
			}
		}
	}

	return nil
}
