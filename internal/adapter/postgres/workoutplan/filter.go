package workoutplan

import (
	"strings"

	"github.com/Masterminds/squirrel"

	postgres "github.com/fitforge/fitplan-backend/internal/adapter/postgres"
	"github.com/fitforge/fitplan-backend/internal/domain"
)

const (
	defaultLimit = 20
	maxLimit     = 200

	sortOrderASC  = "ASC"
	sortOrderDESC = "DESC"
)

// sortColumns is the allow-list of sortable fields. Unrecognized SortBy
// values silently fall back to the default (newest first) rather than being
// passed through to the query layer.
var sortColumns = map[string]string{
	"created_at":         "created_at",
	"name":               "name",
	"popularity":         "popularity",
	"rating":             "rating",
	"estimated_duration": "estimated_duration",
}

// normalize applies defaults and clamps values. Returns the resolved sort
// column and order.
func normalize(f *domain.PlanFilter) (string, string) {
	col, ok := sortColumns[f.SortBy]
	order := strings.ToUpper(f.SortOrder)
	if order != sortOrderASC && order != sortOrderDESC {
		order = sortOrderDESC
	}
	if !ok {
		col = "created_at"
		order = sortOrderDESC
	}

	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	return col, order
}

// predicates converts the filter into a conjunction of squirrel predicates.
// Absent fields contribute nothing; each present field ANDs one predicate.
// Membership filters use OR semantics within the field (plan joined to ANY
// of the given related IDs).
func predicates(f domain.PlanFilter) []squirrel.Sqlizer {
	var preds []squirrel.Sqlizer

	if f.Search != nil && *f.Search != "" {
		preds = append(preds, squirrel.Expr("name ILIKE ?", "%"+escapeLike(*f.Search)+"%"))
	}
	if f.Difficulty != nil {
		preds = append(preds, squirrel.Eq{"difficulty": f.Difficulty.String()})
	}
	if f.Category != nil {
		preds = append(preds, squirrel.Eq{"category": f.Category.String()})
	}
	if f.MinDuration != nil {
		preds = append(preds, squirrel.GtOrEq{"estimated_duration": *f.MinDuration})
	}
	if f.MaxDuration != nil {
		preds = append(preds, squirrel.LtOrEq{"estimated_duration": *f.MaxDuration})
	}
	if len(f.TagIDs) > 0 {
		preds = append(preds, squirrel.Expr(
			"id IN (SELECT plan_id FROM workout_plan_tags WHERE tag_id = ANY(?))",
			postgres.StorageTexts(f.TagIDs)))
	}
	if len(f.MuscleGroupIDs) > 0 {
		preds = append(preds, squirrel.Expr(
			"id IN (SELECT plan_id FROM workout_plan_muscle_groups WHERE muscle_group_id = ANY(?))",
			postgres.StorageTexts(f.MuscleGroupIDs)))
	}
	if len(f.EquipmentIDs) > 0 {
		preds = append(preds, squirrel.Expr(
			"id IN (SELECT plan_id FROM workout_plan_equipment WHERE equipment_id = ANY(?))",
			postgres.StorageTexts(f.EquipmentIDs)))
	}
	if f.CreatorID != nil {
		preds = append(preds, postgres.IDPredicate("creator_id", *f.CreatorID))
	}
	if f.IncludeCustomOnly {
		preds = append(preds, squirrel.Eq{"is_custom": true})
	}

	return preds
}

// escapeLike escapes LIKE metacharacters in user-supplied search text.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
