package postgres

import (
	"fmt"
	"strconv"

	"github.com/Masterminds/squirrel"

	"github.com/fitforge/fitplan-backend/internal/domain"
)

// Identifier columns are TEXT: legacy rows carry sequential numeric keys,
// newer rows carry UUIDs. Predicates therefore compare against the text
// rendering of the storage-prepared value; numeric-shaped parameters are
// cast server-side so that "007" and 7 address the same row.

// IDPredicate returns a single-column equality predicate for the
// storage-prepared form of the identifier, for composing into squirrel
// queries.
func IDPredicate(column string, id domain.FlexID) squirrel.Sqlizer {
	return squirrel.Expr(column+" = ?::text", id.StorageValue())
}

// StorageText renders the storage-prepared value as text, for array
// membership parameters and inserts into TEXT identifier columns.
func StorageText(id domain.FlexID) string {
	switch v := id.StorageValue().(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// StorageTexts maps a set of identifiers to their storage text forms.
func StorageTexts(ids []domain.FlexID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = StorageText(id)
	}
	return out
}

// Builder returns the squirrel statement builder configured for pgx
// positional placeholders.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
