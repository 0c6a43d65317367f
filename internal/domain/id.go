package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// FlexID is an identifier that may originate as a 64-bit integer key or a
// UUID string. The mix exists because entity key strategies changed
// mid-project: older rows carry sequential numeric IDs while newer rows use
// UUIDs, and both formats flow through the same data model.
//
// Equality is defined on the canonical string form and nothing else. Raw
// values must never be compared directly; route parameters arrive as strings
// while internal defaults may be numbers, and FlexID.Equal is the single
// place where that mismatch is reconciled.
//
// The zero value canonicalizes to the empty string and represents "absent".
type FlexID struct {
	raw string
}

var uuidShape = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IDFromInt64 builds a FlexID from a numeric key.
func IDFromInt64(n int64) FlexID {
	return FlexID{raw: strconv.FormatInt(n, 10)}
}

// IDFromString builds a FlexID from a string identifier. UUID-shaped input
// is canonicalized to lowercase; anything else is kept verbatim, so
// non-UUID strings compare case-sensitively.
func IDFromString(s string) FlexID {
	if uuidShape.MatchString(s) {
		s = strings.ToLower(s)
	}
	return FlexID{raw: s}
}

// IDFromUUID builds a FlexID from a parsed UUID.
func IDFromUUID(u uuid.UUID) FlexID {
	return FlexID{raw: u.String()}
}

// NewID generates a fresh UUID-backed FlexID.
func NewID() FlexID {
	return IDFromUUID(uuid.New())
}

// ParseID converts any supported identifier representation into a FlexID.
// nil yields the zero FlexID.
func ParseID(v any) FlexID {
	switch id := v.(type) {
	case nil:
		return FlexID{}
	case FlexID:
		return id
	case *FlexID:
		if id == nil {
			return FlexID{}
		}
		return *id
	case string:
		return IDFromString(id)
	case int:
		return IDFromInt64(int64(id))
	case int32:
		return IDFromInt64(int64(id))
	case int64:
		return IDFromInt64(id)
	case float64:
		// JSON numbers decode as float64.
		return IDFromInt64(int64(id))
	case uuid.UUID:
		return IDFromUUID(id)
	default:
		return IDFromString(fmt.Sprintf("%v", id))
	}
}

// String returns the canonical comparable form. Zero value returns "".
func (id FlexID) String() string { return id.raw }

// IsZero reports whether the identifier is absent.
func (id FlexID) IsZero() bool { return id.raw == "" }

// Equal reports identifier equality on the canonical string form.
func (id FlexID) Equal(other FlexID) bool { return id.raw == other.raw }

// IDsEqual compares two identifiers in canonical form. Two absent
// identifiers are equal (both normalize to the empty string).
func IDsEqual(a, b FlexID) bool { return a.Equal(b) }

// LooksLikeUUID reports whether the identifier matches the canonical
// 8-4-4-4-12 hexadecimal shape.
func (id FlexID) LooksLikeUUID() bool { return uuidShape.MatchString(id.raw) }

// LooksLikeNumeric reports whether the identifier consists solely of digits.
func (id FlexID) LooksLikeNumeric() bool {
	if id.raw == "" {
		return false
	}
	for _, r := range id.raw {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// StorageValue returns the representation handed to storage predicates:
// UUID-shaped IDs as their canonical string, numeric-shaped IDs as a parsed
// int64 (leading zeros are not preserved: "007" stores as 7), and anything
// else verbatim. The passthrough case is a data-quality signal worth
// logging at the call site, not an error; the storage layer treats such
// values as opaque string keys.
func (id FlexID) StorageValue() any {
	switch {
	case id.LooksLikeUUID():
		return id.raw
	case id.LooksLikeNumeric():
		n, err := strconv.ParseInt(id.raw, 10, 64)
		if err != nil {
			// Digits only but out of int64 range; fall back to the string.
			return id.raw
		}
		return n
	default:
		return id.raw
	}
}

// MarshalJSON encodes the canonical string form.
func (id FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.raw)
}

// UnmarshalJSON accepts both string and number tokens.
func (id *FlexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = IDFromString(s)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*id = IDFromInt64(n)
		return nil
	}
	return fmt.Errorf("flex id: unsupported JSON token %s", data)
}
