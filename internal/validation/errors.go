package validation

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Errors maps a field name to a human readable message.
// A nil or empty Errors means the input passed.
type Errors map[string]string

func (e Errors) Error() string {
	keys := slices.Sorted(maps.Keys(e))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add keeps the first message recorded for a field.
func (e Errors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Err returns nil when nothing was recorded, so callers can `return errs.Err()`.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Field builds a single-field error.
func Field(field, message string) error {
	return Errors{field: message}
}
