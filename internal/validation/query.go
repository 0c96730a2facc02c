package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/personalhub/hub/internal/model"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination parses limit/offset query values. Empty values take defaults;
// anything out of range is reported rather than clamped.
func Pagination(errs Errors, limit, offset string) model.Pagination {
	return model.Pagination{
		Limit:  QueryInt(errs, "limit", limit, DefaultLimit, 1, MaxLimit),
		Offset: QueryInt(errs, "offset", offset, 0, 0, math.MaxInt32),
	}
}

// QueryInt parses an optional integer query value within [min, max].
func QueryInt(errs Errors, field, raw string, def, min, max int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		errs.Add(field, field+" must be an integer")
		return def
	}
	if v < min || v > max {
		errs.Add(field, fmt.Sprintf("%s must be between %d and %d", field, min, max))
		return def
	}
	return v
}

// QueryBool parses an optional boolean query value.
func QueryBool(errs Errors, field, raw string) *bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		errs.Add(field, field+" must be true or false")
		return nil
	}
	return &v
}

// QueryEnum returns the value when it is allowed, or "" when absent.
func QueryEnum(errs Errors, field, raw string, allowed []string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	OneOf(errs, field, raw, allowed)
	return raw
}
