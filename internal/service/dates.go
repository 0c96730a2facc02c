package service

import (
	"strings"
	"time"

	"github.com/personalhub/hub/internal/validation"
)

// bodyDate parses a nullable date field from a request body into UTC.
func bodyDate(errs validation.Errors, field string, f Field[string], now time.Time) *time.Time {
	if f.Value == nil || strings.TrimSpace(*f.Value) == "" {
		return nil
	}
	t, err := validation.ParseDate(*f.Value, now, false)
	if err != nil {
		errs.Add(field, field+" must be a valid date")
		return nil
	}
	return ptr(t.UTC())
}

// requiredDate parses a non-nullable date. When the key is absent current is kept.
func requiredDate(errs validation.Errors, field string, f Field[string], current time.Time, now time.Time) time.Time {
	if !f.Set {
		return current
	}
	t := bodyDate(errs, field, f, now)
	if t == nil {
		errs.Add(field, field+" is required")
		return current
	}
	return *t
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
