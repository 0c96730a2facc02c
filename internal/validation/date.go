package validation

import (
	"errors"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

const dateOnly = "2006-01-02"

var errUnparsableDate = errors.New("unrecognized date")

// ParseDate accepts RFC 3339, YYYY-MM-DD, or natural language ("yesterday",
// "last monday") relative to now. Bare dates resolve to the start of the day
// in now's location, or to its last millisecond when endOfDay is set.
func ParseDate(raw string, now time.Time, endOfDay bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errUnparsableDate
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}

	if t, err := time.ParseInLocation(dateOnly, raw, now.Location()); err == nil {
		if endOfDay {
			return EndOfDay(t), nil
		}
		return t, nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime:     now,
		DefaultTimezone: now.Location(),
	}
	result, err := dateparser.Parse(cfg, raw)
	if err != nil || result.Time.IsZero() {
		return time.Time{}, errUnparsableDate
	}
	if endOfDay {
		return EndOfDay(result.Time), nil
	}
	return result.Time, nil
}

// QueryDate parses an optional date query value.
func QueryDate(errs Errors, field, raw string, now time.Time, endOfDay bool) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t, err := ParseDate(raw, now, endOfDay)
	if err != nil {
		errs.Add(field, field+" must be a date (RFC 3339, YYYY-MM-DD, or e.g. \"yesterday\")")
		return nil
	}
	return &t
}

// StartOfDay is 00:00:00.000 of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay is 23:59:59.999 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}
