package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Required checks a trimmed, non-empty string of at most max runes.
func Required(errs Errors, field, value string, max int) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		errs.Add(field, field+" is required")
		return
	}
	MaxLength(errs, field, trimmed, max)
}

func MaxLength(errs Errors, field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		errs.Add(field, fmt.Sprintf("%s is too long (max %d characters)", field, max))
	}
}

// Optional applies MaxLength when the pointer is set.
func Optional(errs Errors, field string, value *string, max int) {
	if value != nil {
		MaxLength(errs, field, *value, max)
	}
}

func OneOf(errs Errors, field, value string, allowed []string) {
	if !slices.Contains(allowed, value) {
		errs.Add(field, fmt.Sprintf("%s must be one of %s", field, strings.Join(allowed, ", ")))
	}
}

func Color(errs Errors, field, value string) {
	if !hexColor.MatchString(value) {
		errs.Add(field, field+" must be a hex color like #3b82f6")
	}
}

func IntBetween(errs Errors, field string, value, min, max int) {
	if value < min || value > max {
		errs.Add(field, fmt.Sprintf("%s must be between %d and %d", field, min, max))
	}
}

// Tags trims and NFC-normalizes every tag, drops empties and duplicates
// (compared case-folded, first spelling wins), and checks the limits.
func Tags(errs Errors, field string, tags []string, maxCount, maxLen int) []string {
	fold := cases.Fold()
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = norm.NFC.String(strings.TrimSpace(tag))
		key := fold.String(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		if utf8.RuneCountInString(tag) > maxLen {
			errs.Add(field, fmt.Sprintf("each tag must be at most %d characters", maxLen))
		}
		out = append(out, tag)
	}
	if len(out) > maxCount {
		errs.Add(field, fmt.Sprintf("at most %d tags are allowed", maxCount))
	}
	return out
}
