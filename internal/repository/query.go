package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/personalhub/hub/internal/model"
)

// ErrNotFound is wrapped by every per-entity not-found sentinel.
var ErrNotFound = errors.New("not found")

func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// conditions accumulates a WHERE clause with "?" placeholders.
// Queries built from it must go through db.Rebind before execution.
type conditions struct {
	clauses []string
	args    []any
}

func ownedBy(userID string) *conditions {
	return &conditions{clauses: []string{"user_id = ?"}, args: []any{userID}}
}

// add appends a clause; time arguments are normalized to UTC so that stored
// and bound values compare consistently.
func (c *conditions) add(clause string, args ...any) {
	for i, arg := range args {
		switch v := arg.(type) {
		case time.Time:
			args[i] = v.UTC()
		case *time.Time:
			if v != nil {
				args[i] = v.UTC()
			}
		}
	}
	c.clauses = append(c.clauses, clause)
	c.args = append(c.args, args...)
}

func (c *conditions) eq(column, value string) {
	if value != "" {
		c.add(column+" = ?", value)
	}
}

func (c *conditions) between(column string, from, to *time.Time) {
	if from != nil {
		c.add(column+" >= ?", *from)
	}
	if to != nil {
		c.add(column+" <= ?", *to)
	}
}

// contains matches search as a substring of any of the columns.
func (c *conditions) contains(search string, columns ...string) {
	search = strings.TrimSpace(search)
	if search == "" {
		return
	}
	pattern := "%" + escapeLike(search) + "%"
	parts := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		parts[i] = col + ` LIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	c.add("("+strings.Join(parts, " OR ")+")", args...)
}

func (c *conditions) where() string {
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// page renders LIMIT/OFFSET; a nil pagination selects every row.
func page(p *model.Pagination) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", p.Limit, p.Offset)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// jsonTag matches a tag inside a JSON array column without a JSON1 dependency.
func jsonTag(tag string) string {
	b := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(tag)
	return `%"` + escapeLike(b) + `"%`
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}
