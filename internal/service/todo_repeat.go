package service

import (
	"slices"
	"time"

	"github.com/personalhub/hub/internal/model"
)

// nextDueDate computes the due date of the occurrence following todo, with
// calendar arithmetic done in loc. It reports false when the rule has ended.
func nextDueDate(todo *model.Todo, loc *time.Location) (time.Time, bool) {
	if !todo.Repeats() {
		return time.Time{}, false
	}

	due := todo.DueDate.In(loc)
	interval := max(todo.RepeatInterval, 1)

	var next time.Time
	switch *todo.RepeatType {
	case model.RepeatDaily:
		next = due.AddDate(0, 0, interval)
	case model.RepeatWeekly:
		next = nextWeekly(due, interval, todo.RepeatDaysOfWeek)
	case model.RepeatMonthly:
		day := due.Day()
		if todo.RepeatDayOfMonth != nil {
			day = *todo.RepeatDayOfMonth
		}
		next = addMonthsClamped(due, interval, day)
	case model.RepeatYearly:
		next = addMonthsClamped(due, 12*interval, due.Day())
	default:
		return time.Time{}, false
	}

	if todo.RepeatEndDate != nil && next.After(*todo.RepeatEndDate) {
		return time.Time{}, false
	}
	return next, true
}

// nextWeekly finds the first listed weekday after due, skipping weeks that
// are not a multiple of interval from due's week. Without listed days it
// advances whole weeks.
func nextWeekly(due time.Time, interval int, days []int) time.Time {
	if len(days) == 0 {
		return due.AddDate(0, 0, 7*interval)
	}

	weekStart := due.AddDate(0, 0, -int(due.Weekday()))
	for offset := 1; offset <= 7*interval+7; offset++ {
		candidate := due.AddDate(0, 0, offset)
		if !slices.Contains(days, int(candidate.Weekday())) {
			continue
		}
		weeks := int(candidate.Sub(weekStart).Hours()/24) / 7
		if weeks%interval == 0 {
			return candidate
		}
	}
	return due.AddDate(0, 0, 7*interval)
}

// addMonthsClamped moves t forward by months and pins the day, clamping to
// the month's last day (Jan 31 + 1 month = Feb 28/29).
func addMonthsClamped(t time.Time, months, day int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	first = first.AddDate(0, months, 0)
	last := first.AddDate(0, 1, -1).Day()
	return first.AddDate(0, 0, min(day, last)-1)
}
