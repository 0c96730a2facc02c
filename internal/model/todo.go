package model

import (
	"time"
)

const (
	TodoStatusTodo       = "TODO"
	TodoStatusInProgress = "IN_PROGRESS"
	TodoStatusDone       = "DONE"
)

const (
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"
)

const (
	RepeatDaily   = "DAILY"
	RepeatWeekly  = "WEEKLY"
	RepeatMonthly = "MONTHLY"
	RepeatYearly  = "YEARLY"
)

var (
	TodoStatuses   = []string{TodoStatusTodo, TodoStatusInProgress, TodoStatusDone}
	TodoPriorities = []string{PriorityHigh, PriorityMedium, PriorityLow}
	RepeatTypes    = []string{RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly}
)

type Todo struct {
	ID               string     `db:"id" json:"id"`
	UserID           string     `db:"user_id" json:"userId"`
	ParentID         *string    `db:"parent_id" json:"parentId"`
	Title            string     `db:"title" json:"title"`
	Description      *string    `db:"description" json:"description"`
	Status           string     `db:"status" json:"status"`
	Priority         string     `db:"priority" json:"priority"`
	DueDate          *time.Time `db:"due_date" json:"dueDate"`
	RepeatType       *string    `db:"repeat_type" json:"repeatType"`
	RepeatInterval   int        `db:"repeat_interval" json:"repeatInterval"`
	RepeatDaysOfWeek IntList    `db:"repeat_days_of_week" json:"repeatDaysOfWeek"`
	RepeatDayOfMonth *int       `db:"repeat_day_of_month" json:"repeatDayOfMonth"`
	RepeatEndDate    *time.Time `db:"repeat_end_date" json:"repeatEndDate"`
	NextOccurrenceID *string    `db:"next_occurrence_id" json:"nextOccurrenceId"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`
}

func (t *Todo) IsDone() bool {
	return t.Status == TodoStatusDone
}

// Repeats reports whether completing the todo schedules another occurrence.
func (t *Todo) Repeats() bool {
	return t.RepeatType != nil && *t.RepeatType != "" && t.DueDate != nil
}

// NextStatus is the toggle cycle TODO -> IN_PROGRESS -> DONE -> TODO.
func NextStatus(status string) string {
	switch status {
	case TodoStatusTodo:
		return TodoStatusInProgress
	case TodoStatusInProgress:
		return TodoStatusDone
	default:
		return TodoStatusTodo
	}
}
