package model

import (
	"time"
)

const (
	GoalStatusActive    = "ACTIVE"
	GoalStatusPaused    = "PAUSED"
	GoalStatusCompleted = "COMPLETED"
	GoalStatusArchived  = "ARCHIVED"
)

const (
	GoalTypeAnnual  = "ANNUAL"
	GoalTypeMonthly = "MONTHLY"
	GoalTypeWeekly  = "WEEKLY"
	GoalTypeDaily   = "DAILY"
)

const DefaultGoalColor = "#3b82f6"

var (
	GoalStatuses = []string{GoalStatusActive, GoalStatusPaused, GoalStatusCompleted, GoalStatusArchived}
	GoalTypes    = []string{GoalTypeAnnual, GoalTypeMonthly, GoalTypeWeekly, GoalTypeDaily}
)

type Goal struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"userId"`
	Title        string    `db:"title" json:"title"`
	Description  *string   `db:"description" json:"description"`
	Type         string    `db:"type" json:"type"`
	TargetValue  *float64  `db:"target_value" json:"targetValue"`
	CurrentValue float64   `db:"current_value" json:"currentValue"`
	Unit         string    `db:"unit" json:"unit"`
	StartDate    time.Time `db:"start_date" json:"startDate"`
	EndDate      time.Time `db:"end_date" json:"endDate"`
	Status       string    `db:"status" json:"status"`
	Color        string    `db:"color" json:"color"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Reached reports whether a target is set and the current value meets it.
func (g *Goal) Reached() bool {
	return g.TargetValue != nil && g.CurrentValue >= *g.TargetValue
}

type GoalProgress struct {
	ID        string    `db:"id" json:"id"`
	GoalID    string    `db:"goal_id" json:"goalId"`
	UserID    string    `db:"user_id" json:"userId"`
	Value     float64   `db:"value" json:"value"`
	Note      *string   `db:"note" json:"note"`
	Date      time.Time `db:"date" json:"date"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
