package model

import (
	"time"
)

type Event struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"userId"`
	Title           string    `db:"title" json:"title"`
	Description     *string   `db:"description" json:"description"`
	StartDateTime   time.Time `db:"start_date_time" json:"startDateTime"`
	EndDateTime     time.Time `db:"end_date_time" json:"endDateTime"`
	AllDay          bool      `db:"all_day" json:"allDay"`
	Location        *string   `db:"location" json:"location"`
	ReminderMinutes *int      `db:"reminder_minutes" json:"reminderMinutes"`
	Color           *string   `db:"color" json:"color"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}
