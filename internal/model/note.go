package model

import (
	"time"
)

type Note struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"userId"`
	Title     string     `db:"title" json:"title"`
	Content   *string    `db:"content" json:"content"`
	Tags      StringList `db:"tags" json:"tags"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
}

type Moment struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"userId"`
	Content   string     `db:"content" json:"content"`
	Tags      StringList `db:"tags" json:"tags"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
}
