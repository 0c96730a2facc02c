package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/personalhub/hub/internal/model"
)

var ErrEventNotFound = notFound("event")

// EventFilter bounds are inclusive and apply to start_date_time.
type EventFilter struct {
	From   *time.Time
	To     *time.Time
	Search string
}

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	ByID(ctx context.Context, userID, eventID string) (*model.Event, error)
	List(ctx context.Context, userID string, filter EventFilter, p *model.Pagination) ([]*model.Event, int, error)
	Count(ctx context.Context, userID string, from, to *time.Time) (int, error)
	Upcoming(ctx context.Context, userID string, now time.Time, limit int) ([]*model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, userID, eventID string) error
}

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	query := `INSERT INTO events (id, user_id, title, description, start_date_time, end_date_time, all_day,
	            location, reminder_minutes, color, created_at, updated_at)
	          VALUES (:id, :user_id, :title, :description, :start_date_time, :end_date_time, :all_day,
	            :location, :reminder_minutes, :color, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, event)
	return err
}

func (r *eventRepository) ByID(ctx context.Context, userID, eventID string) (*model.Event, error) {
	event := &model.Event{}
	query := `SELECT * FROM events WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, event, query, eventID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}

	return event, nil
}

func (r *eventRepository) List(ctx context.Context, userID string, filter EventFilter, p *model.Pagination) ([]*model.Event, int, error) {
	c := ownedBy(userID)
	c.between("start_date_time", filter.From, filter.To)
	c.contains(filter.Search, "title", "description", "location")

	var total int
	err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM events`+c.where()), c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	var events []*model.Event
	query := r.db.Rebind(`SELECT * FROM events` + c.where() + ` ORDER BY start_date_time ASC, id` + page(p))
	err = r.db.SelectContext(ctx, &events, query, c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}

	return events, total, nil
}

// Count counts events starting within the optional bounds.
func (r *eventRepository) Count(ctx context.Context, userID string, from, to *time.Time) (int, error) {
	c := ownedBy(userID)
	c.between("start_date_time", from, to)

	var count int
	err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM events`+c.where()), c.args...)
	return count, err
}

func (r *eventRepository) Upcoming(ctx context.Context, userID string, now time.Time, limit int) ([]*model.Event, error) {
	var events []*model.Event
	query := `SELECT * FROM events WHERE user_id = $1 AND start_date_time >= $2 ORDER BY start_date_time ASC LIMIT $3`

	err := r.db.SelectContext(ctx, &events, query, userID, now.UTC(), limit)
	return events, err
}

func (r *eventRepository) Update(ctx context.Context, event *model.Event) error {
	query := `UPDATE events
	          SET title = :title, description = :description, start_date_time = :start_date_time,
	              end_date_time = :end_date_time, all_day = :all_day, location = :location,
	              reminder_minutes = :reminder_minutes, color = :color, updated_at = :updated_at
	          WHERE id = :id AND user_id = :user_id`

	result, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (r *eventRepository) Delete(ctx context.Context, userID, eventID string) error {
	query := `DELETE FROM events WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrEventNotFound
	}

	return nil
}
