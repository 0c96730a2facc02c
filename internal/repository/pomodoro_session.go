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

var ErrPomodoroSessionNotFound = notFound("pomodoro session")

// PomodoroSessionFilter bounds are inclusive and apply to start_time.
type PomodoroSessionFilter struct {
	SessionType string
	Completed   *bool
	From        *time.Time
	To          *time.Time
}

// PomodoroTotals aggregates completed sessions; Seconds is the summed duration.
type PomodoroTotals struct {
	Sessions int `db:"sessions"`
	Seconds  int `db:"seconds"`
}

type PomodoroSessionRepository interface {
	Create(ctx context.Context, session *model.PomodoroSession) error
	ByID(ctx context.Context, userID, sessionID string) (*model.PomodoroSession, error)
	List(ctx context.Context, userID string, filter PomodoroSessionFilter, p *model.Pagination) ([]*model.PomodoroSession, int, error)
	Latest(ctx context.Context, userID string) (*model.PomodoroSession, error)
	Complete(ctx context.Context, userID, sessionID string, endTime time.Time) (bool, error)
	Totals(ctx context.Context, userID, sessionType string, from, to time.Time) (PomodoroTotals, error)
	Update(ctx context.Context, session *model.PomodoroSession) error
	Delete(ctx context.Context, userID, sessionID string) error
}

type pomodoroSessionRepository struct {
	db *sqlx.DB
}

func NewPomodoroSessionRepository(db *sqlx.DB) PomodoroSessionRepository {
	return &pomodoroSessionRepository{db: db}
}

func (r *pomodoroSessionRepository) Create(ctx context.Context, session *model.PomodoroSession) error {
	query := `INSERT INTO pomodoro_sessions (id, user_id, session_type, duration, start_time, end_time, completed, created_at, updated_at)
	          VALUES (:id, :user_id, :session_type, :duration, :start_time, :end_time, :completed, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, session)
	return err
}

func (r *pomodoroSessionRepository) ByID(ctx context.Context, userID, sessionID string) (*model.PomodoroSession, error) {
	session := &model.PomodoroSession{}
	query := `SELECT * FROM pomodoro_sessions WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, session, query, sessionID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPomodoroSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (r *pomodoroSessionRepository) List(ctx context.Context, userID string, filter PomodoroSessionFilter, p *model.Pagination) ([]*model.PomodoroSession, int, error) {
	c := ownedBy(userID)
	c.eq("session_type", filter.SessionType)
	if filter.Completed != nil {
		c.add("completed = ?", *filter.Completed)
	}
	c.between("start_time", filter.From, filter.To)

	var total int
	err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM pomodoro_sessions`+c.where()), c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count pomodoro sessions: %w", err)
	}

	var sessions []*model.PomodoroSession
	query := r.db.Rebind(`SELECT * FROM pomodoro_sessions` + c.where() + ` ORDER BY start_time DESC, id` + page(p))
	err = r.db.SelectContext(ctx, &sessions, query, c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pomodoro sessions: %w", err)
	}

	return sessions, total, nil
}

// Latest returns the most recently started unfinished session, or nil. An
// unfinished session started before any other session has been superseded
// and is never returned.
func (r *pomodoroSessionRepository) Latest(ctx context.Context, userID string) (*model.PomodoroSession, error) {
	session := &model.PomodoroSession{}
	query := `SELECT * FROM pomodoro_sessions s WHERE s.user_id = $1 AND s.completed = $2
	          AND NOT EXISTS (
	              SELECT 1 FROM pomodoro_sessions n
	              WHERE n.user_id = s.user_id AND n.start_time > s.start_time
	          )
	          ORDER BY s.start_time DESC LIMIT 1`

	err := r.db.GetContext(ctx, session, query, userID, false)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Complete marks an unfinished session completed. It reports false when the
// session was already completed, which makes repeated calls harmless.
func (r *pomodoroSessionRepository) Complete(ctx context.Context, userID, sessionID string, endTime time.Time) (bool, error) {
	query := `UPDATE pomodoro_sessions SET completed = $1, end_time = $2, updated_at = $3
	          WHERE id = $4 AND user_id = $5 AND completed = $6`

	result, err := r.db.ExecContext(ctx, query, true, endTime.UTC(), time.Now().UTC(), sessionID, userID, false)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// Totals sums completed sessions started within [from, to]. An empty
// sessionType covers every type.
func (r *pomodoroSessionRepository) Totals(ctx context.Context, userID, sessionType string, from, to time.Time) (PomodoroTotals, error) {
	c := ownedBy(userID)
	c.add("completed = ?", true)
	c.eq("session_type", sessionType)
	c.between("start_time", &from, &to)

	var totals PomodoroTotals
	query := r.db.Rebind(`SELECT COUNT(*) AS sessions, COALESCE(SUM(duration), 0) AS seconds FROM pomodoro_sessions` + c.where())
	err := r.db.GetContext(ctx, &totals, query, c.args...)
	return totals, err
}

func (r *pomodoroSessionRepository) Update(ctx context.Context, session *model.PomodoroSession) error {
	query := `UPDATE pomodoro_sessions
	          SET session_type = :session_type, duration = :duration, start_time = :start_time,
	              end_time = :end_time, completed = :completed, updated_at = :updated_at
	          WHERE id = :id AND user_id = :user_id`

	result, err := r.db.NamedExecContext(ctx, query, session)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrPomodoroSessionNotFound
	}

	return nil
}

func (r *pomodoroSessionRepository) Delete(ctx context.Context, userID, sessionID string) error {
	query := `DELETE FROM pomodoro_sessions WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, sessionID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrPomodoroSessionNotFound
	}

	return nil
}
