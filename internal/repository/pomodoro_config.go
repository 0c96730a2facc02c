package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/personalhub/hub/internal/model"
)

var ErrPomodoroConfigNotFound = notFound("pomodoro config")

type PomodoroConfigRepository interface {
	ByUserID(ctx context.Context, userID string) (*model.PomodoroConfig, error)
	// Create inserts the config unless the user already has one.
	Create(ctx context.Context, cfg *model.PomodoroConfig) error
	Update(ctx context.Context, cfg *model.PomodoroConfig) error
}

type pomodoroConfigRepository struct {
	db *sqlx.DB
}

func NewPomodoroConfigRepository(db *sqlx.DB) PomodoroConfigRepository {
	return &pomodoroConfigRepository{db: db}
}

func (r *pomodoroConfigRepository) ByUserID(ctx context.Context, userID string) (*model.PomodoroConfig, error) {
	cfg := &model.PomodoroConfig{}
	query := `SELECT * FROM pomodoro_configs WHERE user_id = $1`

	err := r.db.GetContext(ctx, cfg, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPomodoroConfigNotFound
	}
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (r *pomodoroConfigRepository) Create(ctx context.Context, cfg *model.PomodoroConfig) error {
	query := `INSERT INTO pomodoro_configs (id, user_id, work_duration, short_break_duration, long_break_duration,
	            long_break_interval, auto_start_breaks, auto_start_pomodoros, sound_enabled, created_at, updated_at)
	          VALUES (:id, :user_id, :work_duration, :short_break_duration, :long_break_duration,
	            :long_break_interval, :auto_start_breaks, :auto_start_pomodoros, :sound_enabled, :created_at, :updated_at)
	          ON CONFLICT (user_id) DO NOTHING`

	_, err := r.db.NamedExecContext(ctx, query, cfg)
	return err
}

func (r *pomodoroConfigRepository) Update(ctx context.Context, cfg *model.PomodoroConfig) error {
	query := `UPDATE pomodoro_configs
	          SET work_duration = :work_duration, short_break_duration = :short_break_duration,
	              long_break_duration = :long_break_duration, long_break_interval = :long_break_interval,
	              auto_start_breaks = :auto_start_breaks, auto_start_pomodoros = :auto_start_pomodoros,
	              sound_enabled = :sound_enabled, updated_at = :updated_at
	          WHERE user_id = :user_id`

	result, err := r.db.NamedExecContext(ctx, query, cfg)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrPomodoroConfigNotFound
	}

	return nil
}
