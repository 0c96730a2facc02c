package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/personalhub/hub/internal/db"
	"github.com/personalhub/hub/internal/model"
)

var ErrGoalProgressNotFound = notFound("goal progress")

// GoalProgressRepository owns progress rows and keeps goals.current_value
// equal to their running sum. Every write runs in one transaction.
type GoalProgressRepository interface {
	Add(ctx context.Context, progress *model.GoalProgress) (*model.Goal, error)
	List(ctx context.Context, userID, goalID string) ([]*model.GoalProgress, error)
	Delete(ctx context.Context, userID, goalID, progressID string) (*model.Goal, error)
}

type goalProgressRepository struct {
	db *sqlx.DB
}

func NewGoalProgressRepository(db *sqlx.DB) GoalProgressRepository {
	return &goalProgressRepository{db: db}
}

// Add inserts the entry, increments the goal atomically, and completes an
// ACTIVE goal whose target has been reached. It returns the updated goal.
func (r *goalProgressRepository) Add(ctx context.Context, progress *model.GoalProgress) (*model.Goal, error) {
	var goal *model.Goal
	err := db.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := goalByID(ctx, tx, progress.UserID, progress.GoalID); err != nil {
			return err
		}

		insert := `INSERT INTO goal_progress (id, goal_id, user_id, value, note, date, created_at)
		           VALUES (:id, :goal_id, :user_id, :value, :note, :date, :created_at)`
		if _, err := tx.NamedExecContext(ctx, insert, progress); err != nil {
			return fmt.Errorf("failed to insert progress: %w", err)
		}

		now := progress.CreatedAt
		increment := `UPDATE goals SET current_value = current_value + $1, updated_at = $2
		              WHERE id = $3 AND user_id = $4`
		if _, err := tx.ExecContext(ctx, increment, progress.Value, now, progress.GoalID, progress.UserID); err != nil {
			return fmt.Errorf("failed to increment goal: %w", err)
		}

		complete := `UPDATE goals SET status = $1, updated_at = $2
		             WHERE id = $3 AND user_id = $4 AND status = $5
		               AND target_value IS NOT NULL AND current_value >= target_value`
		if _, err := tx.ExecContext(ctx, complete, model.GoalStatusCompleted, now, progress.GoalID, progress.UserID, model.GoalStatusActive); err != nil {
			return fmt.Errorf("failed to complete goal: %w", err)
		}

		var err error
		goal, err = goalByID(ctx, tx, progress.UserID, progress.GoalID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalProgressRepository) List(ctx context.Context, userID, goalID string) ([]*model.GoalProgress, error) {
	if _, err := goalByID(ctx, r.db, userID, goalID); err != nil {
		return nil, err
	}

	var entries []*model.GoalProgress
	query := `SELECT * FROM goal_progress WHERE goal_id = $1 AND user_id = $2 ORDER BY date DESC, created_at DESC`

	err := r.db.SelectContext(ctx, &entries, query, goalID, userID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Delete removes the entry and subtracts its value, flooring current_value at 0.
// A COMPLETED goal that falls back below its target is ACTIVE again.
func (r *goalProgressRepository) Delete(ctx context.Context, userID, goalID, progressID string) (*model.Goal, error) {
	var goal *model.Goal
	err := db.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		entry := &model.GoalProgress{}
		query := `SELECT * FROM goal_progress WHERE id = $1 AND goal_id = $2 AND user_id = $3`
		err := tx.GetContext(ctx, entry, query, progressID, goalID, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrGoalProgressNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM goal_progress WHERE id = $1`, entry.ID); err != nil {
			return fmt.Errorf("failed to delete progress: %w", err)
		}

		decrement := `UPDATE goals
		              SET current_value = CASE WHEN current_value - $1 < 0 THEN 0 ELSE current_value - $1 END,
		                  updated_at = $2
		              WHERE id = $3 AND user_id = $4`
		if _, err := tx.ExecContext(ctx, decrement, entry.Value, time.Now().UTC(), goalID, userID); err != nil {
			return fmt.Errorf("failed to decrement goal: %w", err)
		}

		reopen := `UPDATE goals SET status = $1
		           WHERE id = $2 AND user_id = $3 AND status = $4
		             AND target_value IS NOT NULL AND current_value < target_value`
		if _, err := tx.ExecContext(ctx, reopen, model.GoalStatusActive, goalID, userID, model.GoalStatusCompleted); err != nil {
			return fmt.Errorf("failed to reopen goal: %w", err)
		}

		goal, err = goalByID(ctx, tx, userID, goalID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return goal, nil
}
