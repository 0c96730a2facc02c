package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/personalhub/hub/internal/model"
)

var ErrGoalNotFound = notFound("goal")

type GoalFilter struct {
	Status string
	Type   string
	Search string
}

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, userID, goalID string) (*model.Goal, error)
	List(ctx context.Context, userID string, filter GoalFilter, p *model.Pagination) ([]*model.Goal, int, error)
	Count(ctx context.Context, userID, status string) (int, error)
	Recent(ctx context.Context, userID string, limit int) ([]*model.Goal, error)
	RecentlyUpdated(ctx context.Context, userID string, limit int) ([]*model.Goal, error)
	Update(ctx context.Context, goal *model.Goal) error
	Delete(ctx context.Context, userID, goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, title, description, type, target_value, current_value, unit,
	            start_date, end_date, status, color, created_at, updated_at)
	          VALUES (:id, :user_id, :title, :description, :type, :target_value, :current_value, :unit,
	            :start_date, :end_date, :status, :color, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, goal)
	return err
}

func (r *goalRepository) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	return goalByID(ctx, r.db, userID, goalID)
}

func goalByID(ctx context.Context, q sqlx.QueryerContext, userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := sqlx.GetContext(ctx, q, goal, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) List(ctx context.Context, userID string, filter GoalFilter, p *model.Pagination) ([]*model.Goal, int, error) {
	c := ownedBy(userID)
	c.eq("status", filter.Status)
	c.eq("type", filter.Type)
	c.contains(filter.Search, "title", "description")

	var total int
	err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM goals`+c.where()), c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count goals: %w", err)
	}

	var goals []*model.Goal
	query := r.db.Rebind(`SELECT * FROM goals` + c.where() + ` ORDER BY created_at DESC, id` + page(p))
	err = r.db.SelectContext(ctx, &goals, query, c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list goals: %w", err)
	}

	return goals, total, nil
}

func (r *goalRepository) Count(ctx context.Context, userID, status string) (int, error) {
	c := ownedBy(userID)
	c.eq("status", status)

	var count int
	err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM goals`+c.where()), c.args...)
	return count, err
}

func (r *goalRepository) Recent(ctx context.Context, userID string, limit int) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	err := r.db.SelectContext(ctx, &goals, query, userID, limit)
	return goals, err
}

func (r *goalRepository) RecentlyUpdated(ctx context.Context, userID string, limit int) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE user_id = $1 ORDER BY updated_at DESC LIMIT $2`

	err := r.db.SelectContext(ctx, &goals, query, userID, limit)
	return goals, err
}

// Update writes every editable column except current_value, which only
// progress entries change.
func (r *goalRepository) Update(ctx context.Context, goal *model.Goal) error {
	query := `UPDATE goals
	          SET title = :title, description = :description, type = :type, target_value = :target_value,
	              unit = :unit, start_date = :start_date, end_date = :end_date, status = :status,
	              color = :color, updated_at = :updated_at
	          WHERE id = :id AND user_id = :user_id`

	result, err := r.db.NamedExecContext(ctx, query, goal)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

func (r *goalRepository) Delete(ctx context.Context, userID, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, goalID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}
