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

var ErrTodoNotFound = notFound("todo")

// TodoFilter narrows todo lists. Empty fields are ignored.
type TodoFilter struct {
	Status   string
	Priority string
	ParentID string
	RootOnly bool
	DueFrom  *time.Time
	DueTo    *time.Time
	Search   string
}

type TodoRepository interface {
	Create(ctx context.Context, todo *model.Todo) error
	ByID(ctx context.Context, userID, todoID string) (*model.Todo, error)
	List(ctx context.Context, userID string, filter TodoFilter, p *model.Pagination) ([]*model.Todo, int, error)
	Children(ctx context.Context, userID, parentID string) ([]*model.Todo, error)
	Count(ctx context.Context, userID, status string) (int, error)
	Recent(ctx context.Context, userID string, limit int) ([]*model.Todo, error)
	RecentlyUpdated(ctx context.Context, userID string, limit int) ([]*model.Todo, error)
	Update(ctx context.Context, todo *model.Todo) error
	CreateOccurrence(ctx context.Context, source, next *model.Todo) (bool, error)
	Delete(ctx context.Context, userID, todoID string) error
}

type todoRepository struct {
	db *sqlx.DB
}

func NewTodoRepository(db *sqlx.DB) TodoRepository {
	return &todoRepository{db: db}
}

const insertTodo = `INSERT INTO todos (id, user_id, parent_id, title, description, status, priority, due_date,
	    repeat_type, repeat_interval, repeat_days_of_week, repeat_day_of_month, repeat_end_date, created_at, updated_at)
	  VALUES (:id, :user_id, :parent_id, :title, :description, :status, :priority, :due_date,
	    :repeat_type, :repeat_interval, :repeat_days_of_week, :repeat_day_of_month, :repeat_end_date, :created_at, :updated_at)`

func (r *todoRepository) Create(ctx context.Context, todo *model.Todo) error {
	_, err := r.db.NamedExecContext(ctx, insertTodo, todo)
	return err
}

// CreateOccurrence inserts next as the follow-up of source and links it. It
// reports false, inserting nothing, when source already has a follow-up.
func (r *todoRepository) CreateOccurrence(ctx context.Context, source, next *model.Todo) (bool, error) {
	created := false
	err := db.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		link := `UPDATE todos SET next_occurrence_id = $1
		         WHERE id = $2 AND user_id = $3 AND next_occurrence_id IS NULL`
		result, err := tx.ExecContext(ctx, link, next.ID, source.ID, source.UserID)
		if err != nil {
			return fmt.Errorf("failed to link next occurrence: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil || rows == 0 {
			return err
		}

		if _, err := tx.NamedExecContext(ctx, insertTodo, next); err != nil {
			return fmt.Errorf("failed to insert next occurrence: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if created {
		source.NextOccurrenceID = &next.ID
	}
	return created, nil
}

func (r *todoRepository) ByID(ctx context.Context, userID, todoID string) (*model.Todo, error) {
	todo := &model.Todo{}
	query := `SELECT * FROM todos WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, todo, query, todoID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTodoNotFound
	}
	if err != nil {
		return nil, err
	}

	return todo, nil
}

func (r *todoRepository) List(ctx context.Context, userID string, filter TodoFilter, p *model.Pagination) ([]*model.Todo, int, error) {
	c := ownedBy(userID)
	c.eq("status", filter.Status)
	c.eq("priority", filter.Priority)
	if filter.RootOnly {
		c.add("parent_id IS NULL")
	} else {
		c.eq("parent_id", filter.ParentID)
	}
	c.between("due_date", filter.DueFrom, filter.DueTo)
	c.contains(filter.Search, "title", "description")

	var total int
	err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM todos`+c.where()), c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count todos: %w", err)
	}

	var todos []*model.Todo
	query := r.db.Rebind(`SELECT * FROM todos` + c.where() + ` ORDER BY created_at DESC, id` + page(p))
	err = r.db.SelectContext(ctx, &todos, query, c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, total, nil
}

func (r *todoRepository) Children(ctx context.Context, userID, parentID string) ([]*model.Todo, error) {
	var todos []*model.Todo
	query := `SELECT * FROM todos WHERE parent_id = $1 AND user_id = $2 ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &todos, query, parentID, userID)
	if err != nil {
		return nil, err
	}

	return todos, nil
}

// Count counts the user's todos, optionally restricted to one status.
func (r *todoRepository) Count(ctx context.Context, userID, status string) (int, error) {
	c := ownedBy(userID)
	c.eq("status", status)

	var count int
	err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM todos`+c.where()), c.args...)
	return count, err
}

func (r *todoRepository) Recent(ctx context.Context, userID string, limit int) ([]*model.Todo, error) {
	var todos []*model.Todo
	query := `SELECT * FROM todos WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	err := r.db.SelectContext(ctx, &todos, query, userID, limit)
	return todos, err
}

func (r *todoRepository) RecentlyUpdated(ctx context.Context, userID string, limit int) ([]*model.Todo, error) {
	var todos []*model.Todo
	query := `SELECT * FROM todos WHERE user_id = $1 ORDER BY updated_at DESC LIMIT $2`

	err := r.db.SelectContext(ctx, &todos, query, userID, limit)
	return todos, err
}

func (r *todoRepository) Update(ctx context.Context, todo *model.Todo) error {
	query := `UPDATE todos
	          SET parent_id = :parent_id, title = :title, description = :description, status = :status,
	              priority = :priority, due_date = :due_date, repeat_type = :repeat_type,
	              repeat_interval = :repeat_interval, repeat_days_of_week = :repeat_days_of_week,
	              repeat_day_of_month = :repeat_day_of_month, repeat_end_date = :repeat_end_date,
	              updated_at = :updated_at
	          WHERE id = :id AND user_id = :user_id`

	result, err := r.db.NamedExecContext(ctx, query, todo)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTodoNotFound
	}

	return nil
}

func (r *todoRepository) Delete(ctx context.Context, userID, todoID string) error {
	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, todoID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTodoNotFound
	}

	return nil
}
