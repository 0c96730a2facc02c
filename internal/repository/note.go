package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/personalhub/hub/internal/model"
)

var ErrNoteNotFound = notFound("note")

type NoteFilter struct {
	Tag    string
	Search string
}

type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	ByID(ctx context.Context, userID, noteID string) (*model.Note, error)
	List(ctx context.Context, userID string, filter NoteFilter, p *model.Pagination) ([]*model.Note, int, error)
	Count(ctx context.Context, userID string) (int, error)
	RecentlyUpdated(ctx context.Context, userID string, limit int) ([]*model.Note, error)
	Update(ctx context.Context, note *model.Note) error
	Delete(ctx context.Context, userID, noteID string) error
}

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *model.Note) error {
	query := `INSERT INTO notes (id, user_id, title, content, tags, created_at, updated_at)
	          VALUES (:id, :user_id, :title, :content, :tags, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, note)
	return err
}

func (r *noteRepository) ByID(ctx context.Context, userID, noteID string) (*model.Note, error) {
	note := &model.Note{}
	query := `SELECT * FROM notes WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, note, query, noteID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}

	return note, nil
}

func (r *noteRepository) List(ctx context.Context, userID string, filter NoteFilter, p *model.Pagination) ([]*model.Note, int, error) {
	c := ownedBy(userID)
	if filter.Tag != "" {
		c.add(`tags LIKE ? ESCAPE '\'`, jsonTag(filter.Tag))
	}
	c.contains(filter.Search, "title", "content")

	var total int
	err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM notes`+c.where()), c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notes: %w", err)
	}

	var notes []*model.Note
	query := r.db.Rebind(`SELECT * FROM notes` + c.where() + ` ORDER BY updated_at DESC, id` + page(p))
	err = r.db.SelectContext(ctx, &notes, query, c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notes: %w", err)
	}

	return notes, total, nil
}

func (r *noteRepository) Count(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notes WHERE user_id = $1`, userID)
	return count, err
}

func (r *noteRepository) RecentlyUpdated(ctx context.Context, userID string, limit int) ([]*model.Note, error) {
	var notes []*model.Note
	query := `SELECT * FROM notes WHERE user_id = $1 ORDER BY updated_at DESC LIMIT $2`

	err := r.db.SelectContext(ctx, &notes, query, userID, limit)
	return notes, err
}

func (r *noteRepository) Update(ctx context.Context, note *model.Note) error {
	query := `UPDATE notes SET title = :title, content = :content, tags = :tags, updated_at = :updated_at
	          WHERE id = :id AND user_id = :user_id`

	result, err := r.db.NamedExecContext(ctx, query, note)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNoteNotFound
	}

	return nil
}

func (r *noteRepository) Delete(ctx context.Context, userID, noteID string) error {
	query := `DELETE FROM notes WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, noteID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNoteNotFound
	}

	return nil
}
