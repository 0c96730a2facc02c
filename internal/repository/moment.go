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

var ErrMomentNotFound = notFound("moment")

// MomentFilter bounds are inclusive and apply to created_at.
type MomentFilter struct {
	Tag    string
	From   *time.Time
	To     *time.Time
	Search string
}

type MomentRepository interface {
	Create(ctx context.Context, moment *model.Moment) error
	ByID(ctx context.Context, userID, momentID string) (*model.Moment, error)
	List(ctx context.Context, userID string, filter MomentFilter, p *model.Pagination) ([]*model.Moment, int, error)
	Count(ctx context.Context, userID string, from, to *time.Time) (int, error)
	Recent(ctx context.Context, userID string, limit int) ([]*model.Moment, error)
	Update(ctx context.Context, moment *model.Moment) error
	Delete(ctx context.Context, userID, momentID string) error
}

type momentRepository struct {
	db *sqlx.DB
}

func NewMomentRepository(db *sqlx.DB) MomentRepository {
	return &momentRepository{db: db}
}

func (r *momentRepository) Create(ctx context.Context, moment *model.Moment) error {
	query := `INSERT INTO moments (id, user_id, content, tags, created_at, updated_at)
	          VALUES (:id, :user_id, :content, :tags, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, moment)
	return err
}

func (r *momentRepository) ByID(ctx context.Context, userID, momentID string) (*model.Moment, error) {
	moment := &model.Moment{}
	query := `SELECT * FROM moments WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, moment, query, momentID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMomentNotFound
	}
	if err != nil {
		return nil, err
	}

	return moment, nil
}

func (r *momentRepository) List(ctx context.Context, userID string, filter MomentFilter, p *model.Pagination) ([]*model.Moment, int, error) {
	c := ownedBy(userID)
	if filter.Tag != "" {
		c.add(`tags LIKE ? ESCAPE '\'`, jsonTag(filter.Tag))
	}
	c.between("created_at", filter.From, filter.To)
	c.contains(filter.Search, "content")

	var total int
	err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM moments`+c.where()), c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count moments: %w", err)
	}

	var moments []*model.Moment
	query := r.db.Rebind(`SELECT * FROM moments` + c.where() + ` ORDER BY created_at DESC, id` + page(p))
	err = r.db.SelectContext(ctx, &moments, query, c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list moments: %w", err)
	}

	return moments, total, nil
}

func (r *momentRepository) Count(ctx context.Context, userID string, from, to *time.Time) (int, error) {
	c := ownedBy(userID)
	c.between("created_at", from, to)

	var count int
	err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM moments`+c.where()), c.args...)
	return count, err
}

func (r *momentRepository) Recent(ctx context.Context, userID string, limit int) ([]*model.Moment, error) {
	var moments []*model.Moment
	query := `SELECT * FROM moments WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	err := r.db.SelectContext(ctx, &moments, query, userID, limit)
	return moments, err
}

func (r *momentRepository) Update(ctx context.Context, moment *model.Moment) error {
	query := `UPDATE moments SET content = :content, tags = :tags, updated_at = :updated_at
	          WHERE id = :id AND user_id = :user_id`

	result, err := r.db.NamedExecContext(ctx, query, moment)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrMomentNotFound
	}

	return nil
}

func (r *momentRepository) Delete(ctx context.Context, userID, momentID string) error {
	query := `DELETE FROM moments WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, momentID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrMomentNotFound
	}

	return nil
}
