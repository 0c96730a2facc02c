package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/personalhub/hub/internal/model"
	"github.com/personalhub/hub/internal/repository"
	"github.com/personalhub/hub/internal/validation"
)

type MomentInput struct {
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
}

type MomentService struct {
	clock
	repo repository.MomentRepository
}

func NewMomentService(repo repository.MomentRepository, loc *time.Location) *MomentService {
	return &MomentService{clock: newClock(loc), repo: repo}
}

func (s *MomentService) List(ctx context.Context, userID string, filter repository.MomentFilter, p model.Pagination) (model.Page[*model.Moment], error) {
	moments, total, err := s.repo.List(ctx, userID, filter, &p)
	if err != nil {
		return model.Page[*model.Moment]{}, err
	}
	return model.NewPage(moments, total, p), nil
}

func (s *MomentService) All(ctx context.Context, userID string, filter repository.MomentFilter) ([]*model.Moment, error) {
	moments, _, err := s.repo.List(ctx, userID, filter, nil)
	return moments, err
}

func (s *MomentService) ByID(ctx context.Context, userID, momentID string) (*model.Moment, error) {
	return s.repo.ByID(ctx, userID, momentID)
}

func (s *MomentService) Create(ctx context.Context, userID string, in MomentInput) (*model.Moment, error) {
	now := s.Now().UTC()
	moment := &model.Moment{
		ID:        uuid.New().String(),
		UserID:    userID,
		Tags:      model.StringList{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	errs := validation.Errors{}
	if in.Content == nil {
		errs.Add("content", "content is required")
	}
	applyMoment(errs, moment, in)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, moment); err != nil {
		return nil, fmt.Errorf("failed to create moment: %w", err)
	}
	return moment, nil
}

func (s *MomentService) Update(ctx context.Context, userID, momentID string, in MomentInput) (*model.Moment, error) {
	moment, err := s.repo.ByID(ctx, userID, momentID)
	if err != nil {
		return nil, err
	}

	errs := validation.Errors{}
	applyMoment(errs, moment, in)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	moment.UpdatedAt = s.Now().UTC()
	if err := s.repo.Update(ctx, moment); err != nil {
		return nil, err
	}
	return moment, nil
}

func (s *MomentService) Delete(ctx context.Context, userID, momentID string) error {
	return s.repo.Delete(ctx, userID, momentID)
}

func applyMoment(errs validation.Errors, moment *model.Moment, in MomentInput) {
	if in.Content != nil {
		validation.Required(errs, "content", *in.Content, 1000)
		moment.Content = trimmed(*in.Content)
	}
	if in.Tags != nil {
		moment.Tags = validation.Tags(errs, "tags", *in.Tags, maxTags, maxTagLength)
	}
}
