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

type GoalInput struct {
	Title       *string        `json:"title"`
	Description Field[string]  `json:"description"`
	Type        *string        `json:"type"`
	TargetValue Field[float64] `json:"targetValue"`
	Unit        *string        `json:"unit"`
	StartDate   Field[string]  `json:"startDate"`
	EndDate     Field[string]  `json:"endDate"`
	Status      *string        `json:"status"`
	Color       *string        `json:"color"`
}

type ProgressInput struct {
	Value *float64      `json:"value"`
	Note  *string       `json:"note"`
	Date  Field[string] `json:"date"`
}

type GoalService struct {
	clock
	repo         repository.GoalRepository
	progressRepo repository.GoalProgressRepository
}

func NewGoalService(repo repository.GoalRepository, progressRepo repository.GoalProgressRepository, loc *time.Location) *GoalService {
	return &GoalService{clock: newClock(loc), repo: repo, progressRepo: progressRepo}
}

func (s *GoalService) List(ctx context.Context, userID string, filter repository.GoalFilter, p model.Pagination) (model.Page[*model.Goal], error) {
	goals, total, err := s.repo.List(ctx, userID, filter, &p)
	if err != nil {
		return model.Page[*model.Goal]{}, err
	}
	return model.NewPage(goals, total, p), nil
}

func (s *GoalService) All(ctx context.Context, userID string, filter repository.GoalFilter) ([]*model.Goal, error) {
	goals, _, err := s.repo.List(ctx, userID, filter, nil)
	return goals, err
}

func (s *GoalService) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	return s.repo.ByID(ctx, userID, goalID)
}

func (s *GoalService) Create(ctx context.Context, userID string, in GoalInput) (*model.Goal, error) {
	now := s.Now()
	goal := &model.Goal{
		ID:        uuid.New().String(),
		UserID:    userID,
		Status:    model.GoalStatusActive,
		Color:     model.DefaultGoalColor,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}

	errs := validation.Errors{}
	if in.Title == nil {
		errs.Add("title", "title is required")
	}
	if in.Type == nil {
		errs.Add("type", "type is required")
	}
	if !in.StartDate.Set {
		errs.Add("startDate", "startDate is required")
	}
	if !in.EndDate.Set {
		errs.Add("endDate", "endDate is required")
	}
	s.apply(errs, goal, in, now)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return goal, nil
}

func (s *GoalService) Update(ctx context.Context, userID, goalID string, in GoalInput) (*model.Goal, error) {
	goal, err := s.repo.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	errs := validation.Errors{}
	s.apply(errs, goal, in, now)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	goal.UpdatedAt = now.UTC()
	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	return s.repo.Delete(ctx, userID, goalID)
}

// AddProgress records an entry and returns the goal with its new current value.
func (s *GoalService) AddProgress(ctx context.Context, userID, goalID string, in ProgressInput) (*model.GoalProgress, *model.Goal, error) {
	now := s.Now()
	errs := validation.Errors{}
	if in.Value == nil || *in.Value == 0 {
		errs.Add("value", "value must be a non-zero number")
	}
	validation.Optional(errs, "note", in.Note, 500)

	date := now.UTC()
	if in.Date.Set {
		date = requiredDate(errs, "date", in.Date, date, now)
	}
	if err := errs.Err(); err != nil {
		return nil, nil, err
	}

	entry := &model.GoalProgress{
		ID:        uuid.New().String(),
		GoalID:    goalID,
		UserID:    userID,
		Value:     *in.Value,
		Note:      trimmedPtr(in.Note),
		Date:      date,
		CreatedAt: now.UTC(),
	}

	goal, err := s.progressRepo.Add(ctx, entry)
	if err != nil {
		return nil, nil, err
	}
	return entry, goal, nil
}

func (s *GoalService) Progress(ctx context.Context, userID, goalID string) ([]*model.GoalProgress, error) {
	entries, err := s.progressRepo.List(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*model.GoalProgress{}
	}
	return entries, nil
}

func (s *GoalService) DeleteProgress(ctx context.Context, userID, goalID, progressID string) (*model.Goal, error) {
	return s.progressRepo.Delete(ctx, userID, goalID, progressID)
}

func (s *GoalService) apply(errs validation.Errors, goal *model.Goal, in GoalInput, now time.Time) {
	if in.Title != nil {
		validation.Required(errs, "title", *in.Title, 200)
		goal.Title = trimmed(*in.Title)
	}
	if in.Description.Set {
		validation.Optional(errs, "description", in.Description.Value, 2000)
		goal.Description = in.Description.Value
	}
	if in.Type != nil {
		validation.OneOf(errs, "type", *in.Type, model.GoalTypes)
		goal.Type = *in.Type
	}
	if in.TargetValue.Set {
		if v := in.TargetValue.Value; v != nil && *v < 0 {
			errs.Add("targetValue", "targetValue must not be negative")
		}
		goal.TargetValue = in.TargetValue.Value
	}
	if in.Unit != nil {
		validation.MaxLength(errs, "unit", *in.Unit, 50)
		goal.Unit = trimmed(*in.Unit)
	}
	goal.StartDate = requiredDate(errs, "startDate", in.StartDate, goal.StartDate, now)
	goal.EndDate = requiredDate(errs, "endDate", in.EndDate, goal.EndDate, now)
	if !errs.Has("startDate") && !errs.Has("endDate") && goal.EndDate.Before(goal.StartDate) {
		errs.Add("endDate", "endDate must not be before startDate")
	}
	if in.Status != nil {
		validation.OneOf(errs, "status", *in.Status, model.GoalStatuses)
		goal.Status = *in.Status
	}
	if in.Color != nil {
		validation.Color(errs, "color", *in.Color)
		goal.Color = *in.Color
	}
}
