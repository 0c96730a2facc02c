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

type EventInput struct {
	Title           *string       `json:"title"`
	Description     Field[string] `json:"description"`
	StartDateTime   Field[string] `json:"startDateTime"`
	EndDateTime     Field[string] `json:"endDateTime"`
	AllDay          *bool         `json:"allDay"`
	Location        Field[string] `json:"location"`
	ReminderMinutes Field[int]    `json:"reminderMinutes"`
	Color           Field[string] `json:"color"`
}

type EventService struct {
	clock
	repo repository.EventRepository
}

func NewEventService(repo repository.EventRepository, loc *time.Location) *EventService {
	return &EventService{clock: newClock(loc), repo: repo}
}

func (s *EventService) List(ctx context.Context, userID string, filter repository.EventFilter, p model.Pagination) (model.Page[*model.Event], error) {
	events, total, err := s.repo.List(ctx, userID, filter, &p)
	if err != nil {
		return model.Page[*model.Event]{}, err
	}
	return model.NewPage(events, total, p), nil
}

func (s *EventService) All(ctx context.Context, userID string, filter repository.EventFilter) ([]*model.Event, error) {
	events, _, err := s.repo.List(ctx, userID, filter, nil)
	return events, err
}

func (s *EventService) ByID(ctx context.Context, userID, eventID string) (*model.Event, error) {
	return s.repo.ByID(ctx, userID, eventID)
}

func (s *EventService) Create(ctx context.Context, userID string, in EventInput) (*model.Event, error) {
	now := s.Now()
	event := &model.Event{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}

	errs := validation.Errors{}
	if in.Title == nil {
		errs.Add("title", "title is required")
	}
	if !in.StartDateTime.Set {
		errs.Add("startDateTime", "startDateTime is required")
	}
	if !in.EndDateTime.Set {
		errs.Add("endDateTime", "endDateTime is required")
	}
	s.apply(errs, event, in, now)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *EventService) Update(ctx context.Context, userID, eventID string, in EventInput) (*model.Event, error) {
	event, err := s.repo.ByID(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	errs := validation.Errors{}
	s.apply(errs, event, in, now)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	event.UpdatedAt = now.UTC()
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, userID, eventID string) error {
	return s.repo.Delete(ctx, userID, eventID)
}

func (s *EventService) apply(errs validation.Errors, event *model.Event, in EventInput, now time.Time) {
	if in.Title != nil {
		validation.Required(errs, "title", *in.Title, 200)
		event.Title = trimmed(*in.Title)
	}
	if in.Description.Set {
		validation.Optional(errs, "description", in.Description.Value, 2000)
		event.Description = in.Description.Value
	}
	event.StartDateTime = requiredDate(errs, "startDateTime", in.StartDateTime, event.StartDateTime, now)
	event.EndDateTime = requiredDate(errs, "endDateTime", in.EndDateTime, event.EndDateTime, now)
	if !errs.Has("startDateTime") && !errs.Has("endDateTime") && !event.EndDateTime.After(event.StartDateTime) {
		errs.Add("endDateTime", "endDateTime must be after startDateTime")
	}
	if in.AllDay != nil {
		event.AllDay = *in.AllDay
	}
	if in.Location.Set {
		validation.Optional(errs, "location", in.Location.Value, 200)
		event.Location = in.Location.Value
	}
	if in.ReminderMinutes.Set {
		if v := in.ReminderMinutes.Value; v != nil {
			validation.IntBetween(errs, "reminderMinutes", *v, 0, 10080)
		}
		event.ReminderMinutes = in.ReminderMinutes.Value
	}
	if in.Color.Set {
		if v := in.Color.Value; v != nil {
			validation.Color(errs, "color", *v)
		}
		event.Color = in.Color.Value
	}
}
