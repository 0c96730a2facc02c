package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/personalhub/hub/internal/markdown"
	"github.com/personalhub/hub/internal/model"
	"github.com/personalhub/hub/internal/repository"
	"github.com/personalhub/hub/internal/validation"
)

const (
	maxTags      = 20
	maxTagLength = 50
)

type NoteInput struct {
	Title   *string       `json:"title"`
	Content Field[string] `json:"content"`
	Tags    *[]string     `json:"tags"`
}

type NoteService struct {
	clock
	repo   repository.NoteRepository
	parser *markdown.Parser
}

func NewNoteService(repo repository.NoteRepository, loc *time.Location) *NoteService {
	return &NoteService{clock: newClock(loc), repo: repo, parser: markdown.NewParser()}
}

func (s *NoteService) List(ctx context.Context, userID string, filter repository.NoteFilter, p model.Pagination) (model.Page[*model.Note], error) {
	notes, total, err := s.repo.List(ctx, userID, filter, &p)
	if err != nil {
		return model.Page[*model.Note]{}, err
	}
	return model.NewPage(notes, total, p), nil
}

func (s *NoteService) All(ctx context.Context, userID string, filter repository.NoteFilter) ([]*model.Note, error) {
	notes, _, err := s.repo.List(ctx, userID, filter, nil)
	return notes, err
}

func (s *NoteService) ByID(ctx context.Context, userID, noteID string) (*model.Note, error) {
	return s.repo.ByID(ctx, userID, noteID)
}

func (s *NoteService) Create(ctx context.Context, userID string, in NoteInput) (*model.Note, error) {
	now := s.Now().UTC()
	note := &model.Note{
		ID:        uuid.New().String(),
		UserID:    userID,
		Tags:      model.StringList{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	errs := validation.Errors{}
	if in.Title == nil {
		errs.Add("title", "title is required")
	}
	s.apply(errs, note, in)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return note, nil
}

func (s *NoteService) Update(ctx context.Context, userID, noteID string, in NoteInput) (*model.Note, error) {
	note, err := s.repo.ByID(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	errs := validation.Errors{}
	s.apply(errs, note, in)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	note.UpdatedAt = s.Now().UTC()
	if err := s.repo.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	return s.repo.Delete(ctx, userID, noteID)
}

// HTML renders the note's markdown content.
func (s *NoteService) HTML(ctx context.Context, userID, noteID string) (string, error) {
	note, err := s.repo.ByID(ctx, userID, noteID)
	if err != nil {
		return "", err
	}
	if note.Content == nil {
		return "", nil
	}

	html, err := s.parser.Render([]byte(*note.Content))
	if err != nil {
		return "", fmt.Errorf("failed to render note: %w", err)
	}
	return string(html), nil
}

// apply merges frontmatter tags from the content after any explicit tags,
// keeping first-seen order.
func (s *NoteService) apply(errs validation.Errors, note *model.Note, in NoteInput) {
	if in.Title != nil {
		validation.Required(errs, "title", *in.Title, 200)
		note.Title = trimmed(*in.Title)
	}
	if in.Content.Set {
		validation.Optional(errs, "content", in.Content.Value, 100000)
		note.Content = in.Content.Value
	}

	if in.Tags == nil && !in.Content.Set {
		return
	}

	tags := []string(note.Tags)
	if in.Tags != nil {
		tags = *in.Tags
	}
	if in.Content.Set && note.Content != nil {
		tags = append(append([]string{}, tags...), s.parser.Tags([]byte(*note.Content))...)
	}
	note.Tags = validation.Tags(errs, "tags", tags, maxTags, maxTagLength)
}
