package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/personalhub/hub/internal/export"
	"github.com/personalhub/hub/internal/repository"
	"github.com/personalhub/hub/internal/storage"
	"github.com/personalhub/hub/internal/validation"
)

var ErrStorageUnavailable = errors.New("export storage is not configured")

// ExportRequest selects one resource and its list filter. Filters is echoed
// in the JSON metadata and holds only what the caller supplied.
type ExportRequest struct {
	Resource string
	Format   string
	Filters  map[string]any

	Todos    repository.TodoFilter
	Goals    repository.GoalFilter
	Events   repository.EventFilter
	Notes    repository.NoteFilter
	Moments  repository.MomentFilter
	Sessions repository.PomodoroSessionFilter
}

type ExportFile struct {
	Filename    string
	ContentType string
	Records     int
	Body        []byte
}

type ArchivedExport struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ExportService struct {
	clock
	todos      *TodoService
	goals      *GoalService
	events     *EventService
	notes      *NoteService
	moments    *MomentService
	pomodoro   *PomodoroService
	storage    storage.Storage
	linkExpiry time.Duration
}

// NewExportService accepts a nil store; archiving then reports ErrStorageUnavailable.
func NewExportService(
	todos *TodoService,
	goals *GoalService,
	events *EventService,
	notes *NoteService,
	moments *MomentService,
	pomodoro *PomodoroService,
	store storage.Storage,
	linkExpiry time.Duration,
	loc *time.Location,
) *ExportService {
	return &ExportService{
		clock:      newClock(loc),
		todos:      todos,
		goals:      goals,
		events:     events,
		notes:      notes,
		moments:    moments,
		pomodoro:   pomodoro,
		storage:    store,
		linkExpiry: linkExpiry,
	}
}

// Export renders every matching record of one resource.
func (s *ExportService) Export(ctx context.Context, userID string, req ExportRequest) (*ExportFile, error) {
	errs := validation.Errors{}
	validation.OneOf(errs, "resource", req.Resource, export.Resources)
	if req.Format == "" {
		req.Format = export.FormatJSON
	}
	validation.OneOf(errs, "format", req.Format, export.Formats)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	data, table, err := s.load(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	var buf bytes.Buffer
	if req.Format == export.FormatCSV {
		err = export.WriteCSV(&buf, table)
	} else {
		err = export.WriteJSON(&buf, export.Metadata{
			ExportDate:  now.UTC(),
			RecordCount: len(table.Rows),
			Filters:     req.Filters,
		}, data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write %s export: %w", req.Format, err)
	}

	return &ExportFile{
		Filename:    export.Filename(req.Resource, req.Format, now),
		ContentType: export.ContentType(req.Format),
		Records:     len(table.Rows),
		Body:        buf.Bytes(),
	}, nil
}

// Archive writes the export to storage under exports/{userID}/ and returns
// a presigned download link.
func (s *ExportService) Archive(ctx context.Context, userID string, req ExportRequest) (*ArchivedExport, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	file, err := s.Export(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("exports/%s/%s", userID, file.Filename)
	if err := s.storage.Save(ctx, key, file.ContentType, bytes.NewReader(file.Body)); err != nil {
		return nil, err
	}

	url, err := s.storage.PresignedURL(ctx, key, s.linkExpiry)
	if err != nil {
		return nil, err
	}

	slog.Info("export archived", "user_id", userID, "key", key, "records", file.Records)

	return &ArchivedExport{
		Key:       key,
		URL:       url,
		ExpiresAt: s.Now().Add(s.linkExpiry).UTC(),
	}, nil
}

func (s *ExportService) load(ctx context.Context, userID string, req ExportRequest) (any, export.Table, error) {
	switch req.Resource {
	case export.ResourceTodos:
		items, err := s.todos.All(ctx, userID, req.Todos)
		return nonNil(items), export.Todos(items), err
	case export.ResourceGoals:
		items, err := s.goals.All(ctx, userID, req.Goals)
		return nonNil(items), export.Goals(items), err
	case export.ResourceEvents:
		items, err := s.events.All(ctx, userID, req.Events)
		return nonNil(items), export.Events(items), err
	case export.ResourceNotes:
		items, err := s.notes.All(ctx, userID, req.Notes)
		return nonNil(items), export.Notes(items), err
	case export.ResourceMoments:
		items, err := s.moments.All(ctx, userID, req.Moments)
		return nonNil(items), export.Moments(items), err
	default:
		items, err := s.pomodoro.All(ctx, userID, req.Sessions)
		return nonNil(items), export.PomodoroSessions(items), err
	}
}
