package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/personalhub/hub/internal/model"
	"github.com/personalhub/hub/internal/repository"
	"github.com/personalhub/hub/internal/validation"
)

const (
	SearchTodos   = "todos"
	SearchGoals   = "goals"
	SearchEvents  = "events"
	SearchNotes   = "notes"
	SearchMoments = "moments"

	maxQueryLength     = 200
	momentTitleLength  = 50
	noteSnippetLength  = 200
	truncationEllipsis = "..."
)

var SearchTypes = []string{SearchTodos, SearchGoals, SearchEvents, SearchNotes, SearchMoments}

// SearchResult is the common shape every entity type is normalized into.
type SearchResult struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Content   *string    `json:"content,omitempty"`
	Status    string     `json:"status,omitempty"`
	Priority  string     `json:"priority,omitempty"`
	Date      *time.Time `json:"date,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	URL       string     `json:"url"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type SearchResponse struct {
	Query   string          `json:"query"`
	Types   []string        `json:"types"`
	Results []*SearchResult `json:"results"`
	// Total sums each type's page-bounded hit count before truncation.
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type SearchService struct {
	todos   repository.TodoRepository
	goals   repository.GoalRepository
	events  repository.EventRepository
	notes   repository.NoteRepository
	moments repository.MomentRepository
}

func NewSearchService(
	todos repository.TodoRepository,
	goals repository.GoalRepository,
	events repository.EventRepository,
	notes repository.NoteRepository,
	moments repository.MomentRepository,
) *SearchService {
	return &SearchService{todos: todos, goals: goals, events: events, notes: notes, moments: moments}
}

// ParseSearchTypes splits a comma separated list; empty means every type.
func ParseSearchTypes(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return slices.Clone(SearchTypes), nil
	}

	var types []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(strings.ToLower(t))
		if t == "" {
			continue
		}
		if !slices.Contains(SearchTypes, t) {
			return nil, validation.Field("types", fmt.Sprintf("unknown type %q, expected any of %s", t, strings.Join(SearchTypes, ", ")))
		}
		if !slices.Contains(types, t) {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		return slices.Clone(SearchTypes), nil
	}
	return types, nil
}

// Search runs each type's substring search bounded by the same page, merges
// the hits, sorts them by updatedAt descending and truncates to the limit.
func (s *SearchService) Search(ctx context.Context, userID, query string, types []string, p model.Pagination) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	errs := validation.Errors{}
	validation.Required(errs, "query", query, maxQueryLength)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	if len(types) == 0 {
		types = slices.Clone(SearchTypes)
	}

	var results []*SearchResult
	for _, t := range types {
		hits, err := s.searchType(ctx, userID, t, query, p)
		if err != nil {
			return nil, fmt.Errorf("failed to search %s: %w", t, err)
		}
		results = append(results, hits...)
	}

	total := len(results)
	slices.SortStableFunc(results, func(a, b *SearchResult) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	if len(results) > p.Limit {
		results = results[:p.Limit]
	}
	if results == nil {
		results = []*SearchResult{}
	}

	return &SearchResponse{
		Query:   query,
		Types:   types,
		Results: results,
		Total:   total,
		Limit:   p.Limit,
		Offset:  p.Offset,
	}, nil
}

func (s *SearchService) searchType(ctx context.Context, userID, t, query string, p model.Pagination) ([]*SearchResult, error) {
	var out []*SearchResult
	switch t {
	case SearchTodos:
		todos, _, err := s.todos.List(ctx, userID, repository.TodoFilter{Search: query}, &p)
		if err != nil {
			return nil, err
		}
		for _, todo := range todos {
			out = append(out, &SearchResult{
				ID: todo.ID, Type: t, Title: todo.Title, Content: todo.Description,
				Status: todo.Status, Priority: todo.Priority, Date: todo.DueDate,
				URL: "/todos/" + todo.ID, CreatedAt: todo.CreatedAt, UpdatedAt: todo.UpdatedAt,
			})
		}
	case SearchGoals:
		goals, _, err := s.goals.List(ctx, userID, repository.GoalFilter{Search: query}, &p)
		if err != nil {
			return nil, err
		}
		for _, goal := range goals {
			out = append(out, &SearchResult{
				ID: goal.ID, Type: t, Title: goal.Title, Content: goal.Description,
				Status: goal.Status, Date: ptr(goal.EndDate),
				URL: "/goals/" + goal.ID, CreatedAt: goal.CreatedAt, UpdatedAt: goal.UpdatedAt,
			})
		}
	case SearchEvents:
		events, _, err := s.events.List(ctx, userID, repository.EventFilter{Search: query}, &p)
		if err != nil {
			return nil, err
		}
		for _, event := range events {
			out = append(out, &SearchResult{
				ID: event.ID, Type: t, Title: event.Title, Content: event.Description,
				Date: ptr(event.StartDateTime), URL: "/events/" + event.ID, CreatedAt: event.CreatedAt, UpdatedAt: event.UpdatedAt,
			})
		}
	case SearchNotes:
		notes, _, err := s.notes.List(ctx, userID, repository.NoteFilter{Search: query}, &p)
		if err != nil {
			return nil, err
		}
		for _, note := range notes {
			var content *string
			if note.Content != nil {
				content = ptr(truncate(*note.Content, noteSnippetLength))
			}
			out = append(out, &SearchResult{
				ID: note.ID, Type: t, Title: note.Title, Content: content, Tags: note.Tags,
				URL: "/notes/" + note.ID, CreatedAt: note.CreatedAt, UpdatedAt: note.UpdatedAt,
			})
		}
	case SearchMoments:
		moments, _, err := s.moments.List(ctx, userID, repository.MomentFilter{Search: query}, &p)
		if err != nil {
			return nil, err
		}
		for _, moment := range moments {
			out = append(out, &SearchResult{
				ID: moment.ID, Type: t, Title: truncate(moment.Content, momentTitleLength),
				Content: ptr(moment.Content), Tags: moment.Tags,
				URL: "/moments", CreatedAt: moment.CreatedAt, UpdatedAt: moment.UpdatedAt,
			})
		}
	}
	return out, nil
}

// truncate cuts s to n runes and appends an ellipsis when it was longer.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + truncationEllipsis
}
