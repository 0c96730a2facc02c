package service

import (
	"context"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/personalhub/hub/internal/model"
	"github.com/personalhub/hub/internal/repository"
	"github.com/personalhub/hub/internal/validation"
)

const (
	DefaultRecentLimit   = 5
	MaxRecentLimit       = 10
	DefaultActivityLimit = 10
	MaxActivityLimit     = 50
)

const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionCompleted = "completed"
)

type TodoSummary struct {
	Total     int           `json:"total"`
	Completed int           `json:"completed"`
	Pending   int           `json:"pending"`
	Recent    []*model.Todo `json:"recent"`
}

type GoalSummary struct {
	Total      int           `json:"total"`
	InProgress int           `json:"inProgress"`
	Completed  int           `json:"completed"`
	Recent     []*model.Goal `json:"recent"`
}

type EventSummary struct {
	Total          int            `json:"total"`
	Upcoming       int            `json:"upcoming"`
	Today          int            `json:"today"`
	UpcomingEvents []*model.Event `json:"upcomingEvents"`
}

type NoteSummary struct {
	Total  int           `json:"total"`
	Recent []*model.Note `json:"recent"`
}

type MomentSummary struct {
	Total  int             `json:"total"`
	Today  int             `json:"today"`
	Recent []*model.Moment `json:"recent"`
}

type PomodoroSummary struct {
	TodaySessions int            `json:"todaySessions"`
	TodayMinutes  int            `json:"todayMinutes"`
	WeekSessions  int            `json:"weekSessions"`
	WeekMinutes   int            `json:"weekMinutes"`
	ActiveSession *ActiveSession `json:"activeSession"`
}

type DashboardStats struct {
	Todos       TodoSummary     `json:"todos"`
	Goals       GoalSummary     `json:"goals"`
	Events      EventSummary    `json:"events"`
	Notes       NoteSummary     `json:"notes"`
	Moments     MomentSummary   `json:"moments"`
	Pomodoro    PomodoroSummary `json:"pomodoro"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

type ActivityItem struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Action      string         `json:"action"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Timestamp   time.Time      `json:"timestamp"`
	Metadata    map[string]any `json:"metadata"`
}

type ActivityFeed struct {
	Activities []*ActivityItem `json:"activities"`
	HasMore    bool            `json:"hasMore"`
}

type DashboardService struct {
	clock
	todos    repository.TodoRepository
	goals    repository.GoalRepository
	events   repository.EventRepository
	notes    repository.NoteRepository
	moments  repository.MomentRepository
	sessions repository.PomodoroSessionRepository
	pomodoro *PomodoroService
}

func NewDashboardService(
	todos repository.TodoRepository,
	goals repository.GoalRepository,
	events repository.EventRepository,
	notes repository.NoteRepository,
	moments repository.MomentRepository,
	sessions repository.PomodoroSessionRepository,
	pomodoro *PomodoroService,
	loc *time.Location,
) *DashboardService {
	return &DashboardService{
		clock:    newClock(loc),
		todos:    todos,
		goals:    goals,
		events:   events,
		notes:    notes,
		moments:  moments,
		sessions: sessions,
		pomodoro: pomodoro,
	}
}

// Stats reads the six sections concurrently; the first failure cancels the rest.
func (s *DashboardService) Stats(ctx context.Context, userID string, recentLimit int) (*DashboardStats, error) {
	if recentLimit < 1 || recentLimit > MaxRecentLimit {
		return nil, validation.Field("recentLimit", "recentLimit must be between 1 and 10")
	}

	now := s.Now()
	dayStart, dayEnd := validation.StartOfDay(now), validation.EndOfDay(now)
	stats := &DashboardStats{GeneratedAt: now.UTC()}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		t := &stats.Todos
		if t.Total, err = s.todos.Count(ctx, userID, ""); err != nil {
			return err
		}
		if t.Completed, err = s.todos.Count(ctx, userID, model.TodoStatusDone); err != nil {
			return err
		}
		t.Pending = t.Total - t.Completed
		t.Recent, err = s.todos.Recent(ctx, userID, recentLimit)
		t.Recent = nonNil(t.Recent)
		return err
	})

	g.Go(func() (err error) {
		gs := &stats.Goals
		if gs.Total, err = s.goals.Count(ctx, userID, ""); err != nil {
			return err
		}
		if gs.InProgress, err = s.goals.Count(ctx, userID, model.GoalStatusActive); err != nil {
			return err
		}
		if gs.Completed, err = s.goals.Count(ctx, userID, model.GoalStatusCompleted); err != nil {
			return err
		}
		gs.Recent, err = s.goals.Recent(ctx, userID, recentLimit)
		gs.Recent = nonNil(gs.Recent)
		return err
	})

	g.Go(func() (err error) {
		e := &stats.Events
		if e.Total, err = s.events.Count(ctx, userID, nil, nil); err != nil {
			return err
		}
		if e.Upcoming, err = s.events.Count(ctx, userID, &now, nil); err != nil {
			return err
		}
		if e.Today, err = s.events.Count(ctx, userID, &dayStart, &dayEnd); err != nil {
			return err
		}
		e.UpcomingEvents, err = s.events.Upcoming(ctx, userID, now, recentLimit)
		e.UpcomingEvents = nonNil(e.UpcomingEvents)
		return err
	})

	g.Go(func() (err error) {
		n := &stats.Notes
		if n.Total, err = s.notes.Count(ctx, userID); err != nil {
			return err
		}
		n.Recent, err = s.notes.RecentlyUpdated(ctx, userID, recentLimit)
		n.Recent = nonNil(n.Recent)
		return err
	})

	g.Go(func() (err error) {
		m := &stats.Moments
		if m.Total, err = s.moments.Count(ctx, userID, nil, nil); err != nil {
			return err
		}
		if m.Today, err = s.moments.Count(ctx, userID, &dayStart, &dayEnd); err != nil {
			return err
		}
		m.Recent, err = s.moments.Recent(ctx, userID, recentLimit)
		m.Recent = nonNil(m.Recent)
		return err
	})

	g.Go(func() error {
		p := &stats.Pomodoro
		today, err := s.sessions.Totals(ctx, userID, "", dayStart, dayEnd)
		if err != nil {
			return err
		}
		week, err := s.sessions.Totals(ctx, userID, "", now.Add(-7*24*time.Hour), now)
		if err != nil {
			return err
		}
		p.TodaySessions, p.TodayMinutes = today.Sessions, today.Seconds/60
		p.WeekSessions, p.WeekMinutes = week.Sessions, week.Seconds/60
		p.ActiveSession, err = s.pomodoro.Active(ctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// Activity merges the most recently touched todos, goals and moments,
// ceil(limit/3) of each, newest first.
func (s *DashboardService) Activity(ctx context.Context, userID string, limit int) (*ActivityFeed, error) {
	if limit < 1 || limit > MaxActivityLimit {
		return nil, validation.Field("limit", "limit must be between 1 and 50")
	}
	perType := (limit + 2) / 3

	var todos []*model.Todo
	var goals []*model.Goal
	var moments []*model.Moment

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		todos, err = s.todos.RecentlyUpdated(gctx, userID, perType)
		return err
	})
	g.Go(func() (err error) {
		goals, err = s.goals.RecentlyUpdated(gctx, userID, perType)
		return err
	})
	g.Go(func() (err error) {
		moments, err = s.moments.Recent(gctx, userID, perType)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]*ActivityItem, 0, len(todos)+len(goals)+len(moments))
	for _, t := range todos {
		action := ActionUpdated
		if t.IsDone() {
			action = ActionCompleted
		}
		items = append(items, &ActivityItem{
			ID:          t.ID,
			Type:        "todo",
			Action:      action,
			Title:       t.Title,
			Description: t.Description,
			Timestamp:   t.UpdatedAt,
			Metadata:    map[string]any{"status": t.Status, "priority": t.Priority},
		})
	}
	for _, goal := range goals {
		action := ActionUpdated
		if goal.Status == model.GoalStatusCompleted {
			action = ActionCompleted
		}
		items = append(items, &ActivityItem{
			ID:          goal.ID,
			Type:        "goal",
			Action:      action,
			Title:       goal.Title,
			Description: goal.Description,
			Timestamp:   goal.UpdatedAt,
			Metadata: map[string]any{
				"status":       goal.Status,
				"currentValue": goal.CurrentValue,
				"targetValue":  goal.TargetValue,
				"unit":         goal.Unit,
			},
		})
	}
	for _, m := range moments {
		items = append(items, &ActivityItem{
			ID:          m.ID,
			Type:        "moment",
			Action:      ActionCreated,
			Title:       truncate(m.Content, momentTitleLength),
			Description: ptr(m.Content),
			Timestamp:   m.CreatedAt,
			Metadata:    map[string]any{"tags": m.Tags},
		})
	}

	slices.SortStableFunc(items, func(a, b *ActivityItem) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	feed := &ActivityFeed{HasMore: len(items) > limit}
	if feed.HasMore {
		items = items[:limit]
	}
	feed.Activities = items
	return feed, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
