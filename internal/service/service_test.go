package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personalhub/hub/internal/db/dbtest"
	"github.com/personalhub/hub/internal/model"
	"github.com/personalhub/hub/internal/repository"
	"github.com/personalhub/hub/internal/validation"
)

// hub wires every service against one migrated database.
type hub struct {
	db        *sqlx.DB
	userID    string
	todos     *TodoService
	goals     *GoalService
	events    *EventService
	notes     *NoteService
	moments   *MomentService
	pomodoro  *PomodoroService
	search    *SearchService
	dashboard *DashboardService
	export    *ExportService

	todoRepo    repository.TodoRepository
	eventRepo   repository.EventRepository
	momentRepo  repository.MomentRepository
	sessionRepo repository.PomodoroSessionRepository
}

func newHub(t *testing.T, loc *time.Location) *hub {
	t.Helper()

	database := dbtest.New(t)
	h := &hub{
		db:          database,
		userID:      dbtest.User(t, database),
		todoRepo:    repository.NewTodoRepository(database),
		eventRepo:   repository.NewEventRepository(database),
		momentRepo:  repository.NewMomentRepository(database),
		sessionRepo: repository.NewPomodoroSessionRepository(database),
	}
	goalRepo := repository.NewGoalRepository(database)
	noteRepo := repository.NewNoteRepository(database)

	h.todos = NewTodoService(h.todoRepo, loc)
	h.goals = NewGoalService(goalRepo, repository.NewGoalProgressRepository(database), loc)
	h.events = NewEventService(h.eventRepo, loc)
	h.notes = NewNoteService(noteRepo, loc)
	h.moments = NewMomentService(h.momentRepo, loc)
	h.pomodoro = NewPomodoroService(h.sessionRepo, repository.NewPomodoroConfigRepository(database), loc)
	h.search = NewSearchService(h.todoRepo, goalRepo, h.eventRepo, noteRepo, h.momentRepo)
	h.dashboard = NewDashboardService(h.todoRepo, goalRepo, h.eventRepo, noteRepo, h.momentRepo, h.sessionRepo, h.pomodoro, loc)
	h.export = NewExportService(h.todos, h.goals, h.events, h.notes, h.moments, h.pomodoro, nil, time.Hour, loc)
	return h
}

// freeze pins "now" for every service.
func (h *hub) freeze(now time.Time) {
	fixed := func() time.Time { return now }
	for _, c := range []*clock{
		&h.todos.clock, &h.goals.clock, &h.events.clock, &h.notes.clock,
		&h.moments.clock, &h.pomodoro.clock, &h.dashboard.clock, &h.export.clock,
	} {
		c.now = fixed
	}
}

func requireFieldError(t *testing.T, err error, field string) validation.Errors {
	t.Helper()
	var verr validation.Errors
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	assert.Contains(t, verr, field)
	return verr
}

func TestToggleStatusIsThreeCycle(t *testing.T) {
	h := newHub(t, time.UTC)
	ctx := context.Background()

	todo, err := h.todos.Create(ctx, h.userID, TodoInput{Title: ptr("Write report")})
	require.NoError(t, err)
	require.Equal(t, "TODO", todo.Status)

	want := []string{"IN_PROGRESS", "DONE", "TODO", "IN_PROGRESS"}
	for _, status := range want {
		todo, err = h.todos.ToggleStatus(ctx, h.userID, todo.ID)
		require.NoError(t, err)
		assert.Equal(t, status, todo.Status)
	}
}

func TestTodoRoundTrip(t *testing.T) {
	h := newHub(t, time.UTC)
	ctx := context.Background()

	created, err := h.todos.Create(ctx, h.userID, TodoInput{
		Title:       ptr("  Plan trip  "),
		Description: Some("flights and hotel"),
		Priority:    ptr("HIGH"),
		DueDate:     Some("2026-11-01"),
	})
	require.NoError(t, err)

	got, err := h.todos.ByID(ctx, h.userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Plan trip", got.Title)
	assert.Equal(t, "flights and hotel", *got.Description)
	assert.Equal(t, "HIGH", got.Priority)
	require.NotNil(t, got.DueDate)
	assert.True(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC).Equal(*got.DueDate))

	_, err = h.todos.ByID(ctx, dbtest.User(t, h.db), created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTodoValidation(t *testing.T) {
	h := newHub(t, time.UTC)
	ctx := context.Background()

	_, err := h.todos.Create(ctx, h.userID, TodoInput{})
	requireFieldError(t, err, "title")

	_, err = h.todos.Create(ctx, h.userID, TodoInput{Title: ptr("x"), Status: ptr("LATER")})
	requireFieldError(t, err, "status")

	_, err = h.todos.Create(ctx, h.userID, TodoInput{Title: ptr("x"), ParentID: Some("missing")})
	requireFieldError(t, err, "parentId")
}

func TestCycleGuardWalksWholeChain(t *testing.T) {
	h := newHub(t, time.UTC)
	ctx := context.Background()

	a, err := h.todos.Create(ctx, h.userID, TodoInput{Title: ptr("a")})
	require.NoError(t, err)
	b, err := h.todos.Create(ctx, h.userID, TodoInput{Title: ptr("b"), ParentID: Some(a.ID)})
	require.NoError(t, err)
	c, err := h.todos.Create(ctx, h.userID, TodoInput{Title: ptr("c"), ParentID: Some(b.ID)})
	require.NoError(t, err)

	_, err = h.todos.Update(ctx, h.userID, a.ID, TodoInput{ParentID: Some(c.ID)})
	requireFieldError(t, err, "parentId")

	_, err = h.todos.Update(ctx, h.userID, a.ID, TodoInput{ParentID: Some(a.ID)})
	requireFieldError(t, err, "parentId")

	// Moving c under a is fine.
	moved, err := h.todos.Update(ctx, h.userID, c.ID, TodoInput{ParentID: Some(a.ID)})
	require.NoError(t, err)
	assert.Equal(t, a.ID, *moved.ParentID)

	children, err := h.todos.Children(ctx, h.userID, a.ID)
	require.NoError(t, err)
	assert.Len(t, children, 2)
}

func TestCompletingRepeatingTodoSchedulesOnce(t *testing.T) {
	h := newHub(t, time.UTC)
	h.freeze(time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	todo, err := h.todos.Create(ctx, h.userID, TodoInput{
		Title:          ptr("Pay rent"),
		DueDate:        Some("2026-01-31"),
		RepeatType:     Some("MONTHLY"),
		RepeatInterval: ptr(1),
	})
	require.NoError(t, err)

	_, err = h.todos.Update(ctx, h.userID, todo.ID, TodoInput{Status: ptr("DONE")})
	require.NoError(t, err)
	// Already DONE: no second occurrence.
	_, err = h.todos.Update(ctx, h.userID, todo.ID, TodoInput{Status: ptr("DONE")})
	require.NoError(t, err)

	all, err := h.todos.All(ctx, h.userID, repository.TodoFilter{Status: "TODO"})
	require.NoError(t, err)
	require.Len(t, all, 1)
	next := all[0]
	assert.NotEqual(t, todo.ID, next.ID)
	assert.Equal(t, "Pay rent", next.Title)
	assert.True(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC).Equal(*next.DueDate))
	assert.Nil(t, next.NextOccurrenceID)

	source, err := h.todos.ByID(ctx, h.userID, todo.ID)
	require.NoError(t, err)
	require.NotNil(t, source.NextOccurrenceID)
	assert.Equal(t, next.ID, *source.NextOccurrenceID)
}

func TestToggleCyclesScheduleOneOccurrence(t *testing.T) {
	h := newHub(t, time.UTC)
	h.freeze(time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	todo, err := h.todos.Create(ctx, h.userID, TodoInput{
		Title:          ptr("Pay rent"),
		DueDate:        Some("2026-01-31"),
		RepeatType:     Some("MONTHLY"),
		RepeatInterval: ptr(1),
	})
	require.NoError(t, err)

	// Two full TODO -> IN_PROGRESS -> DONE -> TODO cycles.
	for range 6 {
		_, err := h.todos.ToggleStatus(ctx, h.userID, todo.ID)
		require.NoError(t, err)
	}

	all, err := h.todos.All(ctx, h.userID, repository.TodoFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	var occurrences []*model.Todo
	for _, item := range all {
		if item.ID != todo.ID {
			occurrences = append(occurrences, item)
		}
	}
	require.Len(t, occurrences, 1)
	assert.Equal(t, model.TodoStatusTodo, occurrences[0].Status)
	assert.True(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC).Equal(*occurrences[0].DueDate))
}

func TestNextDueDate(t *testing.T) {
	day := func(y int, m time.Month, d int) *time.Time {
		v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &v
	}
	repeat := func(kind string) *string { return &kind }

	cases := []struct {
		name  string
		due   *time.Time
		kind  string
		every int
		days  []int
		end   *time.Time
		want  *time.Time
	}{
		{name: "daily", due: day(2026, 10, 12), kind: "DAILY", every: 2, want: day(2026, 10, 14)},
		{name: "weekly listed days", due: day(2026, 10, 12), kind: "WEEKLY", every: 1, days: []int{1, 3}, want: day(2026, 10, 14)},
		{name: "biweekly monday", due: day(2026, 10, 12), kind: "WEEKLY", every: 2, days: []int{1}, want: day(2026, 10, 26)},
		{name: "weekly no days", due: day(2026, 10, 12), kind: "WEEKLY", every: 1, want: day(2026, 10, 19)},
		{name: "monthly clamps", due: day(2026, 1, 31), kind: "MONTHLY", every: 1, want: day(2026, 2, 28)},
		{name: "yearly leap day", due: day(2028, 2, 29), kind: "YEARLY", every: 1, want: day(2029, 2, 28)},
		{name: "past end date", due: day(2026, 10, 12), kind: "DAILY", every: 1, end: day(2026, 10, 12)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			todo := &model.Todo{
				DueDate:          tc.due,
				RepeatType:       repeat(tc.kind),
				RepeatInterval:   tc.every,
				RepeatDaysOfWeek: tc.days,
				RepeatEndDate:    tc.end,
			}
			got, ok := nextDueDate(todo, time.UTC)
			if tc.want == nil {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.True(t, tc.want.Equal(got), "got %s", got)
		})
	}
}

func TestGoalProgressKeepsRunningSum(t *testing.T) {
	h := newHub(t, time.UTC)
	ctx := context.Background()

	goal, err := h.goals.Create(ctx, h.userID, GoalInput{
		Title:       ptr("Read"),
		Type:        ptr("ANNUAL"),
		TargetValue: Some(10.0),
		Unit:        ptr("books"),
		StartDate:   Some("2026-01-01"),
		EndDate:     Some("2026-12-31"),
	})
	require.NoError(t, err)

	var last *model.GoalProgress
	for _, v := range []float64{2, 3.5, 1} {
		last, goal, err = h.goals.AddProgress(ctx, h.userID, goal.ID, ProgressInput{Value: ptr(v)})
		require.NoError(t, err)
	}
	assert.InDelta(t, 6.5, goal.CurrentValue, 1e-9)

	entries, err := h.goals.Progress(ctx, h.userID, goal.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	goal, err = h.goals.DeleteProgress(ctx, h.userID, goal.ID, last.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.5, goal.CurrentValue, 1e-9)

	_, _, err = h.goals.AddProgress(ctx, h.userID, goal.ID, ProgressInput{Value: ptr(0.0)})
	requireFieldError(t, err, "value")

	_, _, err = h.goals.AddProgress(ctx, h.userID, "missing", ProgressInput{Value: ptr(1.0)})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGoalDateOrder(t *testing.T) {
	h := newHub(t, time.UTC)

	_, err := h.goals.Create(context.Background(), h.userID, GoalInput{
		Title:     ptr("Backwards"),
		Type:      ptr("MONTHLY"),
		StartDate: Some("2026-10-31"),
		EndDate:   Some("2026-10-01"),
	})
	requireFieldError(t, err, "endDate")
}

func TestEventDateOrder(t *testing.T) {
	h := newHub(t, time.UTC)
	ctx := context.Background()

	for _, end := range []string{"2026-10-17T09:00:00Z", "2026-10-17T10:00:00Z"} {
		_, err := h.events.Create(ctx, h.userID, EventInput{
			Title:         ptr("Standup"),
			StartDateTime: Some("2026-10-17T10:00:00Z"),
			EndDateTime:   Some(end),
		})
		verr := requireFieldError(t, err, "endDateTime")
		assert.Equal(t, "endDateTime must be after startDateTime", verr["endDateTime"])
	}

	event, err := h.events.Create(ctx, h.userID, EventInput{
		Title:         ptr("Standup"),
		StartDateTime: Some("2026-10-17T10:00:00Z"),
		EndDateTime:   Some("2026-10-17T10:15:00Z"),
		Location:      Some("Room 4"),
	})
	require.NoError(t, err)

	// Moving only the start past the stored end is also rejected.
	_, err = h.events.Update(ctx, h.userID, event.ID, EventInput{StartDateTime: Some("2026-10-17T11:00:00Z")})
	requireFieldError(t, err, "endDateTime")
}

func TestNoteFrontmatterTagsAndHTML(t *testing.T) {
	h := newHub(t, time.UTC)
	ctx := context.Background()

	content := "---\ntags: [recipes, home]\n---\n# Pancakes\n\nMix *well*."
	note, err := h.notes.Create(ctx, h.userID, NoteInput{
		Title:   ptr("Pancakes"),
		Content: Some(content),
		Tags:    &[]string{"home", "food"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"home", "food", "recipes"}, []string(note.Tags))

	html, err := h.notes.HTML(ctx, h.userID, note.ID)
	require.NoError(t, err)
	assert.Contains(t, html, "Pancakes</h1>")
	assert.Contains(t, html, "<em>well</em>")
	assert.NotContains(t, html, "tags:")
}
