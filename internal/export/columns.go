package export

import (
	"github.com/personalhub/hub/internal/model"
)

const (
	ResourceTodos            = "todos"
	ResourceGoals            = "goals"
	ResourceEvents           = "events"
	ResourceNotes            = "notes"
	ResourceMoments          = "moments"
	ResourcePomodoroSessions = "pomodoro-sessions"
)

var Resources = []string{
	ResourceTodos,
	ResourceGoals,
	ResourceEvents,
	ResourceNotes,
	ResourceMoments,
	ResourcePomodoroSessions,
}

type column[T any] struct {
	name  string
	value func(T) any
}

func table[T any](columns []column[T], items []T) Table {
	t := Table{
		Header: make([]string, len(columns)),
		Rows:   make([][]any, 0, len(items)),
	}
	for i, c := range columns {
		t.Header[i] = c.name
	}
	for _, item := range items {
		row := make([]any, len(columns))
		for i, c := range columns {
			row[i] = c.value(item)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

var todoColumns = []column[*model.Todo]{
	{"id", func(t *model.Todo) any { return t.ID }},
	{"title", func(t *model.Todo) any { return t.Title }},
	{"description", func(t *model.Todo) any { return t.Description }},
	{"status", func(t *model.Todo) any { return t.Status }},
	{"priority", func(t *model.Todo) any { return t.Priority }},
	{"dueDate", func(t *model.Todo) any { return t.DueDate }},
	{"parentId", func(t *model.Todo) any { return t.ParentID }},
	{"repeatType", func(t *model.Todo) any { return t.RepeatType }},
	{"repeatInterval", func(t *model.Todo) any { return t.RepeatInterval }},
	{"repeatDaysOfWeek", func(t *model.Todo) any { return []int(t.RepeatDaysOfWeek) }},
	{"repeatDayOfMonth", func(t *model.Todo) any { return t.RepeatDayOfMonth }},
	{"repeatEndDate", func(t *model.Todo) any { return t.RepeatEndDate }},
	{"createdAt", func(t *model.Todo) any { return t.CreatedAt }},
	{"updatedAt", func(t *model.Todo) any { return t.UpdatedAt }},
}

var goalColumns = []column[*model.Goal]{
	{"id", func(g *model.Goal) any { return g.ID }},
	{"title", func(g *model.Goal) any { return g.Title }},
	{"description", func(g *model.Goal) any { return g.Description }},
	{"type", func(g *model.Goal) any { return g.Type }},
	{"status", func(g *model.Goal) any { return g.Status }},
	{"targetValue", func(g *model.Goal) any { return g.TargetValue }},
	{"currentValue", func(g *model.Goal) any { return g.CurrentValue }},
	{"unit", func(g *model.Goal) any { return g.Unit }},
	{"startDate", func(g *model.Goal) any { return g.StartDate }},
	{"endDate", func(g *model.Goal) any { return g.EndDate }},
	{"color", func(g *model.Goal) any { return g.Color }},
	{"createdAt", func(g *model.Goal) any { return g.CreatedAt }},
	{"updatedAt", func(g *model.Goal) any { return g.UpdatedAt }},
}

var eventColumns = []column[*model.Event]{
	{"id", func(e *model.Event) any { return e.ID }},
	{"title", func(e *model.Event) any { return e.Title }},
	{"description", func(e *model.Event) any { return e.Description }},
	{"startDateTime", func(e *model.Event) any { return e.StartDateTime }},
	{"endDateTime", func(e *model.Event) any { return e.EndDateTime }},
	{"allDay", func(e *model.Event) any { return e.AllDay }},
	{"location", func(e *model.Event) any { return e.Location }},
	{"reminderMinutes", func(e *model.Event) any { return e.ReminderMinutes }},
	{"color", func(e *model.Event) any { return e.Color }},
	{"createdAt", func(e *model.Event) any { return e.CreatedAt }},
	{"updatedAt", func(e *model.Event) any { return e.UpdatedAt }},
}

var noteColumns = []column[*model.Note]{
	{"id", func(n *model.Note) any { return n.ID }},
	{"title", func(n *model.Note) any { return n.Title }},
	{"content", func(n *model.Note) any { return n.Content }},
	{"tags", func(n *model.Note) any { return []string(n.Tags) }},
	{"createdAt", func(n *model.Note) any { return n.CreatedAt }},
	{"updatedAt", func(n *model.Note) any { return n.UpdatedAt }},
}

var momentColumns = []column[*model.Moment]{
	{"id", func(m *model.Moment) any { return m.ID }},
	{"content", func(m *model.Moment) any { return m.Content }},
	{"tags", func(m *model.Moment) any { return []string(m.Tags) }},
	{"createdAt", func(m *model.Moment) any { return m.CreatedAt }},
	{"updatedAt", func(m *model.Moment) any { return m.UpdatedAt }},
}

var sessionColumns = []column[*model.PomodoroSession]{
	{"id", func(s *model.PomodoroSession) any { return s.ID }},
	{"sessionType", func(s *model.PomodoroSession) any { return s.SessionType }},
	{"duration", func(s *model.PomodoroSession) any { return s.Duration }},
	{"startTime", func(s *model.PomodoroSession) any { return s.StartTime }},
	{"endTime", func(s *model.PomodoroSession) any { return s.EndTime }},
	{"completed", func(s *model.PomodoroSession) any { return s.Completed }},
	{"createdAt", func(s *model.PomodoroSession) any { return s.CreatedAt }},
	{"updatedAt", func(s *model.PomodoroSession) any { return s.UpdatedAt }},
}

func Todos(items []*model.Todo) Table { return table(todoColumns, items) }

func Goals(items []*model.Goal) Table { return table(goalColumns, items) }

func Events(items []*model.Event) Table { return table(eventColumns, items) }

func Notes(items []*model.Note) Table { return table(noteColumns, items) }

func Moments(items []*model.Moment) Table { return table(momentColumns, items) }

func PomodoroSessions(items []*model.PomodoroSession) Table {
	return table(sessionColumns, items)
}
