package handler

import (
	"net/url"
	"strings"
	"time"

	"github.com/personalhub/hub/internal/model"
	"github.com/personalhub/hub/internal/repository"
	"github.com/personalhub/hub/internal/validation"
)

// rootParent selects top-level todos in the parentId filter.
const rootParent = "root"

// supplied echoes the non-empty query values among keys, as given.
func supplied(q url.Values, keys ...string) map[string]any {
	out := map[string]any{}
	for _, k := range keys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			out[k] = v
		}
	}
	return out
}

func todoFilter(q url.Values, errs validation.Errors, now time.Time) (repository.TodoFilter, map[string]any) {
	f := repository.TodoFilter{
		Status:   validation.QueryEnum(errs, "status", q.Get("status"), model.TodoStatuses),
		Priority: validation.QueryEnum(errs, "priority", q.Get("priority"), model.TodoPriorities),
		DueFrom:  validation.QueryDate(errs, "dueFrom", q.Get("dueFrom"), now, false),
		DueTo:    validation.QueryDate(errs, "dueTo", q.Get("dueTo"), now, true),
		Search:   strings.TrimSpace(q.Get("search")),
	}
	if parent := strings.TrimSpace(q.Get("parentId")); parent == rootParent {
		f.RootOnly = true
	} else {
		f.ParentID = parent
	}
	return f, supplied(q, "status", "priority", "parentId", "dueFrom", "dueTo", "search")
}

func goalFilter(q url.Values, errs validation.Errors) (repository.GoalFilter, map[string]any) {
	f := repository.GoalFilter{
		Status: validation.QueryEnum(errs, "status", q.Get("status"), model.GoalStatuses),
		Type:   validation.QueryEnum(errs, "type", q.Get("type"), model.GoalTypes),
		Search: strings.TrimSpace(q.Get("search")),
	}
	return f, supplied(q, "status", "type", "search")
}

func eventFilter(q url.Values, errs validation.Errors, now time.Time) (repository.EventFilter, map[string]any) {
	f := repository.EventFilter{
		From:   validation.QueryDate(errs, "from", q.Get("from"), now, false),
		To:     validation.QueryDate(errs, "to", q.Get("to"), now, true),
		Search: strings.TrimSpace(q.Get("search")),
	}
	return f, supplied(q, "from", "to", "search")
}

func noteFilter(q url.Values) (repository.NoteFilter, map[string]any) {
	f := repository.NoteFilter{
		Tag:    strings.TrimSpace(q.Get("tag")),
		Search: strings.TrimSpace(q.Get("search")),
	}
	return f, supplied(q, "tag", "search")
}

func momentFilter(q url.Values, errs validation.Errors, now time.Time) (repository.MomentFilter, map[string]any) {
	f := repository.MomentFilter{
		Tag:    strings.TrimSpace(q.Get("tag")),
		From:   validation.QueryDate(errs, "from", q.Get("from"), now, false),
		To:     validation.QueryDate(errs, "to", q.Get("to"), now, true),
		Search: strings.TrimSpace(q.Get("search")),
	}
	return f, supplied(q, "tag", "from", "to", "search")
}

func sessionFilter(q url.Values, errs validation.Errors, now time.Time) (repository.PomodoroSessionFilter, map[string]any) {
	f := repository.PomodoroSessionFilter{
		SessionType: validation.QueryEnum(errs, "sessionType", q.Get("sessionType"), model.SessionTypes),
		Completed:   validation.QueryBool(errs, "completed", q.Get("completed")),
		From:        validation.QueryDate(errs, "from", q.Get("from"), now, false),
		To:          validation.QueryDate(errs, "to", q.Get("to"), now, true),
	}
	return f, supplied(q, "sessionType", "completed", "from", "to")
}
