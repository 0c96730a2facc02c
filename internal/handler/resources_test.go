package handler_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personalhub/hub/internal/respond"
)

func TestTodoRoundTrip(t *testing.T) {
	c := newClient(t, newServer(t))
	c.register("alice@example.com")

	status, todo := c.json(http.MethodPost, "/api/todos", map[string]any{
		"title":    "Buy milk",
		"priority": "HIGH",
		"dueDate":  "2026-03-01",
	})
	require.Equal(t, http.StatusCreated, status, todo)
	id := todo["id"].(string)
	assert.Equal(t, "TODO", todo["status"])

	status, child := c.json(http.MethodPost, "/api/todos", map[string]any{
		"title":    "Check the fridge",
		"parentId": id,
	})
	require.Equal(t, http.StatusCreated, status, child)

	status, got := c.json(http.MethodGet, "/api/todos/"+id, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Buy milk", got["title"])

	status, patched := c.json(http.MethodPatch, "/api/todos/"+id, map[string]any{"title": "Buy oat milk"})
	require.Equal(t, http.StatusOK, status, patched)
	assert.Equal(t, "Buy oat milk", patched["title"])
	assert.Equal(t, "HIGH", patched["priority"])

	status, toggled := c.json(http.MethodPost, "/api/todos/"+id+"/toggle-status", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "IN_PROGRESS", toggled["status"])

	status, _, data := c.do(http.MethodGet, "/api/todos/"+id+"/children", nil)
	require.Equal(t, http.StatusOK, status)
	var children []map[string]any
	require.NoError(t, json.Unmarshal(data, &children))
	require.Len(t, children, 1)
	assert.Equal(t, child["id"], children[0]["id"])

	status, page := c.json(http.MethodGet, "/api/todos?parentId=root", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, page["total"])
	assert.EqualValues(t, 20, page["limit"])

	status, _, _ = c.do(http.MethodDelete, "/api/todos/"+id, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _, _ = c.do(http.MethodGet, "/api/todos/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTodoListRejectsUnknownStatus(t *testing.T) {
	c := newClient(t, newServer(t))
	c.register("alice@example.com")

	status, _, data := c.do(http.MethodGet, "/api/todos?status=SOMEDAY", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decodeError(t, data).Fields, "status")
}

func TestOtherUsersRowsAreNotFound(t *testing.T) {
	server := newServer(t)
	alice := newClient(t, server)
	alice.register("alice@example.com")
	bob := newClient(t, server)
	bob.register("bob@example.com")

	status, todo := alice.json(http.MethodPost, "/api/todos", map[string]any{"title": "private"})
	require.Equal(t, http.StatusCreated, status)
	path := "/api/todos/" + todo["id"].(string)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		var body any
		if method == http.MethodPut {
			body = map[string]any{"title": "stolen"}
		}
		status, _, data := bob.do(method, path, body)
		assert.Equal(t, http.StatusNotFound, status, method)
		apiErr := decodeError(t, data)
		assert.Equal(t, respond.CodeNotFound, apiErr.Code)
		assert.Equal(t, "Resource not found", apiErr.Message)
	}

	status, got := alice.json(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "private", got["title"])
}

func TestEventDateOrder(t *testing.T) {
	c := newClient(t, newServer(t))
	c.register("alice@example.com")

	status, _, data := c.do(http.MethodPost, "/api/events", map[string]any{
		"title":         "Backwards",
		"startDateTime": "2026-05-01T10:00:00Z",
		"endDateTime":   "2026-05-01T09:00:00Z",
	})
	require.Equal(t, http.StatusBadRequest, status)
	apiErr := decodeError(t, data)
	assert.Equal(t, respond.CodeValidation, apiErr.Code)
	assert.Equal(t, "endDateTime must be after startDateTime", apiErr.Fields["endDateTime"])

	status, event := c.json(http.MethodPost, "/api/events", map[string]any{
		"title":         "Standup",
		"startDateTime": "2026-05-01T09:00:00Z",
		"endDateTime":   "2026-05-01T09:15:00Z",
	})
	require.Equal(t, http.StatusCreated, status, event)

	status, _, data = c.do(http.MethodPatch, "/api/events/"+event["id"].(string), map[string]any{
		"endDateTime": "2026-05-01T08:00:00Z",
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decodeError(t, data).Fields, "endDateTime")
}

func TestGoalProgress(t *testing.T) {
	c := newClient(t, newServer(t))
	c.register("alice@example.com")

	status, goal := c.json(http.MethodPost, "/api/goals", map[string]any{
		"title":       "Run 100km",
		"type":        "MONTHLY",
		"targetValue": 100,
		"unit":        "km",
		"startDate":   "2026-05-01",
		"endDate":     "2026-05-31",
	})
	require.Equal(t, http.StatusCreated, status, goal)
	id := goal["id"].(string)

	status, added := c.json(http.MethodPost, "/api/goals/"+id+"/progress", map[string]any{"value": 60})
	require.Equal(t, http.StatusCreated, status, added)
	progress := added["progress"].(map[string]any)
	assert.EqualValues(t, 60, added["goal"].(map[string]any)["currentValue"])

	status, added = c.json(http.MethodPost, "/api/goals/"+id+"/progress", map[string]any{"value": 50})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "COMPLETED", added["goal"].(map[string]any)["status"])

	status, _, data := c.do(http.MethodGet, "/api/goals/"+id+"/progress", nil)
	require.Equal(t, http.StatusOK, status)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.Len(t, entries, 2)

	status, after := c.json(http.MethodDelete, "/api/goals/"+id+"/progress/"+progress["id"].(string), nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 50, after["currentValue"])
	assert.Equal(t, "ACTIVE", after["status"])
}

func TestNoteHTML(t *testing.T) {
	c := newClient(t, newServer(t))
	c.register("alice@example.com")

	status, note := c.json(http.MethodPost, "/api/notes", map[string]any{
		"title":   "Ideas",
		"content": "---\ntags: [work]\n---\n# Heading\n\nSome *text*.",
	})
	require.Equal(t, http.StatusCreated, status, note)
	assert.Equal(t, []any{"work"}, note["tags"])

	status, rendered := c.json(http.MethodGet, "/api/notes/"+note["id"].(string)+"/html", nil)
	require.Equal(t, http.StatusOK, status)
	html := rendered["html"].(string)
	assert.Contains(t, html, "<em>text</em>")
	assert.NotContains(t, html, "tags:")
}

func TestActiveSessionExpiresOverHTTP(t *testing.T) {
	c := newClient(t, newServer(t))
	c.register("alice@example.com")

	status, session := c.json(http.MethodPost, "/api/pomodoro/sessions", map[string]any{
		"sessionType": "WORK",
		"duration":    1500,
		"startTime":   time.Now().Add(-26 * time.Minute).UTC().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, status, session)

	for range 2 {
		status, _, data := c.do(http.MethodGet, "/api/pomodoro/sessions/active", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "null", strings.TrimSpace(string(data)))
	}

	status, got := c.json(http.MethodGet, "/api/pomodoro/sessions/"+session["id"].(string), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, got["completed"])
	assert.NotNil(t, got["endTime"])
}

func TestActiveSessionCountdown(t *testing.T) {
	c := newClient(t, newServer(t))
	c.register("alice@example.com")

	status, session := c.json(http.MethodPost, "/api/pomodoro/sessions", map[string]any{
		"sessionType": "WORK",
		"duration":    1500,
	})
	require.Equal(t, http.StatusCreated, status, session)

	status, active := c.json(http.MethodGet, "/api/pomodoro/sessions/active", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, session["id"], active["id"])
	remaining := active["remainingSeconds"].(float64)
	assert.InDelta(t, 1500, remaining, 5)

	status, done := c.json(http.MethodPost, "/api/pomodoro/sessions/"+session["id"].(string)+"/complete", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, done["completed"])
}

func TestPomodoroConfigDefaults(t *testing.T) {
	c := newClient(t, newServer(t))
	c.register("alice@example.com")

	status, cfg := c.json(http.MethodGet, "/api/pomodoro/config", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1500, cfg["workDuration"])

	status, cfg = c.json(http.MethodPut, "/api/pomodoro/config", map[string]any{"workDuration": 3000})
	require.Equal(t, http.StatusOK, status, cfg)
	assert.EqualValues(t, 3000, cfg["workDuration"])
	assert.EqualValues(t, 300, cfg["shortBreakDuration"])

	status, _, data := c.do(http.MethodGet, "/api/pomodoro/stats?days=0", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decodeError(t, data).Fields, "days")
}

func TestDashboardAndActivity(t *testing.T) {
	c := newClient(t, newServer(t))
	c.register("alice@example.com")

	status, _ := c.json(http.MethodPost, "/api/todos", map[string]any{"title": "one"})
	require.Equal(t, http.StatusCreated, status)
	status, _ = c.json(http.MethodPost, "/api/moments", map[string]any{"content": "sunny"})
	require.Equal(t, http.StatusCreated, status)

	status, stats := c.json(http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, status, stats)
	assert.EqualValues(t, 1, stats["todos"].(map[string]any)["total"])
	assert.EqualValues(t, 1, stats["moments"].(map[string]any)["today"])

	status, _, data := c.do(http.MethodGet, "/api/dashboard/stats?recentLimit=11", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decodeError(t, data).Fields, "recentLimit")

	status, feed := c.json(http.MethodGet, "/api/dashboard/activity?limit=1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, feed["activities"], 1)
	assert.Equal(t, true, feed["hasMore"])
}

func TestSearch(t *testing.T) {
	c := newClient(t, newServer(t))
	c.register("alice@example.com")

	status, _ := c.json(http.MethodPost, "/api/todos", map[string]any{"title": "Plan garden"})
	require.Equal(t, http.StatusCreated, status)
	status, _ = c.json(http.MethodPost, "/api/notes", map[string]any{"title": "Garden layout"})
	require.Equal(t, http.StatusCreated, status)

	status, res := c.json(http.MethodGet, "/api/search?query=garden", nil)
	require.Equal(t, http.StatusOK, status, res)
	assert.EqualValues(t, 2, res["total"])

	status, res = c.json(http.MethodGet, "/api/search?query=garden&types=notes", nil)
	require.Equal(t, http.StatusOK, status)
	results := res["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "notes", results[0].(map[string]any)["type"])

	status, _, data := c.do(http.MethodGet, "/api/search?query=%20%20", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decodeError(t, data).Fields, "query")

	status, _, data = c.do(http.MethodGet, "/api/search?query=x&types=recipes", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decodeError(t, data).Fields, "types")
}
