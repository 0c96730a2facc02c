package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personalhub/hub/internal/model"
)

func TestSearchRejectsEmptyQuery(t *testing.T) {
	h := newHub(t, time.UTC)

	for _, q := range []string{"", "   "} {
		res, err := h.search.Search(context.Background(), h.userID, q, nil, model.Pagination{Limit: 20})
		assert.Nil(t, res)
		requireFieldError(t, err, "query")
	}
}

func TestSearchMergesAndTruncates(t *testing.T) {
	h := newHub(t, time.UTC)
	ctx := context.Background()
	t0 := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)

	h.freeze(t0)
	todo, err := h.todos.Create(ctx, h.userID, TodoInput{Title: ptr("buy milk, eggs")})
	require.NoError(t, err)

	h.freeze(t0.Add(time.Minute))
	long := "milk " + strings.Repeat("é", 300)
	note, err := h.notes.Create(ctx, h.userID, NoteInput{Title: ptr("groceries"), Content: Some(long)})
	require.NoError(t, err)

	momentText := "remembered the milk " + strings.Repeat("x", 60)
	h.moment(t, momentText, t0.Add(2*time.Minute))

	_, err = h.todos.Create(ctx, h.userID, TodoInput{Title: ptr("unrelated")})
	require.NoError(t, err)

	res, err := h.search.Search(ctx, h.userID, "milk", nil, model.Pagination{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Results, 3)

	moment := res.Results[0]
	assert.Equal(t, SearchMoments, moment.Type)
	assert.Equal(t, "/moments", moment.URL)
	assert.Equal(t, []rune(momentText)[:50], []rune(strings.TrimSuffix(moment.Title, "...")))
	assert.True(t, strings.HasSuffix(moment.Title, "..."))

	assert.Equal(t, note.ID, res.Results[1].ID)
	require.NotNil(t, res.Results[1].Content)
	assert.Equal(t, 203, len([]rune(*res.Results[1].Content)))

	assert.Equal(t, todo.ID, res.Results[2].ID)
	assert.Equal(t, "/todos/"+todo.ID, res.Results[2].URL)

	res, err = h.search.Search(ctx, h.userID, "milk", nil, model.Pagination{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Len(t, res.Results, 2)

	res, err = h.search.Search(ctx, h.userID, "milk", []string{SearchTodos}, model.Pagination{Limit: 20})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, SearchTodos, res.Results[0].Type)

	other, err := h.search.Search(ctx, "someone-else", "milk", nil, model.Pagination{Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, other.Results)
}

func TestParseSearchTypes(t *testing.T) {
	types, err := ParseSearchTypes("")
	require.NoError(t, err)
	assert.Equal(t, SearchTypes, types)

	types, err = ParseSearchTypes("Notes, todos,notes")
	require.NoError(t, err)
	assert.Equal(t, []string{SearchNotes, SearchTodos}, types)

	_, err = ParseSearchTypes("todos,files")
	requireFieldError(t, err, "types")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ééé...", truncate("éééé", 3))
}
