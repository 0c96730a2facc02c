package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personalhub/hub/internal/export"
	"github.com/personalhub/hub/internal/repository"
)

type memoryStorage struct {
	objects map[string][]byte
	types   map[string]string
}

func (m *memoryStorage) Save(_ context.Context, key, contentType string, body io.Reader) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = b
	m.types[key] = contentType
	return nil
}

func (m *memoryStorage) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memoryStorage) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://files.example.com/" + key, nil
}

func TestExportCSVQuotesFields(t *testing.T) {
	h := newHub(t, time.UTC)
	h.freeze(time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := h.todos.Create(ctx, h.userID, TodoInput{
		Title:       ptr("Buy milk, eggs"),
		Description: Some(`ask for "organic"`),
	})
	require.NoError(t, err)

	file, err := h.export.Export(ctx, h.userID, ExportRequest{Resource: export.ResourceTodos, Format: export.FormatCSV})
	require.NoError(t, err)
	assert.Equal(t, "todos-export-2026-10-17.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.Equal(t, 1, file.Records)

	body := string(file.Body)
	assert.Contains(t, body, `"Buy milk, eggs"`)
	assert.Contains(t, body, `"ask for ""organic"""`)
}

func TestExportJSONEchoesSuppliedFilters(t *testing.T) {
	h := newHub(t, time.UTC)
	ctx := context.Background()

	open, err := h.todos.Create(ctx, h.userID, TodoInput{Title: ptr("open")})
	require.NoError(t, err)
	_, err = h.todos.Create(ctx, h.userID, TodoInput{Title: ptr("closed"), Status: ptr("DONE")})
	require.NoError(t, err)

	file, err := h.export.Export(ctx, h.userID, ExportRequest{
		Resource: export.ResourceTodos,
		Filters:  map[string]any{"status": "TODO"},
		Todos:    repository.TodoFilter{Status: "TODO"},
	})
	require.NoError(t, err)
	assert.Equal(t, "application/json", file.ContentType)

	var doc struct {
		Metadata struct {
			RecordCount int            `json:"recordCount"`
			Filters     map[string]any `json:"filters"`
		} `json:"metadata"`
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(file.Body, &doc))
	assert.Equal(t, 1, doc.Metadata.RecordCount)
	assert.Equal(t, map[string]any{"status": "TODO"}, doc.Metadata.Filters)
	require.Len(t, doc.Data, 1)
	assert.Equal(t, open.ID, doc.Data[0].ID)
}

func TestExportEmptyResourceIsEmptyArray(t *testing.T) {
	h := newHub(t, time.UTC)

	file, err := h.export.Export(context.Background(), h.userID, ExportRequest{Resource: export.ResourcePomodoroSessions})
	require.NoError(t, err)
	assert.True(t, bytes.Contains(file.Body, []byte(`"data": []`)))
}

func TestExportValidation(t *testing.T) {
	h := newHub(t, time.UTC)
	ctx := context.Background()

	_, err := h.export.Export(ctx, h.userID, ExportRequest{Resource: "files"})
	requireFieldError(t, err, "resource")

	_, err = h.export.Export(ctx, h.userID, ExportRequest{Resource: export.ResourceNotes, Format: "xml"})
	requireFieldError(t, err, "format")
}

func TestArchive(t *testing.T) {
	h := newHub(t, time.UTC)
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	req := ExportRequest{Resource: export.ResourceMoments, Format: export.FormatCSV}

	_, err := h.export.Archive(ctx, h.userID, req)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	store := &memoryStorage{objects: map[string][]byte{}, types: map[string]string{}}
	h.export.storage = store
	h.freeze(now)

	archived, err := h.export.Archive(ctx, h.userID, req)
	require.NoError(t, err)

	key := "exports/" + h.userID + "/moments-export-2026-10-17.csv"
	assert.Equal(t, key, archived.Key)
	assert.Equal(t, "https://files.example.com/"+key, archived.URL)
	assert.True(t, now.Add(time.Hour).Equal(archived.ExpiresAt))
	assert.Equal(t, "id,content,tags,createdAt,updatedAt\n", string(store.objects[key]))
	assert.Equal(t, "text/csv; charset=utf-8", store.types[key])
}
