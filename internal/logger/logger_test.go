package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseHandlerProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(baseHandler(&buf, false))

	log.Debug("hidden")
	log.Info("visible", "user_id", "u1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "visible", line["msg"])
	assert.Equal(t, "u1", line["user_id"])
}

func TestNewFansOut(t *testing.T) {
	var a, b bytes.Buffer
	log := New(
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, nil),
	)

	log.Warn("both")

	assert.Contains(t, a.String(), "both")
	assert.Contains(t, b.String(), "both")
}
