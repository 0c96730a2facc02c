package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListScan(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan(`["work","home"]`))
	assert.Equal(t, StringList{"work", "home"}, l)

	var empty StringList
	require.NoError(t, empty.Scan(nil))
	assert.Nil(t, empty)

	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestNextStatusCycles(t *testing.T) {
	s := TodoStatusTodo
	seen := []string{}
	for range 6 {
		s = NextStatus(s)
		seen = append(seen, s)
	}
	assert.Equal(t, []string{
		TodoStatusInProgress, TodoStatusDone, TodoStatusTodo,
		TodoStatusInProgress, TodoStatusDone, TodoStatusTodo,
	}, seen)
}

func TestRemainingSecondsNeverNegative(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &PomodoroSession{Duration: 1500, StartTime: now.Add(-26 * time.Minute)}
	assert.Zero(t, s.RemainingSeconds(now))

	s.StartTime = now.Add(-10 * time.Minute)
	assert.Equal(t, 900, s.RemainingSeconds(now))
}

func TestNewPageNeverNil(t *testing.T) {
	p := NewPage[*Todo](nil, 0, Pagination{Limit: 20})
	assert.NotNil(t, p.Items)
	assert.Equal(t, 20, p.Limit)
}
