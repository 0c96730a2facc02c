package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personalhub/hub/internal/db"
	"github.com/personalhub/hub/internal/db/dbtest"
)

func TestMigrationsCreateSchema(t *testing.T) {
	database := dbtest.New(t)

	tables := []string{"users", "todos", "goals", "goal_progress", "events", "notes", "moments", "pomodoro_sessions", "pomodoro_configs"}
	for _, table := range tables {
		var count int
		err := database.Get(&count, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = $1`, table)
		require.NoError(t, err)
		assert.Equal(t, 1, count, table)
	}
}

func TestMigrateDownDropsLatest(t *testing.T) {
	database := dbtest.New(t)

	require.NoError(t, db.MigrateDown(context.Background(), database.DB, "sqlite"))

	var count int
	err := database.Get(&count, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'pomodoro_sessions'`)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCascadeDeletesChildTodos(t *testing.T) {
	database := dbtest.New(t)
	userID := dbtest.User(t, database)

	_, err := database.Exec(`INSERT INTO todos (id, user_id, title, created_at, updated_at) VALUES ('p', $1, 'parent', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`, userID)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO todos (id, user_id, parent_id, title, created_at, updated_at) VALUES ('c', $1, 'p', 'child', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`, userID)
	require.NoError(t, err)

	_, err = database.Exec(`DELETE FROM todos WHERE id = 'p'`)
	require.NoError(t, err)

	var count int
	require.NoError(t, database.Get(&count, `SELECT COUNT(*) FROM todos`))
	assert.Zero(t, count)
}

func TestVersionTracksMigrations(t *testing.T) {
	database := dbtest.New(t)
	ctx := context.Background()

	version, err := db.Version(ctx, database.DB, "sqlite")
	require.NoError(t, err)
	assert.EqualValues(t, 6, version)

	require.NoError(t, db.MigrateDown(ctx, database.DB, "sqlite"))
	version, err = db.Version(ctx, database.DB, "sqlite")
	require.NoError(t, err)
	assert.EqualValues(t, 5, version)
}
