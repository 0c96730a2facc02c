// Package dbtest opens throwaway migrated SQLite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/personalhub/hub/internal/db"
)

// New returns a migrated database stored under t.TempDir.
// A file is used instead of :memory: so every pooled connection sees the same schema.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "hub.db")
	conn := path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_time_format=sqlite"

	ctx := context.Background()
	database, err := db.Init(ctx, "sqlite", conn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(database) })

	require.NoError(t, db.RunMigrations(ctx, database.DB, "sqlite"))
	return database
}

// User inserts a user row and returns its id.
func User(t testing.TB, database *sqlx.DB) string {
	t.Helper()

	id := uuid.New().String()
	_, err := database.Exec(
		`INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		id, id+"@example.com", "x", time.Now().UTC(),
	)
	require.NoError(t, err)
	return id
}
