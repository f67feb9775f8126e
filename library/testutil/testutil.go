// Package testutil provides a migrated in-memory SQLite database for
// store tests.
package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/libsys-io/libsys/db"
)

// OpenDB returns a fully migrated in-memory database, closed when the
// test ends. Each call gets an isolated database.
func OpenDB(t *testing.T) *sql.DB {
	t.Helper()

	logger := zaptest.NewLogger(t).Sugar()
	conn, err := db.Open(":memory:", logger)
	require.NoError(t, err)
	// One pooled connection, or each new connection sees a fresh
	// in-memory database.
	conn.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(conn, logger))
	t.Cleanup(func() { conn.Close() })
	return conn
}
