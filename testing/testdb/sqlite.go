package testdb

import (
	"context"
	"strings"
	"testing"

	"event-service/internal/db"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// NewSQLite opens an isolated in-memory SQLite database with the given
// models migrated. It is closed when the test ends.
func NewSQLite(t *testing.T, models ...interface{}) *bun.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + uuid.NewString()
	database, err := db.NewSQLite("memory:" + name)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(context.Background(), database, models...))
	return database
}
