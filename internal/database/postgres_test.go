package database

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrationFiles, "migrations/*.sql")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"migrations/0001_init.up.sql",
		"migrations/0001_init.down.sql",
	}, files)

	up, err := migrationFiles.ReadFile("migrations/0001_init.up.sql")
	require.NoError(t, err)
	for _, table := range []string{"ledger_entries", "transactions", "seats", "seat_contributions", "expenses", "members", "categories", "users", "transaction_types"} {
		assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}
