package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, Migrate(database))
	// Migrations are idempotent across restarts.
	require.NoError(t, Migrate(database))

	for _, table := range []string{"accounts", "transactions"} {
		var name string
		err := database.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, "table %s must exist", table)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer database.Close()
	require.NoError(t, Migrate(database))

	_, err = database.Exec(`INSERT INTO transactions (date, description, account_id, amount, kind)
		VALUES ('2025-01-15', 'orphan', 999, '10', 'debit')`)
	assert.Error(t, err, "insert referencing a missing account must fail")
}

func TestAccountTypeConstraint(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer database.Close()
	require.NoError(t, Migrate(database))

	_, err = database.Exec(`INSERT INTO accounts (number, name, type) VALUES ('1000', 'Cash', 'bank')`)
	assert.Error(t, err)

	_, err = database.Exec(`INSERT INTO accounts (number, name, type) VALUES ('1000', 'Cash', 'asset')`)
	assert.NoError(t, err)
}
