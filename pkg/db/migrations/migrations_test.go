package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunHistoryMigrations(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, RunHistoryMigrations(db))

	// The rounds table is queryable after migration.
	_, err := db.Exec(`INSERT INTO rounds (
		id, completed_at, difficulty, bet, outcome,
		player_score, dealer_score, payout, balance_after
	) VALUES ('r1', '2026-08-30 12:00:00', 'EASY', 100, 'WIN', 20, 18, 200, 10100)`)
	assert.NoError(t, err)

	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&applied))
	assert.Equal(t, len(historyMigrations), applied)
}

func TestRunHistoryMigrationsIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, RunHistoryMigrations(db))
	require.NoError(t, RunHistoryMigrations(db))

	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&applied))
	assert.Equal(t, len(historyMigrations), applied)
}
