package migrations

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration is one versioned schema change. Migrations are compiled in so a
// deployed binary carries its own schema.
type Migration struct {
	Version     string
	Description string
	SQL         string
}

// historyMigrations is the ordered schema for the round-history database.
var historyMigrations = []Migration{
	{
		Version:     "001",
		Description: "create rounds table",
		SQL: `
		CREATE TABLE IF NOT EXISTS rounds (
			id TEXT PRIMARY KEY,
			completed_at TIMESTAMP NOT NULL,
			difficulty TEXT NOT NULL,
			bet INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			player_score INTEGER NOT NULL,
			dealer_score INTEGER NOT NULL,
			payout INTEGER NOT NULL,
			balance_after INTEGER NOT NULL,
			files_deleted INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	},
	{
		Version:     "002",
		Description: "index rounds by completion time and outcome",
		SQL: `
		CREATE INDEX IF NOT EXISTS idx_rounds_completed_at ON rounds(completed_at DESC);
		CREATE INDEX IF NOT EXISTS idx_rounds_outcome ON rounds(outcome);`,
	},
}

// Migrator applies pending migrations to a database.
type Migrator struct {
	db *sql.DB
}

// NewMigrator creates a new migrator
func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{db: db}
}

// Initialize creates the migrations table if it doesn't exist
func (m *Migrator) Initialize() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY,
			version TEXT NOT NULL,
			description TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

// GetAppliedMigrations returns a map of already applied migrations
func (m *Migrator) GetAppliedMigrations() (map[string]bool, error) {
	rows, err := m.db.Query("SELECT version FROM migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// ApplyMigration applies a single migration inside a transaction.
func (m *Migrator) ApplyMigration(migration Migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(migration.SQL); err != nil {
		tx.Rollback()
		return fmt.Errorf("error applying migration %s: %w", migration.Version, err)
	}

	if _, err := tx.Exec(
		"INSERT INTO migrations (version, description) VALUES (?, ?)",
		migration.Version, migration.Description,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("error recording migration %s: %w", migration.Version, err)
	}

	return tx.Commit()
}

// RunHistoryMigrations brings the round-history database up to the current
// schema, skipping anything already applied.
func RunHistoryMigrations(db *sql.DB) error {
	m := NewMigrator(db)

	if err := m.Initialize(); err != nil {
		return fmt.Errorf("error initializing migrations table: %w", err)
	}

	applied, err := m.GetAppliedMigrations()
	if err != nil {
		return fmt.Errorf("error reading applied migrations: %w", err)
	}

	for _, migration := range historyMigrations {
		if applied[migration.Version] {
			continue
		}
		log.Printf("Applying migration %s: %s", migration.Version, migration.Description)
		if err := m.ApplyMigration(migration); err != nil {
			return err
		}
	}

	return nil
}
