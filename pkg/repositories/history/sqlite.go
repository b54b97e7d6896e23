package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/fadedpez/stakejack/pkg/db/migrations"
	"github.com/fadedpez/stakejack/pkg/entities"
)

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Ensure directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := migrations.RunHistoryMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error migrating history database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveRound records a resolved round
func (r *SQLiteRepository) SaveRound(ctx context.Context, record *entities.RoundRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CompletedAt.IsZero() {
		record.CompletedAt = time.Now()
	}

	query := `
		INSERT INTO rounds (
			id, completed_at, difficulty, bet, outcome,
			player_score, dealer_score, payout, balance_after, files_deleted
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.CompletedAt.Format("2006-01-02 15:04:05"),
		record.Difficulty.String(),
		record.Bet,
		string(record.Outcome),
		record.PlayerScore,
		record.DealerScore,
		record.Payout,
		record.BalanceAfter,
		record.FilesDeleted,
	)
	if err != nil {
		return fmt.Errorf("error saving round: %w", err)
	}

	return nil
}

// RecentRounds retrieves the most recent rounds, newest first
func (r *SQLiteRepository) RecentRounds(ctx context.Context, limit int) ([]*entities.RoundRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, completed_at, difficulty, bet, outcome,
			player_score, dealer_score, payout, balance_after, files_deleted
		FROM rounds
		ORDER BY completed_at DESC, created_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying rounds: %w", err)
	}
	defer rows.Close()

	var records []*entities.RoundRecord

	for rows.Next() {
		var rec entities.RoundRecord
		var completedAt, difficulty, outcome string

		err := rows.Scan(
			&rec.ID,
			&completedAt,
			&difficulty,
			&rec.Bet,
			&outcome,
			&rec.PlayerScore,
			&rec.DealerScore,
			&rec.Payout,
			&rec.BalanceAfter,
			&rec.FilesDeleted,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning round row: %w", err)
		}

		rec.CompletedAt, err = parseTimestamp(completedAt)
		if err != nil {
			return nil, err
		}
		diff, err := entities.ParseDifficulty(difficulty)
		if err != nil {
			return nil, fmt.Errorf("error parsing difficulty %q: %w", difficulty, err)
		}
		rec.Difficulty = diff
		rec.Outcome = entities.Outcome(outcome)

		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating round rows: %w", err)
	}

	return records, nil
}

// parseTimestamp tries the formats SQLite may hand back.
func parseTimestamp(value string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
		time.RFC3339,
	}

	var parseErr error
	for _, format := range formats {
		t, err := time.Parse(format, value)
		if err == nil {
			return t, nil
		}
		parseErr = err
	}
	return time.Time{}, fmt.Errorf("error parsing timestamp %q: %w", value, parseErr)
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
