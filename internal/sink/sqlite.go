package sink

import (
	"context"
	"database/sql"
	"fmt"

	"devscan/internal/models"

	_ "modernc.org/sqlite"
)

// historySchema keeps one row per HistoryKey across runs.
const historySchema = `
CREATE TABLE IF NOT EXISTS history (
	key        TEXT PRIMARY KEY,
	date       TEXT NOT NULL,
	source     TEXT NOT NULL,
	title      TEXT NOT NULL,
	address    TEXT NOT NULL,
	borough    TEXT NOT NULL,
	developers TEXT NOT NULL,
	url        TEXT NOT NULL
)`

// SQLiteSink appends the table to a local SQLite history database, skipping
// rows already stored under the same history key.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (and if needed initializes) the history database.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.Exec(historySchema); err != nil {
		db.Close()

		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &SQLiteSink{db: db}, nil
}

// Write inserts the records, ignoring ones whose history key already exists.
// It returns the number of newly appended rows.
func (s *SQLiteSink) Write(ctx context.Context, records []models.Record) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin history transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO history (key, date, source, title, address, borough, developers, url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()

		return 0, fmt.Errorf("failed to prepare history insert: %w", err)
	}
	defer stmt.Close()

	appended := 0

	for _, r := range records {
		res, err := stmt.ExecContext(ctx,
			HistoryKey(r.Date, r.Source, r.Title, r.Address),
			r.Date, r.Source, r.Title, r.Address, r.Borough, r.DevelopersCell(), r.URL)
		if err != nil {
			tx.Rollback()

			return 0, fmt.Errorf("failed to insert history row: %w", err)
		}

		if n, err := res.RowsAffected(); err == nil {
			appended += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit history transaction: %w", err)
	}

	return appended, nil
}

// Close releases the database handle.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
