package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Ledger records which manuals have already been processed so re-runs skip
// them before spending any download or LLM budget.
type Ledger interface {
	Processed(ctx context.Context) (map[string]struct{}, error)
	MarkProcessed(ctx context.Context, name string) error
	Close() error
}

// SQLiteLedger is the file-backed ledger used by the ingestion CLI.
type SQLiteLedger struct {
	db *sql.DB
}

// OpenLedger opens (and if needed initializes) the ledger database at path.
func OpenLedger(path string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS processed_manuals (
			name TEXT PRIMARY KEY,
			processed_at TIMESTAMP NOT NULL
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init ledger schema: %w", err)
	}

	return &SQLiteLedger{db: db}, nil
}

// Processed returns the set of manual names already handled.
func (l *SQLiteLedger) Processed(ctx context.Context) (map[string]struct{}, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT name FROM processed_manuals`)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	defer rows.Close()

	names := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names[name] = struct{}{}
	}
	return names, rows.Err()
}

// MarkProcessed appends a manual name to the ledger.
func (l *SQLiteLedger) MarkProcessed(ctx context.Context, name string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO processed_manuals (name, processed_at) VALUES (?, ?)`,
		name, time.Now())
	if err != nil {
		return fmt.Errorf("append ledger: %w", err)
	}
	return nil
}

// Close closes the ledger database.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}
