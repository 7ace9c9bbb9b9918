package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SessionRepository persists diagnostic chat sessions.
type SessionRepository struct {
	db DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// History returns the turn history for a session, creating the session if it
// does not exist yet.
func (r *SessionRepository) History(ctx context.Context, sessionID string) ([]ChatTurn, error) {
	query := `SELECT history FROM chat_sessions WHERE session_id = $1`

	var raw json.RawMessage
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		if err := r.create(ctx, sessionID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return nil, nil
	}

	var history []ChatTurn
	if err := json.Unmarshal(raw, &history); err != nil {
		return nil, fmt.Errorf("decode session history: %w", err)
	}
	return history, nil
}

// SaveHistory replaces the turn history for a session.
func (r *SessionRepository) SaveHistory(ctx context.Context, sessionID string, history []ChatTurn) error {
	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode session history: %w", err)
	}

	query := `UPDATE chat_sessions SET history = $1, updated_at = $2 WHERE session_id = $3`
	_, err = r.db.ExecContext(ctx, query, raw, time.Now(), sessionID)
	return err
}

func (r *SessionRepository) create(ctx context.Context, sessionID string) error {
	query := `
		INSERT INTO chat_sessions (session_id, history, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (session_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, sessionID, json.RawMessage("[]"), time.Now())
	return err
}

// QueryRunner executes read-only lookup SQL produced by the chat workflow and
// returns the first row as a column map.
type QueryRunner struct {
	db DB
}

// NewQueryRunner creates a new query runner.
func NewQueryRunner(db DB) *QueryRunner {
	return &QueryRunner{db: db}
}

// FirstRow runs the query and maps the first result row by column name.
// Returns ErrNotFound when the query matches nothing.
func (q *QueryRunner) FirstRow(ctx context.Context, query string) (map[string]any, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := make(map[string]any, len(cols))
	for i, col := range cols {
		v := values[i]
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		row[col] = v
	}
	return row, nil
}
