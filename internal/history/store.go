// Package history persists chat interactions in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Interaction is one prompt/response pair.
type Interaction struct {
	ID        string
	Prompt    string
	Response  string
	CreatedAt time.Time
}

// Store is a SQLite-backed history store.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("history: pragma failed: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS interactions (
			id TEXT PRIMARY KEY,
			prompt TEXT NOT NULL,
			response TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_interactions_created_at
			ON interactions(created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("history: schema creation failed: %w", err)
	}
	return nil
}

// Add records one interaction and returns its ID.
func (s *Store) Add(ctx context.Context, prompt, response string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO interactions (id, prompt, response, created_at) VALUES (?, ?, ?, ?)",
		id, prompt, response, time.Now().UnixMilli())
	if err != nil {
		return "", fmt.Errorf("history: insert failed: %w", err)
	}
	return id, nil
}

// Recent returns the last n interactions in chronological order.
func (s *Store) Recent(ctx context.Context, n int) ([]Interaction, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, prompt, response, created_at FROM (
			SELECT id, prompt, response, created_at
			FROM interactions ORDER BY created_at DESC LIMIT ?
		) ORDER BY created_at ASC`, n)
	if err != nil {
		return nil, fmt.Errorf("history: query failed: %w", err)
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var it Interaction
		var createdMs int64
		if err := rows.Scan(&it.ID, &it.Prompt, &it.Response, &createdMs); err != nil {
			return nil, fmt.Errorf("history: scan failed: %w", err)
		}
		it.CreatedAt = time.UnixMilli(createdMs)
		out = append(out, it)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
