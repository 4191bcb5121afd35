// Package cache is a TTL response cache keyed by prompt hash, backed by
// SQLite so cached answers survive restarts.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Stats summarizes cache contents.
type Stats struct {
	TotalItems   int
	ExpiredItems int
}

// Store is a SQLite-backed response cache.
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

// Key derives the cache key for a prompt under a given provider.
func Key(provider, prompt string) string {
	sum := sha256.Sum256([]byte(provider + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}

// Open creates or opens the cache database at path. Entries older than ttl
// are treated as misses.
func Open(path string, ttl time.Duration) (*Store, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: failed to open database: %w", err)
	}

	s := &Store{db: db, ttl: ttl}
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
			return fmt.Errorf("cache: pragma failed: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS responses (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("cache: schema creation failed: %w", err)
	}
	return nil
}

// Get returns the cached value for key. Expired entries are removed and
// reported as misses.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	var createdMs int64
	err := s.db.QueryRowContext(ctx,
		"SELECT value, created_at FROM responses WHERE key = ?", key).Scan(&value, &createdMs)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache: query failed: %w", err)
	}

	if time.Since(time.UnixMilli(createdMs)) > s.ttl {
		_, _ = s.db.ExecContext(ctx, "DELETE FROM responses WHERE key = ?", key)
		return "", false, nil
	}
	return value, true, nil
}

// Set stores a value for key, replacing any previous entry.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO responses (key, value, created_at) VALUES (?, ?, ?)",
		key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("cache: insert failed: %w", err)
	}
	return nil
}

// Sweep deletes all expired entries and returns how many were removed.
func (s *Store) Sweep(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.ttl).UnixMilli()
	res, err := s.db.ExecContext(ctx, "DELETE FROM responses WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("cache: sweep failed: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Stats reports total and expired entry counts.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	cutoff := time.Now().Add(-s.ttl).UnixMilli()
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN created_at < ? THEN 1 ELSE 0 END), 0)
		FROM responses`, cutoff).Scan(&st.TotalItems, &st.ExpiredItems)
	if err != nil {
		return Stats{}, fmt.Errorf("cache: stats failed: %w", err)
	}
	return st, nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM responses")
	if err != nil {
		return fmt.Errorf("cache: clear failed: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
