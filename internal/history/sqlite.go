package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens the build history database, creating the file
// and its parent directory when needed. Use ":memory:" for tests.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		pages_rendered INTEGER NOT NULL,
		pages_converted INTEGER NOT NULL,
		broken_links INTEGER NOT NULL,
		revision TEXT,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append adds a build record to the store.
func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (id, started_at, duration_ms, outcome, pages_rendered, pages_converted, broken_links, revision, error) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		rec.ID, rec.StartedAt.UnixMilli(), rec.Duration.Milliseconds(), rec.Outcome,
		rec.PagesRendered, rec.PagesConverted, rec.BrokenLinks, rec.Revision, rec.Error,
	)
	if err != nil {
		return fmt.Errorf("insert build record: %w", err)
	}

	return nil
}

// ListRecent returns up to limit records, newest first. A non-positive
// limit falls back to 20.
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, started_at, duration_ms, outcome, pages_rendered, pages_converted, broken_links, revision, error FROM builds ORDER BY started_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query build records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Prune deletes all but the keep most recent records. keep <= 0 removes
// nothing.
func (s *SQLiteStore) Prune(ctx context.Context, keep int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep <= 0 {
		return 0, nil
	}

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM builds WHERE rowid NOT IN (SELECT rowid FROM builds ORDER BY started_at DESC, rowid DESC LIMIT ?)",
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune build records: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned records: %w", err)
	}

	return int(removed), nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var rec Record
		var startedMilli, durationMilli int64

		err := rows.Scan(&rec.ID, &startedMilli, &durationMilli, &rec.Outcome,
			&rec.PagesRendered, &rec.PagesConverted, &rec.BrokenLinks, &rec.Revision, &rec.Error)
		if err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}

		rec.StartedAt = time.UnixMilli(startedMilli)
		rec.Duration = time.Duration(durationMilli) * time.Millisecond

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return records, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
