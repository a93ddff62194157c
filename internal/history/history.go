// Package history persists one record per build so past runs can be
// inspected with the history command. Records live in a small SQLite
// database under the site root.
package history

import (
	"context"
	"time"
)

// Record is the stored summary of a single build.
type Record struct {
	ID             string        `json:"id"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration"`
	Outcome        string        `json:"outcome"`
	PagesRendered  int           `json:"pages_rendered"`
	PagesConverted int           `json:"pages_converted"`
	BrokenLinks    int           `json:"broken_links"`
	Revision       string        `json:"revision,omitempty"`
	Error          string        `json:"error,omitempty"`
}

// Store defines the interface for persisting and retrieving build records.
type Store interface {
	// Append adds a build record to the store.
	Append(ctx context.Context, rec Record) error

	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]Record, error)

	// Prune deletes all but the keep most recent records and reports
	// how many were removed.
	Prune(ctx context.Context, keep int) (int, error)

	// Close closes the store and releases resources.
	Close() error
}
