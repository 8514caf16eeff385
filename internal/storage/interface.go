// Package storage persists analysis snapshots so past runs can be
// listed, re-rendered, and compared without refetching history.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/repopulse/repopulse-go/internal/analytics"
)

// Common errors
var (
	ErrNotFound = errors.New("not found")
)

// SnapshotRecord wraps a snapshot with storage metadata. The payload
// itself stays opaque JSON so schema changes in the analysis output do
// not require migrations.
type SnapshotRecord struct {
	ID          string              `db:"id" json:"id"`
	Repo        string              `db:"repo" json:"repo"`
	WindowStart time.Time           `db:"window_start" json:"window_start"`
	WindowEnd   time.Time           `db:"window_end" json:"window_end"`
	CreatedAt   time.Time           `db:"created_at" json:"created_at"`
	Snapshot    *analytics.Snapshot `db:"-" json:"snapshot,omitempty"`
}

// Store defines the snapshot storage interface.
type Store interface {
	// SaveSnapshot persists a snapshot and returns its generated ID.
	SaveSnapshot(ctx context.Context, snap *analytics.Snapshot) (string, error)

	// GetSnapshot loads a snapshot by ID. Returns ErrNotFound when absent.
	GetSnapshot(ctx context.Context, id string) (*SnapshotRecord, error)

	// ListSnapshots returns records for a repository, newest first. The
	// records carry metadata only; load the payload with GetSnapshot.
	ListSnapshots(ctx context.Context, repo string, limit int) ([]*SnapshotRecord, error)

	// DeleteSnapshot removes a snapshot by ID. Returns ErrNotFound when absent.
	DeleteSnapshot(ctx context.Context, id string) error

	// Close releases the underlying connection.
	Close() error
}
