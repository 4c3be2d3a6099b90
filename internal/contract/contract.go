// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"errors"

	"github.com/huangsam/dashline/schema"
)

// ErrSnapshotNotFound is returned when no snapshot exists under a name.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// StoreManager defines the interface for managing snapshot stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetSnapshotStore() SnapshotStore
}

// SnapshotStore defines the interface for storing dashboard documents by name.
type SnapshotStore interface {
	// Save stores a new version of the named dashboard and returns the stored record.
	Save(name string, payload []byte, timestamp int64) (schema.SnapshotRecord, error)

	// Get returns the latest version of the named dashboard.
	// It returns ErrSnapshotNotFound when the name is unknown.
	Get(name string) (schema.SnapshotRecord, error)

	// List returns the latest version of every stored dashboard, sorted by name.
	List() ([]schema.SnapshotRecord, error)

	// GetStatus returns status information about the store
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection
	Close() error
}
