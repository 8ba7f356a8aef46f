package storage

import (
	"time"

	"github.com/poiesic/evisearch/core"
)

// Snapshot is a fully materialized evidence index: the evidence items,
// their embedding vectors in the same order, and the parameters the
// vectors were generated with. Items[i] corresponds to Vectors[i].
type Snapshot struct {
	Items     []*core.EvidenceItem
	Vectors   [][]float32
	Weights   core.TypeWeights
	Model     string
	Dimension int
	CreatedAt time.Time
}

// SnapshotMeta describes a stored snapshot without loading its rows.
type SnapshotMeta struct {
	Count     int
	Dimension int
	Model     string
	Weights   core.TypeWeights
	CreatedAt time.Time
}

// SnapshotStore persists evidence snapshots.
type SnapshotStore interface {
	// SaveSnapshot replaces any stored snapshot with the given one.
	SaveSnapshot(snapshot *Snapshot) error

	// LoadSnapshot reads the stored snapshot.
	// Returns ErrSnapshotNotFound when nothing has been saved.
	LoadSnapshot() (*Snapshot, error)

	// Meta reads the stored snapshot's metadata without loading rows.
	Meta() (*SnapshotMeta, error)

	// Close releases underlying resources.
	Close() error
}
