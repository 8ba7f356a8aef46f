// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/evisearch/core"
	"github.com/poiesic/evisearch/storage"
)

// rowsPerTxn bounds how many rows go into one write transaction so
// large snapshots stay under BadgerDB's transaction size limit.
const rowsPerTxn = 100

type snapshotStore struct {
	backend     *Backend
	ownsBackend bool
	logger      *slog.Logger
}

var _ storage.SnapshotStore = (*snapshotStore)(nil)

// NewSnapshotStore opens a BadgerDB-backed snapshot store at the given
// path. With inMemory set, no files are written and the store vanishes
// on Close.
//
// Returns storage.SnapshotStore interface to enforce abstraction.
func NewSnapshotStore(path string, inMemory bool) (storage.SnapshotStore, error) {
	backend, err := OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}
	return &snapshotStore{
		backend:     backend,
		ownsBackend: true,
		logger:      slog.Default().With("component", "snapshot-store"),
	}, nil
}

// NewSnapshotStoreWithBackend creates a snapshot store over an existing
// backend. The caller remains responsible for closing the backend.
func NewSnapshotStoreWithBackend(backend *Backend) storage.SnapshotStore {
	return &snapshotStore{
		backend: backend,
		logger:  slog.Default().With("component", "snapshot-store"),
	}
}

func (s *snapshotStore) SaveSnapshot(snapshot *storage.Snapshot) error {
	if snapshot == nil {
		return storage.ErrNilSnapshot
	}
	if len(snapshot.Items) != len(snapshot.Vectors) {
		return fmt.Errorf("%w: %d items, %d vectors", storage.ErrCorruptSnapshot, len(snapshot.Items), len(snapshot.Vectors))
	}

	dimension := snapshot.Dimension
	if dimension == 0 && len(snapshot.Vectors) > 0 {
		dimension = len(snapshot.Vectors[0])
	}
	for i, v := range snapshot.Vectors {
		if len(v) != dimension {
			return fmt.Errorf("%w: vector %d has dimension %d, expected %d", storage.ErrCorruptSnapshot, i, len(v), dimension)
		}
	}

	createdAt := snapshot.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	// Clear any previous snapshot. The meta record is written last, so
	// a crash mid-save reads back as no snapshot rather than a torn one.
	if err := s.backend.DropPrefix([]byte(rowPrefix), []byte(metaKey)); err != nil {
		return err
	}

	for start := 0; start < len(snapshot.Items); start += rowsPerTxn {
		end := start + rowsPerTxn
		if end > len(snapshot.Items) {
			end = len(snapshot.Items)
		}
		err := s.backend.WithTx(func(tx *badger.Txn) error {
			for i := start; i < end; i++ {
				row := storage.Row{Item: snapshot.Items[i], Vector: snapshot.Vectors[i]}
				if err := tx.Set(makeRowKey(i), storage.MarshalRow(row)); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return err
		}
	}

	meta := &storage.SnapshotMeta{
		Count:     len(snapshot.Items),
		Dimension: dimension,
		Model:     snapshot.Model,
		Weights:   snapshot.Weights,
		CreatedAt: createdAt,
	}
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(metaKey), storage.MarshalMeta(meta)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	s.logger.Info("snapshot saved",
		"count", meta.Count,
		"dimension", meta.Dimension,
		"model", meta.Model)
	return nil
}

func (s *snapshotStore) LoadSnapshot() (*storage.Snapshot, error) {
	meta, err := s.Meta()
	if err != nil {
		return nil, err
	}

	snapshot := &storage.Snapshot{
		Items:     make([]*core.EvidenceItem, 0, meta.Count),
		Vectors:   make([][]float32, 0, meta.Count),
		Weights:   meta.Weights,
		Model:     meta.Model,
		Dimension: meta.Dimension,
		CreatedAt: meta.CreatedAt,
	}

	err = s.backend.WithTx(func(tx *badger.Txn) error {
		for i := 0; i < meta.Count; i++ {
			item, err := tx.Get(makeRowKey(i))
			if err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("%w: missing row %d of %d", storage.ErrCorruptSnapshot, i, meta.Count)
				}
				return err
			}
			var row storage.Row
			err = item.Value(func(val []byte) error {
				var err error
				row, err = storage.UnmarshalRow(val)
				return err
			})
			if err != nil {
				return err
			}
			if len(row.Vector) != meta.Dimension {
				return fmt.Errorf("%w: row %d has dimension %d, expected %d", storage.ErrCorruptSnapshot, i, len(row.Vector), meta.Dimension)
			}
			snapshot.Items = append(snapshot.Items, row.Item)
			snapshot.Vectors = append(snapshot.Vectors, row.Vector)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("snapshot loaded", "count", meta.Count, "dimension", meta.Dimension)
	return snapshot, nil
}

func (s *snapshotStore) Meta() (*storage.SnapshotMeta, error) {
	var meta *storage.SnapshotMeta
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(metaKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrSnapshotNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			meta, err = storage.UnmarshalMeta(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return meta, nil
}

func (s *snapshotStore) Close() error {
	if s.ownsBackend {
		return s.backend.Close()
	}
	return nil
}
