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

package evisearch

import (
	"context"
	"log/slog"
	"os"

	"github.com/poiesic/evisearch/ai"
	"github.com/poiesic/evisearch/ai/openai"
	"github.com/poiesic/evisearch/corpus"
	"github.com/poiesic/evisearch/ingestion"
	"github.com/poiesic/evisearch/reembed"
	"github.com/poiesic/evisearch/search"
	"github.com/poiesic/evisearch/storage"
	"github.com/poiesic/evisearch/storage/badger"
)

// Database bundles a snapshot store with an embedder and hands out the
// ingestion, search and reembedding entry points built on them.
type Database struct {
	store    storage.SnapshotStore
	aiConfig *ai.Config
	embedder ai.Embedder
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	embedder ai.Embedder
	inMemory bool
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithEmbedder injects an embedder, bypassing the default
// OpenAI-compatible client. Mainly for testing.
func WithEmbedder(embedder ai.Embedder) DatabaseOption {
	return func(o *databaseOptions) {
		o.embedder = embedder
	}
}

// WithInMemory keeps all storage in memory, nothing is written to disk.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens an evidence database at the given path.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	store, err := badger.NewSnapshotStore(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	return &Database{
		store:    store,
		aiConfig: options.aiConfig,
		embedder: embedder,
		logger:   slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	if err := db.store.Close(); err != nil {
		db.logger.Error("error closing snapshot store", "err", err)
		return err
	}
	return nil
}

// SnapshotStore exposes the underlying snapshot store.
func (db *Database) SnapshotStore() storage.SnapshotStore {
	return db.store
}

// NewEngine loads the stored snapshot into memory and builds a search
// engine over it. Fails fast when no snapshot has been ingested yet.
func (db *Database) NewEngine(ctx context.Context, opts ...search.Option) (*search.Engine, error) {
	snapshot, err := db.store.LoadSnapshot()
	if err != nil {
		return nil, err
	}

	c, err := corpus.FromSnapshot(snapshot)
	if err != nil {
		return nil, err
	}

	db.logger.Info("evidence corpus loaded",
		"items", c.Len(),
		"dimension", c.Dimension(),
		"model", snapshot.Model)

	return search.NewEngine(c, db.embedder, opts...)
}

// NewPipeline creates an ingestion pipeline writing to this database.
func (db *Database) NewPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.store, db.embedder, db.aiConfig, opts...)
}

// NewReembedder creates a reembedder for this database. Progress is
// written to stderr.
func (db *Database) NewReembedder(config *reembed.Config) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(db.store, db.embedder, db.aiConfig, config, os.Stderr)
}
