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

package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/evisearch/ai"
	"github.com/poiesic/evisearch/core"
	"github.com/poiesic/evisearch/storage"
)

// DefaultBatchSize is how many evidence items are embedded per request.
const DefaultBatchSize = 100

// Pipeline turns extraction documents into a stored, searchable snapshot.
// It embeds evidence in concurrent batches and replaces the snapshot
// atomically at the end, a failed ingest leaves the previous snapshot
// untouched.
type Pipeline struct {
	store     storage.SnapshotStore
	embedder  ai.Embedder
	aiConfig  *ai.Config
	pool      *ants.Pool
	batchSize int
	weights   core.TypeWeights
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent batch embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many items go into one embedding request.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithTypeWeights sets the ranking weights stored in the snapshot.
// Default is core.DefaultTypeWeights().
func WithTypeWeights(weights core.TypeWeights) Option {
	return func(p *Pipeline) error {
		if weights != nil {
			p.weights = weights
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(store storage.SnapshotStore, embedder ai.Embedder, aiConfig *ai.Config, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if aiConfig == nil {
		return nil, ErrConfigRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:     store,
		embedder:  embedder,
		aiConfig:  aiConfig,
		pool:      pool,
		batchSize: DefaultBatchSize,
		weights:   core.DefaultTypeWeights(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Release shuts down the pipeline's worker pool.
func (p *Pipeline) Release() {
	p.pool.Release()
}

// IngestDocument parses an extraction document and ingests its evidence.
// Returns the number of items stored.
func (p *Pipeline) IngestDocument(ctx context.Context, r io.Reader) (int, error) {
	items, err := LoadEvidence(r)
	if err != nil {
		return 0, err
	}
	return p.Ingest(ctx, items)
}

// Ingest embeds the given evidence items and replaces the stored
// snapshot. Any embedding failure aborts the whole ingest.
func (p *Pipeline) Ingest(ctx context.Context, items []*core.EvidenceItem) (int, error) {
	if len(items) == 0 {
		return 0, ErrNoEvidence
	}

	start := time.Now()
	p.logger.Info("ingest started", "items", len(items), "batch_size", p.batchSize)

	vectors := make([][]float32, len(items))
	batchCount := (len(items) + p.batchSize - 1) / p.batchSize
	errs := make([]error, batchCount)

	var wg sync.WaitGroup
	for b := 0; b < batchCount; b++ {
		batchStart := b * p.batchSize
		batchEnd := batchStart + p.batchSize
		if batchEnd > len(items) {
			batchEnd = len(items)
		}

		wg.Add(1)
		task := func() {
			defer wg.Done()
			errs[b] = p.embedBatch(ctx, items[batchStart:batchEnd], vectors[batchStart:batchEnd])
		}
		if err := p.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return 0, err
		}
	}

	snapshot := &storage.Snapshot{
		Items:     items,
		Vectors:   vectors,
		Weights:   p.weights,
		Model:     p.aiConfig.EmbeddingModel,
		Dimension: p.aiConfig.EmbeddingDimension,
		CreatedAt: time.Now().UTC(),
	}
	if err := p.store.SaveSnapshot(snapshot); err != nil {
		return 0, err
	}

	p.logger.Info("ingest complete",
		"items", len(items),
		"batches", batchCount,
		"duration", time.Since(start))
	return len(items), nil
}

func (p *Pipeline) embedBatch(ctx context.Context, items []*core.EvidenceItem, out [][]float32) error {
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.EmbedText()
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(items) {
		return fmt.Errorf("%w: expected %d vectors, got %d", ai.ErrNoEmbedding, len(items), len(vectors))
	}
	for i, v := range vectors {
		if len(v) != p.aiConfig.EmbeddingDimension {
			return fmt.Errorf("%w: item %s has dimension %d, expected %d",
				ai.ErrDimensionMismatch, items[i].Id, len(v), p.aiConfig.EmbeddingDimension)
		}
		out[i] = v
	}
	return nil
}
