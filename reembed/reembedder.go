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

package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/evisearch/ai"
	"github.com/poiesic/evisearch/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of items to embed in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of items)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed batches
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder regenerates every vector in a stored snapshot with a new
// embedding model. Used when switching models or embedding services, the
// evidence items themselves are untouched.
type Reembedder struct {
	store    storage.SnapshotStore
	embedder ai.Embedder
	aiConfig *ai.Config
	config   *Config
	progress io.Writer
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(store storage.SnapshotStore, embedder ai.Embedder, aiConfig *ai.Config, config *Config, progress io.Writer) (*Reembedder, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if aiConfig == nil {
		aiConfig = ai.DefaultConfig()
	}

	return &Reembedder{
		store:    store,
		embedder: embedder,
		aiConfig: aiConfig,
		config:   config,
		progress: progress,
	}, nil
}

// Run executes the reembedding operation. Every evidence item in the
// stored snapshot is embedded again and the snapshot is rewritten with
// the new vectors, model name and dimension.
func (r *Reembedder) Run(ctx context.Context) error {
	snapshot, err := r.store.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	total := len(snapshot.Items)
	if total == 0 {
		fmt.Fprintf(r.progress, "No evidence found in snapshot (0 items)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d items (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	vectors := make([][]float32, total)
	for start := 0; start < total; start += r.config.BatchSize {
		end := start + r.config.BatchSize
		if end > total {
			end = total
		}

		texts := make([]string, end-start)
		for i, item := range snapshot.Items[start:end] {
			texts[i] = item.EmbedText()
		}

		var batch [][]float32
		err := RetryWithBackoff(ctx, func() error {
			var embedErr error
			batch, embedErr = r.embedder.EmbedTexts(ctx, texts)
			return embedErr
		}, r.config.MaxRetries, r.config.RetryDelay)
		if err != nil {
			return fmt.Errorf("failed to embed batch at %d: %w", start, err)
		}
		if len(batch) != end-start {
			return fmt.Errorf("%w: expected %d vectors, got %d", ai.ErrNoEmbedding, end-start, len(batch))
		}

		for i, v := range batch {
			if len(v) != r.aiConfig.EmbeddingDimension {
				return fmt.Errorf("%w: expected %d, got %d",
					ai.ErrDimensionMismatch, r.aiConfig.EmbeddingDimension, len(v))
			}
			vectors[start+i] = NormalizeVector(v)
		}

		tracker.Update(end)
	}

	snapshot.Vectors = vectors
	snapshot.Model = r.aiConfig.EmbeddingModel
	snapshot.Dimension = r.aiConfig.EmbeddingDimension
	snapshot.CreatedAt = time.Now().UTC()

	if err := r.store.SaveSnapshot(snapshot); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d items in %v (%.1f items/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
