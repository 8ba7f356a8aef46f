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

package search

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/evisearch/ai"
	"github.com/poiesic/evisearch/core"
	"github.com/poiesic/evisearch/corpus"
)

const (
	// DefaultTopK is the default number of ranked results returned.
	DefaultTopK = 20

	// DefaultSimilarityThreshold is the minimum raw similarity a hit
	// needs to survive filtering.
	DefaultSimilarityThreshold = 0.5

	// DefaultEmbedTimeout bounds each embedding call.
	DefaultEmbedTimeout = 30 * time.Second

	// DefaultPoolSize is the number of query variants searched concurrently.
	DefaultPoolSize = 4
)

// Engine runs multi-query evidence searches against an in-memory corpus.
// Each query variant is embedded and matched independently, per-item
// scores are merged by maximum, weighted by evidence category, and the
// top results are returned in rank order.
type Engine struct {
	corpus       *corpus.EvidenceCorpus
	embedder     ai.Embedder
	topK         int
	threshold    float32
	embedTimeout time.Duration
	pool         *ants.Pool
	logger       *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithTopK sets the maximum number of ranked results.
func WithTopK(k int) Option {
	return func(e *Engine) error {
		if k <= 0 {
			return ErrInvalidTopK
		}
		e.topK = k
		return nil
	}
}

// WithSimilarityThreshold sets the minimum raw similarity for a hit.
func WithSimilarityThreshold(threshold float32) Option {
	return func(e *Engine) error {
		if threshold < -1 || threshold > 1 {
			return ErrInvalidThreshold
		}
		e.threshold = threshold
		return nil
	}
}

// WithEmbedTimeout bounds each embedding request.
func WithEmbedTimeout(timeout time.Duration) Option {
	return func(e *Engine) error {
		e.embedTimeout = timeout
		return nil
	}
}

// WithPoolSize sets how many query variants are searched concurrently.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if size <= 0 {
			return ErrInvalidPoolSize
		}
		if e.pool != nil {
			e.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		e.pool = pool
		return nil
	}
}

// WithLogger sets the logger used by the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// NewEngine creates a search engine over the given corpus and embedder.
func NewEngine(c *corpus.EvidenceCorpus, embedder ai.Embedder, opts ...Option) (*Engine, error) {
	if c == nil {
		return nil, ErrCorpusRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	engine := &Engine{
		corpus:       c,
		embedder:     embedder,
		topK:         DefaultTopK,
		threshold:    DefaultSimilarityThreshold,
		embedTimeout: DefaultEmbedTimeout,
		logger:       slog.Default().With("component", "search-engine"),
	}

	for _, opt := range opts {
		if err := opt(engine); err != nil {
			if engine.pool != nil {
				engine.pool.Release()
			}
			return nil, err
		}
	}

	if engine.pool == nil {
		pool, err := ants.NewPool(DefaultPoolSize)
		if err != nil {
			return nil, err
		}
		engine.pool = pool
	}

	return engine, nil
}

// Release shuts down the engine's worker pool.
func (e *Engine) Release() {
	e.pool.Release()
}

// SearchSingle searches with one query string.
func (e *Engine) SearchSingle(ctx context.Context, query string) ([]*core.RankedEvidence, error) {
	return e.SearchEvidence(ctx, []string{query})
}

// SearchEvidence searches with a batch of query variants and returns the
// merged, weighted, ranked evidence.
func (e *Engine) SearchEvidence(ctx context.Context, queries []string) ([]*core.RankedEvidence, error) {
	return e.SearchEvidenceWithMonitor(ctx, queries, nil)
}

// SearchEvidenceWithMonitor is SearchEvidence with progress callbacks.
// A failing query variant is logged and skipped, the rest of the batch
// still contributes. When every variant fails the result is empty with
// a nil error.
func (e *Engine) SearchEvidenceWithMonitor(ctx context.Context, queries []string, monitor SearchMonitor) ([]*core.RankedEvidence, error) {
	if monitor == nil {
		monitor = noopMonitor{}
	}
	monitor.Start(queries)

	start := time.Now()
	perQuery := make([][]corpus.Hit, len(queries))

	var wg sync.WaitGroup
	for i, query := range queries {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			hits, err := e.searchQuery(ctx, query)
			if err != nil {
				e.logger.Warn("query variant failed",
					"query", truncateQuery(query),
					"err", err)
				monitor.QueryFailed(query, err)
				return
			}
			perQuery[i] = hits
			monitor.QuerySearched(query, hits)
		}
		if err := e.pool.Submit(task); err != nil {
			// Pool unavailable, run inline rather than dropping the query.
			task()
		}
	}
	wg.Wait()

	// Merge across variants keeping the best raw score per evidence item.
	best := make(map[int]float32)
	for _, hits := range perQuery {
		for _, hit := range hits {
			if score, ok := best[hit.Index]; !ok || hit.Score > score {
				best[hit.Index] = hit.Score
			}
		}
	}
	monitor.AfterMerge(len(best))

	weights := e.corpus.Weights()
	type candidate struct {
		item  *core.EvidenceItem
		score float32
	}
	candidates := make([]candidate, 0, len(best))
	for index, score := range best {
		item, err := e.corpus.Item(index)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate{
			item:  item,
			score: score * weights.For(item),
		})
	}

	slices.SortFunc(candidates, func(a, b candidate) int {
		if a.score != b.score {
			if a.score > b.score {
				return -1
			}
			return 1
		}
		return strings.Compare(string(a.item.Id), string(b.item.Id))
	})

	if len(candidates) > e.topK {
		candidates = candidates[:e.topK]
	}

	results := make([]*core.RankedEvidence, len(candidates))
	for i, c := range candidates {
		results[i] = &core.RankedEvidence{
			Item:            c.item,
			SimilarityScore: c.score,
			SearchRank:      i + 1,
		}
	}

	e.logger.Debug("search complete",
		"queries", len(queries),
		"candidates", len(best),
		"results", len(results),
		"duration", time.Since(start))
	monitor.Finish(results)
	return results, nil
}

// searchQuery embeds one query variant and matches it against the corpus.
// The corpus is over-fetched at twice the result limit so threshold
// filtering still leaves enough candidates.
func (e *Engine) searchQuery(ctx context.Context, query string) ([]corpus.Hit, error) {
	embedCtx, cancel := context.WithTimeout(ctx, e.embedTimeout)
	defer cancel()

	vector, err := e.embedder.EmbedText(embedCtx, query)
	if err != nil {
		return nil, err
	}

	hits, err := e.corpus.Search(vector, 2*e.topK)
	if err != nil {
		return nil, err
	}

	filtered := hits[:0]
	for _, hit := range hits {
		if hit.Score >= e.threshold {
			filtered = append(filtered, hit)
		}
	}
	if len(filtered) > e.topK {
		filtered = filtered[:e.topK]
	}
	return filtered, nil
}

func truncateQuery(query string) string {
	const maxLen = 80
	if len(query) <= maxLen {
		return query
	}
	return query[:maxLen] + "..."
}
