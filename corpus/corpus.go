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

package corpus

import (
	"errors"
	"fmt"
	"sort"

	"github.com/poiesic/evisearch/core"
	"github.com/poiesic/evisearch/storage"
)

var (
	// ErrLengthMismatch indicates items and vectors have different lengths.
	ErrLengthMismatch = errors.New("items and vectors length mismatch")

	// ErrDimensionMismatch indicates a vector has the wrong dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrIndexOutOfRange indicates a corpus position outside [0, Len).
	ErrIndexOutOfRange = errors.New("index out of range")
)

// EvidenceCorpus is an immutable in-memory evidence index. Position i in
// the item slice corresponds to position i in the vector slice, which is
// what makes search results resolvable back to evidence items.
type EvidenceCorpus struct {
	items   []*core.EvidenceItem
	vectors [][]float32
	dim     int
	weights core.TypeWeights
}

// Hit is a single similarity match: a corpus position and its raw score.
type Hit struct {
	Index int
	Score float32
}

// New builds a corpus from parallel item and vector slices. All vectors
// must share one dimension. A nil weights map falls back to the defaults.
// An empty corpus is legal and searches over it return no hits.
func New(items []*core.EvidenceItem, vectors [][]float32, weights core.TypeWeights) (*EvidenceCorpus, error) {
	if len(items) != len(vectors) {
		return nil, fmt.Errorf("%w: %d items, %d vectors", ErrLengthMismatch, len(items), len(vectors))
	}

	dim := 0
	for i, v := range vectors {
		if i == 0 {
			dim = len(v)
			continue
		}
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, expected %d", ErrDimensionMismatch, i, len(v), dim)
		}
	}

	if weights == nil {
		weights = core.DefaultTypeWeights()
	}

	return &EvidenceCorpus{
		items:   items,
		vectors: vectors,
		dim:     dim,
		weights: weights,
	}, nil
}

// FromSnapshot builds a corpus from a stored snapshot.
func FromSnapshot(snapshot *storage.Snapshot) (*EvidenceCorpus, error) {
	return New(snapshot.Items, snapshot.Vectors, snapshot.Weights)
}

// Len returns the number of evidence items.
func (c *EvidenceCorpus) Len() int {
	return len(c.items)
}

// Dimension returns the vector dimension, zero for an empty corpus.
func (c *EvidenceCorpus) Dimension() int {
	return c.dim
}

// Weights returns the ranking weights the corpus was built with.
func (c *EvidenceCorpus) Weights() core.TypeWeights {
	return c.weights
}

// Item returns the evidence item at a corpus position.
func (c *EvidenceCorpus) Item(index int) (*core.EvidenceItem, error) {
	if index < 0 || index >= len(c.items) {
		return nil, fmt.Errorf("%w: %d with %d items", ErrIndexOutOfRange, index, len(c.items))
	}
	return c.items[index], nil
}

// Search scans every vector and returns up to k hits ordered by
// descending inner-product score. For unit-norm vectors the inner
// product equals cosine similarity. Ties keep the lower position first.
func (c *EvidenceCorpus) Search(vector []float32, k int) ([]Hit, error) {
	if len(c.vectors) == 0 || k <= 0 {
		return nil, nil
	}
	if len(vector) != c.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, corpus has %d", ErrDimensionMismatch, len(vector), c.dim)
	}

	hits := make([]Hit, len(c.vectors))
	for i, v := range c.vectors {
		var score float32
		for j := range v {
			score += v[j] * vector[j]
		}
		hits[i] = Hit{Index: i, Score: score}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}
