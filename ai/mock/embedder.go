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

package mock

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"sync"

	"github.com/poiesic/evisearch/ai"
)

// DefaultDimension is the vector size produced when no override is set.
const DefaultDimension = 384

// Embedder is a mock implementation of ai.Embedder for testing.
// Without overrides it produces deterministic unit-norm vectors seeded
// from the input text, so identical texts always embed identically.
type Embedder struct {
	mu        sync.Mutex
	callCount int

	// Dimension of generated vectors. Zero means DefaultDimension.
	Dimension int

	// EmbedTextFunc overrides single-text embedding when set.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc overrides batch embedding when set.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)
}

// NewEmbedder creates a mock embedder producing deterministic vectors.
func NewEmbedder() *Embedder {
	return &Embedder{}
}

func (m *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	if text == "" {
		return nil, ai.ErrEmptyText
	}
	return m.generate(text), nil
}

func (m *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if text == "" {
			return nil, ai.ErrEmptyText
		}
		vectors[i] = m.generate(text)
	}
	return vectors, nil
}

// CallCount returns how many times either embed method was invoked.
func (m *Embedder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call counter.
func (m *Embedder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
}

func (m *Embedder) generate(text string) []float32 {
	dim := m.Dimension
	if dim == 0 {
		dim = DefaultDimension
	}

	h := fnv.New64a()
	h.Write([]byte(text))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	v := make([]float32, dim)
	var sum float64
	for i := range v {
		v[i] = rng.Float32()*2 - 1
		sum += float64(v[i]) * float64(v[i])
	}
	if sum > 0 {
		inv := float32(1.0 / math.Sqrt(sum))
		for i := range v {
			v[i] *= inv
		}
	}
	return v
}
