package reembed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/evisearch/ai"
	"github.com/poiesic/evisearch/ai/mock"
	"github.com/poiesic/evisearch/core"
	"github.com/poiesic/evisearch/storage"
	"github.com/poiesic/evisearch/storage/badger"
)

func seedStore(t *testing.T, count int) storage.SnapshotStore {
	t.Helper()
	store, err := badger.NewMemorySnapshotStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	items := make([]*core.EvidenceItem, count)
	vectors := make([][]float32, count)
	for i := range items {
		items[i] = &core.EvidenceItem{
			Id:       core.ID(fmt.Sprintf("e%d", i)),
			Category: core.CategoryText,
			Content:  core.TextContent{Text: fmt.Sprintf("evidence %d", i)},
		}
		vectors[i] = []float32{1, 0}
	}
	require.NoError(t, store.SaveSnapshot(&storage.Snapshot{
		Items:     items,
		Vectors:   vectors,
		Weights:   core.DefaultTypeWeights(),
		Model:     "old-model",
		Dimension: 2,
		CreatedAt: time.Now().UTC(),
	}))
	return store
}

func TestNewReembedder(t *testing.T) {
	store := seedStore(t, 1)

	_, err := NewReembedder(nil, mock.NewEmbedder(), nil, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewReembedder(store, nil, nil, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestRun(t *testing.T) {
	store := seedStore(t, 25)

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingModel("new-model"),
		ai.WithEmbeddingDimension(mock.DefaultDimension),
	)
	embedder := mock.NewEmbedder()

	var progress bytes.Buffer
	reembedder, err := NewReembedder(store, embedder, aiConfig, &Config{
		BatchSize:      10,
		ReportInterval: 10,
		MaxRetries:     1,
		RetryDelay:     time.Millisecond,
	}, &progress)
	require.NoError(t, err)

	require.NoError(t, reembedder.Run(context.Background()))

	loaded, err := store.LoadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, "new-model", loaded.Model)
	assert.Equal(t, mock.DefaultDimension, loaded.Dimension)
	require.Len(t, loaded.Vectors, 25)
	for i, item := range loaded.Items {
		assert.Equal(t, core.ID(fmt.Sprintf("e%d", i)), item.Id)
		assert.Len(t, loaded.Vectors[i], mock.DefaultDimension)
	}
	assert.Contains(t, progress.String(), "Reembedding complete")
}

func TestRun_RetriesTransientFailures(t *testing.T) {
	store := seedStore(t, 5)

	var calls atomic.Int32
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("transient")
		}
		vectors := make([][]float32, len(texts))
		for i := range vectors {
			vectors[i] = make([]float32, mock.DefaultDimension)
			vectors[i][0] = 1
		}
		return vectors, nil
	}

	aiConfig := ai.NewConfig(ai.WithEmbeddingDimension(mock.DefaultDimension))
	reembedder, err := NewReembedder(store, embedder, aiConfig, &Config{
		BatchSize:      10,
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
	}, &bytes.Buffer{})
	require.NoError(t, err)

	require.NoError(t, reembedder.Run(context.Background()))
	assert.Equal(t, int32(2), calls.Load())
}

func TestRun_FailureLeavesSnapshotIntact(t *testing.T) {
	store := seedStore(t, 5)

	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("persistent")
	}

	reembedder, err := NewReembedder(store, embedder, nil, &Config{
		BatchSize:      10,
		ReportInterval: 10,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Error(t, reembedder.Run(context.Background()))

	loaded, err := store.LoadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, "old-model", loaded.Model)
	assert.Equal(t, []float32{1, 0}, loaded.Vectors[0])
}

func TestRun_EmptySnapshot(t *testing.T) {
	store := seedStore(t, 0)

	var progress bytes.Buffer
	reembedder, err := NewReembedder(store, mock.NewEmbedder(), nil, nil, &progress)
	require.NoError(t, err)

	require.NoError(t, reembedder.Run(context.Background()))
	assert.Contains(t, progress.String(), "No evidence found")
}
