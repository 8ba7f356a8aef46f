package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/evisearch/ai"
	"github.com/poiesic/evisearch/ai/mock"
	"github.com/poiesic/evisearch/core"
	"github.com/poiesic/evisearch/storage"
	"github.com/poiesic/evisearch/storage/badger"
)

func testConfig(t *testing.T) *ai.Config {
	t.Helper()
	return ai.NewConfig(ai.WithEmbeddingDimension(mock.DefaultDimension))
}

func testStore(t *testing.T) storage.SnapshotStore {
	t.Helper()
	store, err := badger.NewMemorySnapshotStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func textItems(count int) []*core.EvidenceItem {
	items := make([]*core.EvidenceItem, count)
	for i := range items {
		items[i] = &core.EvidenceItem{
			Id:       core.ID(fmt.Sprintf("e%d", i)),
			Category: core.CategoryText,
			Content:  core.TextContent{Text: fmt.Sprintf("evidence %d", i)},
		}
	}
	return items
}

func TestNewPipeline(t *testing.T) {
	store := testStore(t)

	t.Run("missing store", func(t *testing.T) {
		_, err := NewPipeline(nil, mock.NewEmbedder(), testConfig(t))
		assert.ErrorIs(t, err, ErrStoreRequired)
	})

	t.Run("missing embedder", func(t *testing.T) {
		_, err := NewPipeline(store, nil, testConfig(t))
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("missing config", func(t *testing.T) {
		_, err := NewPipeline(store, mock.NewEmbedder(), nil)
		assert.ErrorIs(t, err, ErrConfigRequired)
	})
}

func TestIngest(t *testing.T) {
	store := testStore(t)
	pipeline, err := NewPipeline(store, mock.NewEmbedder(), testConfig(t), WithBatchSize(10))
	require.NoError(t, err)
	defer pipeline.Release()

	count, err := pipeline.Ingest(context.Background(), textItems(35))
	require.NoError(t, err)
	assert.Equal(t, 35, count)

	loaded, err := store.LoadSnapshot()
	require.NoError(t, err)
	require.Len(t, loaded.Items, 35)
	assert.Equal(t, mock.DefaultDimension, loaded.Dimension)
	assert.Equal(t, "text-embedding-3-large", loaded.Model)
	assert.Equal(t, core.DefaultTypeWeights(), loaded.Weights)

	// Items keep ingest order and every vector is populated.
	for i, item := range loaded.Items {
		assert.Equal(t, core.ID(fmt.Sprintf("e%d", i)), item.Id)
		assert.Len(t, loaded.Vectors[i], mock.DefaultDimension)
	}
}

func TestIngest_EmbeddingFailureAborts(t *testing.T) {
	store := testStore(t)

	// Seed a snapshot that must survive the failed ingest.
	seed, err := NewPipeline(store, mock.NewEmbedder(), testConfig(t))
	require.NoError(t, err)
	_, err = seed.Ingest(context.Background(), textItems(3))
	require.NoError(t, err)
	seed.Release()

	embedder := mock.NewEmbedder()
	wantErr := errors.New("embedding service down")
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, wantErr
	}

	pipeline, err := NewPipeline(store, embedder, testConfig(t))
	require.NoError(t, err)
	defer pipeline.Release()

	_, err = pipeline.Ingest(context.Background(), textItems(10))
	assert.ErrorIs(t, err, wantErr)

	loaded, err := store.LoadSnapshot()
	require.NoError(t, err)
	assert.Len(t, loaded.Items, 3)
}

func TestIngest_DimensionMismatch(t *testing.T) {
	store := testStore(t)

	embedder := mock.NewEmbedder()
	embedder.Dimension = 8

	pipeline, err := NewPipeline(store, embedder, testConfig(t))
	require.NoError(t, err)
	defer pipeline.Release()

	_, err = pipeline.Ingest(context.Background(), textItems(2))
	assert.ErrorIs(t, err, ai.ErrDimensionMismatch)
}

func TestIngest_Empty(t *testing.T) {
	store := testStore(t)
	pipeline, err := NewPipeline(store, mock.NewEmbedder(), testConfig(t))
	require.NoError(t, err)
	defer pipeline.Release()

	_, err = pipeline.Ingest(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoEvidence)
}

func TestIngestDocument(t *testing.T) {
	store := testStore(t)
	pipeline, err := NewPipeline(store, mock.NewEmbedder(), testConfig(t),
		WithTypeWeights(core.TypeWeights{core.CategoryTable: 2.0}))
	require.NoError(t, err)
	defer pipeline.Release()

	count, err := pipeline.IngestDocument(context.Background(), strings.NewReader(sampleDocument))
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	meta, err := store.Meta()
	require.NoError(t, err)
	assert.Equal(t, 3, meta.Count)
	assert.Equal(t, core.TypeWeights{core.CategoryTable: 2.0}, meta.Weights)
}
