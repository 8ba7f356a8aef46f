package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must return unit-length vectors so that inner product equals
// cosine similarity, and must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector has the configured dimension and unit L2 norm.
	// Returns an error if the text is empty or the embedding call fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
