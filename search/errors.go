package search

import "errors"

var (
	// ErrCorpusRequired indicates NewEngine was called without a corpus.
	ErrCorpusRequired = errors.New("corpus is required")

	// ErrEmbedderRequired indicates NewEngine was called without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrInvalidTopK indicates a non-positive result limit.
	ErrInvalidTopK = errors.New("top-k must be positive")

	// ErrInvalidThreshold indicates a similarity threshold outside [-1, 1].
	ErrInvalidThreshold = errors.New("similarity threshold must be in [-1, 1]")

	// ErrInvalidPoolSize indicates a non-positive worker pool size.
	ErrInvalidPoolSize = errors.New("pool size must be positive")
)
