package reembed

import "errors"

var (
	// ErrInvalidMaxAttempts indicates a non-positive retry attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrStoreRequired indicates NewReembedder was called without a store.
	ErrStoreRequired = errors.New("snapshot store is required")

	// ErrEmbedderRequired indicates NewReembedder was called without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")
)
