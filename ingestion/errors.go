package ingestion

import "errors"

var (
	// ErrStoreRequired indicates NewPipeline was called without a store.
	ErrStoreRequired = errors.New("snapshot store is required")

	// ErrEmbedderRequired indicates NewPipeline was called without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrConfigRequired indicates NewPipeline was called without an AI config.
	ErrConfigRequired = errors.New("ai config is required")

	// ErrNoEvidence indicates the input document contained no evidence items.
	ErrNoEvidence = errors.New("no evidence items in input")

	// ErrMalformedInput indicates the input document could not be parsed.
	ErrMalformedInput = errors.New("malformed evidence input")
)
