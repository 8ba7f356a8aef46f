package ai

import "errors"

var (
	// ErrEmptyText is returned when an empty string is submitted for embedding.
	ErrEmptyText = errors.New("cannot embed empty text")

	// ErrNoEmbedding is returned when the embedding service returns no data.
	ErrNoEmbedding = errors.New("embedding service returned no data")

	// ErrDimensionMismatch is returned when the service returns a vector of
	// a different length than configured.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
