// Package reembed provides functionality for reembedding a stored evidence
// snapshot with a new or updated embedding model.
//
// This package supports batch processing, progress tracking, retry logic
// with exponential backoff, and vector normalization to ensure
// compatibility with cosine similarity search.
package reembed
