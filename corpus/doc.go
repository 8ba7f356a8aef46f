// Package corpus holds the in-memory evidence index used for similarity
// search. A corpus is built once from a stored snapshot and never mutated,
// so it can be shared by concurrent searches without locking.
package corpus
