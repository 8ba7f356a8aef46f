// Package mock provides a test double for ai.Embedder with deterministic
// text-seeded vectors and injectable behavior overrides.
package mock
