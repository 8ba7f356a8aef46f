// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides the embedding abstraction used by evisearch.
//
// The package defines the Embedder interface together with its service
// configuration. It follows the dependency inversion principle: the corpus
// build pipeline and the search engine depend on the abstraction, not on a
// concrete client.
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external services
//
// Public constructors (openai.NewEmbedder) return the Embedder INTERFACE to
// enforce abstraction. Test constructors (mock.NewEmbedder) return concrete
// types so tests can inject behavior and assert on call counts.
//
// # Contract
//
// Every Embedder implementation returns unit-L2-norm vectors of the
// configured dimension, so that inner product over stored vectors equals
// cosine similarity. Calls are single-attempt: retry policy belongs to the
// caller (the offline pipelines retry, the query path does not).
package ai
