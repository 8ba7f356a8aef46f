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

// Package search implements multi-query evidence retrieval and ranking.
//
// A search takes a batch of query variants, usually the original question
// plus rephrasings. Each variant is embedded and matched against the
// corpus concurrently. Hits below the similarity threshold are dropped,
// the per-variant hit lists are merged keeping the maximum raw score per
// evidence item, scores are weighted by evidence category, and the top-K
// items come back with 1-based ranks.
//
// Query variants fail independently. A variant whose embedding or match
// fails is logged and skipped, the remaining variants still contribute to
// the merged result.
package search
