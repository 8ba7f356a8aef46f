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

// Package storage provides the persistence abstraction for evisearch.
//
// This package defines the SnapshotStore interface that decouples snapshot
// persistence from search logic, plus the MUS-format serializers for
// evidence rows and snapshot metadata. It allows different storage backends
// (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Backend packages follow a "return interface" pattern for public
// constructors to enforce abstraction:
//
//	store, err := badger.NewSnapshotStore(path)  // returns storage.SnapshotStore
//
// # Snapshot Model
//
// A snapshot is the whole evidence index written at once: every evidence
// item paired with its embedding vector, stored by corpus position, plus a
// metadata record carrying the count, vector dimension, embedding model and
// ranking weights. Items[i] corresponds to Vectors[i] and that ordering is
// preserved across save and load.
//
// # Thread Safety
//
// All SnapshotStore implementations must be safe for concurrent use.
package storage
