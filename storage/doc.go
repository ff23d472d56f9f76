// Copyright 2025 Playlist Lab
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


// Package storage provides the embedding cache abstraction for crate.
//
// The cache keeps one embedding vector per embedding text, keyed by a
// content hash of model name + text. A rebuilt snapshot therefore only
// calls the external embedder for entries whose embedding text actually
// changed; unchanged entries reuse the cached vector.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return the storage.VectorCache
// interface to prevent accidental coupling to BadgerDB specifics:
//
//	cache, err := badger.OpenCache(path)  // returns storage.VectorCache
//
// # Thread Safety
//
// All cache implementations must be thread-safe: snapshot builds write
// from a worker pool.
//
// # Context Support
//
// All cache methods accept context.Context for cancellation and timeout
// support.
package storage
