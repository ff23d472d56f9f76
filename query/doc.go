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


// Package query plans and executes retrieval queries against a snapshot.
//
// A query combines two signals:
//   - Facet constraints, resolved exactly through the facet index
//   - Free text, ranked by cosine similarity over record embeddings
//
// Facet-only queries browse the filtered catalog in a deterministic
// order and carry no score. Queries with text embed the query string
// and rank the facet-filtered candidates by similarity. "No matches"
// is always a valid empty result, never an error; only infrastructure
// failures (the embedder being unreachable) and malformed filter
// dimensions surface as errors.
package query
