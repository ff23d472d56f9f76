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


package query

import "errors"

var (
	// ErrManagerRequired is returned when a snapshot manager is not provided.
	ErrManagerRequired = errors.New("snapshot manager required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidFacet is returned when a filter references an unknown
	// facet dimension. An unknown facet value is not an error; it
	// degrades to an empty result.
	ErrInvalidFacet = errors.New("unknown facet dimension")

	// ErrRetrievalUnavailable is returned when the embedder cannot be
	// reached for a semantic query. Facet-only queries never hit it.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
)
