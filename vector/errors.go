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


package vector

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmbedding indicates the external embedder failed during an index
	// build. The build is aborted: a partially embedded catalog would
	// silently degrade ranking with no signal to callers.
	ErrEmbedding = errors.New("embedding failed")

	// ErrDimensionMismatch indicates the embedder returned vectors of
	// inconsistent dimensions within one build.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrZeroVector indicates the embedder returned a zero vector, which
	// has no direction and cannot be cosine-scored.
	ErrZeroVector = errors.New("embedder returned a zero vector")

	// ErrInvalidLimit indicates a negative k was passed to a nearest
	// neighbor query.
	ErrInvalidLimit = errors.New("limit must be non-negative")

	// ErrInvalidMaxAttempts indicates a non-positive retry attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
)
