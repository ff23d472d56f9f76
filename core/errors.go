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


package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain validation errors
var (
	// ErrInvalidCatalog indicates a catalog revision failed validation.
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrEmptyCatalog indicates a catalog revision contained no entries.
	ErrEmptyCatalog = errors.New("catalog is empty")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyArtist indicates no artist name was provided.
	ErrEmptyArtist = errors.New("at least one artist is required")

	// ErrEmptyDescription indicates the Description field is empty.
	ErrEmptyDescription = errors.New("description cannot be empty")

	// ErrEmptyFacet indicates a multi-valued facet has no values.
	ErrEmptyFacet = errors.New("facet requires at least one value")

	// ErrUnknownFacetValue indicates a facet value outside its closed vocabulary.
	ErrUnknownFacetValue = errors.New("value not in closed vocabulary")

	// ErrDuplicateEntry indicates two entries share the same identity (title + artists).
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// ValidationError describes one invalid catalog entry field.
type ValidationError struct {
	Index  int    // position of the entry in the catalog revision
	Field  string // offending field name ("mood", "title", ...)
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("entry %d: field %q: %v", e.Index, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// ValidationErrors aggregates every validation failure found in a catalog
// revision. Validation does not stop at the first bad entry: the caller of
// publish gets the full list at once.
type ValidationErrors []*ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%v: %s", ErrInvalidCatalog, strings.Join(msgs, "; "))
}

// Unwrap lets errors.Is(err, ErrInvalidCatalog) match the aggregate.
func (es ValidationErrors) Unwrap() error {
	return ErrInvalidCatalog
}
