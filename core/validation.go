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
	"fmt"
	"sort"
	"strings"
)

// ValidateSongRecord validates a record against the catalog schema and
// returns every problem found, tagged with the entry's index in the
// revision. An empty result means the record is valid.
//
// Validation rules:
//   - Title, Description non-empty
//   - at least one artist, none blank
//   - mood, activity, genre, vibe_tags non-empty, all values in their
//     closed vocabularies
//   - energy one of low, medium, high
//
// NOT validated:
//   - ID (derived after validation from title + artists)
func ValidateSongRecord(index int, r *SongRecord) ValidationErrors {
	var errs ValidationErrors

	fail := func(field string, reason error) {
		errs = append(errs, &ValidationError{Index: index, Field: field, Reason: reason})
	}

	if r == nil {
		fail("", fmt.Errorf("entry is nil"))
		return errs
	}

	if strings.TrimSpace(r.Title) == "" {
		fail("title", ErrEmptyTitle)
	}

	if len(r.Artists) == 0 {
		fail("artist", ErrEmptyArtist)
	}
	for _, a := range r.Artists {
		if strings.TrimSpace(a) == "" {
			fail("artist", ErrEmptyArtist)
			break
		}
	}

	validateFacet(index, "mood", r.Moods, &errs)
	validateFacet(index, "activity", r.Activities, &errs)
	validateFacet(index, "genre", r.Genres, &errs)
	validateFacet(index, "vibe_tags", r.VibeTags, &errs)

	if !r.Energy.Valid() {
		fail("energy", fmt.Errorf("%w: %q", ErrUnknownFacetValue, string(r.Energy)))
	}

	if strings.TrimSpace(r.Description) == "" {
		fail("description", ErrEmptyDescription)
	}

	return errs
}

type facetValue interface {
	~string
	Valid() bool
}

func validateFacet[T facetValue](index int, field string, values []T, errs *ValidationErrors) {
	if len(values) == 0 {
		*errs = append(*errs, &ValidationError{Index: index, Field: field, Reason: ErrEmptyFacet})
		return
	}
	for _, v := range values {
		if !v.Valid() {
			*errs = append(*errs, &ValidationError{
				Index:  index,
				Field:  field,
				Reason: fmt.Errorf("%w: %q", ErrUnknownFacetValue, string(v)),
			})
		}
	}
}

// NormalizeSongRecord puts a record's facet sets into canonical form:
// duplicates collapsed, values sorted. Facets are sets with no
// meaningful order; canonical form keeps embedding text and index
// construction deterministic. The artist list keeps its order.
func NormalizeSongRecord(r *SongRecord) {
	r.Title = strings.TrimSpace(r.Title)
	for i, a := range r.Artists {
		r.Artists[i] = strings.TrimSpace(a)
	}
	r.Description = strings.TrimSpace(r.Description)
	r.Moods = normalizeFacet(r.Moods)
	r.Activities = normalizeFacet(r.Activities)
	r.Genres = normalizeFacet(r.Genres)
	r.VibeTags = normalizeFacet(r.VibeTags)
}

func normalizeFacet[T ~string](values []T) []T {
	if len(values) == 0 {
		return values
	}
	seen := make(map[T]struct{}, len(values))
	out := make([]T, 0, len(values))
	for _, v := range values {
		v = T(strings.TrimSpace(string(v)))
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
