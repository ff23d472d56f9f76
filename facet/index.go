// Package facet provides an inverted index over the catalog's facet
// dimensions for exact-match filtering.
//
// The index maps each (dimension, value) pair to a roaring bitmap of
// snapshot-local ordinals, a record's position in the snapshot's
// ascending-ID record order. Bitmaps make the AND-across / OR-within
// constraint algebra cheap set arithmetic.
package facet

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/playlistlab/crate/core"
)

// Constraints maps a facet dimension to the values a record must carry.
// Dimension names must already be validated; unknown *values* are legal
// and simply match nothing.
type Constraints map[core.Dimension][]string

// Mode selects how multiple required values within one dimension combine.
type Mode int

const (
	// MatchAny requires at least one of the dimension's values (OR).
	// This is the default.
	MatchAny Mode = iota
	// MatchAll requires every one of the dimension's values (AND).
	MatchAll
)

// Index is an immutable inverted facet index for one snapshot.
type Index struct {
	postings map[core.Dimension]map[string]*roaring.Bitmap
	count    uint32
}

// Build indexes records by every facet dimension. The slice order
// defines the ordinals, so callers must pass the snapshot's canonical
// (ascending-ID) record order.
func Build(records []*core.SongRecord) *Index {
	postings := make(map[core.Dimension]map[string]*roaring.Bitmap, len(core.Dimensions()))
	for _, dim := range core.Dimensions() {
		postings[dim] = make(map[string]*roaring.Bitmap)
	}

	for ordinal, record := range records {
		for _, dim := range core.Dimensions() {
			for _, value := range core.FacetValues(record, dim) {
				bm, ok := postings[dim][value]
				if !ok {
					bm = roaring.New()
					postings[dim][value] = bm
				}
				bm.Add(uint32(ordinal))
			}
		}
	}

	return &Index{postings: postings, count: uint32(len(records))}
}

// Filter returns the ordinals of records satisfying the constraints
// with the default MatchAny within-dimension semantics.
func (idx *Index) Filter(constraints Constraints) *roaring.Bitmap {
	return idx.FilterMode(constraints, MatchAny)
}

// FilterMode returns the ordinals of records satisfying the
// constraints: AND across dimensions, with the given mode within each
// dimension. Empty constraints match everything. A value outside the
// indexed set matches nothing for its dimension, so a mistyped filter
// degrades to zero results rather than failing the query.
// The returned bitmap is owned by the caller.
func (idx *Index) FilterMode(constraints Constraints, mode Mode) *roaring.Bitmap {
	result := idx.All()

	for dim, values := range constraints {
		if len(values) == 0 {
			continue
		}
		result.And(idx.dimensionMatches(dim, values, mode))
		if result.IsEmpty() {
			break
		}
	}

	return result
}

func (idx *Index) dimensionMatches(dim core.Dimension, values []string, mode Mode) *roaring.Bitmap {
	postings := idx.postings[dim]

	if mode == MatchAll {
		matches := idx.All()
		for _, value := range values {
			bm, ok := postings[value]
			if !ok {
				return roaring.New()
			}
			matches.And(bm)
		}
		return matches
	}

	matches := roaring.New()
	for _, value := range values {
		if bm, ok := postings[value]; ok {
			matches.Or(bm)
		}
	}
	return matches
}

// All returns a bitmap of every record ordinal. The returned bitmap is
// owned by the caller.
func (idx *Index) All() *roaring.Bitmap {
	all := roaring.New()
	if idx.count > 0 {
		all.AddRange(0, uint64(idx.count))
	}
	return all
}

// Len returns the number of indexed records.
func (idx *Index) Len() int {
	return int(idx.count)
}

// Values returns the distinct values actually present in the catalog
// for a dimension, sorted. This backs facet option listings for
// browse UIs. Returns nil for an unknown dimension.
func (idx *Index) Values(dim core.Dimension) []string {
	postings, ok := idx.postings[dim]
	if !ok {
		return nil
	}
	values := make([]string, 0, len(postings))
	for v := range postings {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
