package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is derived from entry content, so an unchanged catalog entry keeps
// the same ID across rebuilds.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// SongRecord represents one validated catalog entry.
// Records are immutable once built; a new snapshot replaces them wholesale.
type SongRecord struct {
	Id          ID
	Title       string
	Artists     []string // one or more, order preserved
	Moods       []Mood
	Activities  []Activity
	Genres      []Genre
	VibeTags    []VibeTag
	Energy      Energy
	Description string
}

// identitySep separates identity fields when hashing. A control character
// keeps "AB"+"C" and "A"+"BC" from colliding.
const identitySep = "\x1f"

// Identity returns the string the record's ID is derived from:
// title plus the ordered artist list. Facets and description are
// deliberately excluded so retagging a song keeps its identity.
func (r *SongRecord) Identity() string {
	return r.Title + identitySep + strings.Join(r.Artists, identitySep)
}

// Artist returns the artists joined for display ("A, B").
func (r *SongRecord) Artist() string {
	return strings.Join(r.Artists, ", ")
}

// SimilarityMatch represents a record match from vector similarity search.
type SimilarityMatch struct {
	RecordId ID
	Score    float32
}

// SearchResult represents a query hit with the full record and, for
// semantic queries, a cosine similarity score. Scored is false for
// facet-browse results, where no ranking signal exists.
type SearchResult struct {
	Record *SongRecord
	Score  float32
	Scored bool
}

// VectorEntry is a cached embedding for one embedding text, keyed by
// content hash in the vector cache. Model is recorded so a cache built
// with one embedding model is never reused with another.
type VectorEntry struct {
	Model      string
	Vector     []float32
	InsertedAt time.Time
}
