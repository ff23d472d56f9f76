// Package snapshot assembles and publishes immutable retrieval
// snapshots.
//
// A snapshot bundles one catalog revision's record store, facet index
// and vector index. Queries only ever see a fully built bundle: the
// Manager swaps snapshots atomically, and in-flight queries keep using
// whichever snapshot they started with.
package snapshot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/playlistlab/crate/ai"
	"github.com/playlistlab/crate/catalog"
	"github.com/playlistlab/crate/core"
	"github.com/playlistlab/crate/facet"
	"github.com/playlistlab/crate/vector"
)

// ID identifies a published snapshot. It is derived from the revision's
// record identities and embedding texts, so rebuilding an unchanged
// catalog yields the same ID.
type ID uint64

// Snapshot is one immutable, fully built retrieval bundle.
type Snapshot struct {
	id      ID
	store   *catalog.Store
	facets  *facet.Index
	vectors *vector.Index
	builtAt time.Time
}

// Build validates a catalog revision and constructs a snapshot from it.
// Returns core.ValidationErrors for a bad revision and an error wrapping
// vector.ErrEmbedding when the embedder fails; in both cases no snapshot
// is produced and any previously published snapshot is untouched.
func Build(ctx context.Context, entries []catalog.Entry, embedder ai.Embedder, opts ...vector.Option) (*Snapshot, error) {
	store, err := catalog.Load(entries)
	if err != nil {
		return nil, err
	}

	records := store.Records()

	vectors, err := vector.Build(ctx, records, embedder, opts...)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		id:      deriveID(records),
		store:   store,
		facets:  facet.Build(records),
		vectors: vectors,
		builtAt: time.Now().UTC(),
	}, nil
}

// deriveID hashes every record's identity hash and embedding text, in
// canonical order.
func deriveID(records []*core.SongRecord) ID {
	var b strings.Builder
	for _, r := range records {
		fmt.Fprintf(&b, "%d\x1f%s\x1e", r.Id, core.EmbeddingText(r))
	}
	return ID(core.IDFromContent(b.String()))
}

// ID returns the snapshot's identifier.
func (s *Snapshot) ID() ID {
	return s.id
}

// Store returns the snapshot's record store.
func (s *Snapshot) Store() *catalog.Store {
	return s.store
}

// Facets returns the snapshot's facet index.
func (s *Snapshot) Facets() *facet.Index {
	return s.facets
}

// Vectors returns the snapshot's vector index.
func (s *Snapshot) Vectors() *vector.Index {
	return s.vectors
}

// BuiltAt returns when the snapshot was built.
func (s *Snapshot) BuiltAt() time.Time {
	return s.builtAt
}
