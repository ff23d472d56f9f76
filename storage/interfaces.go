package storage

import (
	"context"

	"github.com/playlistlab/crate/core"
)

// VectorCache stores embedding vectors keyed by content hash so that
// rebuilding an unchanged catalog entry never re-calls the embedder.
// Implementations must be thread-safe and support concurrent access.
type VectorCache interface {
	// GetVector retrieves the cached entry for key.
	// Returns ErrNotFound if the key is absent.
	GetVector(ctx context.Context, key core.ID) (*core.VectorEntry, error)

	// PutVector stores an entry under key, replacing any previous value.
	PutVector(ctx context.Context, key core.ID, entry *core.VectorEntry) error

	// Close closes the cache and releases resources.
	Close() error
}

// CacheKey derives the cache key for one embedding: a content hash of
// the model name and the embedding text. Including the model keeps
// vectors from one embedding model out of another model's vector space.
func CacheKey(model, text string) core.ID {
	return core.IDFromContent(model + "\x1f" + text)
}
