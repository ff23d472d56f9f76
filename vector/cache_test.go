package vector

import (
	"context"
	"sync"

	"github.com/playlistlab/crate/core"
	"github.com/playlistlab/crate/storage"
)

// memoryCache is a map-backed storage.VectorCache for tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[core.ID]*core.VectorEntry
}

var _ storage.VectorCache = (*memoryCache)(nil)

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[core.ID]*core.VectorEntry)}
}

func (c *memoryCache) GetVector(_ context.Context, key core.ID) (*core.VectorEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return entry, nil
}

func (c *memoryCache) PutVector(_ context.Context, key core.ID, entry *core.VectorEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
	return nil
}

func (c *memoryCache) Close() error {
	return nil
}
