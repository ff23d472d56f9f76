package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/playlistlab/crate/core"
	"github.com/playlistlab/crate/storage"
)

// Cache implements storage.VectorCache on BadgerDB.
type Cache struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ storage.VectorCache = (*Cache)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenCache opens a BadgerDB-backed vector cache at the specified path.
// Creates the directory if it doesn't exist.
func OpenCache(filePath string) (storage.VectorCache, error) {
	return openCache(filePath, false)
}

// OpenMemoryCache opens an in-memory vector cache, primarily for tests.
func OpenMemoryCache() (storage.VectorCache, error) {
	return openCache("", true)
}

func openCache(filePath string, inMemory bool) (*Cache, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Ensure directory exists
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Cache{
		db:     db,
		logger: slog.Default(),
	}, nil
}

// Close closes the BadgerDB database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// GetVector retrieves the cached entry for key.
func (c *Cache) GetVector(ctx context.Context, key core.ID) (*core.VectorEntry, error) {
	if c.db.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var entry *core.VectorEntry
	err := c.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVectorKey(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			entry, err = storage.UnmarshalVectorEntry(val)
			if err != nil {
				return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// PutVector stores an entry under key, replacing any previous value.
func (c *Cache) PutVector(ctx context.Context, key core.ID, entry *core.VectorEntry) error {
	if c.db.IsClosed() {
		return storage.ErrStorageClosed
	}

	return c.db.Update(func(tx *badger.Txn) error {
		return tx.Set(makeVectorKey(key), storage.MarshalVectorEntry(entry))
	})
}
