// Package vector builds and queries the embedding index of one snapshot.
//
// Build fans embedding calls out to a bounded worker pool and aborts on
// the first failure: serving a partially embedded catalog would silently
// degrade ranking quality with no signal to callers. A vector cache, when
// configured, short-circuits the embedder for entries whose embedding
// text is unchanged since the previous build.
package vector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/panjf2000/ants/v2"
	"github.com/playlistlab/crate/ai"
	"github.com/playlistlab/crate/core"
	"github.com/playlistlab/crate/storage"
)

// Index holds one unit-normalized embedding vector per record, in the
// snapshot's canonical (ascending-ID) record order. Immutable once built.
type Index struct {
	ids     []core.ID
	vectors [][]float32
	dim     int
}

// Option configures an index build.
type Option func(*builder)

type builder struct {
	poolSize    int
	cache       storage.VectorCache
	model       string
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

// WithPoolSize sets the worker pool size for concurrent embedding calls.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(b *builder) {
		if size < 1 {
			size = 1
		}
		b.poolSize = size
	}
}

// WithCache sets a vector cache consulted before calling the embedder.
// Default is no cache.
func WithCache(cache storage.VectorCache) Option {
	return func(b *builder) {
		b.cache = cache
	}
}

// WithModel records the embedding model name used for cache keys.
// Vectors cached under a different model are never reused.
func WithModel(model string) Option {
	return func(b *builder) {
		b.model = model
	}
}

// WithRetry sets the attempt count and base backoff delay for each
// embedding call. Defaults are 3 attempts with a 1s base delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(b *builder) {
		if maxAttempts < 1 {
			maxAttempts = 1
		}
		b.maxAttempts = maxAttempts
		b.retryDelay = baseDelay
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *builder) {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
	}
}

// Build embeds every record and assembles the index. Records must be in
// the snapshot's canonical ascending-ID order; the slice position is the
// record's ordinal.
//
// Embedding calls run on a bounded pool. The first failure cancels the
// remaining work and Build returns an error wrapping ErrEmbedding; the
// prior snapshot stays in service. Results of embedder calls cancelled
// mid-flight are discarded.
func Build(ctx context.Context, records []*core.SongRecord, embedder ai.Embedder, opts ...Option) (*Index, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	b := &builder{
		poolSize:    poolSize,
		maxAttempts: 3,
		retryDelay:  time.Second,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool, err := ants.NewPool(b.poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	vectors := make([][]float32, len(records))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		buildErr error
	)
	fail := func(err error) {
		mu.Lock()
		if buildErr == nil {
			buildErr = err
			cancel()
		}
		mu.Unlock()
	}

	for i, record := range records {
		ordinal, record := i, record
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			vec, err := b.embedRecord(ctx, embedder, record)
			if err != nil {
				fail(err)
				return
			}
			vectors[ordinal] = vec
		})
		if submitErr != nil {
			wg.Done()
			fail(submitErr)
			break
		}
	}
	wg.Wait()

	if buildErr != nil {
		return nil, buildErr
	}
	// Caller cancellation makes workers skip without recording an
	// error; a build that did not embed every record must not succeed.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}

	dim := 0
	ids := make([]core.ID, len(records))
	for i, record := range records {
		ids[i] = record.Id
		if dim == 0 {
			dim = len(vectors[i])
		} else if len(vectors[i]) != dim {
			return nil, fmt.Errorf("%w: record %q has %d dimensions, expected %d",
				ErrDimensionMismatch, record.Title, len(vectors[i]), dim)
		}
	}

	return &Index{ids: ids, vectors: vectors, dim: dim}, nil
}

// embedRecord resolves one record's vector: cache first, embedder with
// retry otherwise. Vectors are stored unit-normalized so scoring is a
// plain dot product.
func (b *builder) embedRecord(ctx context.Context, embedder ai.Embedder, record *core.SongRecord) ([]float32, error) {
	text := core.EmbeddingText(record)
	key := storage.CacheKey(b.model, text)

	if b.cache != nil {
		entry, err := b.cache.GetVector(ctx, key)
		switch {
		case err == nil && entry.Model == b.model && len(entry.Vector) > 0:
			return entry.Vector, nil
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			b.logger.Warn("vector cache lookup failed", "record", record.Title, "err", err)
		}
	}

	var raw []float32
	err := retryWithBackoff(ctx, func() error {
		var embedErr error
		raw, embedErr = embedder.EmbedText(ctx, text)
		return embedErr
	}, b.maxAttempts, b.retryDelay)
	if err != nil {
		return nil, fmt.Errorf("%w: record %q: %w", ErrEmbedding, record.Title, err)
	}
	if len(raw) == 0 || IsZero(raw) {
		return nil, fmt.Errorf("%w: record %q", ErrZeroVector, record.Title)
	}

	vec := Normalize(raw)

	if b.cache != nil {
		entry := &core.VectorEntry{
			Model:      b.model,
			Vector:     vec,
			InsertedAt: time.Now().UTC(),
		}
		if err := b.cache.PutVector(ctx, key, entry); err != nil {
			b.logger.Warn("vector cache write failed", "record", record.Title, "err", err)
		}
	}

	return vec, nil
}

// Len returns the number of indexed records.
func (idx *Index) Len() int {
	return len(idx.ids)
}

// Dim returns the embedding dimension.
func (idx *Index) Dim() int {
	return idx.dim
}

// Nearest scores every candidate against the query vector by cosine
// similarity and returns the top k, highest first. Equal scores break
// ties by ascending record ID, so identical queries against identical
// snapshots return identical orderings.
//
// candidates is a bitmap of record ordinals; nil means all records.
// k = 0 returns an empty result; k beyond the candidate count returns
// every candidate. A query whose dimension differs from the stored
// vectors fails with ErrDimensionMismatch.
func (idx *Index) Nearest(query []float32, candidates *roaring.Bitmap, k int) ([]core.SimilarityMatch, error) {
	if k < 0 {
		return nil, ErrInvalidLimit
	}
	if k == 0 || len(idx.ids) == 0 {
		return []core.SimilarityMatch{}, nil
	}
	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			ErrDimensionMismatch, len(query), idx.dim)
	}

	unit := Normalize(query)

	var matches []core.SimilarityMatch
	score := func(ordinal uint32) {
		if int(ordinal) >= len(idx.vectors) {
			return
		}
		matches = append(matches, core.SimilarityMatch{
			RecordId: idx.ids[ordinal],
			Score:    Dot(unit, idx.vectors[ordinal]),
		})
	}

	if candidates == nil {
		for ordinal := range idx.vectors {
			score(uint32(ordinal))
		}
	} else {
		it := candidates.Iterator()
		for it.HasNext() {
			score(it.Next())
		}
	}

	sortMatches(matches)

	if k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

func sortMatches(matches []core.SimilarityMatch) {
	slices.SortFunc(matches, func(a, b core.SimilarityMatch) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		case a.RecordId < b.RecordId:
			return -1
		case a.RecordId > b.RecordId:
			return 1
		}
		return 0
	})
}
