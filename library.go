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


package crate

import (
	"context"
	"log/slog"

	"github.com/playlistlab/crate/ai"
	"github.com/playlistlab/crate/ai/openai"
	"github.com/playlistlab/crate/catalog"
	"github.com/playlistlab/crate/core"
	"github.com/playlistlab/crate/query"
	"github.com/playlistlab/crate/snapshot"
	"github.com/playlistlab/crate/storage"
	"github.com/playlistlab/crate/storage/badger"
	"github.com/playlistlab/crate/vector"
)

// Library bundles the retrieval engine: it publishes catalog revisions
// as immutable snapshots and serves queries against the current one.
type Library struct {
	cache    storage.VectorCache
	embedder ai.Embedder
	manager  *snapshot.Manager
	planner  *query.Planner
	logger   *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	aiConfig  *ai.Config
	embedder  ai.Embedder
	cache     storage.VectorCache
	cachePath string
	poolSize  int
	logger    *slog.Logger
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) LibraryOption {
	return func(o *libraryOptions) {
		o.aiConfig = config
	}
}

// WithEmbedder supplies a pre-built embedder instead of constructing
// one from the AI config.
func WithEmbedder(embedder ai.Embedder) LibraryOption {
	return func(o *libraryOptions) {
		o.embedder = embedder
	}
}

// WithCache supplies a pre-opened vector cache. The library does not
// close a cache it did not open.
func WithCache(cache storage.VectorCache) LibraryOption {
	return func(o *libraryOptions) {
		o.cache = cache
	}
}

// WithCachePath opens a badger-backed vector cache at the given
// directory, so unchanged records skip re-embedding across publishes.
func WithCachePath(path string) LibraryOption {
	return func(o *libraryOptions) {
		o.cachePath = path
	}
}

// WithPoolSize bounds the embedding fan-out during snapshot builds.
func WithPoolSize(size int) LibraryOption {
	return func(o *libraryOptions) {
		o.poolSize = size
	}
}

// WithLibraryLogger sets a custom logger.
// Default is slog.Default().
func WithLibraryLogger(logger *slog.Logger) LibraryOption {
	return func(o *libraryOptions) {
		o.logger = logger
	}
}

// Open assembles a Library. No snapshot is current until the first
// successful Publish.
func Open(opts ...LibraryOption) (*Library, error) {
	options := &libraryOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	embedder := options.embedder
	if embedder == nil {
		var err error
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	// A caller-supplied cache stays owned by the caller; one opened
	// from a path is closed by Close.
	cache := options.cache
	var ownedCache storage.VectorCache
	if cache == nil && options.cachePath != "" {
		var err error
		cache, err = badger.OpenCache(options.cachePath)
		if err != nil {
			return nil, err
		}
		ownedCache = cache
	}

	buildOpts := []vector.Option{
		vector.WithModel(options.aiConfig.EmbeddingModel),
		vector.WithRetry(options.aiConfig.MaxRetries, options.aiConfig.RetryDelay),
		vector.WithLogger(options.logger),
	}
	if cache != nil {
		buildOpts = append(buildOpts, vector.WithCache(cache))
	}
	if options.poolSize > 0 {
		buildOpts = append(buildOpts, vector.WithPoolSize(options.poolSize))
	}

	manager, err := snapshot.NewManager(embedder,
		snapshot.WithBuildOptions(buildOpts...),
		snapshot.WithLogger(options.logger))
	if err != nil {
		if ownedCache != nil {
			ownedCache.Close()
		}
		return nil, err
	}

	planner, err := query.NewPlanner(manager, embedder, query.WithLogger(options.logger))
	if err != nil {
		if ownedCache != nil {
			ownedCache.Close()
		}
		return nil, err
	}

	return &Library{
		cache:    ownedCache,
		embedder: embedder,
		manager:  manager,
		planner:  planner,
		logger:   options.logger,
	}, nil
}

// Publish validates a catalog revision, builds a snapshot from it and
// makes the snapshot current. On failure the prior snapshot, if any,
// keeps serving.
func (l *Library) Publish(ctx context.Context, entries []catalog.Entry) (*snapshot.Snapshot, error) {
	return l.manager.Publish(ctx, entries)
}

// PublishFile publishes a catalog revision from a JSON file.
func (l *Library) PublishFile(ctx context.Context, path string) (*snapshot.Snapshot, error) {
	entries, err := catalog.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.Publish(ctx, entries)
}

// Query runs a retrieval request against the current snapshot.
func (l *Library) Query(ctx context.Context, req query.Request) (*query.Result, error) {
	return l.planner.Query(ctx, req)
}

// QueryWithMonitor runs a request with per-stage monitoring callbacks.
func (l *Library) QueryWithMonitor(ctx context.Context, req query.Request, monitor query.Monitor) (*query.Result, error) {
	return l.planner.QueryWithMonitor(ctx, req, monitor)
}

// Facets lists a dimension's values present in the current snapshot.
func (l *Library) Facets(dim core.Dimension) ([]string, error) {
	return l.planner.Facets(dim)
}

// Current returns the currently served snapshot.
func (l *Library) Current() (*snapshot.Snapshot, error) {
	return l.manager.Current()
}

// Close releases resources the library opened itself.
func (l *Library) Close() error {
	if l.cache != nil {
		if err := l.cache.Close(); err != nil {
			l.logger.Error("error closing vector cache", "err", err)
			return err
		}
	}
	return nil
}
