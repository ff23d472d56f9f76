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


package snapshot

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/playlistlab/crate/ai"
	"github.com/playlistlab/crate/catalog"
	"github.com/playlistlab/crate/vector"
)

// ErrNoSnapshot indicates no snapshot has been published yet.
var ErrNoSnapshot = errors.New("no snapshot published")

// Manager owns the currently served snapshot. Publication is a single
// atomic pointer swap: concurrent readers observe either the old bundle
// or the new one, never a mix, and exactly one snapshot is current at
// any instant once the first publish succeeds.
type Manager struct {
	current   atomic.Pointer[Snapshot]
	embedder  ai.Embedder
	buildOpts []vector.Option
	logger    *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithBuildOptions sets the vector build options applied on every
// publish (pool size, cache, model, retry policy).
func WithBuildOptions(opts ...vector.Option) Option {
	return func(m *Manager) {
		m.buildOpts = opts
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
	}
}

// NewManager creates a snapshot manager. No snapshot is current until
// the first successful Publish.
func NewManager(embedder ai.Embedder, opts ...Option) (*Manager, error) {
	if embedder == nil {
		return nil, vector.ErrEmbedderRequired
	}

	m := &Manager{
		embedder: embedder,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Publish builds a snapshot from the revision and swaps it in as
// current. On any build failure the previous snapshot stays in service
// and the error is returned to the caller.
func (m *Manager) Publish(ctx context.Context, entries []catalog.Entry) (*Snapshot, error) {
	snap, err := Build(ctx, entries, m.embedder, m.buildOpts...)
	if err != nil {
		m.logger.Error("snapshot build failed", "err", err)
		return nil, err
	}

	prev := m.current.Swap(snap)
	if prev != nil {
		m.logger.Info("snapshot published",
			"snapshot", uint64(snap.ID()), "replaced", uint64(prev.ID()), "records", snap.Store().Len())
	} else {
		m.logger.Info("snapshot published",
			"snapshot", uint64(snap.ID()), "records", snap.Store().Len())
	}
	return snap, nil
}

// Current returns the currently served snapshot.
// Returns ErrNoSnapshot before the first successful Publish.
func (m *Manager) Current() (*Snapshot, error) {
	snap := m.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}
