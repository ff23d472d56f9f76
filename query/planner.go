package query

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/playlistlab/crate/ai"
	"github.com/playlistlab/crate/core"
	"github.com/playlistlab/crate/facet"
	"github.com/playlistlab/crate/snapshot"
	"github.com/playlistlab/crate/vector"
)

// Request is one retrieval query.
type Request struct {
	// Text is the free-text part of the query. Empty text makes this a
	// pure facet-browse request with unscored results.
	Text string

	// Filters maps facet dimensions to required values. Dimensions
	// combine with AND; values within a dimension combine per Mode.
	Filters facet.Constraints

	// Mode selects OR- or AND-within-dimension matching.
	// Default is facet.MatchAny.
	Mode facet.Mode

	// Limit caps the number of hits. Zero returns an empty hit list,
	// negative is an error.
	Limit int
}

// Result is the outcome of one query.
type Result struct {
	Hits []*core.SearchResult

	// Scoped is the number of records matching the facet filters,
	// before ranking and the limit are applied.
	Scoped int

	// Total is the number of records in the snapshot.
	Total int
}

// Planner executes queries against the manager's current snapshot.
// It is safe for concurrent use; each query runs read-only against
// whichever snapshot is current when it starts.
type Planner struct {
	manager  *snapshot.Manager
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
	}
}

// NewPlanner creates a query planner over the manager's snapshots.
func NewPlanner(manager *snapshot.Manager, embedder ai.Embedder, opts ...Option) (*Planner, error) {
	if manager == nil {
		return nil, ErrManagerRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	p := &Planner{
		manager:  manager,
		embedder: embedder,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Query runs a request against the current snapshot.
func (p *Planner) Query(ctx context.Context, req Request) (*Result, error) {
	return p.QueryWithMonitor(ctx, req, nil)
}

// QueryWithMonitor runs a request with per-stage monitoring callbacks.
//
// Filters with an unknown dimension fail with ErrInvalidFacet; a known
// dimension with an unknown value degrades to an empty candidate set.
// If the embedder is unreachable the query fails with
// ErrRetrievalUnavailable; facet-only requests never call the embedder.
func (p *Planner) QueryWithMonitor(ctx context.Context, req Request, monitor Monitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if req.Limit < 0 {
		return nil, vector.ErrInvalidLimit
	}
	if err := validateFilters(req.Filters); err != nil {
		return nil, err
	}

	snap, err := p.manager.Current()
	if err != nil {
		return nil, err
	}

	monitor.Start(req.Text, req.Filters)

	candidates := snap.Facets().FilterMode(req.Filters, req.Mode)
	monitor.AfterFacetFilter(int(candidates.GetCardinality()))

	result := &Result{
		Scoped: int(candidates.GetCardinality()),
		Total:  snap.Store().Len(),
	}

	if req.Text == "" {
		result.Hits = p.browse(snap, candidates, req.Limit)
		monitor.Finish(result.Hits)
		return result, nil
	}

	embedding, err := p.embedder.EmbedText(ctx, req.Text)
	if err != nil {
		p.logger.Error("error generating embedding for query", "text", req.Text, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrRetrievalUnavailable, err)
	}
	monitor.AfterQueryEmbedding(len(embedding))

	matches, err := snap.Vectors().Nearest(embedding, candidates, req.Limit)
	if err != nil {
		return nil, err
	}
	monitor.AfterSimilarityScan(matches)

	hits := make([]*core.SearchResult, 0, len(matches))
	for _, match := range matches {
		hits = append(hits, &core.SearchResult{
			Record: snap.Store().Record(match.RecordId),
			Score:  match.Score,
			Scored: true,
		})
	}
	result.Hits = hits
	monitor.Finish(result.Hits)
	return result, nil
}

// Facets lists the values of a dimension present in the current
// snapshot, for building filter pickers.
func (p *Planner) Facets(dim core.Dimension) ([]string, error) {
	if _, ok := core.ParseDimension(string(dim)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFacet, dim)
	}
	snap, err := p.manager.Current()
	if err != nil {
		return nil, err
	}
	return snap.Facets().Values(dim), nil
}

// browse returns the candidate records unscored, by ascending id. The
// facet index assigns ordinals in ascending-id order, so walking the
// bitmap in order is already the fallback ordering.
func (p *Planner) browse(snap *snapshot.Snapshot, candidates *roaring.Bitmap, limit int) []*core.SearchResult {
	ids := snap.Store().IDs()
	hits := make([]*core.SearchResult, 0, min(limit, int(candidates.GetCardinality())))

	it := candidates.Iterator()
	for it.HasNext() && len(hits) < limit {
		ordinal := it.Next()
		hits = append(hits, &core.SearchResult{Record: snap.Store().Record(ids[ordinal])})
	}
	return hits
}

func validateFilters(filters facet.Constraints) error {
	for dim := range filters {
		if _, ok := core.ParseDimension(string(dim)); !ok {
			return fmt.Errorf("%w: %q", ErrInvalidFacet, dim)
		}
	}
	return nil
}
