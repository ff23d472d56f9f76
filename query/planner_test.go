package query

import (
	"context"
	"errors"
	"testing"

	"github.com/playlistlab/crate/ai/mock"
	"github.com/playlistlab/crate/catalog"
	"github.com/playlistlab/crate/core"
	"github.com/playlistlab/crate/facet"
	"github.com/playlistlab/crate/snapshot"
	"github.com/playlistlab/crate/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRevision() []catalog.Entry {
	return []catalog.Entry{
		{
			Title:       "Afterglow",
			Artist:      catalog.StringList{"June Motel"},
			Mood:        []string{"dreamy"},
			Activity:    []string{"walking"},
			Energy:      "low",
			Genre:       []string{"pop"},
			VibeTags:    []string{"late night"},
			Description: "Hazy synth pop for walking home at night.",
		},
		{
			Title:       "Floor It",
			Artist:      catalog.StringList{"Static Parade"},
			Mood:        []string{"energetic"},
			Activity:    []string{"dancing"},
			Energy:      "high",
			Genre:       []string{"pop"},
			VibeTags:    []string{"summer"},
			Description: "A relentless dance-pop anthem built for crowded floors.",
		},
		{
			Title:       "Ghost Highway",
			Artist:      catalog.StringList{"The Vandry"},
			Mood:        []string{"dreamy"},
			Activity:    []string{"driving"},
			Energy:      "medium",
			Genre:       []string{"rock"},
			VibeTags:    []string{"road trip"},
			Description: "Reverb-drenched guitars drifting down an empty road.",
		},
	}
}

func newTestPlanner(t *testing.T) (*Planner, *snapshot.Snapshot, *mock.MockEmbedder) {
	t.Helper()
	embedder := mock.NewMockEmbedder()
	manager, err := snapshot.NewManager(embedder)
	require.NoError(t, err)
	snap, err := manager.Publish(context.Background(), testRevision())
	require.NoError(t, err)
	planner, err := NewPlanner(manager, embedder)
	require.NoError(t, err)
	return planner, snap, embedder
}

// titles maps hits back to record titles for readable assertions.
func titles(hits []*core.SearchResult) []string {
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Record.Title)
	}
	return out
}

func TestNewPlanner(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	manager, err := snapshot.NewManager(embedder)
	require.NoError(t, err)

	t.Run("valid configuration", func(t *testing.T) {
		planner, err := NewPlanner(manager, embedder)
		require.NoError(t, err)
		assert.NotNil(t, planner)
	})

	t.Run("nil manager", func(t *testing.T) {
		_, err := NewPlanner(nil, embedder)
		assert.Equal(t, ErrManagerRequired, err)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewPlanner(manager, nil)
		assert.Equal(t, ErrEmbedderRequired, err)
	})

	t.Run("query before first publish", func(t *testing.T) {
		planner, err := NewPlanner(manager, embedder)
		require.NoError(t, err)
		_, err = planner.Query(context.Background(), Request{Limit: 5})
		assert.ErrorIs(t, err, snapshot.ErrNoSnapshot)
	})
}

func TestPlanner_FacetBrowse(t *testing.T) {
	planner, _, embedder := newTestPlanner(t)
	embedder.Reset()

	t.Run("empty filters return the full catalog once each", func(t *testing.T) {
		result, err := planner.Query(context.Background(), Request{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, result.Hits, 3)
		assert.Equal(t, 3, result.Scoped)
		assert.Equal(t, 3, result.Total)

		seen := make(map[core.ID]bool)
		for _, h := range result.Hits {
			assert.False(t, h.Scored)
			assert.False(t, seen[h.Record.Id], "record returned twice")
			seen[h.Record.Id] = true
		}
	})

	t.Run("results come back in ascending id order", func(t *testing.T) {
		result, err := planner.Query(context.Background(), Request{Limit: 10})
		require.NoError(t, err)
		for i := 1; i < len(result.Hits); i++ {
			assert.Less(t, result.Hits[i-1].Record.Id, result.Hits[i].Record.Id)
		}
	})

	t.Run("single dimension filter", func(t *testing.T) {
		result, err := planner.Query(context.Background(), Request{
			Filters: facet.Constraints{core.DimensionGenre: {"pop"}},
			Limit:   10,
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Afterglow", "Floor It"}, titles(result.Hits))
		assert.Equal(t, 2, result.Scoped)
	})

	t.Run("dimensions intersect", func(t *testing.T) {
		result, err := planner.Query(context.Background(), Request{
			Filters: facet.Constraints{
				core.DimensionGenre: {"pop"},
				core.DimensionMood:  {"dreamy"},
			},
			Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Afterglow"}, titles(result.Hits))
	})

	t.Run("limit truncates", func(t *testing.T) {
		result, err := planner.Query(context.Background(), Request{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, result.Hits, 2)
		assert.Equal(t, 3, result.Scoped)
	})

	t.Run("zero limit returns no hits but counts scope", func(t *testing.T) {
		result, err := planner.Query(context.Background(), Request{
			Filters: facet.Constraints{core.DimensionGenre: {"pop"}},
		})
		require.NoError(t, err)
		assert.Empty(t, result.Hits)
		assert.Equal(t, 2, result.Scoped)
	})

	t.Run("unknown facet value degrades to empty", func(t *testing.T) {
		result, err := planner.Query(context.Background(), Request{
			Filters: facet.Constraints{core.DimensionGenre: {"jazz"}},
			Limit:   10,
		})
		require.NoError(t, err)
		assert.Empty(t, result.Hits)
		assert.Equal(t, 0, result.Scoped)
	})

	t.Run("browse never calls the embedder", func(t *testing.T) {
		before := embedder.CallCount()
		_, err := planner.Query(context.Background(), Request{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, before, embedder.CallCount())
	})
}

func TestPlanner_InvalidRequest(t *testing.T) {
	planner, _, _ := newTestPlanner(t)

	t.Run("unknown dimension", func(t *testing.T) {
		_, err := planner.Query(context.Background(), Request{
			Filters: facet.Constraints{core.Dimension("tempo"): {"fast"}},
			Limit:   10,
		})
		assert.ErrorIs(t, err, ErrInvalidFacet)
	})

	t.Run("negative limit", func(t *testing.T) {
		_, err := planner.Query(context.Background(), Request{Limit: -1})
		assert.ErrorIs(t, err, vector.ErrInvalidLimit)
	})
}

func TestPlanner_SemanticQuery(t *testing.T) {
	planner, snap, embedder := newTestPlanner(t)

	// Aim the query exactly at one record's embedding so it must rank
	// first with a perfect score.
	target := snap.Store().Records()[0]
	aimAt := func(r *core.SongRecord) {
		embedder.EmbedTextFunc = func(_ context.Context, text string) ([]float32, error) {
			return mock.DeterministicVector(core.EmbeddingText(r), 384), nil
		}
	}

	t.Run("ranked and scored", func(t *testing.T) {
		aimAt(target)
		result, err := planner.Query(context.Background(), Request{Text: "anything", Limit: 3})
		require.NoError(t, err)
		require.Len(t, result.Hits, 3)

		assert.Equal(t, target.Id, result.Hits[0].Record.Id)
		assert.InDelta(t, 1.0, result.Hits[0].Score, 1e-5)
		for i, h := range result.Hits {
			assert.True(t, h.Scored)
			if i > 0 {
				assert.GreaterOrEqual(t, result.Hits[i-1].Score, h.Score)
			}
		}
	})

	t.Run("filtered-out record never surfaces", func(t *testing.T) {
		aimAt(target) // target is genre pop
		result, err := planner.Query(context.Background(), Request{
			Text:    "anything",
			Filters: facet.Constraints{core.DimensionGenre: {"rock"}},
			Limit:   10,
		})
		require.NoError(t, err)
		for _, h := range result.Hits {
			assert.NotEqual(t, target.Id, h.Record.Id)
		}
		assert.Len(t, result.Hits, 1)
	})

	t.Run("empty candidate set is a valid empty result", func(t *testing.T) {
		aimAt(target)
		result, err := planner.Query(context.Background(), Request{
			Text:    "anything",
			Filters: facet.Constraints{core.DimensionVibeTag: {"winter"}},
			Limit:   10,
		})
		require.NoError(t, err)
		assert.Empty(t, result.Hits)
		assert.Equal(t, 0, result.Scoped)
	})

	t.Run("limit larger than candidates returns all", func(t *testing.T) {
		aimAt(target)
		result, err := planner.Query(context.Background(), Request{Text: "anything", Limit: 50})
		require.NoError(t, err)
		assert.Len(t, result.Hits, 3)
	})

	t.Run("identical query is deterministic", func(t *testing.T) {
		embedder.Reset()
		req := Request{Text: "dreamy late night walking music", Limit: 3}
		first, err := planner.Query(context.Background(), req)
		require.NoError(t, err)
		for range 5 {
			again, err := planner.Query(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, titles(first.Hits), titles(again.Hits))
		}
	})

	t.Run("embedder outage", func(t *testing.T) {
		embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
			return nil, errors.New("connection refused")
		}
		defer embedder.Reset()

		_, err := planner.Query(context.Background(), Request{Text: "anything", Limit: 5})
		assert.ErrorIs(t, err, ErrRetrievalUnavailable)

		// Facet-only queries keep working through the outage.
		result, err := planner.Query(context.Background(), Request{Limit: 5})
		require.NoError(t, err)
		assert.Len(t, result.Hits, 3)
	})
}

func TestPlanner_Facets(t *testing.T) {
	planner, _, _ := newTestPlanner(t)

	values, err := planner.Facets(core.DimensionMood)
	require.NoError(t, err)
	assert.Equal(t, []string{"dreamy", "energetic"}, values)

	values, err = planner.Facets(core.DimensionEnergy)
	require.NoError(t, err)
	assert.Equal(t, []string{"high", "low", "medium"}, values)

	_, err = planner.Facets(core.Dimension("tempo"))
	assert.ErrorIs(t, err, ErrInvalidFacet)
}

type recordingMonitor struct {
	started    bool
	candidates int
	queryDim   int
	matches    int
	finished   int
}

func (m *recordingMonitor) Start(string, facet.Constraints)  { m.started = true }
func (m *recordingMonitor) AfterFacetFilter(n int)           { m.candidates = n }
func (m *recordingMonitor) AfterQueryEmbedding(dim int)      { m.queryDim = dim }
func (m *recordingMonitor) AfterSimilarityScan(matches []core.SimilarityMatch) {
	m.matches = len(matches)
}
func (m *recordingMonitor) Finish(hits []*core.SearchResult) { m.finished = len(hits) }

func TestPlanner_Monitor(t *testing.T) {
	planner, _, _ := newTestPlanner(t)

	monitor := &recordingMonitor{}
	result, err := planner.QueryWithMonitor(context.Background(), Request{
		Text:    "slow dreamy drive",
		Filters: facet.Constraints{core.DimensionMood: {"dreamy"}},
		Limit:   5,
	}, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.Equal(t, 2, monitor.candidates)
	assert.Equal(t, 384, monitor.queryDim)
	assert.Equal(t, 2, monitor.matches)
	assert.Equal(t, len(result.Hits), monitor.finished)
}
