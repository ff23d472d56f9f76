package facet

import (
	"testing"

	"github.com/playlistlab/crate/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Three records matching the catalog scenario used throughout:
// A(mood=dreamy, genre=pop), B(mood=energetic, genre=pop),
// C(mood=dreamy, genre=rock).
func testRecords() []*core.SongRecord {
	return []*core.SongRecord{
		{
			Id:         1,
			Title:      "A",
			Moods:      []core.Mood{"dreamy"},
			Activities: []core.Activity{"walking"},
			Genres:     []core.Genre{"pop"},
			VibeTags:   []core.VibeTag{"late night"},
			Energy:     core.EnergyLow,
		},
		{
			Id:         2,
			Title:      "B",
			Moods:      []core.Mood{"energetic"},
			Activities: []core.Activity{"running"},
			Genres:     []core.Genre{"pop"},
			VibeTags:   []core.VibeTag{"summer"},
			Energy:     core.EnergyHigh,
		},
		{
			Id:         3,
			Title:      "C",
			Moods:      []core.Mood{"dreamy"},
			Activities: []core.Activity{"walking"},
			Genres:     []core.Genre{"rock"},
			VibeTags:   []core.VibeTag{"late night"},
			Energy:     core.EnergyMedium,
		},
	}
}

func ordinals(t *testing.T, idx *Index, constraints Constraints) []uint32 {
	t.Helper()
	return idx.Filter(constraints).ToArray()
}

func TestFilter_SingleDimension(t *testing.T) {
	idx := Build(testRecords())

	got := ordinals(t, idx, Constraints{core.DimensionGenre: {"pop"}})
	assert.Equal(t, []uint32{0, 1}, got)
}

func TestFilter_AcrossDimensions(t *testing.T) {
	idx := Build(testRecords())

	got := ordinals(t, idx, Constraints{
		core.DimensionGenre: {"pop"},
		core.DimensionMood:  {"dreamy"},
	})
	assert.Equal(t, []uint32{0}, got)
}

func TestFilter_OrWithinDimension(t *testing.T) {
	idx := Build(testRecords())

	got := ordinals(t, idx, Constraints{core.DimensionMood: {"dreamy", "energetic"}})
	assert.Equal(t, []uint32{0, 1, 2}, got)
}

func TestFilter_MatchAllWithinDimension(t *testing.T) {
	records := testRecords()
	records[0].Moods = []core.Mood{"calm", "dreamy"}
	idx := Build(records)

	got := idx.FilterMode(Constraints{core.DimensionMood: {"calm", "dreamy"}}, MatchAll)
	assert.Equal(t, []uint32{0}, got.ToArray())
}

func TestFilter_EmptyConstraintsMatchAll(t *testing.T) {
	idx := Build(testRecords())

	assert.Equal(t, []uint32{0, 1, 2}, ordinals(t, idx, nil))
	assert.Equal(t, []uint32{0, 1, 2}, ordinals(t, idx, Constraints{}))
}

func TestFilter_UnknownValueMatchesNothing(t *testing.T) {
	idx := Build(testRecords())

	got := idx.Filter(Constraints{core.DimensionGenre: {"jazz"}})
	assert.True(t, got.IsEmpty())

	// A typo in one dimension empties the whole conjunction.
	got = idx.Filter(Constraints{
		core.DimensionGenre: {"pop"},
		core.DimensionMood:  {"dreamyy"},
	})
	assert.True(t, got.IsEmpty())
}

func TestFilter_EnergyDimension(t *testing.T) {
	idx := Build(testRecords())

	got := ordinals(t, idx, Constraints{core.DimensionEnergy: {"high"}})
	assert.Equal(t, []uint32{1}, got)
}

func TestFilter_EveryMatchSatisfiesConstraints(t *testing.T) {
	records := testRecords()
	idx := Build(records)

	constraints := Constraints{
		core.DimensionMood:    {"dreamy", "energetic"},
		core.DimensionVibeTag: {"late night"},
	}
	for _, ordinal := range idx.Filter(constraints).ToArray() {
		record := records[ordinal]
		for dim, wanted := range constraints {
			values := core.FacetValues(record, dim)
			matched := false
			for _, v := range values {
				for _, w := range wanted {
					if v == w {
						matched = true
					}
				}
			}
			assert.True(t, matched, "record %s does not satisfy %s constraint", record.Title, dim)
		}
	}
}

func TestValues(t *testing.T) {
	idx := Build(testRecords())

	assert.Equal(t, []string{"dreamy", "energetic"}, idx.Values(core.DimensionMood))
	assert.Equal(t, []string{"pop", "rock"}, idx.Values(core.DimensionGenre))
	assert.Equal(t, []string{"high", "low", "medium"}, idx.Values(core.DimensionEnergy))
	assert.Nil(t, idx.Values("tempo"))
}

func TestBuild_Empty(t *testing.T) {
	idx := Build(nil)
	require.Equal(t, 0, idx.Len())
	assert.True(t, idx.All().IsEmpty())
	assert.True(t, idx.Filter(nil).IsEmpty())
}
