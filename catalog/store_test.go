package catalog

import (
	"strings"
	"testing"

	"github.com/playlistlab/crate/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEntries() []Entry {
	return []Entry{
		{
			Title:       "Nightswim",
			Artist:      StringList{"Cove"},
			Mood:        []string{"dreamy"},
			Activity:    []string{"walking"},
			Energy:      "low",
			Genre:       []string{"pop"},
			VibeTags:    []string{"late night"},
			Description: "Soft synths for empty streets.",
		},
		{
			Title:       "Mile Markers",
			Artist:      StringList{"Harlan West", "June Avery"},
			Mood:        []string{"energetic"},
			Activity:    []string{"driving"},
			Energy:      "high",
			Genre:       []string{"rock"},
			VibeTags:    []string{"road trip"},
			Description: "Open-highway guitars with a relentless backbeat.",
		},
	}
}

func TestLoad(t *testing.T) {
	store, err := Load(validEntries())
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	// IDs come back sorted and addressable.
	ids := store.IDs()
	require.Len(t, ids, 2)
	assert.Less(t, ids[0], ids[1])

	for _, id := range ids {
		record := store.Record(id)
		require.NotNil(t, record)
		assert.Equal(t, id, record.Id)
	}

	records := store.Records()
	require.Len(t, records, 2)
	assert.Equal(t, ids[0], records[0].Id)
}

func TestLoad_EmptyRevision(t *testing.T) {
	_, err := Load(nil)
	assert.ErrorIs(t, err, core.ErrEmptyCatalog)
}

func TestLoad_UnknownMoodFails(t *testing.T) {
	entries := validEntries()
	entries[1].Mood = []string{"sad"}

	_, err := Load(entries)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidCatalog)

	var errs core.ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Index)
	assert.Equal(t, "mood", errs[0].Field)
	assert.ErrorIs(t, errs[0], core.ErrUnknownFacetValue)
}

func TestLoad_AccumulatesAcrossEntries(t *testing.T) {
	entries := validEntries()
	entries[0].Description = ""
	entries[1].Energy = "extreme"

	_, err := Load(entries)
	var errs core.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 2)
}

func TestLoad_DuplicateIdentity(t *testing.T) {
	entries := validEntries()
	entries[1] = entries[0]

	_, err := Load(entries)
	var errs core.ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], core.ErrDuplicateEntry)
	assert.Equal(t, 1, errs[0].Index)
}

func TestLoad_StableIDsAcrossRebuilds(t *testing.T) {
	a, err := Load(validEntries())
	require.NoError(t, err)
	b, err := Load(validEntries())
	require.NoError(t, err)

	assert.Equal(t, a.IDs(), b.IDs())
}

func TestDecodeEntries(t *testing.T) {
	const doc = `[
		{
			"title": "Nightswim",
			"artist": "Cove",
			"mood": ["dreamy"],
			"activity": ["walking"],
			"energy": "low",
			"genre": ["pop"],
			"vibe_tags": ["late night"],
			"description": "Soft synths for empty streets."
		},
		{
			"title": "Duet",
			"artist": ["A", "B"],
			"mood": ["romantic"],
			"activity": ["dancing"],
			"energy": "medium",
			"genre": ["soul"],
			"vibe_tags": ["slow dance"],
			"description": "Two voices circling each other."
		}
	]`

	entries, err := DecodeEntries(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// A bare string coerces to a one-element artist list.
	assert.Equal(t, StringList{"Cove"}, entries[0].Artist)
	assert.Equal(t, StringList{"A", "B"}, entries[1].Artist)
}

func TestDecodeEntries_Malformed(t *testing.T) {
	_, err := DecodeEntries(strings.NewReader(`{"not": "an array"}`))
	assert.Error(t, err)
}
