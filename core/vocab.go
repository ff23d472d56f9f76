package core

import "sort"

// Dimension names a facet of the catalog schema. Each dimension has a
// closed vocabulary; values outside it are rejected at validation time
// rather than discovered later as index corruption.
type Dimension string

const (
	DimensionMood     Dimension = "mood"
	DimensionActivity Dimension = "activity"
	DimensionGenre    Dimension = "genre"
	DimensionVibeTag  Dimension = "vibe_tags"
	DimensionEnergy   Dimension = "energy"
)

// Dimensions returns all facet dimensions in their canonical order.
// The order is fixed: embedding text derivation depends on it.
func Dimensions() []Dimension {
	return []Dimension{
		DimensionMood,
		DimensionActivity,
		DimensionGenre,
		DimensionVibeTag,
		DimensionEnergy,
	}
}

// ParseDimension maps a user-supplied dimension name to a Dimension.
// Returns false for unknown names; the caller decides whether that is
// an error (it is, for query filters).
func ParseDimension(name string) (Dimension, bool) {
	switch Dimension(name) {
	case DimensionMood, DimensionActivity, DimensionGenre, DimensionVibeTag, DimensionEnergy:
		return Dimension(name), true
	}
	return "", false
}

// Mood is a closed-vocabulary mood facet value.
type Mood string

// Activity is a closed-vocabulary activity facet value.
type Activity string

// Genre is a closed-vocabulary genre facet value.
type Genre string

// VibeTag is a closed-vocabulary vibe facet value.
type VibeTag string

// Energy is the single-valued energy facet. It is excluded from
// embedding text.
type Energy string

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

var moodVocabulary = vocabulary(
	"calm", "dark", "dreamy", "energetic", "hopeful", "melancholic",
	"moody", "nostalgic", "playful", "romantic", "tense", "upbeat",
)

var activityVocabulary = vocabulary(
	"commuting", "cooking", "dancing", "driving", "partying", "relaxing",
	"running", "sleeping", "studying", "walking", "working out",
)

var genreVocabulary = vocabulary(
	"ambient", "classical", "country", "electronic", "folk", "hip hop",
	"indie", "jazz", "metal", "pop", "r&b", "rock", "soul",
)

var vibeTagVocabulary = vocabulary(
	"bittersweet", "city lights", "coffee shop", "daydream", "golden hour",
	"heartbreak", "late night", "rainy day", "road trip", "slow dance",
	"summer", "sunrise", "winter",
)

var energyVocabulary = vocabulary(
	string(EnergyLow), string(EnergyMedium), string(EnergyHigh),
)

func vocabulary(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

// Valid reports whether the mood is in the closed vocabulary.
func (m Mood) Valid() bool {
	_, ok := moodVocabulary[string(m)]
	return ok
}

// Valid reports whether the activity is in the closed vocabulary.
func (a Activity) Valid() bool {
	_, ok := activityVocabulary[string(a)]
	return ok
}

// Valid reports whether the genre is in the closed vocabulary.
func (g Genre) Valid() bool {
	_, ok := genreVocabulary[string(g)]
	return ok
}

// Valid reports whether the vibe tag is in the closed vocabulary.
func (v VibeTag) Valid() bool {
	_, ok := vibeTagVocabulary[string(v)]
	return ok
}

// Valid reports whether the energy level is one of low, medium, high.
func (e Energy) Valid() bool {
	_, ok := energyVocabulary[string(e)]
	return ok
}

// Vocabulary returns the closed vocabulary for a dimension, sorted.
// Returns nil for an unknown dimension.
func Vocabulary(dim Dimension) []string {
	var m map[string]struct{}
	switch dim {
	case DimensionMood:
		m = moodVocabulary
	case DimensionActivity:
		m = activityVocabulary
	case DimensionGenre:
		m = genreVocabulary
	case DimensionVibeTag:
		m = vibeTagVocabulary
	case DimensionEnergy:
		m = energyVocabulary
	default:
		return nil
	}

	values := make([]string, 0, len(m))
	for v := range m {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// FacetValues returns a record's values for the given dimension as plain
// strings. Used by index construction, which treats all dimensions
// uniformly.
func FacetValues(r *SongRecord, dim Dimension) []string {
	switch dim {
	case DimensionMood:
		return facetStrings(r.Moods)
	case DimensionActivity:
		return facetStrings(r.Activities)
	case DimensionGenre:
		return facetStrings(r.Genres)
	case DimensionVibeTag:
		return facetStrings(r.VibeTags)
	case DimensionEnergy:
		return []string{string(r.Energy)}
	}
	return nil
}

func facetStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
