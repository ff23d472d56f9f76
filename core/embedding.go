package core

import (
	"sort"
	"strings"
)

// EmbeddingText derives the text a record is embedded from: a compact
// tag line built from the semantic facets, followed by the description.
//
// The derivation is deterministic (facet values are sorted within each
// dimension and dimensions appear in a fixed order), so two builds of
// the same catalog produce byte-identical embedding inputs. Energy,
// title and artists carry no semantic description and are excluded.
func EmbeddingText(r *SongRecord) string {
	var tags []string

	if segment := tagSegment("mood", facetStrings(r.Moods)); segment != "" {
		tags = append(tags, segment)
	}
	if segment := tagSegment("activity", facetStrings(r.Activities)); segment != "" {
		tags = append(tags, segment)
	}
	if segment := tagSegment("genre", facetStrings(r.Genres)); segment != "" {
		tags = append(tags, segment)
	}
	if segment := tagSegment("vibe", facetStrings(r.VibeTags)); segment != "" {
		tags = append(tags, segment)
	}

	var parts []string
	if len(tags) > 0 {
		parts = append(parts, strings.Join(tags, " | "))
	}
	if desc := strings.TrimSpace(r.Description); desc != "" {
		parts = append(parts, desc)
	}

	return strings.Join(parts, "\n")
}

func tagSegment(label string, values []string) string {
	if len(values) == 0 {
		return ""
	}
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)
	return label + ": " + strings.Join(sorted, ", ")
}
