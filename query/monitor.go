package query

import (
	"github.com/playlistlab/crate/core"
	"github.com/playlistlab/crate/facet"
)

// Monitor provides hooks to observe the query pipeline.
// Implement this interface to track intermediate steps during planning.
type Monitor interface {
	Start(text string, filters facet.Constraints)
	AfterFacetFilter(candidates int)
	AfterQueryEmbedding(dim int)
	AfterSimilarityScan(matches []core.SimilarityMatch)
	Finish(hits []*core.SearchResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ facet.Constraints)        {}
func (n *noopMonitor) AfterFacetFilter(_ int)                     {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)                  {}
func (n *noopMonitor) AfterSimilarityScan(_ []core.SimilarityMatch) {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)                {}
