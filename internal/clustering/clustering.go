// Package clustering ties a Hierarchy to its current Labeling, spec.md
// §3's `Clustering C = (H, labeling, mapping)`. It is kept separate from
// both internal/hierarchy and internal/labeler to avoid an import cycle
// (a Labeler consumes a Hierarchy; Clustering consumes a Labeler's output).
package clustering

import (
	"github.com/ntBre/besmarts/internal/hierarchy"
	"github.com/ntBre/besmarts/internal/ic"
	"github.com/ntBre/besmarts/internal/labeler"
)

// Clustering bundles a hierarchy snapshot with the labeling it produced.
type Clustering struct {
	Hierarchy *hierarchy.Hierarchy
	Labeling  *labeler.Labeling
}

// New wraps a hierarchy with an empty labeling; call Relabel before reading
// Mapping.
func New(h *hierarchy.Hierarchy) *Clustering {
	return &Clustering{Hierarchy: h, Labeling: labeler.NewLabeling()}
}

// Mapping is the inverse of Labeling: leaf name -> owned ICs.
func (c *Clustering) Mapping() map[string][]ic.Key {
	return c.Labeling.Mapping()
}

// Clone copies the Hierarchy structurally (spec.md §3's cheap clone); the
// Labeling is left as-is since every structural edit must be followed by a
// full relabel regardless — "labelings are regenerated from scratch after
// any structural edit; incremental updates are not assumed correct."
func (c *Clustering) Clone() *Clustering {
	return &Clustering{Hierarchy: c.Hierarchy.Clone(), Labeling: c.Labeling}
}
