// Package labeler implements the external labeler contract of spec.md §4.6:
// given a hierarchy and a set of molecules, assign every IC the name of the
// most specific matching pattern under first-child-wins pre-order descent.
package labeler

import (
	"sort"

	"github.com/ntBre/besmarts/internal/codec"
	"github.com/ntBre/besmarts/internal/hierarchy"
	"github.com/ntBre/besmarts/internal/ic"
	"github.com/ntBre/besmarts/internal/topology"
)

// Labeling is the per-molecule map IC-tuple -> leaf name of spec.md §3,
// plus its equivalent inverse mapping (leaf name -> owned ICs).
type Labeling struct {
	keys   map[string]ic.Key
	byKey  map[string]string
}

func NewLabeling() *Labeling {
	return &Labeling{keys: map[string]ic.Key{}, byKey: map[string]string{}}
}

func (l *Labeling) Set(k ic.Key, leaf string) {
	s := k.String()
	l.keys[s] = k
	l.byKey[s] = leaf
}

func (l *Labeling) Leaf(k ic.Key) (string, bool) {
	v, ok := l.byKey[k.String()]
	return v, ok
}

func (l *Labeling) Len() int { return len(l.byKey) }

// Mapping builds the inverse index: leaf name -> sorted list of owned ICs.
func (l *Labeling) Mapping() map[string][]ic.Key {
	out := map[string][]ic.Key{}
	for s, leaf := range l.byKey {
		out[leaf] = append(out[leaf], l.keys[s])
	}
	for leaf := range out {
		sort.Slice(out[leaf], func(i, j int) bool {
			return out[leaf][i].String() < out[leaf][j].String()
		})
	}
	return out
}

// Labeler is the external collaborator of spec.md §2/§4.6.
type Labeler interface {
	Assign(h *hierarchy.Hierarchy, cd codec.Codec, molecules map[uint32]*codec.Graph, topo topology.Topology, keys []ic.Key) (*Labeling, error)
}

// FirstMatch is the reference Labeler: deterministic first-child-wins
// pre-order descent, one pass per IC key. It raises no error on an
// unmatched IC (it is simply absent from the resulting Labeling); spec.md
// §4.6 calls that case tolerated, with any downstream DataInconsistency
// left to assignment.CheckConsistency.
type FirstMatch struct{}

func (FirstMatch) Assign(h *hierarchy.Hierarchy, cd codec.Codec, molecules map[uint32]*codec.Graph, topo topology.Topology, keys []ic.Key) (*Labeling, error) {
	out := NewLabeling()
	for _, k := range keys {
		g, ok := molecules[k.MolID]
		if !ok {
			continue
		}
		tuple := make([]int, len(k.Atoms))
		for i, a := range k.Atoms {
			tuple[i] = int(a)
		}
		for _, root := range h.RootIDs {
			if h.Subgraphs[root].Matches(g, tuple) {
				leaf := descend(h, root, g, tuple)
				out.Set(k, h.Nodes[leaf].Name)
				break
			}
		}
	}
	return out, nil
}

// descend walks from nid down through the first matching child at each
// level until no child of the current node matches, returning that node.
func descend(h *hierarchy.Hierarchy, nid hierarchy.NodeID, g *codec.Graph, tuple []int) hierarchy.NodeID {
	cur := nid
	for {
		n := h.Nodes[cur]
		next := hierarchy.NodeID(-1)
		for _, c := range n.Children {
			if h.Subgraphs[c].Matches(g, tuple) {
				next = c
				break
			}
		}
		if next == -1 {
			return cur
		}
		cur = next
	}
}
