package codec

import (
	"sort"

	"github.com/ntBre/besmarts/internal/topology"
)

// Member is one real occurrence of an IC: the graph it lives in and the
// 0-based atom tuple within that graph.
type Member struct {
	Graph *Graph
	Tuple []int
}

// Extend is the out-of-scope graph-primitive "extend": it turns one real
// occurrence into the maximally specific Structure matching exactly that
// occurrence (every position pinned to its observed element). The
// reference codec does not extend beyond the tuple itself into bonded
// neighbors — see StructureMaxDepth.
func Extend(topo topology.Topology, m Member) Structure {
	atoms := make([]AtomPattern, len(m.Tuple))
	for i, idx := range m.Tuple {
		atoms[i] = AtomPattern{Elements: []string{m.Graph.Atoms[idx].Element}}
	}
	return Structure{Topo: topo, Select: append([]int(nil), m.Tuple...), Atoms: atoms}
}

// Union computes the structural union Q of a set of IC occurrences: for
// each tuple position, the set of elements observed across every member at
// that position (spec.md §4.2's "Q, the structural union of all ICs in
// A_S"). An empty member set yields an all-wildcard Structure.
func Union(topo topology.Topology, members []Member) Structure {
	arity := topo.Arity()
	atoms := make([]AtomPattern, arity)
	for i := 0; i < arity; i++ {
		seen := map[string]bool{}
		for _, m := range members {
			seen[m.Graph.Atoms[m.Tuple[i]].Element] = true
		}
		var elems []string
		for e := range seen {
			elems = append(elems, e)
		}
		sort.Strings(elems)
		atoms[i] = AtomPattern{Elements: elems}
	}
	return Structure{Topo: topo, Atoms: atoms}
}

// StructureMaxDepth is the out-of-scope "structure_max_depth(S)": how many
// bonds beyond the anchor tuple a splitter is allowed to reach when
// enumerating child patterns. The reference codec never extends past the
// anchor tuple itself, so this is always 0; a richer codec with bonded
// neighbor primitives would return the real traversal bound here.
func StructureMaxDepth(s Structure) int { return 0 }
