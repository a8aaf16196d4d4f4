// Package hierarchy implements the ordered tree of SMARTS patterns of
// spec.md §3: the Parameter node, the Hierarchy tree, and the cheap
// structural clone edits operate on.
//
// Grounded on the clone idiom of the teacher's
// github.com/wayneeseguin/graft copy-on-write tree (share immutable node
// payloads, copy only the maps/slices a write touches) and on spec.md §3's
// explicit instruction: "Copy is structural: edits operate on snapshots ...
// cloned cheaply by sharing immutable node payloads and copying maps."
package hierarchy

import (
	"fmt"
	"strconv"

	"github.com/ntBre/besmarts/internal/codec"
)

// NodeID identifies a Parameter node within one Hierarchy. IDs are never
// reused and are stable across Clone (a clone's node N has the same NodeID
// as its source).
type NodeID int

// NoParent marks the root's Parent field.
const NoParent NodeID = -1

// Node is one parameter in the hierarchy: spec.md §3's `{name, smarts,
// structure, parent, children}`. Between a SPLIT that creates it and a
// MERGE that destroys it, a Node is immutable; edits always replace the
// Node value in the Hierarchy's map rather than mutating it in place, so
// a Node value can be safely shared across clones.
type Node struct {
	ID       NodeID
	Name     string
	Parent   NodeID   // NoParent for a root
	Children []NodeID // priority order: Children[0] wins ties
}

// Hierarchy is spec.md §3's H: `{nodes, root_ids}` plus the side tables
// `subgraph[nid]` and `smarts[nid]`.
type Hierarchy struct {
	Nodes       map[NodeID]Node
	RootIDs     []NodeID
	Subgraphs   map[NodeID]codec.Structure
	Smarts      map[NodeID]string
	GroupPrefix string

	nextID      NodeID
	nextCounter int // lazily seeded from existing "prefix+N" names; see NextName
}

// New creates a Hierarchy with a single root node.
func New(rootName, groupPrefix string, structure codec.Structure, smarts string) *Hierarchy {
	h := &Hierarchy{
		Nodes:       map[NodeID]Node{},
		Subgraphs:   map[NodeID]codec.Structure{},
		Smarts:      map[NodeID]string{},
		GroupPrefix: groupPrefix,
	}
	root := h.allocID()
	h.Nodes[root] = Node{ID: root, Name: rootName, Parent: NoParent}
	h.Subgraphs[root] = structure
	h.Smarts[root] = smarts
	h.RootIDs = []NodeID{root}
	return h
}

func (h *Hierarchy) allocID() NodeID {
	id := h.nextID
	h.nextID++
	return id
}

// Clone returns a structurally independent copy: new top-level maps and
// root slice, but the immutable Node/Structure/string values inside them
// are shared until an edit on the clone replaces them.
func (h *Hierarchy) Clone() *Hierarchy {
	nodes := make(map[NodeID]Node, len(h.Nodes))
	for k, v := range h.Nodes {
		nodes[k] = v
	}
	subgraphs := make(map[NodeID]codec.Structure, len(h.Subgraphs))
	for k, v := range h.Subgraphs {
		subgraphs[k] = v
	}
	smarts := make(map[NodeID]string, len(h.Smarts))
	for k, v := range h.Smarts {
		smarts[k] = v
	}
	return &Hierarchy{
		Nodes:       nodes,
		RootIDs:     append([]NodeID(nil), h.RootIDs...),
		Subgraphs:   subgraphs,
		Smarts:      smarts,
		GroupPrefix: h.GroupPrefix,
		nextID:      h.nextID,
		nextCounter: h.nextCounter,
	}
}

// maxCounter scans existing "prefix+N" names for the highest N.
func (h *Hierarchy) maxCounter() int {
	max := 0
	for _, n := range h.Nodes {
		if len(n.Name) <= len(h.GroupPrefix) || n.Name[:len(h.GroupPrefix)] != h.GroupPrefix {
			continue
		}
		if v, err := strconv.Atoi(n.Name[len(h.GroupPrefix):]); err == nil && v > max {
			max = v
		}
	}
	return max
}

// NextName returns the next "prefix+counter" name, with counter strictly
// greater than every existing counter the first time it's called on a
// given Hierarchy value, and incrementing monotonically after (spec.md
// §3's invariant on freshly created SPLIT children's names).
func (h *Hierarchy) NextName() string {
	if h.nextCounter == 0 {
		h.nextCounter = h.maxCounter() + 1
	}
	name := h.GroupPrefix + strconv.Itoa(h.nextCounter)
	h.nextCounter++
	return name
}

// AddChild inserts a new node under parent at the given priority index
// (0 = highest, matching spec.md §9's mandate that SPLIT children are
// inserted at position 0) and returns its NodeID.
func (h *Hierarchy) AddChild(parent NodeID, name string, structure codec.Structure, smarts string, atIndex int) (NodeID, error) {
	p, ok := h.Nodes[parent]
	if !ok {
		return 0, fmt.Errorf("hierarchy: parent node %d not found", parent)
	}
	id := h.allocID()
	h.Nodes[id] = Node{ID: id, Name: name, Parent: parent}
	h.Subgraphs[id] = structure
	h.Smarts[id] = smarts

	children := make([]NodeID, 0, len(p.Children)+1)
	if atIndex < 0 || atIndex > len(p.Children) {
		atIndex = len(p.Children)
	}
	children = append(children, p.Children[:atIndex]...)
	children = append(children, id)
	children = append(children, p.Children[atIndex:]...)
	p.Children = children
	h.Nodes[parent] = p

	return id, nil
}

// RemoveChild deletes a childless node, detaching it from its parent's
// Children. Removing a node with children is a programmer error: MERGE
// only ever targets a current leaf child (spec.md §4.2).
func (h *Hierarchy) RemoveChild(id NodeID) error {
	n, ok := h.Nodes[id]
	if !ok {
		return fmt.Errorf("hierarchy: node %d not found", id)
	}
	if len(n.Children) != 0 {
		return fmt.Errorf("hierarchy: node %d (%s) has children, cannot MERGE", id, n.Name)
	}
	if n.Parent != NoParent {
		p := h.Nodes[n.Parent]
		children := make([]NodeID, 0, len(p.Children))
		for _, c := range p.Children {
			if c != id {
				children = append(children, c)
			}
		}
		p.Children = children
		h.Nodes[n.Parent] = p
	} else {
		roots := make([]NodeID, 0, len(h.RootIDs))
		for _, r := range h.RootIDs {
			if r != id {
				roots = append(roots, r)
			}
		}
		h.RootIDs = roots
	}
	delete(h.Nodes, id)
	delete(h.Subgraphs, id)
	delete(h.Smarts, id)
	return nil
}

// ByName finds a node by name, or ok=false if no such node exists —
// spec.md §7's NodeMissing condition.
func (h *Hierarchy) ByName(name string) (Node, bool) {
	for _, n := range h.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return Node{}, false
}

// PreOrder walks the hierarchy depth-first, first-child-first, the
// traversal order first-match-wins labeling depends on.
func (h *Hierarchy) PreOrder() []Node {
	var out []Node
	var walk func(id NodeID)
	walk = func(id NodeID) {
		n := h.Nodes[id]
		out = append(out, n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range h.RootIDs {
		walk(r)
	}
	return out
}

// SeedNextID sets the internal id allocator past the highest NodeID
// currently present, so a Hierarchy reconstructed from outside the package
// (e.g. checkpoint.Restore, which builds Nodes/Subgraphs/Smarts directly)
// never hands out a NodeID that collides with one it was restored with.
func (h *Hierarchy) SeedNextID() {
	max := NodeID(-1)
	for id := range h.Nodes {
		if id > max {
			max = id
		}
	}
	h.nextID = max + 1
}

// Depth returns a node's distance from its root (0 for a root).
func (h *Hierarchy) Depth(id NodeID) int {
	d := 0
	for {
		n, ok := h.Nodes[id]
		if !ok || n.Parent == NoParent {
			return d
		}
		id = n.Parent
		d++
	}
}
