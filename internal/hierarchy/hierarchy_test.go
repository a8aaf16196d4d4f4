package hierarchy

import (
	"testing"

	"github.com/ntBre/besmarts/internal/codec"
	"github.com/ntBre/besmarts/internal/topology"
)

func wildcard(topo topology.Topology) codec.Structure {
	atoms := make([]codec.AtomPattern, topo.Arity())
	return codec.Structure{Topo: topo, Atoms: atoms}
}

func TestNewAndPreOrder(t *testing.T) {
	topo := topology.For(topology.Atom)
	h := New("root", "p", wildcard(topo), "[*]")
	order := h.PreOrder()
	if len(order) != 1 || order[0].Name != "root" {
		t.Fatalf("want single root, got %v", order)
	}
}

func TestAddChildPriorityOrder(t *testing.T) {
	topo := topology.For(topology.Atom)
	h := New("root", "p", wildcard(topo), "[*]")
	root := h.RootIDs[0]

	first, err := h.AddChild(root, h.NextName(), wildcard(topo), "[#6]", 0)
	if err != nil {
		t.Fatal(err)
	}
	second, err := h.AddChild(root, h.NextName(), wildcard(topo), "[#7]", 0)
	if err != nil {
		t.Fatal(err)
	}

	children := h.Nodes[root].Children
	if len(children) != 2 || children[0] != second || children[1] != first {
		t.Fatalf("new child should be inserted at priority 0, got %v", children)
	}
}

func TestRemoveChildRestoresParent(t *testing.T) {
	topo := topology.For(topology.Atom)
	h := New("root", "p", wildcard(topo), "[*]")
	root := h.RootIDs[0]
	child, _ := h.AddChild(root, h.NextName(), wildcard(topo), "[#6]", 0)

	if err := h.RemoveChild(child); err != nil {
		t.Fatal(err)
	}
	if len(h.Nodes[root].Children) != 0 {
		t.Fatalf("want no children after remove, got %v", h.Nodes[root].Children)
	}
	if _, ok := h.Nodes[child]; ok {
		t.Fatal("removed node should no longer be present")
	}
}

func TestRemoveChildWithChildrenFails(t *testing.T) {
	topo := topology.For(topology.Atom)
	h := New("root", "p", wildcard(topo), "[*]")
	root := h.RootIDs[0]
	mid, _ := h.AddChild(root, h.NextName(), wildcard(topo), "[#6]", 0)
	h.AddChild(mid, h.NextName(), wildcard(topo), "[#7]", 0)

	if err := h.RemoveChild(mid); err == nil {
		t.Fatal("want error removing a node with children")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	topo := topology.For(topology.Atom)
	h := New("root", "p", wildcard(topo), "[*]")
	root := h.RootIDs[0]
	clone := h.Clone()

	clone.AddChild(root, clone.NextName(), wildcard(topo), "[#6]", 0)

	if len(h.Nodes[root].Children) != 0 {
		t.Fatal("mutating clone must not affect source hierarchy")
	}
	if len(clone.Nodes[root].Children) != 1 {
		t.Fatal("clone should have the new child")
	}
}

func TestNextNameMonotonic(t *testing.T) {
	topo := topology.For(topology.Atom)
	h := New("root", "p", wildcard(topo), "[*]")
	a := h.NextName()
	b := h.NextName()
	if a == b {
		t.Fatalf("expected distinct names, got %q twice", a)
	}
}
