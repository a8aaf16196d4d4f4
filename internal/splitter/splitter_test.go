package splitter

import (
	"testing"

	"github.com/ntBre/besmarts/internal/codec"
	"github.com/ntBre/besmarts/internal/topology"
)

func TestEnumerateSpecializesWildcard(t *testing.T) {
	topo := topology.For(topology.Atom)
	s := codec.Structure{Topo: topo, Atoms: []codec.AtomPattern{{}}}
	q := codec.Structure{Topo: topo, Atoms: []codec.AtomPattern{{Elements: []string{"C", "O"}}}}

	cands, err := ElementSplitter{}.Enumerate(Config{SplitSpecific: true}, s, q, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 2 {
		t.Fatalf("want 2 candidates, got %d", len(cands))
	}
}

func TestEnumerateSkipsAlreadySpecific(t *testing.T) {
	topo := topology.For(topology.Atom)
	s := codec.Structure{Topo: topo, Atoms: []codec.AtomPattern{{Elements: []string{"O"}}}}
	q := codec.Structure{Topo: topo, Atoms: []codec.AtomPattern{{Elements: []string{"O"}}}}

	cands, err := ElementSplitter{}.Enumerate(Config{SplitSpecific: true}, s, q, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 0 {
		t.Fatalf("already-specific position should not branch, got %d", len(cands))
	}
}

func TestPartitionSplitsMembers(t *testing.T) {
	g, _ := codec.DecodeSMILES("CCO")
	topo := topology.For(topology.Atom)
	s := codec.Structure{Topo: topo, Atoms: []codec.AtomPattern{{}}}
	members := []codec.Member{
		{Graph: g, Tuple: []int{0}},
		{Graph: g, Tuple: []int{1}},
		{Graph: g, Tuple: []int{2}},
	}

	parts, err := ElementSplitter{}.Partition(Config{}, s, members)
	if err != nil {
		t.Fatal(err)
	}
	var oxygenPart *Partition
	for i := range parts {
		if parts[i].Structure.Atoms[0].Elements[0] == "O" {
			oxygenPart = &parts[i]
		}
	}
	if oxygenPart == nil {
		t.Fatal("expected an oxygen partition candidate")
	}
	if len(oxygenPart.Matched) != 1 || len(oxygenPart.Unmatched) != 2 {
		t.Fatalf("want 1 matched/2 unmatched, got %d/%d", len(oxygenPart.Matched), len(oxygenPart.Unmatched))
	}
}
