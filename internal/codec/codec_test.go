package codec

import (
	"testing"

	"github.com/ntBre/besmarts/internal/topology"
)

func TestDecodeSMILESEthanol(t *testing.T) {
	g, err := DecodeSMILES("CCO")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(g.Atoms) != 3 {
		t.Fatalf("want 3 atoms, got %d", len(g.Atoms))
	}
	want := []string{"C", "C", "O"}
	for i, a := range g.Atoms {
		if a.Element != want[i] {
			t.Errorf("atom %d: want %s, got %s", i, want[i], a.Element)
		}
	}
	if len(g.Bonds) != 2 {
		t.Fatalf("want 2 bonds, got %d", len(g.Bonds))
	}
}

func TestDecodeSMILESBranch(t *testing.T) {
	g, err := DecodeSMILES("CC(C)C")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(g.Atoms) != 4 || len(g.Bonds) != 3 {
		t.Fatalf("got %d atoms %d bonds", len(g.Atoms), len(g.Bonds))
	}
}

func TestDecodeSMILESEmpty(t *testing.T) {
	if _, err := DecodeSMILES(""); err == nil {
		t.Fatal("want error on empty SMILES")
	}
}

func TestSmartsRoundTrip(t *testing.T) {
	topo := topology.For(topology.Atom)
	s := Structure{Topo: topo, Atoms: []AtomPattern{{Elements: []string{"O"}}}}
	smarts, err := EncodeSMARTS(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeSMARTS(smarts, topo)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	g, _ := DecodeSMILES("CCO")
	for i, a := range g.Atoms {
		want := s.Matches(g, []int{i})
		got := back.Matches(g, []int{i})
		if want != got {
			t.Errorf("atom %d (%s): round-trip mismatch want=%v got=%v", i, a.Element, want, got)
		}
	}
}

func TestUnionAndExtend(t *testing.T) {
	g, _ := DecodeSMILES("CCO")
	topo := topology.For(topology.Atom)
	members := []Member{
		{Graph: g, Tuple: []int{0}},
		{Graph: g, Tuple: []int{1}},
		{Graph: g, Tuple: []int{2}},
	}
	q := Union(topo, members)
	if !q.Matches(g, []int{0}) || !q.Matches(g, []int{2}) {
		t.Fatal("union should match every observed element")
	}

	specific := Extend(topo, members[2])
	if !specific.Matches(g, []int{2}) {
		t.Fatal("extend should match its own source tuple")
	}
	if specific.Matches(g, []int{0}) {
		t.Fatal("extend should not match a different element")
	}
}
