package dataset

import (
	"testing"

	"github.com/ntBre/besmarts/internal/codec"
	"github.com/ntBre/besmarts/internal/ic"
	"github.com/ntBre/besmarts/internal/topology"
)

func TestAddSelectionAndGet(t *testing.T) {
	db := New()
	db.AddGraph(0, &codec.Graph{})
	key := ic.Key{MolID: 0, Atoms: []uint32{0, 1}}

	if err := db.AddSelection(Distances, topology.For(topology.Bond), key, 1.54); err != nil {
		t.Fatalf("AddSelection: %v", err)
	}

	v, ok := db.Tables[Distances].Get(key)
	if !ok || v.(float64) != 1.54 {
		t.Fatalf("want 1.54, got %v ok=%v", v, ok)
	}
}

func TestAddSelectionRejectsTopologyMismatch(t *testing.T) {
	db := New()
	key := ic.Key{MolID: 0, Atoms: []uint32{0, 1}}
	if err := db.AddSelection(Distances, topology.For(topology.Bond), key, 1.0); err != nil {
		t.Fatal(err)
	}
	err := db.AddSelection(Distances, topology.For(topology.Angle), key, 2.0)
	if err == nil {
		t.Fatal("want an error for a topology mismatch on an existing table")
	}
}

func TestValuesFlattensAllTables(t *testing.T) {
	db := New()
	k1 := ic.Key{MolID: 0, Atoms: []uint32{0, 1}}
	k2 := ic.Key{MolID: 0, Atoms: []uint32{0, 1, 2}}
	_ = db.AddSelection(Distances, topology.For(topology.Bond), k1, 1.1)
	_ = db.AddSelection(Angles, topology.For(topology.Angle), k2, 109.5)

	flat := db.Values()
	if len(flat) != 2 {
		t.Fatalf("want 2 kinds, got %d", len(flat))
	}
	if flat[Distances][k1.String()].(float64) != 1.1 {
		t.Fatal("distances value missing")
	}
	if flat[Angles][k2.String()].(float64) != 109.5 {
		t.Fatal("angles value missing")
	}
}
