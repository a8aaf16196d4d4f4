package decode

import (
	"testing"

	"github.com/ntBre/besmarts/internal/codec"
	"github.com/ntBre/besmarts/internal/workqueue"
)

func TestDecodeSmallListUsesSingleBatch(t *testing.T) {
	pool := workqueue.NewLocalPool(2)
	out, err := Decode(pool, codec.GraphCodec{}, []string{"CCO", "CC"})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("want 2 graphs, got %d", len(out))
	}
	if out[0].Atoms[0].Element != "C" {
		t.Fatalf("graph id 0 should be the first molecule")
	}
}

func TestDecodeErrorsSurfaceMoleculeIndex(t *testing.T) {
	pool := workqueue.NewLocalPool(1)
	_, err := Decode(pool, codec.GraphCodec{}, []string{"CCO", ""})
	if err == nil {
		t.Fatal("want an error for the empty SMILES entry")
	}
}
