package checkpoint

import (
	"testing"

	"github.com/ntBre/besmarts/internal/codec"
	"github.com/ntBre/besmarts/internal/hierarchy"
	"github.com/ntBre/besmarts/internal/strategy"
	"github.com/ntBre/besmarts/internal/topology"
)

func wildcardAtom(topo topology.Topology) codec.Structure {
	return codec.Structure{Topo: topo, Atoms: make([]codec.AtomPattern, topo.Arity())}
}

func TestSnapshotEncodeDecodeRoundTrip(t *testing.T) {
	topo := topology.For(topology.Atom)
	h := hierarchy.New("p0", "p", wildcardAtom(topo), "[*]")
	strat := strategy.New([]strategy.Macro{{}}, strategy.Caps{})
	strat.Cursor = 1
	strat.StepTracker["p0"] = 1

	doc := Snapshot(h, strat, []DatasetEntry{{MolID: 0, Smiles: "CCO"}})
	data, err := Encode(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Version != CurrentVersion {
		t.Fatalf("want version %d, got %d", CurrentVersion, back.Version)
	}
	if len(back.Clustering.Nodes) != 1 || back.Clustering.Nodes[0].Name != "p0" {
		t.Fatalf("unexpected nodes: %+v", back.Clustering.Nodes)
	}
	if back.Strategy.Cursor != 1 {
		t.Fatalf("want cursor 1, got %d", back.Strategy.Cursor)
	}
}

func TestRestoreRebuildsHierarchy(t *testing.T) {
	topo := topology.For(topology.Atom)
	h := hierarchy.New("p0", "p", wildcardAtom(topo), "[*]")
	root := h.RootIDs[0]
	h.AddChild(root, h.NextName(), wildcardAtom(topo), "[#8]", 0)
	strat := strategy.New([]strategy.Macro{{}}, strategy.Caps{})

	doc := Snapshot(h, strat, nil)
	restored, restoredStrat, err := Restore(doc, codec.GraphCodec{}, topo, []strategy.Macro{{}}, strategy.Caps{})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if len(restored.Nodes) != 2 {
		t.Fatalf("want 2 restored nodes, got %d", len(restored.Nodes))
	}
	if restoredStrat.Cursor != strat.Cursor {
		t.Fatalf("want cursor %d, got %d", strat.Cursor, restoredStrat.Cursor)
	}
}

func TestStoreRetentionPrunesOldCheckpoints(t *testing.T) {
	backend := &memBackend{files: map[string][]byte{}}
	store := NewStore(backend, 2)
	for i := 0; i < 5; i++ {
		if err := store.Save(Document{Version: CurrentVersion}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	names, _ := backend.List()
	if len(names) != 2 {
		t.Fatalf("want 2 retained checkpoints, got %d: %v", len(names), names)
	}
}

func TestDiffNodesAndApplyPatchRoundTrip(t *testing.T) {
	topo := topology.For(topology.Atom)
	h := hierarchy.New("p0", "p", wildcardAtom(topo), "[*]")
	strat := strategy.New([]strategy.Macro{{}}, strategy.Caps{})
	prev := Snapshot(h, strat, nil)

	root := h.RootIDs[0]
	h.AddChild(root, h.NextName(), wildcardAtom(topo), "[#8]", 0)
	curr := Snapshot(h, strat, nil)

	ops, err := DiffNodes(prev, curr)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	patched, err := ApplyPatch(prev, curr, ops)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(patched.Clustering.Nodes) != len(curr.Clustering.Nodes) {
		t.Fatalf("want %d nodes after patch, got %d", len(curr.Clustering.Nodes), len(patched.Clustering.Nodes))
	}
}

// memBackend is an in-memory Backend used only to test Store's retention
// policy without touching the filesystem.
type memBackend struct {
	files map[string][]byte
}

func (b *memBackend) Write(name string, data []byte) error {
	b.files[name] = data
	return nil
}

func (b *memBackend) Read(name string) ([]byte, error) {
	return b.files[name], nil
}

func (b *memBackend) List() ([]string, error) {
	var names []string
	for n := range b.files {
		names = append(names, n)
	}
	return names, nil
}

func (b *memBackend) Delete(name string) error {
	delete(b.files, name)
	return nil
}
