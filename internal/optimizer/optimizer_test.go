package optimizer

import (
	"testing"

	"github.com/ntBre/besmarts/internal/assignment"
	"github.com/ntBre/besmarts/internal/clustering"
	"github.com/ntBre/besmarts/internal/codec"
	"github.com/ntBre/besmarts/internal/hierarchy"
	"github.com/ntBre/besmarts/internal/ic"
	"github.com/ntBre/besmarts/internal/labeler"
	"github.com/ntBre/besmarts/internal/objective"
	"github.com/ntBre/besmarts/internal/scorer"
	"github.com/ntBre/besmarts/internal/splitter"
	"github.com/ntBre/besmarts/internal/strategy"
	"github.com/ntBre/besmarts/internal/topology"
	"github.com/ntBre/besmarts/internal/workqueue"
)

func wildcardRoot() codec.Structure {
	return codec.Structure{Topo: topology.For(topology.Atom), Atoms: []codec.AtomPattern{{}}}
}

func atomKeys(molID uint32, n int) []ic.Key {
	keys := make([]ic.Key, n)
	for i := 0; i < n; i++ {
		keys[i] = ic.Key{MolID: molID, Atoms: []uint32{uint32(i)}}
	}
	return keys
}

func buildSnapshot(t *testing.T, smiles string, obs []float64) (scorer.Snapshot, *clustering.Clustering) {
	t.Helper()
	cd := codec.GraphCodec{}
	g, err := cd.SmilesDecode(smiles)
	if err != nil {
		t.Fatalf("decode %q: %v", smiles, err)
	}
	molecules := map[uint32]*codec.Graph{0: g}
	topo := topology.For(topology.Atom)
	keys := atomKeys(0, len(obs))

	assn := assignment.New()
	for i, k := range keys {
		assn.SetObservation(k, obs[i])
	}

	root := wildcardRoot()
	smarts, err := cd.SmartsEncode(root)
	if err != nil {
		t.Fatalf("encode root smarts: %v", err)
	}
	h := hierarchy.New("p0", "p", root, smarts)

	labeling, err := (labeler.FirstMatch{}).Assign(h, cd, molecules, topo, keys)
	if err != nil {
		t.Fatalf("initial labeling: %v", err)
	}
	for _, k := range keys {
		leaf, _ := labeling.Leaf(k)
		assn.SetLabel(k, leaf)
	}

	c := &clustering.Clustering{Hierarchy: h, Labeling: labeling}
	snap := scorer.Snapshot{
		Codec:      cd,
		Labeler:    labeler.FirstMatch{},
		Objective:  objective.NewVariance(),
		Assignment: assn,
		Molecules:  molecules,
		Topology:   topo,
		Keys:       keys,
	}
	return snap, c
}

func splitStep(overlap []int, perCluster int) strategy.Strategy {
	step := strategy.MicroStep{
		Operation:   strategy.OpSplit,
		ClusterNode: "p0",
		Perception: splitter.PerceptionConfig{
			Splitter: splitter.Config{SplitGeneral: true, SplitSpecific: true},
			Extender: splitter.ExtenderConfig{DepthMax: 0},
		},
		Overlap:      overlap,
		IterativeEnable: true,
	}
	return strategy.Strategy{
		Macros: []strategy.Macro{{Steps: []strategy.MicroStep{step}}},
		Caps: strategy.Caps{
			MicroAcceptMaxPerCluster: perCluster,
			MacroAcceptMaxPerCluster: perCluster,
		},
		StepTracker: map[string]int{},
	}
}

func TestScenario1TrivialNoSplit(t *testing.T) {
	snap, c := buildSnapshot(t, "CC", []float64{1.0, 1.0})
	strat := splitStep([]int{0}, 1)

	cfg := Config{Splitter: splitter.ElementSplitter{}, Queue: workqueue.NewLocalPool(2)}
	result, err := Run(cfg, snap, c, &strat)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Clustering.Hierarchy.Nodes) != 1 {
		t.Fatalf("want a single node, got %d", len(result.Clustering.Hierarchy.Nodes))
	}
	if result.X != 0 {
		t.Fatalf("want X=0, got %v", result.X)
	}
}

func TestScenario2TwoClassSplitOnElement(t *testing.T) {
	snap, c := buildSnapshot(t, "CCO", []float64{1.0, 1.0, 2.0})
	strat := splitStep([]int{0}, 1)

	cfg := Config{Splitter: splitter.ElementSplitter{}, Queue: workqueue.NewLocalPool(2)}
	result, err := Run(cfg, snap, c, &strat)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	h := result.Clustering.Hierarchy
	root, ok := h.ByName("p0")
	if !ok {
		t.Fatal("root p0 missing")
	}
	if len(root.Children) != 1 {
		t.Fatalf("want exactly one SPLIT child under p0, got %d", len(root.Children))
	}

	mapping := result.Clustering.Mapping()
	childName := h.Nodes[root.Children[0]].Name
	childKeys := mapping[childName]
	if len(childKeys) != 1 {
		t.Fatalf("want the child to own exactly the oxygen IC, got %d ICs", len(childKeys))
	}
	if childKeys[0].Atoms[0] != 2 {
		t.Fatalf("want the child to own atom 2 (oxygen), got atom %d", childKeys[0].Atoms[0])
	}

	oxygenStructure := h.Subgraphs[root.Children[0]]
	if len(oxygenStructure.Atoms) != 1 || len(oxygenStructure.Atoms[0].Elements) != 1 || oxygenStructure.Atoms[0].Elements[0] != "O" {
		t.Fatalf("want the child's structure to match only oxygen, got %+v", oxygenStructure.Atoms)
	}
}

func TestScenario9TerminationOnZeroSingle(t *testing.T) {
	// every leaf's objective.single is already 0: the run should terminate
	// within one macro sweep with no structural change.
	snap, c := buildSnapshot(t, "CC", []float64{1.0, 1.0})
	strat := splitStep([]int{0}, 1)

	cfg := Config{Splitter: splitter.ElementSplitter{}, Queue: workqueue.NewLocalPool(2)}
	result, err := Run(cfg, snap, c, &strat)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Macros == 0 {
		t.Fatal("want at least one macro to have run")
	}
	if len(result.Clustering.Hierarchy.Nodes) != 1 {
		t.Fatalf("want termination with a single node, got %d", len(result.Clustering.Hierarchy.Nodes))
	}
}
