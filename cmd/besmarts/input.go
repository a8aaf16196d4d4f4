package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ntBre/besmarts/internal/assignment"
	"github.com/ntBre/besmarts/internal/checkpoint"
	"github.com/ntBre/besmarts/internal/codec"
	"github.com/ntBre/besmarts/internal/decode"
	"github.com/ntBre/besmarts/internal/hierarchy"
	"github.com/ntBre/besmarts/internal/ic"
	"github.com/ntBre/besmarts/internal/labeler"
	"github.com/ntBre/besmarts/internal/topology"
	"github.com/ntBre/besmarts/internal/workqueue"
)

// datasetFile is the on-disk shape of the --dataset YAML spec.md §6
// describes: one shared topology, a list of molecules, and their
// per-atom-tuple observations keyed by a comma-separated atom-index tuple.
type datasetFile struct {
	Topology  string          `yaml:"topology"`
	Molecules []moleculeEntry `yaml:"molecules"`
}

type moleculeEntry struct {
	Smiles     string             `yaml:"smiles"`
	Selections map[string]float64 `yaml:"selections"`
}

func parseTopology(name string) (topology.Topology, error) {
	switch name {
	case "atom":
		return topology.For(topology.Atom), nil
	case "bond":
		return topology.For(topology.Bond), nil
	case "pair":
		return topology.For(topology.Pair), nil
	case "angle":
		return topology.For(topology.Angle), nil
	case "torsion":
		return topology.For(topology.Torsion), nil
	case "outofplane":
		return topology.For(topology.OutOfPlane), nil
	default:
		return topology.Topology{}, fmt.Errorf("besmarts: unknown topology %q", name)
	}
}

// loadedDataset is everything Run needs to build a scorer.Snapshot plus
// the raw SMILES list a checkpoint's dataset section records.
type loadedDataset struct {
	Topology   topology.Topology
	Molecules  map[uint32]*codec.Graph
	Keys       []ic.Key
	Assignment *assignment.Assignment
	Entries    []checkpoint.DatasetEntry
}

func loadDataset(path string, cd codec.Codec) (loadedDataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return loadedDataset{}, fmt.Errorf("besmarts: reading dataset %s: %w", path, err)
	}
	var doc datasetFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return loadedDataset{}, fmt.Errorf("besmarts: parsing dataset %s: %w", path, err)
	}
	topo, err := parseTopology(doc.Topology)
	if err != nil {
		return loadedDataset{}, err
	}

	smilesList := make([]string, len(doc.Molecules))
	for molID, entry := range doc.Molecules {
		smilesList[molID] = entry.Smiles
	}
	// spec.md §5's decode fan-out: below decode.LargeDatasetThreshold this
	// runs as a single batch on one worker; above it, decode.Decode chunks
	// into decode.BatchSize-sized jobs. Decode itself stays on a LocalPool
	// regardless of the dispatch backend config (see decode.Decode's doc
	// comment on why its map results can't survive the NATS wire format).
	molecules, err := decode.Decode(workqueue.NewLocalPool(workqueue.WorkerCount(len(doc.Molecules))), cd, smilesList)
	if err != nil {
		return loadedDataset{}, fmt.Errorf("besmarts: decoding dataset %s: %w", path, err)
	}

	assn := assignment.New()
	var keys []ic.Key
	var entries []checkpoint.DatasetEntry

	for molID, entry := range doc.Molecules {
		entries = append(entries, checkpoint.DatasetEntry{MolID: uint32(molID), Smiles: entry.Smiles})

		for tupleStr, value := range entry.Selections {
			atoms, err := parseTuple(tupleStr)
			if err != nil {
				return loadedDataset{}, fmt.Errorf("besmarts: molecule %d selection %q: %w", molID, tupleStr, err)
			}
			k := ic.Key{MolID: uint32(molID), Atoms: atoms}
			assn.SetObservation(k, value)
			keys = append(keys, k)
		}
	}

	return loadedDataset{
		Topology:   topo,
		Molecules:  molecules,
		Keys:       keys,
		Assignment: assn,
		Entries:    entries,
	}, nil
}

func parseTuple(s string) ([]uint32, error) {
	var atoms []uint32
	var cur uint32
	started := false
	for _, r := range s {
		if r == ',' {
			atoms = append(atoms, cur)
			cur, started = 0, false
			continue
		}
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("bad atom index tuple %q", s)
		}
		cur = cur*10 + uint32(r-'0')
		started = true
	}
	if started || len(atoms) == 0 {
		atoms = append(atoms, cur)
	}
	return atoms, nil
}

// wildcardRoot builds the default "p0" root of spec.md §6: a pattern that
// matches every IC in the dataset, one wildcard atom per topology position.
func wildcardRoot(cd codec.Codec, topo topology.Topology) (*hierarchy.Hierarchy, error) {
	atoms := make([]codec.AtomPattern, topo.Arity())
	structure := codec.Structure{Topo: topo, Atoms: atoms}
	smarts, err := cd.SmartsEncode(structure)
	if err != nil {
		return nil, fmt.Errorf("besmarts: encoding root smarts: %w", err)
	}
	return hierarchy.New("p0", "p", structure, smarts), nil
}

// labelDataset assigns every key a leaf label through the given labeler and
// records it back onto the assignment, spec.md §4.6/§4's initial labeling
// pass before the first baseline X is computed.
func labelDataset(h *hierarchy.Hierarchy, cd codec.Codec, molecules map[uint32]*codec.Graph, topo topology.Topology, keys []ic.Key, assn *assignment.Assignment) (*labeler.Labeling, error) {
	lbl, err := (labeler.FirstMatch{}).Assign(h, cd, molecules, topo, keys)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		if leaf, ok := lbl.Leaf(k); ok {
			assn.SetLabel(k, leaf)
		}
	}
	return lbl, nil
}
