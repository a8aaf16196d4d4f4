// Package checkpoint implements the opaque `{dataset, clustering, strategy}`
// blob of spec.md §6: a self-describing, versioned serializer (replacing
// the source's "opaque pickle checkpoint" per spec.md §9), with pluggable
// storage backends and retention of the last few checkpoints.
package checkpoint

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ntBre/besmarts/internal/codec"
	"github.com/ntBre/besmarts/internal/hierarchy"
	"github.com/ntBre/besmarts/internal/strategy"
	"github.com/ntBre/besmarts/internal/topology"
)

// CurrentVersion is bumped whenever Document's shape changes in a way that
// breaks backward decoding.
const CurrentVersion = 1

// DatasetEntry is one molecule's checkpointed identity: its graph id and
// the SMILES it was decoded from. Observations themselves are not
// reproduced here; a checkpoint's dataset section exists to let a resumed
// run re-decode the same molecules in the same order, not to replace the
// caller's original dataset file.
type DatasetEntry struct {
	MolID  uint32 `yaml:"mol_id"`
	Smiles string `yaml:"smiles"`
}

// NodeSnapshot is one hierarchy.Node flattened to a serializable shape.
type NodeSnapshot struct {
	ID       int    `yaml:"id"`
	Name     string `yaml:"name"`
	Parent   int    `yaml:"parent"`
	Children []int  `yaml:"children,omitempty"`
	Smarts   string `yaml:"smarts"`
}

// ClusteringSnapshot is the hierarchy half of a checkpoint; the labeling
// itself is never checkpointed — spec.md §3 says labelings are always
// regenerated from scratch, so only the tree need survive a restart.
type ClusteringSnapshot struct {
	GroupPrefix string         `yaml:"group_prefix"`
	RootIDs     []int          `yaml:"root_ids"`
	Nodes       []NodeSnapshot `yaml:"nodes"`
}

// StrategySnapshot is the strategy.Strategy state needed to resume a run:
// the cursor and step_tracker (the macro plan itself is supplied again by
// the caller on resume, not re-serialized).
type StrategySnapshot struct {
	Cursor      int            `yaml:"cursor"`
	StepTracker map[string]int `yaml:"step_tracker"`
}

// Document is the full checkpoint blob of spec.md §6.
type Document struct {
	Version    int                `yaml:"version"`
	Dataset    []DatasetEntry     `yaml:"dataset"`
	Clustering ClusteringSnapshot `yaml:"clustering"`
	Strategy   StrategySnapshot   `yaml:"strategy"`
}

// Snapshot builds a Document from the live engine state.
func Snapshot(h *hierarchy.Hierarchy, strat *strategy.Strategy, dataset []DatasetEntry) Document {
	nodes := make([]NodeSnapshot, 0, len(h.Nodes))
	for id, n := range h.Nodes {
		nodes = append(nodes, NodeSnapshot{
			ID:       int(id),
			Name:     n.Name,
			Parent:   int(n.Parent),
			Children: nodeIDsToInts(n.Children),
			Smarts:   h.Smarts[id],
		})
	}
	return Document{
		Version: CurrentVersion,
		Dataset: dataset,
		Clustering: ClusteringSnapshot{
			GroupPrefix: h.GroupPrefix,
			RootIDs:     nodeIDsToInts(h.RootIDs),
			Nodes:       nodes,
		},
		Strategy: StrategySnapshot{
			Cursor:      strat.Cursor,
			StepTracker: strat.StepTracker,
		},
	}
}

func nodeIDsToInts(ids []hierarchy.NodeID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

// Encode renders a Document as YAML via yaml.v3, the primary checkpoint
// format.
func Encode(doc Document) ([]byte, error) {
	return yaml.Marshal(doc)
}

// Decode parses a checkpoint blob. Version 1 documents decode directly via
// yaml.v3; anything older falls back through decodeLegacy.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("checkpoint: decoding: %w", err)
	}
	if doc.Version == 0 {
		return decodeLegacy(data)
	}
	return doc, nil
}

// Restore reconstructs a live Hierarchy/Strategy from a Document, decoding
// each node's stored SMARTS back into a Structure via cd (so a resumed run
// matches ICs identically to the run that produced the checkpoint).
func Restore(doc Document, cd codec.Codec, topo topology.Topology, macros []strategy.Macro, caps strategy.Caps) (*hierarchy.Hierarchy, *strategy.Strategy, error) {
	h := &hierarchy.Hierarchy{
		Nodes:       map[hierarchy.NodeID]hierarchy.Node{},
		Subgraphs:   map[hierarchy.NodeID]codec.Structure{},
		Smarts:      map[hierarchy.NodeID]string{},
		GroupPrefix: doc.Clustering.GroupPrefix,
	}
	for _, n := range doc.Clustering.Nodes {
		id := hierarchy.NodeID(n.ID)
		children := make([]hierarchy.NodeID, len(n.Children))
		for i, c := range n.Children {
			children[i] = hierarchy.NodeID(c)
		}
		structure, err := cd.SmartsDecode(n.Smarts, topo)
		if err != nil {
			return nil, nil, fmt.Errorf("checkpoint: decoding node %s smarts %q: %w", n.Name, n.Smarts, err)
		}
		h.Nodes[id] = hierarchy.Node{ID: id, Name: n.Name, Parent: hierarchy.NodeID(n.Parent), Children: children}
		h.Subgraphs[id] = structure
		h.Smarts[id] = n.Smarts
	}
	h.RootIDs = make([]hierarchy.NodeID, len(doc.Clustering.RootIDs))
	for i, r := range doc.Clustering.RootIDs {
		h.RootIDs[i] = hierarchy.NodeID(r)
	}
	h.SeedNextID()

	strat := strategy.New(macros, caps)
	strat.Cursor = doc.Strategy.Cursor
	strat.StepTracker = doc.Strategy.StepTracker
	if strat.StepTracker == nil {
		strat.StepTracker = map[string]int{}
	}
	return h, strat, nil
}
