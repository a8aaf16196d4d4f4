// Package dataset implements the supplemented graph_topology_db of
// besmarts-core's assignments.py: a secondary, topology-keyed observation
// store that lets one molecule carry several simultaneous tables (e.g.
// both bond distances and bond-order labels) alongside the single-topology
// dataset the optimizer core scores against. It is a data container only —
// nothing here touches Hierarchy, Objective, or Assignment.
package dataset

import (
	"fmt"

	"github.com/ntBre/besmarts/internal/codec"
	"github.com/ntBre/besmarts/internal/ic"
	"github.com/ntBre/besmarts/internal/topology"
)

// Kind names one of the ASSN_NAMES observation channels.
type Kind int

const (
	Positions Kind = iota
	Gradients
	Hessians
	Distances
	Angles
	Torsions
	OutOfPlanes
	Charges
	Grid
	ESP
	Radii
)

var kindNames = map[Kind]string{
	Positions:   "positions",
	Gradients:   "gradients",
	Hessians:    "hessians",
	Distances:   "distances",
	Angles:      "angles",
	Torsions:    "torsions",
	OutOfPlanes: "outofplanes",
	Charges:     "charges",
	Grid:        "grid",
	ESP:         "esp",
	Radii:       "radii",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Table holds every observation of one Kind, for one Topology, keyed by IC.
type Table struct {
	Topology   topology.Topology
	Selections map[string]any
}

// NewTable returns an empty Table for the given topology.
func NewTable(topo topology.Topology) *Table {
	return &Table{Topology: topo, Selections: make(map[string]any)}
}

// Set records the observation for one IC key.
func (t *Table) Set(key ic.Key, value any) {
	t.Selections[key.String()] = value
}

// Get returns the observation for one IC key, if present.
func (t *Table) Get(key ic.Key) (any, bool) {
	v, ok := t.Selections[key.String()]
	return v, ok
}

// MultiTopologyDB aggregates graphs and, per observation Kind, a Table of
// per-molecule selections — the Go counterpart of graph_topology_db.
type MultiTopologyDB struct {
	Graphs map[uint32]*codec.Graph
	Tables map[Kind]*Table
}

// New returns an empty MultiTopologyDB.
func New() *MultiTopologyDB {
	return &MultiTopologyDB{
		Graphs: make(map[uint32]*codec.Graph),
		Tables: make(map[Kind]*Table),
	}
}

// AddGraph registers a molecule's decoded graph under molID.
func (db *MultiTopologyDB) AddGraph(molID uint32, g *codec.Graph) {
	db.Graphs[molID] = g
}

// AddSelection records one observation of Kind k for the IC key, creating
// the backing Table (with topo) on first use. It errors if k was already
// registered against a different topology, mirroring graph_topology_db's
// assertion that every table carries one topology consistently.
func (db *MultiTopologyDB) AddSelection(k Kind, topo topology.Topology, key ic.Key, value any) error {
	t, ok := db.Tables[k]
	if !ok {
		t = NewTable(topo)
		db.Tables[k] = t
	} else if t.Topology.Kind() != topo.Kind() {
		return fmt.Errorf("dataset: kind %s already bound to topology %s, got %s", k, t.Topology.Kind(), topo.Kind())
	}
	t.Set(key, value)
	return nil
}

// Values flattens every (kind, key) -> value pair across every table, the
// Go equivalent of graph_topology_db_iter_values.
func (db *MultiTopologyDB) Values() map[Kind]map[string]any {
	out := make(map[Kind]map[string]any, len(db.Tables))
	for k, t := range db.Tables {
		inner := make(map[string]any, len(t.Selections))
		for sk, v := range t.Selections {
			inner[sk] = v
		}
		out[k] = inner
	}
	return out
}
