// Package scorer implements spec.md §4.3's provisional-apply scoring: given
// the current Clustering and one candidate, clone the hierarchy, apply the
// edit, relabel, and compute the induced local and global objective values
// without mutating the caller's Clustering.
//
// Scoring depends only on a Snapshot value — never on package-level mutable
// state — matching spec.md §9's "replace the global mutable context with an
// explicit, immutable scoring snapshot passed to each worker task."
package scorer

import (
	"encoding/json"
	"fmt"

	"github.com/ntBre/besmarts/internal/assignment"
	"github.com/ntBre/besmarts/internal/candidates"
	"github.com/ntBre/besmarts/internal/clustering"
	"github.com/ntBre/besmarts/internal/codec"
	"github.com/ntBre/besmarts/internal/hierarchy"
	"github.com/ntBre/besmarts/internal/ic"
	"github.com/ntBre/besmarts/internal/labeler"
	"github.com/ntBre/besmarts/internal/objective"
	"github.com/ntBre/besmarts/internal/topology"
)

// Snapshot is the read-only bundle every scoring task receives: spec.md
// §5's "shared, read-only snapshot containing the current clustering,
// codec, labeler, objective, and observations." A Snapshot is built once
// per workspace and never mutated by a task.
type Snapshot struct {
	Codec      codec.Codec
	Labeler    labeler.Labeler
	Objective  objective.Objective
	Assignment *assignment.Assignment
	Molecules  map[uint32]*codec.Graph
	Topology   topology.Topology
	Keys       []ic.Key
}

// Result is the (keep, X, obj, match_len) tuple of spec.md §4.3/§5. Err is
// excluded from JSON: it only needs to survive in-process (the NATSQueue
// worker transport reports a failed job through wireReply.Err instead).
type Result struct {
	CandidateKey string  `json:"CandidateKey"`
	Keep         bool    `json:"Keep"`
	X            float64 `json:"X"`
	Obj          float64 `json:"Obj"`
	MatchLen     int     `json:"MatchLen"`
	Err          error   `json:"-"`
}

func failed(key string, x0 float64, err error) Result {
	return Result{CandidateKey: key, Keep: false, X: x0, Obj: 0, MatchLen: 0, Err: err}
}

// DecodeResult normalizes a workqueue.Queue result back into a Result: a
// LocalPool job returns a Result directly, while a NATSQueue job survives
// only as the map[string]any its JSON envelope decoded into (see
// workqueue.NATSQueue.Submit) and must be re-marshaled into the concrete
// type.
func DecodeResult(v any) (Result, bool) {
	switch r := v.(type) {
	case Result:
		return r, true
	case map[string]any:
		data, err := json.Marshal(r)
		if err != nil {
			return Result{}, false
		}
		var out Result
		if err := json.Unmarshal(data, &out); err != nil {
			return Result{}, false
		}
		return out, true
	default:
		return Result{}, false
	}
}

// Group builds the objective.Group of observations backing keys — exported
// so the optimizer's nanostep loop can evaluate objective.Single the same
// way a scoring task does, without duplicating the observation-gathering
// logic.
func Group(snap Snapshot, keys []ic.Key) objective.Group {
	return group(snap, keys)
}

// GlobalSplitSum exposes globalSplitSum so the optimizer can recompute X
// after applying a nanostep's admitted edits, using the exact same formula
// a scoring task used to produce each candidate's X.
func GlobalSplitSum(snap Snapshot, c *clustering.Clustering, overlap int) float64 {
	return globalSplitSum(snap, c, overlap)
}

func group(snap Snapshot, keys []ic.Key) objective.Group {
	g := objective.Group{Values: make([]float64, 0, len(keys))}
	for _, k := range keys {
		obs, ok := snap.Assignment.Observation(k)
		if !ok {
			continue
		}
		if f, ok := obs.(float64); ok {
			g.Values = append(g.Values, f)
		}
	}
	return g
}

// globalSplitSum computes X: the sum over every parent/child pair in the
// tree of objective.split(mapping[child], mapping[parent], overlap).
func globalSplitSum(snap Snapshot, c *clustering.Clustering, overlap int) float64 {
	mapping := c.Mapping()
	var x float64
	for _, n := range c.Hierarchy.Nodes {
		if n.Parent == hierarchy.NoParent {
			continue
		}
		parentName := c.Hierarchy.Nodes[n.Parent].Name
		childGroup := group(snap, mapping[n.Name])
		parentGroup := group(snap, mapping[parentName])
		x += snap.Objective.Split(childGroup, parentGroup, overlap)
	}
	return x
}

// Relabel exposes relabel so the optimizer can rebuild a Clustering after
// applying a nanostep's admitted edits to a hierarchy.
func Relabel(snap Snapshot, h *hierarchy.Hierarchy) (*clustering.Clustering, error) {
	return relabel(snap, h)
}

func relabel(snap Snapshot, h *hierarchy.Hierarchy) (*clustering.Clustering, error) {
	labeling, err := snap.Labeler.Assign(h, snap.Codec, snap.Molecules, snap.Topology, snap.Keys)
	if err != nil {
		return nil, err
	}
	return &clustering.Clustering{Hierarchy: h, Labeling: labeling}, nil
}

// ScoreSplit implements spec.md §4.3's SPLIT path.
func ScoreSplit(snap Snapshot, base *clustering.Clustering, cand candidates.Candidate, x0 float64) Result {
	h := base.Hierarchy.Clone()
	name := h.NextName()
	childID, err := h.AddChild(cand.Node, name, cand.Structure, cand.Smarts, 0)
	if err != nil {
		return failed(cand.Key.String(), x0, fmt.Errorf("scorer: adding split child: %w", err))
	}

	c, err := relabel(snap, h)
	if err != nil {
		return failed(cand.Key.String(), x0, fmt.Errorf("scorer: relabel after split: %w", err))
	}

	mapping := c.Mapping()
	parentICs := mapping[cand.NodeName]
	childICs := mapping[name]

	obj := snap.Objective.Split(group(snap, parentICs), group(snap, childICs), cand.Overlap)
	x := globalSplitSum(snap, c, cand.Overlap)

	keep := len(parentICs) > 0 && len(childICs) > 0 && obj <= 0

	_ = childID
	return Result{CandidateKey: cand.Key.String(), Keep: keep, X: x, Obj: obj, MatchLen: len(childICs)}
}

// ScoreMerge implements spec.md §4.3's MERGE path.
func ScoreMerge(snap Snapshot, base *clustering.Clustering, cand candidates.Candidate, x0 float64) Result {
	baseMapping := base.Mapping()
	childName := base.Hierarchy.Nodes[cand.ChildNode].Name
	preEditChildICs := baseMapping[childName]

	h := base.Hierarchy.Clone()
	if err := h.RemoveChild(cand.ChildNode); err != nil {
		return failed(cand.Key.String(), x0, fmt.Errorf("scorer: removing merge target: %w", err))
	}

	c, err := relabel(snap, h)
	if err != nil {
		return failed(cand.Key.String(), x0, fmt.Errorf("scorer: relabel after merge: %w", err))
	}

	mapping := c.Mapping()
	parentICs := mapping[cand.NodeName]

	obj := snap.Objective.Merge(group(snap, parentICs), group(snap, preEditChildICs), cand.Overlap)
	x := globalSplitSum(snap, c, cand.Overlap)

	keep := obj < 0 || len(preEditChildICs) == 0

	return Result{CandidateKey: cand.Key.String(), Keep: keep, X: x, Obj: obj, MatchLen: len(parentICs)}
}

// Score dispatches to ScoreSplit or ScoreMerge by the candidate's
// operation. A panic inside relabel/matching is recovered and reported as
// spec.md §7's WorkerFailure: (keep=false, X=X0, obj=0, match_len=0).
func Score(snap Snapshot, base *clustering.Clustering, cand candidates.Candidate, x0 float64) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = failed(cand.Key.String(), x0, fmt.Errorf("scorer: worker failure: %v", r))
		}
	}()
	switch cand.Operation {
	case candidates.Split:
		return ScoreSplit(snap, base, cand, x0)
	case candidates.Merge:
		return ScoreMerge(snap, base, cand, x0)
	default:
		return failed(cand.Key.String(), x0, fmt.Errorf("scorer: unknown operation %v", cand.Operation))
	}
}
