// Package optimizer ties every other package into spec.md §4's
// macro/micro/nanostep acceptance loop: candidate generation, parallel
// scoring, the nanostep filter/sort/admit cycle, and the macro-level
// termination/restart rule of §4.5.
//
// Grounded on besmarts-core/python/besmarts/core/clusters.py's
// smarts_clustering_optimize, the single function this whole package
// generalizes: its while-loop over macro steps, its per-micro-step
// candidate dispatch, and its checkpoint-on-every-macro behavior.
package optimizer

import (
	"errors"
	"fmt"

	"github.com/ntBre/besmarts/internal/acceptance"
	"github.com/ntBre/besmarts/internal/candidates"
	"github.com/ntBre/besmarts/internal/checkpoint"
	"github.com/ntBre/besmarts/internal/clustering"
	"github.com/ntBre/besmarts/internal/codec"
	"github.com/ntBre/besmarts/internal/errs"
	"github.com/ntBre/besmarts/internal/ic"
	"github.com/ntBre/besmarts/internal/log"
	"github.com/ntBre/besmarts/internal/progress"
	"github.com/ntBre/besmarts/internal/scorer"
	"github.com/ntBre/besmarts/internal/splitter"
	"github.com/ntBre/besmarts/internal/strategy"
	"github.com/ntBre/besmarts/internal/workqueue"
)

// Config bundles the collaborators and side effects the loop needs beyond
// the pure Snapshot: the splitter, the work-queue backend candidate
// scoring dispatches to, an optional checkpoint store, and an optional
// logger (nil uses log.Default).
type Config struct {
	Splitter       splitter.Splitter
	Queue          workqueue.Queue
	Store          *checkpoint.Store
	DatasetEntries []checkpoint.DatasetEntry
	Logger         *log.Logger
}

func (cfg Config) logger() *log.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return log.Default
}

// Result is the outcome of one Run call: the final clustering, its global
// objective value, and how many macros actually ran (including the
// single restart pass of spec.md §4.5, if one occurred).
type Result struct {
	Clustering *clustering.Clustering
	X          float64
	Macros     int
}

// Run drives the engine to termination per spec.md §4.5: repeated macro
// sweeps until the cursor passes the end of the plan with no admission in
// the final sweep, then (if at least one admission happened anywhere in
// the run) one restart and one more full pass.
func Run(cfg Config, snap scorer.Snapshot, base *clustering.Clustering, strat *strategy.Strategy) (Result, error) {
	current, x, macros, anySuccess, err := runPass(cfg, snap, base, strat)
	if err != nil {
		return Result{}, err
	}
	if anySuccess {
		strat.Restart()
		current2, x2, macros2, _, err := runPass(cfg, snap, current, strat)
		if err != nil {
			return Result{}, err
		}
		current, x, macros = current2, x2, macros+macros2
	}

	if cfg.Store != nil {
		doc := checkpoint.Snapshot(current.Hierarchy, strat, cfg.DatasetEntries)
		if err := cfg.Store.Save(doc); err != nil {
			return Result{}, fmt.Errorf("optimizer: final checkpoint: %w", err)
		}
	}

	return Result{Clustering: current, X: x, Macros: macros}, nil
}

// runPass runs one outer pass: macro sweeps until strat.Advance reports
// the plan exhausted. Returns whether any candidate was admitted anywhere
// during the pass, the spec.md §4.5 trigger for a restart.
func runPass(cfg Config, snap scorer.Snapshot, base *clustering.Clustering, strat *strategy.Strategy) (*clustering.Clustering, float64, int, bool, error) {
	current := base
	x := scorer.GlobalSplitSum(snap, current, 0)
	macros := 0
	anySuccessEver := false

	for !strat.Done() {
		macro, ok := strat.CurrentMacro()
		if !ok {
			break
		}
		macros++

		visited := map[string]bool{}
		repeat := map[string]bool{}
		counters := acceptance.NewCounters()
		admittedThisMacro := false

		for microCursor, step := range macro.Steps {
			if !strat.Targeted(step.ClusterNode) {
				continue
			}
			var admittedHere bool
			var err error
			current, x, admittedHere, err = runMicroStep(cfg, snap, current, step, strat, microCursor, x, counters, visited, repeat)
			if err != nil {
				return current, x, macros, anySuccessEver, err
			}
			if admittedHere {
				admittedThisMacro = true
				anySuccessEver = true
			}
		}

		strat.CompleteMacro(visited, repeat)

		if cfg.Store != nil {
			doc := checkpoint.Snapshot(current.Hierarchy, strat, cfg.DatasetEntries)
			if err := cfg.Store.Save(doc); err != nil {
				return current, x, macros, anySuccessEver, fmt.Errorf("optimizer: macro checkpoint: %w", err)
			}
		}

		cfg.logger().Banner(progress.MacroBanner(strat.Cursor, 0, x, len(current.Hierarchy.Nodes), ""))

		if strat.Advance(admittedThisMacro) {
			break
		}
	}

	return current, x, macros, anySuccessEver, nil
}

// runMicroStep runs the nanostep loop of spec.md §4.4 for one micro step:
// generate, score, filter, sort, admit, apply, relabel, repeat until no
// further candidate is admitted.
func runMicroStep(cfg Config, snap scorer.Snapshot, base *clustering.Clustering, step strategy.MicroStep, strat *strategy.Strategy, microCursor int, x0 float64, counters *acceptance.Counters, visited, repeat map[string]bool) (*clustering.Clustering, float64, bool, error) {
	current := base
	committed := map[string]bool{}
	ignored := map[string]bool{}
	counters.ResetMicro()
	admittedAny := false

	for {
		cands, err := generateCandidates(cfg, snap, current, step, microCursor)
		if err != nil {
			if errors.Is(err, errs.ErrNodeMissing) || errors.Is(err, errs.ErrInvalidConfiguration) {
				return current, x0, admittedAny, nil
			}
			return current, x0, admittedAny, fmt.Errorf("optimizer: generating candidates for %s: %w", step.ClusterNode, err)
		}
		if len(cands) == 0 {
			break
		}

		scored := scoreAll(cfg.Queue, snap, current, cands, x0)
		filtered := acceptance.Filter(scored, committed, ignored, singleZeroMap(snap, current, scored))
		if len(filtered) == 0 {
			break
		}
		acceptance.Sort(filtered)
		admitted := acceptance.Admit(filtered, x0, strat.Caps, counters)

		admittedKeys := map[string]bool{}
		for _, a := range admitted {
			admittedKeys[a.Candidate.Key.String()] = true
		}
		for _, s := range filtered {
			if !admittedKeys[s.Candidate.Key.String()] {
				ignored[s.Candidate.Key.String()] = true
			}
		}
		if len(admitted) == 0 {
			break
		}

		h2 := current.Hierarchy.Clone()
		for _, a := range admitted {
			committed[a.Candidate.Key.String()] = true
			switch a.Candidate.Operation {
			case candidates.Split:
				name := h2.NextName()
				if _, err := h2.AddChild(a.Candidate.Node, name, a.Candidate.Structure, a.Candidate.Smarts, 0); err != nil {
					continue
				}
				cfg.logger().Banner(progress.NewParameterBanner(name, a.Candidate.NodeName, a.Candidate.Smarts))
			case candidates.Merge:
				childName := h2.Nodes[a.Candidate.ChildNode].Name
				if err := h2.RemoveChild(a.Candidate.ChildNode); err != nil {
					continue
				}
				cfg.logger().Banner(progress.DeleteParameterBanner(childName, a.Candidate.NodeName))
			}
		}

		c2, err := scorer.Relabel(snap, h2)
		if err != nil {
			return current, x0, admittedAny, fmt.Errorf("optimizer: relabel after admitting: %w", err)
		}
		overlap := 0
		if len(step.Overlap) > 0 {
			overlap = step.Overlap[0]
		}
		current = c2
		x0 = scorer.GlobalSplitSum(snap, c2, overlap)
		admittedAny = true
		visited[step.ClusterNode] = true
		repeat[step.ClusterNode] = true
	}

	return current, x0, admittedAny, nil
}

// generateCandidates implements spec.md §4.2 for one targeted node.
func generateCandidates(cfg Config, snap scorer.Snapshot, c *clustering.Clustering, step strategy.MicroStep, microCursor int) ([]candidates.Candidate, error) {
	node, ok := c.Hierarchy.ByName(step.ClusterNode)
	if !ok {
		return nil, errs.ErrNodeMissing
	}

	if step.Operation == strategy.OpMerge {
		return candidates.GenerateMerge(c.Hierarchy, node.ID, node.Name, microCursor, step.Overlap), nil
	}

	mapping := c.Mapping()
	keys := mapping[node.Name]
	if snap.Objective.Single(scorer.Group(snap, keys)) == 0 {
		return nil, nil
	}

	s := c.Hierarchy.Subgraphs[node.ID]
	maxDepth := codec.StructureMaxDepth(s)
	if maxDepth > step.Perception.Extender.DepthMax {
		return nil, errs.ErrInvalidConfiguration
	}

	members := membersFor(snap, keys)
	var structures []codec.Structure

	if step.IterativeEnable {
		q := codec.Union(snap.Topology, members)
		enumerated, err := cfg.Splitter.Enumerate(step.Perception.Splitter, s, q, members)
		if err != nil {
			return nil, fmt.Errorf("optimizer: iterative enumeration under %s: %w", node.Name, err)
		}
		structures = append(structures, enumerated...)
	}

	if step.DirectEnable && len(mapping) < step.DirectLimit {
		parts, err := cfg.Splitter.Partition(step.Perception.Splitter, s, members)
		if err != nil {
			return nil, fmt.Errorf("optimizer: direct enumeration under %s: %w", node.Name, err)
		}
		for _, p := range parts {
			structures = append(structures, p.Structure)
		}
	}

	return candidates.GenerateSplit(snap.Codec, node.ID, node.Name, microCursor, structures, step.Overlap)
}

// membersFor resolves every IC key to its backing graph/tuple occurrence.
func membersFor(snap scorer.Snapshot, keys []ic.Key) []codec.Member {
	out := make([]codec.Member, 0, len(keys))
	for _, k := range keys {
		g, ok := snap.Molecules[k.MolID]
		if !ok {
			continue
		}
		tuple := make([]int, len(k.Atoms))
		for i, a := range k.Atoms {
			tuple[i] = int(a)
		}
		out = append(out, codec.Member{Graph: g, Tuple: tuple})
	}
	return out
}

// scoreAll dispatches one scoring job per candidate to the work-queue,
// spec.md §5's "each nanostep submits one task per surviving candidate."
func scoreAll(q workqueue.Queue, snap scorer.Snapshot, base *clustering.Clustering, cands []candidates.Candidate, x0 float64) []acceptance.Scored {
	jobs := make([]workqueue.Job, len(cands))
	for i, cand := range cands {
		cand := cand
		jobs[i] = workqueue.Job{
			ID: cand.Key.String(),
			Run: func() (any, error) {
				return scorer.Score(snap, base, cand, x0), nil
			},
		}
	}

	results, _ := q.Submit(jobs)
	out := make([]acceptance.Scored, len(cands))
	for i := range cands {
		res, ok := scorer.DecodeResult(results[i])
		if !ok {
			res = scorer.Result{CandidateKey: cands[i].Key.String(), Keep: false, X: x0}
		}
		out[i] = acceptance.Scored{Candidate: cands[i], Result: res}
	}
	return out
}

// singleZeroMap reports, for every distinct node referenced by scored
// candidates, whether that node's current group has zero objective.Single
// pressure — spec.md §4.4 step 1's third filter condition.
func singleZeroMap(snap scorer.Snapshot, c *clustering.Clustering, scored []acceptance.Scored) map[string]bool {
	mapping := c.Mapping()
	out := map[string]bool{}
	for _, s := range scored {
		name := s.Candidate.NodeName
		if _, done := out[name]; done {
			continue
		}
		out[name] = snap.Objective.Single(scorer.Group(snap, mapping[name])) == 0
	}
	return out
}
