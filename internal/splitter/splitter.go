// Package splitter implements the external splitter contract of spec.md
// §2/§4.2: given a parent structure S, its structural union Q over a group
// of IC occurrences, and that group's members, enumerate candidate child
// structures (iterative enumeration) or candidate (structure, matched,
// unmatched) partitions directly (direct enumeration).
package splitter

import (
	"sort"

	"github.com/mitchellh/hashstructure"

	"github.com/ntBre/besmarts/internal/codec"
)

// Config is the perception config's splitter half of spec.md §4.1:
// bit_search_min/limit, branch_depth_min/limit, branch_min/limit,
// split_general, split_specific, return_matches.
type Config struct {
	BitSearchMin    int
	BitSearchLimit  int
	BranchDepthMin  int
	BranchDepthLimit int
	BranchMin       int
	BranchLimit     int
	SplitGeneral    bool
	SplitSpecific   bool
	ReturnMatches   bool
}

// ExtenderConfig is the perception config's extender half: depth_min/max
// and a direction flag (0 = forward-only, nonzero = bidirectional).
type ExtenderConfig struct {
	DepthMin  int
	DepthMax  int
	Direction int
}

// PerceptionConfig bundles both, the "pcp" of spec.md §4.1.
type PerceptionConfig struct {
	Splitter Config
	Extender ExtenderConfig
}

// Partition is one direct-enumeration result: a candidate structure plus
// the members it would and would not match, computed without a separate
// scoring pass.
type Partition struct {
	Structure codec.Structure
	Matched   []codec.Member
	Unmatched []codec.Member
}

// Splitter is the external collaborator of spec.md §4.2.
type Splitter interface {
	Enumerate(cfg Config, s codec.Structure, q codec.Structure, members []codec.Member) ([]codec.Structure, error)
	Partition(cfg Config, s codec.Structure, members []codec.Member) ([]Partition, error)
}

// ElementSplitter is the reference Splitter: it specializes one tuple
// position at a time, from the wildcard-or-multi-element pattern at s to a
// single observed element from q, matching the reference codec's
// element-set-only Structure (no bond-order/ring primitives, so there is
// nothing else to branch on). codec.StructureMaxDepth is always 0 in the
// reference codec, so depth-limited extension (spec.md §8 scenario 4) is
// automatically satisfied: candidates never reach past the anchor tuple.
type ElementSplitter struct{}

// candidateElements returns, for tuple position i, every distinct element
// q allows that s does not already pin down to a single choice.
func candidateElements(s, q codec.Structure, i int) []string {
	if len(s.Atoms[i].Elements) == 1 {
		return nil // already maximally specific at this position
	}
	return q.Atoms[i].Elements
}

func specializeAt(s codec.Structure, i int, elem string) codec.Structure {
	out := s
	out.Atoms = append([]codec.AtomPattern(nil), s.Atoms...)
	out.Atoms[i] = codec.AtomPattern{Elements: []string{elem}}
	return out
}

func dedupeBySpecificity(cands []codec.Structure, limit int) []codec.Structure {
	seen := map[uint64]bool{}
	out := make([]codec.Structure, 0, len(cands))
	for _, c := range cands {
		h, err := hashstructure.Hash(c, nil)
		if err == nil && seen[h] {
			continue
		}
		if err == nil {
			seen[h] = true
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Specificity() < out[j].Specificity() })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (ElementSplitter) Enumerate(cfg Config, s, q codec.Structure, members []codec.Member) ([]codec.Structure, error) {
	var out []codec.Structure
	for i := range s.Atoms {
		for _, elem := range candidateElements(s, q, i) {
			if !cfg.SplitSpecific && !cfg.SplitGeneral {
				continue
			}
			out = append(out, specializeAt(s, i, elem))
		}
	}
	return dedupeBySpecificity(out, cfg.BranchLimit), nil
}

func (e ElementSplitter) Partition(cfg Config, s codec.Structure, members []codec.Member) ([]Partition, error) {
	arity := s.Topo.Arity()
	var out []Partition
	for i := 0; i < arity; i++ {
		if len(s.Atoms[i].Elements) == 1 {
			continue
		}
		seen := map[string]bool{}
		for _, m := range members {
			seen[m.Graph.Atoms[m.Tuple[i]].Element] = true
		}
		for elem := range seen {
			cand := specializeAt(s, i, elem)
			var matched, unmatched []codec.Member
			for _, m := range members {
				if m.Graph.Atoms[m.Tuple[i]].Element == elem {
					matched = append(matched, m)
				} else {
					unmatched = append(unmatched, m)
				}
			}
			out = append(out, Partition{Structure: cand, Matched: matched, Unmatched: unmatched})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Structure.Specificity() < out[j].Structure.Specificity() })
	if cfg.BranchLimit > 0 && len(out) > cfg.BranchLimit {
		out = out[:cfg.BranchLimit]
	}
	return out, nil
}
