// Package acceptance implements the nanostep filter/sort/admit loop of
// spec.md §4.4: within one micro step, repeatedly filter scored candidates,
// sort them into a total order, and admit a subset subject to the
// strategy's per-macro/per-micro/per-cluster caps.
package acceptance

import (
	"sort"

	"github.com/ntBre/besmarts/internal/candidates"
	"github.com/ntBre/besmarts/internal/scorer"
	"github.com/ntBre/besmarts/internal/strategy"
)

// Scored pairs one generated candidate with its scoring result.
type Scored struct {
	Candidate candidates.Candidate
	Result    scorer.Result
}

// Counters are the mutable admission tallies a nanostep loop threads
// through Admit: macro-level counts persist across nanosteps within a
// macro, micro-level counts reset at the start of every micro step.
type Counters struct {
	MacroTotal      int
	MacroPerCluster map[string]int
	MicroTotal      int
	MicroPerCluster map[string]int
}

func NewCounters() *Counters {
	return &Counters{MacroPerCluster: map[string]int{}, MicroPerCluster: map[string]int{}}
}

// ResetMicro clears the micro-level tallies at the start of a new micro
// step, leaving macro-level tallies untouched.
func (c *Counters) ResetMicro() {
	c.MicroTotal = 0
	c.MicroPerCluster = map[string]int{}
}

// Filter drops candidates with zero match length (for SPLIT — spec.md
// §4.4 step 1), candidates already committed or ignored this nanostep
// sequence, and candidates whose target node currently has zero
// objective.single pressure.
func Filter(scored []Scored, committed, ignored map[string]bool, singleZero map[string]bool) []Scored {
	out := make([]Scored, 0, len(scored))
	for _, s := range scored {
		key := s.Candidate.Key.String()
		if s.Candidate.Operation == candidates.Split && s.Result.MatchLen == 0 {
			continue
		}
		if committed[key] || ignored[key] {
			continue
		}
		if singleZero[s.Candidate.NodeName] {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Sort orders candidates by the lexicographic key of spec.md §4.4 step 2:
// (¬keep, X, match_len, candidate_id, S.name) — acceptable candidates
// first, then lowest global objective, then smallest match (more
// specific), then generator order, then node name as a final tie-break.
func Sort(scored []Scored) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Result.Keep != b.Result.Keep {
			return a.Result.Keep // keep=true sorts first
		}
		if a.Result.X != b.Result.X {
			return a.Result.X < b.Result.X
		}
		if a.Result.MatchLen != b.Result.MatchLen {
			return a.Result.MatchLen < b.Result.MatchLen
		}
		ak, bk := a.Candidate.Key, b.Candidate.Key
		if ak.MicroCursor != bk.MicroCursor {
			return ak.MicroCursor < bk.MicroCursor
		}
		if ak.Seq != bk.Seq {
			return ak.Seq < bk.Seq
		}
		if ak.Edit != bk.Edit {
			return ak.Edit < bk.Edit
		}
		return a.Candidate.NodeName < b.Candidate.NodeName
	})
}

// Admit scans sorted candidates in order and admits every one whose ΔX
// respects FilterAbove and whose admission would not exceed any of the
// strategy's four caps, per spec.md §4.4 step 3. Counters are updated in
// place for each admission.
func Admit(sorted []Scored, x0 float64, caps strategy.Caps, counters *Counters) []Scored {
	var admitted []Scored
	for _, s := range sorted {
		if !s.Result.Keep {
			continue
		}
		dx := s.Result.X - x0
		if caps.FilterAbove != 0 && dx > caps.FilterAbove {
			continue
		}
		if caps.MacroAcceptMaxTotal > 0 && counters.MacroTotal >= caps.MacroAcceptMaxTotal {
			continue
		}
		if caps.MacroAcceptMaxPerCluster > 0 && counters.MacroPerCluster[s.Candidate.NodeName] >= caps.MacroAcceptMaxPerCluster {
			continue
		}
		if caps.MicroAcceptMaxTotal > 0 && counters.MicroTotal >= caps.MicroAcceptMaxTotal {
			continue
		}
		if caps.MicroAcceptMaxPerCluster > 0 && counters.MicroPerCluster[s.Candidate.NodeName] >= caps.MicroAcceptMaxPerCluster {
			continue
		}

		admitted = append(admitted, s)
		counters.MacroTotal++
		counters.MacroPerCluster[s.Candidate.NodeName]++
		counters.MicroTotal++
		counters.MicroPerCluster[s.Candidate.NodeName]++
	}
	return admitted
}
