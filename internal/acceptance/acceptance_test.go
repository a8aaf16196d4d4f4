package acceptance

import (
	"testing"

	"github.com/ntBre/besmarts/internal/candidates"
	"github.com/ntBre/besmarts/internal/scorer"
	"github.com/ntBre/besmarts/internal/strategy"
)

func scoredOf(name string, keep bool, x float64, matchLen int) Scored {
	return Scored{
		Candidate: candidates.Candidate{
			Key:      candidates.Key{Seq: 0},
			NodeName: name,
		},
		Result: scorer.Result{Keep: keep, X: x, MatchLen: matchLen},
	}
}

func TestFilterDropsZeroMatchSplit(t *testing.T) {
	s := scoredOf("p0", true, -1, 0)
	s.Candidate.Operation = candidates.Split
	out := Filter([]Scored{s}, map[string]bool{}, map[string]bool{}, map[string]bool{})
	if len(out) != 0 {
		t.Fatal("zero match_len SPLIT candidate should be filtered")
	}
}

func TestSortPrefersKeepThenLowerX(t *testing.T) {
	a := scoredOf("a", false, -5, 1)
	b := scoredOf("b", true, 2, 1)
	c := scoredOf("c", true, -1, 1)
	sorted := []Scored{a, b, c}
	Sort(sorted)
	if sorted[0].Candidate.NodeName != "c" || sorted[1].Candidate.NodeName != "b" || sorted[2].Candidate.NodeName != "a" {
		t.Fatalf("unexpected order: %v, %v, %v", sorted[0].Candidate.NodeName, sorted[1].Candidate.NodeName, sorted[2].Candidate.NodeName)
	}
}

func TestAdmitRespectsMacroTotalCap(t *testing.T) {
	counters := NewCounters()
	caps := strategy.Caps{MacroAcceptMaxTotal: 2}
	sorted := []Scored{
		scoredOf("a", true, -3, 1),
		scoredOf("b", true, -2, 1),
		scoredOf("c", true, -1, 1),
	}
	admitted := Admit(sorted, 0, caps, counters)
	if len(admitted) != 2 {
		t.Fatalf("want 2 admitted under cap, got %d", len(admitted))
	}
}

func TestAdmitRespectsFilterAbove(t *testing.T) {
	counters := NewCounters()
	caps := strategy.Caps{FilterAbove: -0.5}
	sorted := []Scored{
		scoredOf("a", true, -1.0, 1), // dx = -1.0 <= -0.5: admit
		scoredOf("b", true, -0.1, 1), // dx = -0.1 > -0.5: reject
	}
	admitted := Admit(sorted, 0, caps, counters)
	if len(admitted) != 1 || admitted[0].Candidate.NodeName != "a" {
		t.Fatalf("want only candidate a admitted, got %v", admitted)
	}
}

func TestAdmitRespectsPerClusterCap(t *testing.T) {
	counters := NewCounters()
	caps := strategy.Caps{MacroAcceptMaxPerCluster: 1}
	sorted := []Scored{
		scoredOf("a", true, -3, 1),
		scoredOf("a", true, -2, 1),
	}
	admitted := Admit(sorted, 0, caps, counters)
	if len(admitted) != 1 {
		t.Fatalf("want 1 admitted under per-cluster cap, got %d", len(admitted))
	}
}
