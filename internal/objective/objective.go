// Package objective implements the pluggable scoring contract of spec.md
// §2/§4.7: single/split/merge/report/is_discrete, all pure functions over
// groups of observations.
package objective

import "fmt"

// Group is one cluster's worth of observations, the "assn(A_S)" of spec.md
// §4.2. The core never inspects Values itself; only an Objective does.
type Group struct {
	Values []float64
}

// Objective is the external collaborator of spec.md §4.7.
type Objective interface {
	Single(g Group) float64
	Split(a, b Group, overlap int) float64
	Merge(a, b Group, overlap int) float64
	Report(g Group) string
	IsDiscrete() bool
}

func stats(g Group) (n int, mean, variance float64) {
	n = len(g.Values)
	if n == 0 {
		return 0, 0, 0
	}
	var sum float64
	for _, v := range g.Values {
		sum += v
	}
	mean = sum / float64(n)
	var ss float64
	for _, v := range g.Values {
		d := v - mean
		ss += d * d
	}
	variance = ss / float64(n)
	return n, mean, variance
}

// combined concatenates two groups' values, used by Variance's split/merge
// formulas to compare the pooled group against its weighted parts.
func combined(a, b Group) Group {
	out := make([]float64, 0, len(a.Values)+len(b.Values))
	out = append(out, a.Values...)
	out = append(out, b.Values...)
	return Group{Values: out}
}

// Variance is the reference Objective used by the seed scenarios of
// spec.md §8: within-group variance as the "single" pressure-to-split
// signal, and a weighted-vs-pooled variance comparison for split/merge.
// Epsilon guards against floating-point noise reporting a near-zero
// variance as nonzero.
type Variance struct {
	Epsilon float64
}

func NewVariance() Variance { return Variance{Epsilon: 1e-9} }

func (v Variance) Single(g Group) float64 {
	_, _, variance := stats(g)
	if variance < v.Epsilon {
		return 0
	}
	return variance
}

// splitScore is the shared weighted-vs-pooled comparison both Split and
// Merge are built from: negative when separating a and b reduces variance
// versus treating them as one pooled group.
func (v Variance) splitScore(a, b Group) float64 {
	na, _, va := stats(a)
	nb, _, vb := stats(b)
	total := na + nb
	if total == 0 {
		return 0
	}
	weighted := (float64(na)*va + float64(nb)*vb) / float64(total)
	_, _, pooled := stats(combined(a, b))
	return weighted - pooled
}

func (v Variance) Split(a, b Group, overlap int) float64 {
	return v.splitScore(a, b)
}

func (v Variance) Merge(a, b Group, overlap int) float64 {
	return -v.splitScore(a, b)
}

func (v Variance) Report(g Group) string {
	n, mean, variance := stats(g)
	return fmt.Sprintf("n=%d mean=%.4f var=%.4f", n, mean, variance)
}

func (v Variance) IsDiscrete() bool { return false }

// SignFlipped wraps an Objective and negates its split/merge scores,
// leaving single/report/is_discrete untouched. Used to build the "same
// objective as before but wanting the opposite action" scenario: running
// SPLIT-accepting Variance forward, then MERGE-accepting SignFlipped{Variance}
// to verify a SPLIT-then-MERGE round trip.
type SignFlipped struct {
	Inner Objective
}

func (s SignFlipped) Single(g Group) float64           { return s.Inner.Single(g) }
func (s SignFlipped) Split(a, b Group, o int) float64  { return -s.Inner.Split(a, b, o) }
func (s SignFlipped) Merge(a, b Group, o int) float64  { return -s.Inner.Merge(a, b, o) }
func (s SignFlipped) Report(g Group) string            { return s.Inner.Report(g) }
func (s SignFlipped) IsDiscrete() bool                 { return s.Inner.IsDiscrete() }
