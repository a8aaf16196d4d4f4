package objective

import "testing"

func TestVarianceSingleZeroOnUniform(t *testing.T) {
	v := NewVariance()
	if got := v.Single(Group{Values: []float64{1, 1, 1}}); got != 0 {
		t.Fatalf("uniform group should report zero pressure to split, got %v", got)
	}
}

func TestVarianceSingleNonzeroOnMixed(t *testing.T) {
	v := NewVariance()
	if got := v.Single(Group{Values: []float64{1, 1, 2}}); got == 0 {
		t.Fatal("mixed group should report nonzero pressure to split")
	}
}

func TestVarianceSplitNegativeOnCleanSeparation(t *testing.T) {
	v := NewVariance()
	a := Group{Values: []float64{1, 1}}
	b := Group{Values: []float64{2}}
	if got := v.Split(a, b, 0); got >= 0 {
		t.Fatalf("separating a clean split should score negative, got %v", got)
	}
}

func TestSignFlippedNegatesSplitAndMerge(t *testing.T) {
	v := NewVariance()
	sf := SignFlipped{Inner: v}
	a := Group{Values: []float64{1, 1}}
	b := Group{Values: []float64{2}}
	if v.Split(a, b, 0) != -sf.Split(a, b, 0) {
		t.Fatal("SignFlipped.Split should negate the inner objective")
	}
	if v.Merge(a, b, 0) != -sf.Merge(a, b, 0) {
		t.Fatal("SignFlipped.Merge should negate the inner objective")
	}
}

func TestExprObjectiveEvaluates(t *testing.T) {
	o, err := NewExprObjective("variance", "varA - varB", "varB - varA", false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if got := o.Single(Group{Values: []float64{1, 2, 3}}); got <= 0 {
		t.Fatalf("want positive variance, got %v", got)
	}
	a := Group{Values: []float64{1, 1}}
	b := Group{Values: []float64{5, 5}}
	if got := o.Split(a, b, 0); got != 0 {
		t.Fatalf("want 0 (equal variances), got %v", got)
	}
}
