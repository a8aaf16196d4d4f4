package objective

import (
	"fmt"

	"github.com/Knetic/govaluate"
)

// ExprObjective evaluates user-supplied govaluate expressions for
// single/split/merge, satisfying spec.md §4.7's "pluggable objective"
// requirement without hand-rolling an expression language. Expressions see
// the variables nA, meanA, varA, nB, meanB, varB, overlap (split/merge) or
// n, mean, variance (single).
type ExprObjective struct {
	singleExpr *govaluate.EvaluableExpression
	splitExpr  *govaluate.EvaluableExpression
	mergeExpr  *govaluate.EvaluableExpression
	discrete   bool
}

// NewExprObjective compiles the three expressions once at construction.
func NewExprObjective(single, split, merge string, discrete bool) (*ExprObjective, error) {
	se, err := govaluate.NewEvaluableExpression(single)
	if err != nil {
		return nil, err
	}
	spe, err := govaluate.NewEvaluableExpression(split)
	if err != nil {
		return nil, err
	}
	me, err := govaluate.NewEvaluableExpression(merge)
	if err != nil {
		return nil, err
	}
	return &ExprObjective{singleExpr: se, splitExpr: spe, mergeExpr: me, discrete: discrete}, nil
}

func asFloat(v interface{}, err error) float64 {
	if err != nil {
		return 0
	}
	f, ok := v.(float64)
	if !ok {
		return 0
	}
	return f
}

func (e *ExprObjective) Single(g Group) float64 {
	n, mean, variance := stats(g)
	v, err := e.singleExpr.Evaluate(map[string]interface{}{
		"n": float64(n), "mean": mean, "variance": variance,
	})
	return asFloat(v, err)
}

func (e *ExprObjective) Split(a, b Group, overlap int) float64 {
	return e.evalPair(e.splitExpr, a, b, overlap)
}

func (e *ExprObjective) Merge(a, b Group, overlap int) float64 {
	return e.evalPair(e.mergeExpr, a, b, overlap)
}

func (e *ExprObjective) evalPair(expr *govaluate.EvaluableExpression, a, b Group, overlap int) float64 {
	na, ma, va := stats(a)
	nb, mb, vb := stats(b)
	v, err := expr.Evaluate(map[string]interface{}{
		"nA": float64(na), "meanA": ma, "varA": va,
		"nB": float64(nb), "meanB": mb, "varB": vb,
		"overlap": float64(overlap),
	})
	return asFloat(v, err)
}

func (e *ExprObjective) Report(g Group) string {
	n, mean, variance := stats(g)
	return fmt.Sprintf("n=%d mean=%.4f var=%.4f", n, mean, variance)
}

func (e *ExprObjective) IsDiscrete() bool { return e.discrete }
