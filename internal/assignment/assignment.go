// Package assignment implements the Assignment store of spec.md §2/§3: the
// map from (molecule, IC tuple) to both an observation and a leaf label, and
// the consistency check between the two.
//
// Grounded on besmarts-core/python/besmarts/core/assignments.py's
// check_lbls_data_selections_equal, which runs the identical bidirectional
// check before and after labeling.
package assignment

import (
	"sort"

	"github.com/ntBre/besmarts/internal/errs"
	"github.com/ntBre/besmarts/internal/ic"
)

// Assignment holds both tables keyed by an IC's string form, alongside the
// Key values themselves (a slice field makes ic.Key non-comparable, so it
// cannot be a map key directly).
type Assignment struct {
	keys         map[string]ic.Key
	observations map[string]ic.Observation
	labels       map[string]string
}

func New() *Assignment {
	return &Assignment{
		keys:         map[string]ic.Key{},
		observations: map[string]ic.Observation{},
		labels:       map[string]string{},
	}
}

// SetObservation records the data side of one IC.
func (a *Assignment) SetObservation(k ic.Key, obs ic.Observation) {
	s := k.String()
	a.keys[s] = k
	a.observations[s] = obs
}

// SetLabel records the label side of one IC, as produced by a labeler.
func (a *Assignment) SetLabel(k ic.Key, leaf string) {
	s := k.String()
	a.keys[s] = k
	a.labels[s] = leaf
}

// ClearLabels drops every recorded label without touching observations,
// used before a full relabel.
func (a *Assignment) ClearLabels() {
	a.labels = map[string]string{}
}

func (a *Assignment) Observation(k ic.Key) (ic.Observation, bool) {
	v, ok := a.observations[k.String()]
	return v, ok
}

func (a *Assignment) Label(k ic.Key) (string, bool) {
	v, ok := a.labels[k.String()]
	return v, ok
}

// Keys returns every IC with a recorded observation, label, or both, sorted
// for deterministic iteration.
func (a *Assignment) Keys() []ic.Key {
	seen := map[string]bool{}
	out := make([]ic.Key, 0, len(a.keys))
	for s, k := range a.keys {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// ByLeaf groups every labeled IC by its leaf name — the inverse "mapping"
// of spec.md §3, built directly from the label table rather than a
// hierarchy traversal.
func (a *Assignment) ByLeaf() map[string][]ic.Key {
	out := map[string][]ic.Key{}
	for s, leaf := range a.labels {
		out[leaf] = append(out[leaf], a.keys[s])
	}
	for leaf := range out {
		sort.Slice(out[leaf], func(i, j int) bool {
			return out[leaf][i].String() < out[leaf][j].String()
		})
	}
	return out
}

// CheckConsistency is check_lbls_data_selections_equal: every IC with an
// observation must also carry a label, and vice versa. Each mismatch is a
// spec.md §7 DataInconsistency warning, capped by budget.
func (a *Assignment) CheckConsistency(budget *errs.WarningBudget) []string {
	var warnings []string
	for s, k := range a.keys {
		_, hasObs := a.observations[s]
		_, hasLabel := a.labels[s]
		switch {
		case hasObs && !hasLabel:
			if msg := budget.Warn("IC %s has an observation but no label", k); msg != "" {
				warnings = append(warnings, msg)
			}
		case hasLabel && !hasObs:
			if msg := budget.Warn("IC %s has a label but no observation", k); msg != "" {
				warnings = append(warnings, msg)
			}
		}
	}
	if summary := budget.Summary(); summary != "" {
		warnings = append(warnings, summary)
	}
	return warnings
}
