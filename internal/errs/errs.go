// Package errs implements the error taxonomy of the clustering optimizer
// (see spec §7): a handful of typed sentinel conditions the acceptance loop
// checks with errors.Is, a MultiError collector for non-fatal warnings, and
// an Assert helper for the programmer-invariant violations the loop never
// recovers from.
package errs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/starkandwayne/goutils/ansi"
)

// Sentinel errors for the non-fatal conditions of spec §7. WorkerFailure
// and EmptyPartition are returned by value (wrapped with context via %w),
// never by comparing error text.
var (
	// ErrEmptyPartition marks a SPLIT/MERGE whose resulting mapping left a
	// parent or child cluster empty; the candidate is rejected locally.
	ErrEmptyPartition = errors.New("empty partition")

	// ErrNodeMissing marks a candidate referencing a node name no longer in
	// the clustering; the candidate is skipped, step_tracker is untouched.
	ErrNodeMissing = errors.New("node missing from clustering")

	// ErrWorkerFailure marks a scoring task that failed in a worker; the
	// dispatcher reports it as a non-keeping, zero-match candidate.
	ErrWorkerFailure = errors.New("worker failed to score candidate")

	// ErrStrategyExhausted is not a failure: it signals clean termination
	// when no candidate was admitted across a full macro sweep with the
	// cursor past the end of the plan.
	ErrStrategyExhausted = errors.New("strategy exhausted")

	// ErrInvalidConfiguration marks a micro step configuration that cannot
	// be honored (e.g. structure_max_depth(S) > extender.depth_max).
	ErrInvalidConfiguration = errors.New("invalid micro step configuration")
)

// Assert panics with a formatted message if cond is false. Used only for
// programmer invariants spec §7 says should abort the run: a missing root,
// a topology mismatch between labeling and dataset.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("besmarts: invariant violated: "+format, args...))
	}
}

// MultiError collects independent errors from a pass that should continue
// despite individual failures (the DataInconsistency warning budget, a
// nanostep's per-candidate worker failures, …).
type MultiError struct {
	Errors []error
}

// Error renders all collected errors, ansi-colored the way the teacher
// colors its own MultiError output.
func (e MultiError) Error() string {
	lines := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		lines = append(lines, fmt.Sprintf(" - %s", err))
	}
	return ansi.Sprintf("@r{%d} error(s) detected:\n%s\n", len(e.Errors), strings.Join(lines, "\n"))
}

// Count reports how many errors have been collected.
func (e *MultiError) Count() int { return len(e.Errors) }

// Append adds err to the collection, flattening a nested MultiError and
// ignoring a nil error.
func (e *MultiError) Append(err error) {
	if err == nil {
		return
	}
	var me MultiError
	if errors.As(err, &me) {
		e.Errors = append(e.Errors, me.Errors...)
		return
	}
	e.Errors = append(e.Errors, err)
}

// AsError returns the MultiError as an error, or nil if nothing was
// collected — the idiom used at the end of a warning-budget pass.
func (e *MultiError) AsError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return *e
}

// WarningBudget caps a repeated warning (spec §7's DataInconsistency: "emit
// up to 10 warnings, suppress rest with count; continue").
type WarningBudget struct {
	Limit     int
	emitted   int
	suppressed int
}

// NewWarningBudget returns a budget with the given emit limit.
func NewWarningBudget(limit int) *WarningBudget {
	return &WarningBudget{Limit: limit}
}

// Warn reports a warning, returning the message to print if the budget has
// room, or "" if the warning was suppressed (the caller should not print
// anything in that case).
func (b *WarningBudget) Warn(format string, args ...any) string {
	if b.emitted < b.Limit {
		b.emitted++
		return ansi.Sprintf("@y{warning:} "+format, args...)
	}
	b.suppressed++
	return ""
}

// Suppressed reports how many warnings were dropped once the limit was hit.
func (b *WarningBudget) Suppressed() int { return b.suppressed }

// Summary renders a final "N more warnings suppressed" line, or "" if none
// were suppressed.
func (b *WarningBudget) Summary() string {
	if b.suppressed == 0 {
		return ""
	}
	return ansi.Sprintf("@y{... %d more warning(s) suppressed}", b.suppressed)
}
