// Package strategy implements the macro/micro iteration plan of spec.md
// §4.1/§4.5: a finite sequence of macro steps, each a finite sequence of
// micro steps, with a cursor and a per-node step_tracker governing which
// nodes are targeted at a given macro, plus the acceptance caps candidate
// admission is bounded by.
package strategy

import "github.com/ntBre/besmarts/internal/splitter"

// MicroStep is one (operation, node, perception-config, overlap) unit of
// work within a macro step — spec.md §4.1.
type MicroStep struct {
	Operation       Operation
	ClusterNode     string // node name: stable across a hierarchy's edits, unlike NodeID survival guarantees
	Perception      splitter.PerceptionConfig
	Overlap         []int
	DirectEnable    bool
	DirectLimit     int
	IterativeEnable bool
}

// Operation mirrors candidates.Operation without importing it, since
// strategy sits below candidates in the dependency graph (candidates
// generation is driven by a MicroStep, not the reverse).
type Operation int

const (
	OpSplit Operation = iota
	OpMerge
)

// Macro is a finite sequence of micro steps.
type Macro struct {
	Steps []MicroStep
}

// Caps are the strategy's acceptance budgets of spec.md §4.1: a 0 value in
// any field means "unlimited", including FilterAbove.
type Caps struct {
	MacroAcceptMaxTotal      int
	MacroAcceptMaxPerCluster int
	MicroAcceptMaxTotal      int
	MicroAcceptMaxPerCluster int
	FilterAbove              float64
}

// Strategy is spec.md §4.1's state: a cursor into the macro sequence and a
// per-node step_tracker.
type Strategy struct {
	Macros      []Macro
	Caps        Caps
	Cursor      int
	StepTracker map[string]int
}

func New(macros []Macro, caps Caps) *Strategy {
	return &Strategy{Macros: macros, Caps: caps, StepTracker: map[string]int{}}
}

// CurrentMacro returns the macro at the cursor, or ok=false once the
// cursor has advanced past the end of the plan.
func (s *Strategy) CurrentMacro() (Macro, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Macros) {
		return Macro{}, false
	}
	return s.Macros[s.Cursor], true
}

// Targeted reports whether name is targeted at the current macro: "cursor
// >= step_tracker[name]" (spec.md §4.1). A node never visited has
// step_tracker 0 and so is always targeted from the first macro on.
func (s *Strategy) Targeted(name string) bool {
	return s.Cursor >= s.StepTracker[name]
}

// RepeatStep leaves the cursor in place, retrying the same macro.
func (s *Strategy) RepeatStep() {}

// MacroIteration advances the cursor to the next macro.
func (s *Strategy) MacroIteration() { s.Cursor++ }

// Restart resets step_tracker and the cursor after a successful full pass,
// spec.md §4.5's "on the outermost loop end with at least one success
// across the run, restart() once, then run again."
func (s *Strategy) Restart() {
	s.Cursor = 0
	s.StepTracker = map[string]int{}
}

// Done reports whether the cursor has moved past the last macro.
func (s *Strategy) Done() bool { return s.Cursor >= len(s.Macros) }

// CompleteMacro applies spec.md §4.5's end-of-macro step_tracker update:
// every visited node not in repeat catches up to the current cursor; every
// node in repeat (its label set changed this macro) resets to 0 so it is
// reconsidered at every later macro.
func (s *Strategy) CompleteMacro(visited, repeat map[string]bool) {
	for name := range visited {
		if repeat[name] {
			s.StepTracker[name] = 0
			continue
		}
		if s.Cursor > s.StepTracker[name] {
			s.StepTracker[name] = s.Cursor
		}
	}
}

// Advance decides the cursor's fate after one macro completes, per
// spec.md §4.5: retry the same macro while admissions are still happening
// and the total cap doesn't forbid it; otherwise move to the next macro.
// It returns true once the cursor has moved past the end of the plan
// (spec.md §7's StrategyExhausted condition for this macro sweep).
func (s *Strategy) Advance(admittedAny bool) bool {
	if s.Caps.MacroAcceptMaxTotal > 0 && admittedAny {
		s.RepeatStep()
		return false
	}
	s.MacroIteration()
	return s.Done()
}
