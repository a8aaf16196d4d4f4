package strategy

import "testing"

func TestTargetedDefaultsTrue(t *testing.T) {
	s := New([]Macro{{}, {}}, Caps{})
	if !s.Targeted("p0") {
		t.Fatal("an unvisited node should be targeted at the first macro")
	}
}

func TestCompleteMacroRepeatResetsTracker(t *testing.T) {
	s := New([]Macro{{}, {}, {}}, Caps{})
	s.Cursor = 1
	s.CompleteMacro(map[string]bool{"p0": true, "p1": true}, map[string]bool{"p0": true})
	if s.StepTracker["p0"] != 0 {
		t.Fatalf("repeated node should reset to 0, got %d", s.StepTracker["p0"])
	}
	if s.StepTracker["p1"] != 1 {
		t.Fatalf("non-repeated node should catch up to cursor, got %d", s.StepTracker["p1"])
	}
}

func TestAdvanceEndsPlanWhenExhausted(t *testing.T) {
	s := New([]Macro{{}}, Caps{})
	if done := s.Advance(false); !done {
		t.Fatal("advancing past the only macro should report done")
	}
}

func TestRestartClearsState(t *testing.T) {
	s := New([]Macro{{}, {}}, Caps{})
	s.Cursor = 1
	s.StepTracker["p0"] = 1
	s.Restart()
	if s.Cursor != 0 || len(s.StepTracker) != 0 {
		t.Fatal("restart should reset cursor and step tracker")
	}
}
