package observ

import (
	"math"
	"strings"
	"testing"
)

func TestNilTimerIsInert(t *testing.T) {
	var timer *Timer
	timer.Begin("parse")("x")
	if r := timer.Report(); len(r.Phases) != 0 {
		t.Fatalf("expected empty report, got %+v", r)
	}
}

func TestTimerRecordsPhases(t *testing.T) {
	timer := NewTimer()
	stopParse := timer.Begin("parse")
	stopAnalyze := timer.Begin("analyze")
	stopAnalyze("")
	stopParse("tokens=3")

	r := timer.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "parse" || r.Phases[1].Name != "analyze" {
		t.Fatalf("unexpected phases %+v", r.Phases)
	}
	if r.Phases[0].Note != "tokens=3" {
		t.Fatalf("note = %q", r.Phases[0].Note)
	}
	// total is rounded once, the phases one by one
	if sum := r.Phases[0].DurationMS + r.Phases[1].DurationMS; math.Abs(r.TotalMS-sum) > 1e-9 {
		t.Fatalf("TotalMS = %v, want %v", r.TotalMS, sum)
	}
	if !strings.Contains(timer.Summary(), "total") {
		t.Fatalf("summary misses total line:\n%s", timer.Summary())
	}
}

func TestMergeSumsByName(t *testing.T) {
	a := Report{TotalMS: 3, Phases: []PhaseReport{{Name: "parse", DurationMS: 1}, {Name: "analyze", DurationMS: 2}}}
	b := Report{TotalMS: 5, Phases: []PhaseReport{{Name: "analyze", DurationMS: 4}, {Name: "parse", DurationMS: 1, Note: "n"}}}
	got := Merge(a, b)
	if got.TotalMS != 8 {
		t.Fatalf("TotalMS = %v, want 8", got.TotalMS)
	}
	want := []PhaseReport{{Name: "parse", DurationMS: 2}, {Name: "analyze", DurationMS: 6}}
	if len(got.Phases) != len(want) {
		t.Fatalf("phases = %+v", got.Phases)
	}
	for i := range want {
		if got.Phases[i] != want[i] {
			t.Fatalf("phase %d = %+v, want %+v", i, got.Phases[i], want[i])
		}
	}
}
