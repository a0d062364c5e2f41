package observ

import (
	"fmt"
	"strings"
	"time"
)

// Timer measures the stages of one file's pipeline. The zero value is
// ready to use; a nil *Timer measures nothing.
type Timer struct {
	phases []PhaseReport
	total  time.Duration
}

func NewTimer() *Timer { return &Timer{} }

// Begin starts the named stage and returns the func that ends it. The note
// passed to that func is kept next to the duration.
func (t *Timer) Begin(name string) (stop func(note string)) {
	if t == nil {
		return func(string) {}
	}
	started := time.Now()
	t.phases = append(t.phases, PhaseReport{Name: name})
	i := len(t.phases) - 1
	return func(note string) {
		d := time.Since(started)
		t.total += d
		t.phases[i].DurationMS = millis(d)
		t.phases[i].Note = note
	}
}

// PhaseReport is one stage as shown by --timings and the JSON report.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report is what a Timer measured.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if t == nil || len(t.phases) == 0 {
		return Report{}
	}
	return Report{
		TotalMS: millis(t.total),
		Phases:  append([]PhaseReport(nil), t.phases...),
	}
}

func (t *Timer) Summary() string { return t.Report().String() }

func millis(d time.Duration) float64 {
	return d.Seconds() * 1000
}

// Merge adds up reports stage by stage, in order of first appearance.
// Notes belong to a single file and are dropped.
func Merge(reports ...Report) Report {
	var out Report
	pos := map[string]int{}
	for _, r := range reports {
		out.TotalMS += r.TotalMS
		for _, p := range r.Phases {
			i, seen := pos[p.Name]
			if !seen {
				i = len(out.Phases)
				pos[p.Name] = i
				out.Phases = append(out.Phases, PhaseReport{Name: p.Name})
			}
			out.Phases[i].DurationMS += p.DurationMS
		}
	}
	return out
}

func (r Report) String() string {
	var b strings.Builder
	b.WriteString("timings:\n")
	row := func(name string, ms float64, note string) {
		fmt.Fprintf(&b, "  %-20s %7.2f ms", name, ms)
		if note != "" {
			b.WriteString("  // " + note)
		}
		b.WriteByte('\n')
	}
	for _, p := range r.Phases {
		row(p.Name, p.DurationMS, p.Note)
	}
	row("total", r.TotalMS, "")
	return b.String()
}
