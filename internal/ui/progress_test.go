package ui

import (
	"strings"
	"testing"
	"time"

	"trivet/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("check", []string{"a.cs", "b.cs"}, events).(*progressModel)

	m.apply(driver.Event{File: "a.cs", Stage: driver.StageParse, Status: driver.StatusWorking})
	m.apply(driver.Event{File: "b.cs", Stage: driver.StageAnalyze, Status: driver.StatusCached, Elapsed: 3 * time.Millisecond})
	m.apply(driver.Event{File: "zzz.cs", Stage: driver.StageAnalyze, Status: driver.StatusDone})

	if got := m.rows[0].label(); got != "parsing" {
		t.Fatalf("a.cs status = %q, want parsing", got)
	}
	if got := m.rows[1].label(); got != "cached" {
		t.Fatalf("b.cs status = %q, want cached", got)
	}
	// b.cs finished, a.cs is at the start of parsing
	if got, want := m.fraction(), (1+0.2)/2; got != want {
		t.Fatalf("fraction = %v, want %v", got, want)
	}

	view := m.View()
	for _, want := range []string{"check 1/2", "a.cs", "b.cs", "parsing", "cached", "3ms"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view misses %q:\n%s", want, view)
		}
	}
}

func TestRowLabels(t *testing.T) {
	cases := []struct {
		stage  driver.Stage
		status driver.Status
		want   string
	}{
		{driver.StageLoad, driver.StatusQueued, "queued"},
		{driver.StageFix, driver.StatusWorking, "fixing"},
		{driver.StageVerify, driver.StatusDone, "verified"},
		{driver.StageAnalyze, driver.StatusDone, "done"},
		{driver.StageVerify, driver.StatusError, "error"},
	}
	for _, tc := range cases {
		m := NewProgressModel("fix", []string{"a.cs"}, nil).(*progressModel)
		m.apply(driver.Event{File: "a.cs", Stage: tc.stage, Status: tc.status})
		if got := m.rows[0].label(); got != tc.want {
			t.Errorf("%s/%s: label = %q, want %q", tc.stage, tc.status, got, tc.want)
		}
	}
}

func TestVisibleRowsFitTerminal(t *testing.T) {
	files := []string{"a.cs", "b.cs", "c.cs", "d.cs", "e.cs"}
	m := NewProgressModel("check", files, nil).(*progressModel)
	m.height = 9 // three rows of room
	m.apply(driver.Event{File: "a.cs", Stage: driver.StageAnalyze, Status: driver.StatusDone})
	m.apply(driver.Event{File: "b.cs", Stage: driver.StageAnalyze, Status: driver.StatusDone})
	m.apply(driver.Event{File: "d.cs", Stage: driver.StageParse, Status: driver.StatusWorking})

	rows := m.visibleRows()
	var got []string
	for _, r := range rows {
		got = append(got, r.path)
	}
	if strings.Join(got, ",") != "d.cs,b.cs,a.cs" {
		t.Fatalf("visible = %v", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("src/Very/Long/Path/Program.cs", 12); got != "src/Very/..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("a.cs", 12); got != "a.cs" {
		t.Fatalf("truncate = %q", got)
	}
}
