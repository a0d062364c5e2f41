package diagfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"trivet/internal/diag"
	"trivet/internal/source"
)

const sample = "x();\nLog.Info(\"a\");\nif (a) { }\n"

// missingBlank is a TRV1001-like finding on Log at 2:1 with an insertion fix.
func missingBlank(fs *source.FileSet) (*diag.Bag, source.FileID) {
	fileID := fs.AddVirtual("/home/user/project/src/Program.cs", []byte(sample))
	bag := diag.NewBag(10)
	d := diag.New(diag.SevWarning, diag.RuleLogCallBlankLines,
		source.Span{File: fileID, Start: 5, End: 8}, "missing blank line before logging call")
	d = d.WithNote(source.Span{File: fileID, Start: 0, End: 1}, "previous statement")
	d = d.WithFix("insert blank line", diag.TextEdit{
		Span:    source.Span{File: fileID, Start: 5, End: 5},
		NewText: "\n",
	})
	d.Fixes[0].ID = "TRV1001-2-1"
	bag.Add(d)
	return bag, fileID
}

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := missingBlank(fs)

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
	})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output JSONReport
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", output.Count)
	}
	if output.Summary != (JSONSummary{Warnings: 1, Fixable: 1}) {
		t.Errorf("unexpected summary %+v", output.Summary)
	}

	d := output.Diagnostics[0]
	if d.Severity != "warning" {
		t.Errorf("Expected severity=warning, got %s", d.Severity)
	}
	if d.Code != "TRV1001" {
		t.Errorf("Expected code=TRV1001, got %s", d.Code)
	}
	if d.Location.Path != "Program.cs" {
		t.Errorf("Expected path=Program.cs, got %s", d.Location.Path)
	}
	if d.Location.Start != 5 || d.Location.End != 8 {
		t.Errorf("Expected bytes 5-8, got %d-%d", d.Location.Start, d.Location.End)
	}
	if d.Location.Line != 2 || d.Location.Column != 1 {
		t.Errorf("Expected 2:1, got %d:%d", d.Location.Line, d.Location.Column)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "previous statement" {
		t.Errorf("unexpected notes %+v", d.Notes)
	}
	if len(d.Fixes) != 1 {
		t.Fatalf("Expected 1 fix, got %d", len(d.Fixes))
	}
	f := d.Fixes[0]
	if f.ID != "TRV1001-2-1" || f.Kind != "quickfix" || f.Applicability != "always-safe" {
		t.Errorf("unexpected fix %+v", f)
	}
	if len(f.Edits) != 1 || f.Edits[0].NewText != "\n" {
		t.Errorf("unexpected edits %+v", f.Edits)
	}
}

func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := missingBlank(fs)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var output JSONReport
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	d := output.Diagnostics[0]
	if d.Location.Line != 0 || d.Location.Column != 0 {
		t.Errorf("positions must be omitted, got %d:%d", d.Location.Line, d.Location.Column)
	}
	if d.Notes != nil || d.Fixes != nil {
		t.Errorf("notes and fixes must be omitted: %+v", d)
	}
}

func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.cs", []byte(sample))
	bag := diag.NewBag(10)
	for i := range 5 {
		bag.Add(diag.New(diag.SevWarning, diag.RuleControlBlankLines,
			source.Span{File: fileID, Start: uint32(i), End: uint32(i + 1)}, fmt.Sprintf("d%d", i)))
	}
	output := BuildJSONReport(bag, fs, JSONOpts{Max: 3})
	if output.Count != 3 || output.Diagnostics[2].Message != "d2" {
		t.Fatalf("unexpected output %+v", output)
	}
	if output.Omitted != 2 || output.Summary.Warnings != 5 {
		t.Fatalf("omitted = %d, warnings = %d; want 2 and 5", output.Omitted, output.Summary.Warnings)
	}
}

func TestJSONPathModes(t *testing.T) {
	tests := []struct {
		name string
		mode PathMode
		want string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/src/Program.cs"},
		{"relative", PathModeRelative, "src/Program.cs"},
		{"basename", PathModeBasename, "Program.cs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSetWithBase("/home/user/project")
			bag, _ := missingBlank(fs)
			output := BuildJSONReport(bag, fs, JSONOpts{PathMode: tt.mode})
			if got := output.Diagnostics[0].Location.Path; got != tt.want {
				t.Fatalf("file = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJSONFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := missingBlank(fs)
	output := BuildJSONReport(bag, fs, JSONOpts{IncludeFixes: true, IncludePreviews: true})
	e := output.Diagnostics[0].Fixes[0].Edits[0]
	if len(e.Before) != 1 || e.Before[0] != `Log.Info("a");` {
		t.Fatalf("before = %q", e.Before)
	}
	if len(e.After) != 2 || e.After[0] != "" || e.After[1] != `Log.Info("a");` {
		t.Fatalf("after = %q", e.After)
	}
}

func TestJSONReportsLazyFixFailure(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.cs", []byte(sample))
	bag := diag.NewBag(1)
	d := diag.New(diag.SevWarning, diag.RuleChainAlignment, source.Span{File: fileID, Start: 0, End: 1}, "m")
	d = d.WithFixSuggestion(diag.Fix{
		Title: "align to column 4",
		Thunk: diag.FixThunkFunc(func(diag.FixBuildContext) (diag.Fix, error) {
			return diag.Fix{}, diag.ErrFixUnavailable
		}),
	})
	bag.Add(d)
	output := BuildJSONReport(bag, fs, JSONOpts{IncludeFixes: true})
	if output.Diagnostics[0].Fixes[0].Error == "" {
		t.Fatal("expected build error for unavailable fix")
	}
}
