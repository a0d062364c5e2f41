package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"trivet/internal/diag"
	"trivet/internal/source"
)

func TestGatherCandidatesSkipsDuplicateFixIDs(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cs", []byte(""))
	span := source.Span{File: fileID, Start: 0, End: 0}

	diagnostics := []diag.Diagnostic{{
		Code:    diag.RuleLogCallBlankLines,
		Message: "missing blank line after logging call",
		Primary: span,
		Fixes: []*diag.Fix{
			{
				ID:    "fix-duplicate",
				Title: "insert blank line",
				Edits: []diag.TextEdit{{Span: span, NewText: "\n"}},
			},
			{
				ID:    "fix-duplicate",
				Title: "insert blank line again",
				Edits: []diag.TextEdit{{Span: span, NewText: "\n"}},
			},
		},
	}}

	ctx := diag.FixBuildContext{FileSet: fs}
	var res ApplyResult
	candidates := gatherCandidates(ctx, diagnostics, &res)

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if len(res.Skipped) != 1 {
		t.Fatalf("expected 1 skipped fix, got %d", len(res.Skipped))
	}
	skip := res.Skipped[0]
	if skip.ID != "fix-duplicate" {
		t.Fatalf("expected skipped fix id 'fix-duplicate', got %q", skip.ID)
	}
	if skip.Reason != "duplicate fix id" {
		t.Fatalf("expected duplicate fix reason, got %q", skip.Reason)
	}
}

func TestGatherCandidatesTakesSharedFixOnce(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cs", []byte("x();\n  y();\n  z();\n"))
	edits := []diag.TextEdit{
		{Span: source.Span{File: fileID, Start: 5, End: 7}, OldText: "  "},
		{Span: source.Span{File: fileID, Start: 13, End: 15}, OldText: "  "},
	}
	shared := &diag.Fix{ID: "group", Title: "align 2 statements", Edits: edits}
	diagnostics := []diag.Diagnostic{
		{Code: diag.RuleChainAlignment, Primary: edits[0].Span, Fixes: []*diag.Fix{shared}},
		{Code: diag.RuleChainAlignment, Primary: edits[1].Span, Fixes: []*diag.Fix{shared}},
		{Code: diag.RuleChainAlignment, Primary: edits[1].Span, Fixes: []*diag.Fix{{
			ID:    "group",
			Title: "other edits under the same id",
			Edits: []diag.TextEdit{{Span: edits[1].Span, OldText: "  ", NewText: " "}},
		}}},
	}

	var res ApplyResult
	candidates := gatherCandidates(diag.FixBuildContext{FileSet: fs}, diagnostics, &res)

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Title != "other edits under the same id" {
		t.Fatalf("only the conflicting fix should be reported, got %+v", res.Skipped)
	}
}

// blankFix builds a diagnostic whose fix inserts text at off.
func blankFix(fileID source.FileID, id string, off uint32, text string, app diag.FixApplicability) diag.Diagnostic {
	span := source.Span{File: fileID, Start: off, End: off}
	return diag.Diagnostic{
		Code:    diag.RuleControlBlankLines,
		Primary: span,
		Fixes: []*diag.Fix{{
			ID:            id,
			Title:         "insert",
			Applicability: app,
			Edits:         []diag.TextEdit{{Span: span, NewText: text}},
		}},
	}
}

func TestApplyModes(t *testing.T) {
	src := []byte("a();\nb();\nc();\n")
	tests := []struct {
		name    string
		opts    ApplyOptions
		want    string
		applied int
	}{
		{"all", ApplyOptions{Mode: ApplyModeAll, DryRun: true}, "a();\n\nb();\nc();\n", 1},
		{"once takes the first safe fix", ApplyOptions{Mode: ApplyModeOnce, DryRun: true}, "a();\n\nb();\nc();\n", 1},
		{"by id", ApplyOptions{Mode: ApplyModeID, TargetID: "second", DryRun: true}, "a();\nb();\n\nc();\n", 1},
	}
	for _, tt := range tests {
		fs := source.NewFileSet()
		fileID := fs.AddVirtual("m.cs", src)
		diags := []diag.Diagnostic{
			blankFix(fileID, "first", 5, "\n", diag.FixApplicabilityAlwaysSafe),
			blankFix(fileID, "second", 10, "\n", diag.FixApplicabilityManualReview),
		}
		res, err := Apply(fs, diags, tt.opts)
		if err != nil {
			t.Fatalf("%s: Apply: %v", tt.name, err)
		}
		if len(res.Applied) != tt.applied {
			t.Fatalf("%s: applied %d, want %d", tt.name, len(res.Applied), tt.applied)
		}
		if len(res.FileChanges) != 1 || string(res.FileChanges[0].After) != tt.want {
			t.Fatalf("%s: changes = %+v", tt.name, res.FileChanges)
		}
		if string(res.FileChanges[0].Before) != string(src) {
			t.Fatalf("%s: before content altered", tt.name)
		}
	}
}

func TestApplyAllSkipsUnsafeAndMissingID(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("m.cs", []byte("a();\nb();\n"))
	diags := []diag.Diagnostic{blankFix(fileID, "only", 5, "\n", diag.FixApplicabilitySafeWithHeuristics)}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "applicability is safe-with-heuristics" {
		t.Fatalf("skipped = %+v", res.Skipped)
	}

	res, err = Apply(fs, diags, ApplyOptions{Mode: ApplyModeID, TargetID: "nope", DryRun: true})
	if !errors.Is(err, ErrNoFixes) || len(res.Skipped) != 1 || res.Skipped[0].Reason != "fix id not found" {
		t.Fatalf("missing id: err=%v skipped=%+v", err, res.Skipped)
	}
}

func TestApplySkipsConflictsAndStaleEdits(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("m.cs", []byte("a();\n    b();\n"))
	indent := source.Span{File: fileID, Start: 5, End: 9}
	diags := []diag.Diagnostic{
		{Code: diag.RuleChainAlignment, Primary: indent, Fixes: []*diag.Fix{{
			ID: "align", Edits: []diag.TextEdit{{Span: indent, NewText: "  ", OldText: "    "}},
		}}},
		{Code: diag.RuleChainAlignment, Primary: indent, Fixes: []*diag.Fix{{
			ID: "align-again", Edits: []diag.TextEdit{{Span: indent, NewText: "", OldText: "    "}},
		}}},
		{Code: diag.RuleChainAlignment, Primary: source.Span{File: fileID, Start: 0, End: 1}, Fixes: []*diag.Fix{{
			ID: "stale", Edits: []diag.TextEdit{{Span: source.Span{File: fileID, Start: 0, End: 1}, NewText: "z", OldText: "q"}},
		}}},
	}
	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || res.Applied[0].ID != "align" {
		t.Fatalf("applied = %+v", res.Applied)
	}
	reasons := map[string]string{}
	for _, s := range res.Skipped {
		reasons[s.ID] = s.Reason
	}
	if reasons["stale"] != "existing text does not match expected content" {
		t.Fatalf("stale edit: %q", reasons["stale"])
	}
	if reasons["align-again"] == "" {
		t.Fatalf("conflicting fix was not skipped: %+v", res.Skipped)
	}
	if got := string(res.FileChanges[0].After); got != "a();\n  b();\n" {
		t.Fatalf("after = %q", got)
	}
}

func TestApplyWritesFileAndRestoresBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.cs")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa();\nb();\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSetWithBase(dir)
	fileID, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	diags := []diag.Diagnostic{blankFix(fileID, "blank", 5, "\n", diag.FixApplicabilityAlwaysSafe)}
	if _, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "\xEF\xBB\xBFa();\n\nb();\n" {
		t.Fatalf("written = %q", got)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestVirtualFilesAreNotWritten(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("v.cs", []byte("a();\nb();\n"))
	diags := []diag.Diagnostic{blankFix(fileID, "blank", 5, "\n", diag.FixApplicabilityAlwaysSafe)}
	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "target file is virtual" {
		t.Fatalf("skipped = %+v", res.Skipped)
	}
}

func TestApplyAllMergesInsertionsIntoOneRender(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("m.cs", []byte("a();\nb();\nc();\n"))
	diags := []diag.Diagnostic{
		blankFix(fileID, "late", 10, "\n", diag.FixApplicabilityAlwaysSafe),
		blankFix(fileID, "early", 5, "\n", diag.FixApplicabilityAlwaysSafe),
	}
	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 || res.Applied[0].ID != "early" {
		t.Fatalf("applied = %+v", res.Applied)
	}
	ch := res.FileChanges[0]
	if got := string(ch.After); got != "a();\n\nb();\n\nc();\n" || ch.EditCount != 2 {
		t.Fatalf("after = %q, edits = %d", got, ch.EditCount)
	}
}

func TestSpansConflict(t *testing.T) {
	at := func(s, e uint32) diag.TextEdit { return diag.TextEdit{Span: source.Span{Start: s, End: e}} }
	cases := []struct {
		a, b diag.TextEdit
		want bool
	}{
		{at(3, 3), at(3, 3), false},
		{at(3, 3), at(3, 6), true},
		{at(6, 6), at(3, 6), false},
		{at(0, 4), at(4, 8), false},
		{at(0, 5), at(4, 8), true},
	}
	for _, tc := range cases {
		if got := spansConflict(tc.a, tc.b); got != tc.want {
			t.Errorf("spansConflict(%v, %v) = %v, want %v", tc.a.Span, tc.b.Span, got, tc.want)
		}
	}
}
