package fix_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trivet/internal/analysis"
	"trivet/internal/diag"
	"trivet/internal/fix"
	"trivet/internal/parser"
	"trivet/internal/rules"
	"trivet/internal/source"
)

func analyzer(t *testing.T) fix.AnalyzeFunc {
	t.Helper()
	tbl, err := rules.NewTable(rules.Options{})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return func(ctx context.Context, file *source.File) ([]diag.Diagnostic, error) {
		tree := parser.Parse(file, parser.Options{})
		return analysis.Run(ctx, tree, tbl, analysis.Options{DeferFixes: true})
	}
}

const messy = "x();\nLog.Debug();\nif (a) { }\nobj.Foo()\n   .Bar()\n .Baz();\nreturn;\n"

const tidy = "x();\n\nLog.Debug();\n\nif (a) { }\n\nobj.Foo()\n   .Bar()\n   .Baz();\n\nreturn;\n"

func TestLoopReachesFixedPoint(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.cs", []byte(messy))
	res, err := fix.Loop(context.Background(), fs, []source.FileID{id}, analyzer(t), fix.LoopOptions{Mode: fix.ApplyModeAll})
	if err != nil {
		t.Fatalf("Loop: %v", err)
	}
	if !res.Converged || res.Passes == 0 {
		t.Fatalf("converged=%v passes=%d", res.Converged, res.Passes)
	}
	if len(res.Files) != 1 {
		t.Fatalf("files = %+v", res.Files)
	}
	if got := string(res.Files[0].After); got != tidy {
		t.Fatalf("after =\n%s\nwant\n%s", got, tidy)
	}
	if string(res.Files[0].Before) != messy || string(fs.Get(id).Content) != messy {
		t.Fatalf("original content changed")
	}
}

func TestLoopOnceAppliesSingleFix(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.cs", []byte(messy))
	res, err := fix.Loop(context.Background(), fs, []source.FileID{id}, analyzer(t), fix.LoopOptions{Mode: fix.ApplyModeOnce})
	if err != nil {
		t.Fatalf("Loop: %v", err)
	}
	if len(res.Applied) != 1 || res.Passes != 1 {
		t.Fatalf("applied=%d passes=%d", len(res.Applied), res.Passes)
	}
	if got := string(res.Files[0].After); !strings.HasPrefix(got, "x();\n\nLog.Debug();\nif") {
		t.Fatalf("after = %q", got)
	}
}

func TestLoopByID(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.cs", []byte(messy))
	res, err := fix.Loop(context.Background(), fs, []source.FileID{id}, analyzer(t),
		fix.LoopOptions{Mode: fix.ApplyModeID, TargetID: "TRV2001-6-2"})
	if err != nil {
		t.Fatalf("Loop: %v", err)
	}
	if len(res.Applied) != 1 || res.Applied[0].Code != diag.RuleChainAlignment {
		t.Fatalf("applied = %+v", res.Applied)
	}
	if got := string(res.Files[0].After); !strings.Contains(got, "\n   .Baz();") || !strings.Contains(got, "x();\nLog") {
		t.Fatalf("after = %q", got)
	}
}

func TestLoopRejectsFailedVerification(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.cs", []byte(messy))
	reject := func(context.Context, *source.File, []byte) error { return errors.New("broken") }
	res, err := fix.Loop(context.Background(), fs, []source.FileID{id}, analyzer(t),
		fix.LoopOptions{Mode: fix.ApplyModeAll, Verify: reject})
	if err != nil {
		t.Fatalf("Loop: %v", err)
	}
	if len(res.Files) != 0 {
		t.Fatalf("rejected file reported as changed")
	}
	last := res.Skipped[len(res.Skipped)-1]
	if !strings.Contains(last.Reason, "verification failed") {
		t.Fatalf("skip reason = %q", last.Reason)
	}
}

func TestLoopWritesFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "w.cs")
	if err := os.WriteFile(path, []byte("a();\nreturn;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fix.Loop(context.Background(), fs, []source.FileID{id}, analyzer(t),
		fix.LoopOptions{Mode: fix.ApplyModeAll, Write: true}); err != nil {
		t.Fatalf("Loop: %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "a();\n\nreturn;\n" {
		t.Fatalf("written = %q", got)
	}
}

func TestLoopStopsOnCancel(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.cs", []byte(messy))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := fix.Loop(ctx, fs, []source.FileID{id}, analyzer(t), fix.LoopOptions{Mode: fix.ApplyModeAll}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
