package fuzztests

import (
	"context"
	"fmt"
	"testing"

	"trivet/internal/analysis"
	"trivet/internal/diag"
	"trivet/internal/fix"
	"trivet/internal/parser"
	"trivet/internal/rules"
	"trivet/internal/source"
	"trivet/internal/testkit"
)

func analyzer(tbl *rules.Table) fix.AnalyzeFunc {
	return func(ctx context.Context, file *source.File) ([]diag.Diagnostic, error) {
		tree := parser.Parse(file, parser.Options{})
		return analysis.Run(ctx, tree, tbl, analysis.Options{DeferFixes: true})
	}
}

// summary renders what a user sees of a diagnostic list.
func summary(diags []diag.Diagnostic) string {
	out := ""
	for _, d := range diags {
		out += fmt.Sprintf("%s %d:%d %s fixes=%d\n", d.Code.ID(), d.Primary.Start, d.Primary.End, d.Message, len(d.Fixes))
	}
	return out
}

func fixOnce(t *testing.T, tbl *rules.Table, input []byte) ([]byte, bool) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("fuzz.cs", input)
	res, err := fix.Loop(context.Background(), fs, []source.FileID{id}, analyzer(tbl), fix.LoopOptions{Mode: fix.ApplyModeAll})
	if err != nil {
		t.Fatalf("fix loop: %v", err)
	}
	if len(res.Files) == 0 {
		return input, res.Converged
	}
	return res.Files[0].After, res.Converged
}

// FuzzFixIdempotent: analysis is deterministic, fixed output still lexes
// losslessly, and fixing a fixed file changes nothing.
func FuzzFixIdempotent(f *testing.F) {
	addCorpusSeeds(f)
	tbl, err := rules.NewTable(rules.Options{})
	if err != nil {
		f.Fatalf("NewTable: %v", err)
	}
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx := context.Background()

		tree := parse(input)
		first, err := analysis.Run(ctx, tree, tbl, analysis.Options{})
		if err != nil {
			t.Fatalf("analysis: %v", err)
		}
		second, err := analysis.Run(ctx, tree, tbl, analysis.Options{})
		if err != nil {
			t.Fatalf("analysis: %v", err)
		}
		if a, b := summary(first), summary(second); a != b {
			t.Fatalf("analysis is not deterministic:\n%s\nvs\n%s", a, b)
		}

		fixed, converged := fixOnce(t, tbl, input)
		if err := testkit.CheckLossless(parse(fixed)); err != nil {
			t.Fatalf("fixed output: %v", err)
		}
		if !converged {
			return
		}
		again, _ := fixOnce(t, tbl, fixed)
		if string(again) != string(fixed) {
			t.Fatalf("fix is not idempotent\nonce:  %q\ntwice: %q", truncateForLog(fixed, 200), truncateForLog(again, 200))
		}
	})
}
