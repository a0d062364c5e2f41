package fix

import (
	"errors"
	"testing"

	"trivet/internal/diag"
	"trivet/internal/source"
)

func TestTriviaEditsOptions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cs", []byte("x();\ny();\n"))
	edit := diag.TextEdit{Span: source.Span{File: fileID, Start: 5, End: 5}, NewText: "\n"}

	f := TriviaEdits("insert blank line", []diag.TextEdit{edit}, WithID("TRV1001-2-1"), Preferred(), WithRequiresAll())
	if f.ID != "TRV1001-2-1" || !f.IsPreferred || !f.RequiresAll {
		t.Fatalf("options not applied: %+v", f)
	}
	if f.Applicability != diag.FixApplicabilityAlwaysSafe || f.Kind != diag.FixKindQuickFix {
		t.Fatalf("defaults = %s/%s", f.Applicability, f.Kind)
	}
	if len(f.Edits) != 1 || f.Edits[0].NewText != "\n" {
		t.Fatalf("edits = %+v", f.Edits)
	}
}

func TestWithApplicability(t *testing.T) {
	f := TriviaEdits("t", nil, WithApplicability(diag.FixApplicabilityManualReview))
	if f.Applicability != diag.FixApplicabilityManualReview || f.Kind != diag.FixKindQuickFix {
		t.Fatalf("overrides lost: %+v", f)
	}
}

func TestLazyBuildsOnResolve(t *testing.T) {
	calls := 0
	f := Lazy("align", func(diag.FixBuildContext) ([]diag.TextEdit, error) {
		calls++
		return []diag.TextEdit{{NewText: "    "}}, nil
	}, WithID("TRV2001-3-5"))
	if calls != 0 || len(f.Edits) != 0 {
		t.Fatalf("lazy fix built eagerly")
	}
	got, err := f.Resolve(diag.FixBuildContext{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if calls != 1 || got.ID != "TRV2001-3-5" || len(got.Edits) != 1 || got.Title != "align" {
		t.Fatalf("resolved = %+v (calls=%d)", got, calls)
	}

	broken := Lazy("x", func(diag.FixBuildContext) ([]diag.TextEdit, error) {
		return nil, diag.ErrFixUnavailable
	})
	if _, err := broken.Resolve(diag.FixBuildContext{}); !errors.Is(err, diag.ErrFixUnavailable) {
		t.Fatalf("err = %v", err)
	}
}
