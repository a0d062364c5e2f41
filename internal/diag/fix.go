package diag

import (
	"errors"
	"fmt"

	"trivet/internal/source"
)

// FixKind is a coarse classification of a fix.
type FixKind uint8

const (
	FixKindQuickFix FixKind = iota
	FixKindRefactor
	FixKindRefactorRewrite
	FixKindSourceAction
)

func (k FixKind) String() string {
	switch k {
	case FixKindQuickFix:
		return "quickfix"
	case FixKindRefactor:
		return "refactor"
	case FixKindRefactorRewrite:
		return "refactor.rewrite"
	case FixKindSourceAction:
		return "source"
	}
	return "unknown"
}

// FixApplicability describes how confident the producer is in a fix.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	}
	return "unknown"
}

// TextEdit replaces Span with NewText. OldText, when set, must match the
// current content of Span for the edit to apply.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// FixBuildContext is handed to lazy fix builders.
type FixBuildContext struct {
	FileSet *source.FileSet
}

// FixThunk builds the edits of a fix on demand.
type FixThunk interface {
	BuildFix(ctx FixBuildContext) (Fix, error)
}

// FixThunkFunc adapts a function to FixThunk.
type FixThunkFunc func(ctx FixBuildContext) (Fix, error)

// BuildFix calls f(ctx).
func (f FixThunkFunc) BuildFix(ctx FixBuildContext) (Fix, error) { return f(ctx) }

// Fix is a suggested automated correction.
type Fix struct {
	ID            string
	Title         string
	Kind          FixKind
	Applicability FixApplicability
	IsPreferred   bool
	RequiresAll   bool
	Edits         []TextEdit
	Thunk         FixThunk `msgpack:"-"`
}

// ErrFixUnavailable is returned by thunks that decline to build edits.
var ErrFixUnavailable = errors.New("fix unavailable")

// Resolve returns the fix with its edits materialised. Metadata set on the
// receiver wins over metadata returned by the thunk.
func (f *Fix) Resolve(ctx FixBuildContext) (Fix, error) {
	if f == nil {
		return Fix{}, errors.New("diag: nil fix")
	}
	if f.Thunk == nil {
		out := *f
		out.Edits = append([]TextEdit(nil), f.Edits...)
		return out, nil
	}
	built, err := f.Thunk.BuildFix(ctx)
	if err != nil {
		return Fix{}, fmt.Errorf("diag: build fix %q: %w", f.Title, err)
	}
	if f.ID != "" {
		built.ID = f.ID
	}
	if f.Title != "" {
		built.Title = f.Title
	}
	built.Kind = f.Kind
	built.Applicability = f.Applicability
	built.IsPreferred = built.IsPreferred || f.IsPreferred
	built.RequiresAll = built.RequiresAll || f.RequiresAll
	built.Edits = append(append([]TextEdit(nil), f.Edits...), built.Edits...)
	built.Thunk = nil
	return built, nil
}

// MaterializeFixes resolves every fix in order. The first failure aborts.
func MaterializeFixes(ctx FixBuildContext, fixes []*Fix) ([]Fix, error) {
	if len(fixes) == 0 {
		return nil, nil
	}
	out := make([]Fix, 0, len(fixes))
	for _, f := range fixes {
		if f == nil {
			continue
		}
		resolved, err := f.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

// MaterializeDiagnostic replaces lazy fixes of d in place. Fixes whose thunk
// fails are dropped and reported through the returned error slice.
func MaterializeDiagnostic(ctx FixBuildContext, d *Diagnostic) []error {
	if d == nil || len(d.Fixes) == 0 {
		return nil
	}
	var errs []error
	kept := d.Fixes[:0]
	for _, f := range d.Fixes {
		if f == nil {
			continue
		}
		if f.Thunk == nil {
			kept = append(kept, f)
			continue
		}
		resolved, err := f.Resolve(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		kept = append(kept, &resolved)
	}
	d.Fixes = kept
	return errs
}
