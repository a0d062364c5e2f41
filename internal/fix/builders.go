package fix

import "trivet/internal/diag"

// Option adjusts a fix while it is built.
type Option func(*diag.Fix)

// WithID gives the fix the id --id selects it by.
func WithID(id string) Option {
	return func(f *diag.Fix) { f.ID = id }
}

func Preferred() Option {
	return func(f *diag.Fix) { f.IsPreferred = true }
}

// WithRequiresAll marks a fix that only holds together with the rest of
// its batch; --once and --id skip it.
func WithRequiresAll() Option {
	return func(f *diag.Fix) { f.RequiresAll = true }
}

func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) { f.Applicability = app }
}

// quickFix is the safe quick fix every rule produces, before opts.
func quickFix(title string, opts []Option) *diag.Fix {
	f := &diag.Fix{
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// TriviaEdits wraps edits that touch only whitespace trivia. Tokens never
// move, which is what makes the fix always safe.
func TriviaEdits(title string, edits []diag.TextEdit, opts ...Option) *diag.Fix {
	f := quickFix(title, opts)
	f.Edits = append([]diag.TextEdit(nil), edits...)
	return f
}

// Lazy defers computing edits until the fix is resolved.
func Lazy(title string, build func(diag.FixBuildContext) ([]diag.TextEdit, error), opts ...Option) *diag.Fix {
	f := quickFix(title, opts)
	f.Thunk = diag.FixThunkFunc(func(ctx diag.FixBuildContext) (diag.Fix, error) {
		edits, err := build(ctx)
		return diag.Fix{Edits: edits}, err
	})
	return f
}
