package diag

import (
	"trivet/internal/source"
)

// Note is a secondary span attached to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a single finding produced by the lexer, the parser or a rule.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []*Fix
}

// HasFix reports whether at least one fix is attached.
func (d *Diagnostic) HasFix() bool {
	return d != nil && len(d.Fixes) > 0
}
