package diag

import "trivet/internal/source"

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...TextEdit) Diagnostic {
	d.Fixes = append(d.Fixes, &Fix{
		Title:         title,
		Kind:          FixKindQuickFix,
		Applicability: FixApplicabilityAlwaysSafe,
		Edits:         edits,
	})
	return d
}

func (d Diagnostic) WithFixSuggestion(fix Fix) Diagnostic {
	f := fix
	d.Fixes = append(d.Fixes, &f)
	return d
}
