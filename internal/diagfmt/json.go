package diagfmt

import (
	"encoding/json"
	"io"

	"trivet/internal/diag"
	"trivet/internal/source"
)

// JSONReport is the document written by `trivet check --format json`.
type JSONReport struct {
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
	Count       int              `json:"count"`
	// Omitted counts diagnostics cut by JSONOpts.Max.
	Omitted int         `json:"omitted,omitempty"`
	Summary JSONSummary `json:"summary"`
}

// JSONSummary counts the whole bag, including omitted diagnostics.
type JSONSummary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
	Fixable  int `json:"fixable"`
}

type JSONDiagnostic struct {
	Code     string       `json:"code"`
	Severity string       `json:"severity"`
	Message  string       `json:"message"`
	Location JSONLocation `json:"location"`
	Notes    []JSONNote   `json:"notes,omitempty"`
	Fixes    []JSONFix    `json:"fixes,omitempty"`
}

// JSONLocation: byte offsets are 0-based and half-open; line and column
// are 1-based and present only with IncludePositions.
type JSONLocation struct {
	Path      string `json:"path"`
	Start     uint32 `json:"start"`
	End       uint32 `json:"end"`
	Line      uint32 `json:"line,omitempty"`
	Column    uint32 `json:"column,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndColumn uint32 `json:"end_column,omitempty"`
}

type JSONNote struct {
	Message  string       `json:"message"`
	Location JSONLocation `json:"location"`
}

type JSONFix struct {
	ID            string     `json:"id,omitempty"`
	Title         string     `json:"title"`
	Kind          string     `json:"kind"`
	Applicability string     `json:"applicability"`
	Preferred     bool       `json:"preferred,omitempty"`
	Error         string     `json:"error,omitempty"`
	Edits         []JSONEdit `json:"edits,omitempty"`
}

type JSONEdit struct {
	Location JSONLocation `json:"location"`
	NewText  string       `json:"new_text"`
	OldText  string       `json:"old_text,omitempty"`
	Before   []string     `json:"before,omitempty"`
	After    []string     `json:"after,omitempty"`
}

type jsonBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
}

// BuildJSONReport converts bag without encoding it.
func BuildJSONReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) JSONReport {
	b := jsonBuilder{fs: fs, opts: opts}
	items := bag.Items()
	shown := items
	if opts.Max > 0 && len(items) > opts.Max {
		shown = items[:opts.Max]
	}
	rep := JSONReport{
		Diagnostics: make([]JSONDiagnostic, 0, len(shown)),
		Count:       len(shown),
		Omitted:     len(items) - len(shown),
	}
	for i := range items {
		d := &items[i]
		switch d.Severity {
		case diag.SevError:
			rep.Summary.Errors++
		case diag.SevWarning:
			rep.Summary.Warnings++
		default:
			rep.Summary.Infos++
		}
		if d.HasFix() {
			rep.Summary.Fixable++
		}
	}
	for i := range shown {
		rep.Diagnostics = append(rep.Diagnostics, b.diagnostic(&shown[i]))
	}
	return rep
}

// JSON writes the indented report for bag.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildJSONReport(bag, fs, opts))
}

func (b jsonBuilder) diagnostic(d *diag.Diagnostic) JSONDiagnostic {
	out := JSONDiagnostic{
		Code:     d.Code.ID(),
		Severity: d.Severity.Label(),
		Message:  d.Message,
		Location: b.location(d.Primary),
	}
	if b.opts.IncludeNotes {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, JSONNote{Message: n.Msg, Location: b.location(n.Span)})
		}
	}
	if b.opts.IncludeFixes {
		ctx := diag.FixBuildContext{FileSet: b.fs}
		for _, f := range sortFixes(d.Fixes) {
			out.Fixes = append(out.Fixes, b.fix(f, ctx))
		}
	}
	return out
}

// fix resolves lazy fixes; a failed build is reported, not fatal.
func (b jsonBuilder) fix(f *diag.Fix, ctx diag.FixBuildContext) JSONFix {
	resolved, err := f.Resolve(ctx)
	out := JSONFix{
		ID:            resolved.ID,
		Title:         resolved.Title,
		Kind:          resolved.Kind.String(),
		Applicability: resolved.Applicability.String(),
		Preferred:     resolved.IsPreferred,
	}
	if err != nil {
		out.Error = err.Error()
		return out
	}
	for _, e := range resolved.Edits {
		edit := JSONEdit{Location: b.location(e.Span), NewText: e.NewText, OldText: e.OldText}
		if b.opts.IncludePreviews {
			if p, err := previewEdit(b.fs, e); err == nil {
				edit.Before, edit.After = p.before, p.after
			}
		}
		out.Edits = append(out.Edits, edit)
	}
	return out
}

func (b jsonBuilder) location(sp source.Span) JSONLocation {
	loc := JSONLocation{
		Path:  displayPath(b.fs, b.fs.Get(sp.File), b.opts.PathMode),
		Start: sp.Start,
		End:   sp.End,
	}
	if b.opts.IncludePositions {
		start, end := b.fs.Resolve(sp)
		loc.Line, loc.Column = start.Line, start.Col
		loc.EndLine, loc.EndColumn = end.Line, end.Col
	}
	return loc
}
