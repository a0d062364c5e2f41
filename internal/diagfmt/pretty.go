package diagfmt

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"trivet/internal/diag"
	"trivet/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	code, path      *color.Color
	gutter, caret   *color.Color
	note, fix       *color.Color
	added, removed  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		code:    color.New(color.Bold),
		path:    color.New(color.Bold),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgGreen, color.Bold),
		note:    color.New(color.FgCyan),
		fix:     color.New(color.FgGreen),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note, p.fix, p.added, p.removed} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pr := &prettyPrinter{w: w, fs: fs, opts: opts, pal: newPalette(opts.Color)}
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		pr.diagnostic(&d)
	}
}

type prettyPrinter struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
	pal  palette
}

func (pr *prettyPrinter) location(sp source.Span) string {
	f := pr.fs.Get(sp.File)
	start, _ := pr.fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", displayPath(pr.fs, f, pr.opts.PathMode), start.Line, start.Col)
}

func (pr *prettyPrinter) diagnostic(d *diag.Diagnostic) {
	fmt.Fprintf(pr.w, "%s: %s %s: %s\n",
		pr.pal.path.Sprint(pr.location(d.Primary)),
		pr.pal.severity(d.Severity).Sprint(d.Severity.String()),
		pr.pal.code.Sprint(d.Code.ID()),
		d.Message)
	if pr.opts.Context >= 0 {
		pr.excerpt(d.Primary, int(pr.opts.Context))
	}

	if pr.opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(pr.w, "  %s %s: %s\n", pr.pal.note.Sprint("note:"), pr.location(n.Span), n.Msg)
			if pr.opts.Context >= 0 {
				pr.excerpt(n.Span, 0)
			}
		}
	}
	if pr.opts.ShowFixes {
		pr.fixes(d.Fixes)
	}
}

// excerpt prints the lines of sp with context lines around them and marks
// the span under its first line.
func (pr *prettyPrinter) excerpt(sp source.Span, context int) {
	f := pr.fs.Get(sp.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := pr.fs.Resolve(sp)
	first := max(1, int(start.Line)-context)
	last := min(f.LineCount(), int(start.Line)+context)
	gutter := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(uint32(ln))
		fmt.Fprintf(pr.w, "%s %s\n", pr.pal.gutter.Sprintf("%*d |", gutter, ln), pr.clip(text))
		if ln != int(start.Line) {
			continue
		}
		col := int(start.Col) - 1
		stop := len(text)
		if end.Line == start.Line {
			stop = min(int(end.Col)-1, len(text))
		}
		col = min(col, len(text))
		pad := caretPad(text[:col])
		marks := max(1, displayWidth(text[col:max(col, stop)]))
		fmt.Fprintf(pr.w, "%s %s%s\n",
			pr.pal.gutter.Sprintf("%*s |", gutter, ""),
			pad,
			pr.pal.caret.Sprint("^"+strings.Repeat("~", marks-1)))
	}
}

func (pr *prettyPrinter) clip(line string) string {
	if pr.opts.Width == 0 {
		return line
	}
	return runewidth.Truncate(line, int(pr.opts.Width), "…")
}

// caretPad reproduces the visual width of prefix: tabs stay tabs, every
// other grapheme becomes as many spaces as it occupies on screen.
func caretPad(prefix string) string {
	var b strings.Builder
	g := uniseg.NewGraphemes(prefix)
	for g.Next() {
		cluster := g.Str()
		if cluster == "\t" {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.StringWidth(cluster)))
	}
	return b.String()
}

func displayWidth(s string) int {
	w := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		if g.Str() == "\t" {
			w++
			continue
		}
		w += runewidth.StringWidth(g.Str())
	}
	return w
}

// sortFixes orders fixes for display: preferred first, then the safest.
func sortFixes(in []*diag.Fix) []*diag.Fix {
	fixes := slices.Clone(in)
	slices.SortStableFunc(fixes, func(a, b *diag.Fix) int {
		switch {
		case a.IsPreferred != b.IsPreferred:
			if a.IsPreferred {
				return -1
			}
			return 1
		case a.Applicability != b.Applicability:
			return int(a.Applicability) - int(b.Applicability)
		case a.Kind != b.Kind:
			return int(a.Kind) - int(b.Kind)
		case a.Title != b.Title:
			return strings.Compare(a.Title, b.Title)
		}
		return strings.Compare(a.ID, b.ID)
	})
	return fixes
}

func (pr *prettyPrinter) fixes(fixes []*diag.Fix) {
	ctx := diag.FixBuildContext{FileSet: pr.fs}
	for i, f := range sortFixes(fixes) {
		resolved, err := f.Resolve(ctx)
		if err != nil {
			fmt.Fprintf(pr.w, "  %s %s (unavailable: %v)\n", pr.pal.fix.Sprintf("fix #%d:", i+1), f.Title, err)
			continue
		}
		line := fmt.Sprintf("  %s %s [%s, %s]", pr.pal.fix.Sprintf("fix #%d:", i+1), resolved.Title, resolved.Kind, resolved.Applicability)
		if resolved.ID != "" {
			line += " (id=" + resolved.ID + ")"
		}
		if resolved.IsPreferred {
			line += " preferred"
		}
		fmt.Fprintln(pr.w, line)
		for _, e := range resolved.Edits {
			start, end := pr.fs.Resolve(e.Span)
			entry := fmt.Sprintf("    edit %s:%d:%d-%d:%d apply=%q",
				displayPath(pr.fs, pr.fs.Get(e.Span.File), pr.opts.PathMode),
				start.Line, start.Col, end.Line, end.Col, e.NewText)
			if e.OldText != "" {
				entry += fmt.Sprintf(" replace=%q", e.OldText)
			}
			fmt.Fprintln(pr.w, entry)
			if !pr.opts.ShowPreview {
				continue
			}
			preview, err := previewEdit(pr.fs, e)
			if err != nil {
				continue
			}
			fmt.Fprintln(pr.w, "    preview:")
			for _, l := range preview.before {
				fmt.Fprintln(pr.w, "      "+pr.pal.removed.Sprint("- "+l))
			}
			for _, l := range preview.after {
				fmt.Fprintln(pr.w, "      "+pr.pal.added.Sprint("+ "+l))
			}
		}
	}
}
