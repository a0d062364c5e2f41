package fix

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"slices"

	"trivet/internal/diag"
	"trivet/internal/source"
)

// ErrNoFixes is returned when nothing was applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode selects which fixes run.
type ApplyMode uint8

const (
	// ApplyModeOnce applies the first fix in source order, preferring
	// always-safe ones.
	ApplyModeOnce ApplyMode = iota
	// ApplyModeAll applies every always-safe fix that does not overlap an
	// earlier one.
	ApplyModeAll
	// ApplyModeID applies the fix with ApplyOptions.TargetID.
	ApplyModeID
)

func (m ApplyMode) String() string {
	switch m {
	case ApplyModeAll:
		return "all"
	case ApplyModeID:
		return "id"
	}
	return "once"
}

type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// DryRun keeps results in memory: FileChange.After holds the new
	// content and nothing is written. Virtual files are only fixable in a
	// dry run.
	DryRun bool
}

// AppliedFix records a fix that made it into the output.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

// SkippedFix is a fix left out, with the reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange is the result for one file. Before/After exclude the BOM.
type FileChange struct {
	File      source.FileID
	Path      string
	EditCount int
	Before    []byte
	After     []byte
}

type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

func (r *ApplyResult) skip(f *diag.Fix, reason string) {
	r.Skipped = append(r.Skipped, SkippedFix{ID: f.ID, Title: f.Title, Reason: reason})
}

type candidate struct {
	diag  *diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply resolves the fixes of diagnostics, selects them by opts.Mode and
// applies the selection. All edit spans refer to the content the
// diagnostics were computed on; overlapping fixes are skipped, never
// merged.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	res := &ApplyResult{}
	if fs == nil {
		return res, errors.New("fix: FileSet is nil")
	}
	cands := gatherCandidates(diag.FixBuildContext{FileSet: fs}, diagnostics, res)
	sortCandidates(cands)
	selected := selectCandidates(cands, opts, res)
	if len(selected) == 0 {
		return res, ErrNoFixes
	}
	if err := applyCandidates(fs, selected, opts.DryRun, res); err != nil {
		return res, err
	}
	if len(res.Applied) == 0 {
		return res, ErrNoFixes
	}
	return res, nil
}

// gatherCandidates materialises lazy fixes. Fixes without edits or with
// an ID already seen are skipped; a missing ID is derived from the
// diagnostic code and position. A fix several diagnostics share (same ID,
// same edits, e.g. realigning a whole group) is taken once, silently.
func gatherCandidates(ctx diag.FixBuildContext, diagnostics []diag.Diagnostic, res *ApplyResult) []candidate {
	type firstSeen struct {
		diag  int
		edits []diag.TextEdit
	}
	var cands []candidate
	seen := make(map[string]firstSeen)
	for i := range diagnostics {
		d := &diagnostics[i]
		if len(d.Fixes) == 0 {
			continue
		}
		resolved, err := diag.MaterializeFixes(ctx, d.Fixes)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedFix{Title: d.Message, Reason: fmt.Sprintf("failed to build fixes: %v", err)})
			continue
		}
		for idx, f := range resolved {
			if len(f.Edits) == 0 {
				res.skip(&f, "fix has no edits")
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			}
			if first, dup := seen[f.ID]; dup {
				if first.diag == i || !slices.Equal(first.edits, f.Edits) {
					res.skip(&f, "duplicate fix id")
				}
				continue
			}
			seen[f.ID] = firstSeen{diag: i, edits: f.Edits}
			cands = append(cands, candidate{diag: d, fix: f, order: len(cands)})
		}
	}
	return cands
}

// sortCandidates orders by primary span, then input order, then
// preferred fixes first.
func sortCandidates(cands []candidate) {
	slices.SortStableFunc(cands, func(a, b candidate) int {
		pa, pb := a.diag.Primary, b.diag.Primary
		if c := cmp.Or(
			cmp.Compare(pa.File, pb.File),
			cmp.Compare(pa.Start, pb.Start),
			cmp.Compare(pa.End, pb.End),
			cmp.Compare(a.order, b.order),
			cmp.Compare(a.diag.Code, b.diag.Code),
		); c != 0 {
			return c
		}
		if a.fix.IsPreferred != b.fix.IsPreferred {
			if a.fix.IsPreferred {
				return -1
			}
			return 1
		}
		return cmp.Or(cmp.Compare(a.fix.ID, b.fix.ID), cmp.Compare(a.fix.Title, b.fix.Title))
	})
}

func selectCandidates(cands []candidate, opts ApplyOptions, res *ApplyResult) []candidate {
	switch opts.Mode {
	case ApplyModeID:
		i := slices.IndexFunc(cands, func(c candidate) bool { return c.fix.ID == opts.TargetID })
		switch {
		case i < 0:
			res.Skipped = append(res.Skipped, SkippedFix{ID: opts.TargetID, Reason: "fix id not found"})
		case cands[i].fix.RequiresAll:
			res.skip(&cands[i].fix, "fix requires all fixes to be applied")
		default:
			return cands[i : i+1]
		}
		return nil
	case ApplyModeAll:
		var out []candidate
		for _, c := range cands {
			if c.fix.Applicability != diag.FixApplicabilityAlwaysSafe {
				res.skip(&c.fix, "applicability is "+c.fix.Applicability.String())
				continue
			}
			out = append(out, c)
		}
		return out
	default:
		fallback := -1
		for i := range cands {
			f := &cands[i].fix
			if f.RequiresAll {
				res.skip(f, "fix requires all fixes to be applied")
				continue
			}
			if f.Applicability == diag.FixApplicabilityAlwaysSafe {
				return cands[i : i+1]
			}
			if fallback < 0 {
				fallback = i
			}
		}
		if fallback < 0 {
			return nil
		}
		return cands[fallback : fallback+1]
	}
}

// pending collects the accepted edits of one file in original coordinates.
type pending struct {
	file  *source.File
	edits []diag.TextEdit
}

func (p *pending) overlaps(e diag.TextEdit) bool {
	return slices.ContainsFunc(p.edits, func(prev diag.TextEdit) bool { return spansConflict(prev, e) })
}

// check validates e against the original content of the file.
func (p *pending) check(e diag.TextEdit) string {
	start, end := int(e.Span.Start), int(e.Span.End)
	if end < start || end > len(p.file.Content) {
		return "edit span out of range"
	}
	if e.OldText != "" && string(p.file.Content[start:end]) != e.OldText {
		return "existing text does not match expected content"
	}
	return ""
}

// render splices the accepted edits into the original content.
func (p *pending) render() []byte {
	edits := slices.Clone(p.edits)
	slices.SortStableFunc(edits, func(a, b diag.TextEdit) int {
		return cmp.Or(cmp.Compare(a.Span.Start, b.Span.Start), cmp.Compare(a.Span.End, b.Span.End))
	})
	src := p.file.Content
	out := make([]byte, 0, len(src))
	last := 0
	for _, e := range edits {
		out = append(out, src[last:e.Span.Start]...)
		out = append(out, e.NewText...)
		last = int(e.Span.End)
	}
	return append(out, src[last:]...)
}

// applyCandidates accepts each fix whole or not at all: a fix is skipped
// when any of its edits is invalid or overlaps an accepted edit.
func applyCandidates(fs *source.FileSet, selected []candidate, dryRun bool, res *ApplyResult) error {
	files := make(map[source.FileID]*pending)
	var order []source.FileID
	baseDir := fs.BaseDir()

	for _, c := range selected {
		staged := make(map[source.FileID][]diag.TextEdit)
		reason := ""
		for _, e := range c.fix.Edits {
			p := files[e.Span.File]
			if p == nil {
				file := fs.Get(e.Span.File)
				if file == nil {
					reason = "unknown target file"
					break
				}
				if file.Flags&source.FileVirtual != 0 && !dryRun {
					reason = "target file is virtual"
					break
				}
				p = &pending{file: file}
				files[e.Span.File] = p
				order = append(order, e.Span.File)
			}
			if p.overlaps(e) || slices.ContainsFunc(staged[e.Span.File], func(s diag.TextEdit) bool { return spansConflict(s, e) }) {
				reason = "conflicts with previously applied edits in " + p.file.FormatPath("auto", baseDir)
				break
			}
			if reason = p.check(e); reason != "" {
				break
			}
			staged[e.Span.File] = append(staged[e.Span.File], e)
		}
		if reason != "" {
			res.skip(&c.fix, reason)
			continue
		}
		for id, edits := range staged {
			files[id].edits = append(files[id].edits, edits...)
		}
		res.Applied = append(res.Applied, AppliedFix{
			ID:            c.fix.ID,
			Title:         c.fix.Title,
			Code:          c.diag.Code,
			Message:       c.diag.Message,
			Applicability: c.fix.Applicability,
			PrimaryPath:   primaryPath(fs, c.diag.Primary.File),
			EditCount:     len(c.fix.Edits),
		})
	}

	for _, id := range order {
		p := files[id]
		if len(p.edits) == 0 {
			continue
		}
		after := p.render()
		if !dryRun {
			if err := WriteFile(p.file, after); err != nil {
				return err
			}
		}
		res.FileChanges = append(res.FileChanges, FileChange{
			File:      id,
			Path:      p.file.FormatPath("relative", baseDir),
			EditCount: len(p.edits),
			Before:    p.file.Content,
			After:     after,
		})
	}
	slices.SortStableFunc(res.FileChanges, func(a, b FileChange) int { return cmp.Compare(a.Path, b.Path) })
	return nil
}

// spansConflict treats spans as half-open. Two insertions never conflict;
// an insertion conflicts with a replacement that strictly contains it or
// starts at it.
func spansConflict(a, b diag.TextEdit) bool {
	switch {
	case a.Span.Empty() && b.Span.Empty():
		return false
	case a.Span.Empty():
		return b.Span.Contains(a.Span.Start)
	case b.Span.Empty():
		return a.Span.Contains(b.Span.Start)
	}
	return a.Span.Overlaps(b.Span)
}

func primaryPath(fs *source.FileSet, id source.FileID) string {
	if f := fs.Get(id); f != nil {
		return f.FormatPath("auto", fs.BaseDir())
	}
	return ""
}

// WriteFile replaces the file on disk with content, restoring the BOM the
// file was loaded with and keeping its permissions.
func WriteFile(file *source.File, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(file.Path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(file.Path, file.WithBOM(content), mode); err != nil {
		return fmt.Errorf("write %s: %w", file.Path, err)
	}
	return nil
}
