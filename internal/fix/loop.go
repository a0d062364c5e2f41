package fix

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"

	"trivet/internal/diag"
	"trivet/internal/source"
)

// AnalyzeFunc produces the diagnostics (with fixes) of one file's current content.
type AnalyzeFunc func(ctx context.Context, file *source.File) ([]diag.Diagnostic, error)

// VerifyFunc checks the final content of a fixed file. An error keeps the
// original content of that file.
type VerifyFunc func(ctx context.Context, file *source.File, after []byte) error

// LoopOptions configure Loop.
type LoopOptions struct {
	Mode     ApplyMode
	TargetID string
	// MaxPasses bounds re-analysis; 0 means DefaultMaxPasses.
	MaxPasses int
	Verify    VerifyFunc
	// Write puts accepted results on disk.
	Write bool
}

// DefaultMaxPasses is enough for fixes that only conflict pairwise.
const DefaultMaxPasses = 8

// LoopResult: Files compare the content before the first pass with the
// accepted final content; Skipped are the fixes still pending after the
// last pass plus rejected files.
type LoopResult struct {
	Applied []AppliedFix
	Skipped []SkippedFix
	Files   []FileChange
	Passes  int
	// Converged is false when MaxPasses ran out with fixes still applying.
	Converged bool
}

// ErrVerifyFailed wraps the verifier's complaint about a fixed file.
var ErrVerifyFailed = errors.New("fix: verification failed")

// Loop applies fixes to files in memory, re-analysing after every pass,
// until nothing applies (mode all) or after one pass (once, id). Accepted
// results are verified and, with opts.Write, written back.
func Loop(ctx context.Context, fs *source.FileSet, files []source.FileID, analyze AnalyzeFunc, opts LoopOptions) (*LoopResult, error) {
	if fs == nil || analyze == nil {
		return nil, fmt.Errorf("fix: FileSet and analyzer are required")
	}
	maxPasses := opts.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	res := &LoopResult{}
	cur := fs
	ids := slices.Clone(files)
	original := make(map[int][]byte, len(ids))
	edits := make([]int, len(ids))
	index := make(map[source.FileID]int, len(ids))

	for pass := 1; ; pass++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		var diags []diag.Diagnostic
		clear(index)
		for i, id := range ids {
			index[id] = i
			ds, err := analyze(ctx, cur.Get(id))
			if err != nil {
				return res, err
			}
			diags = append(diags, ds...)
		}
		if pass > maxPasses {
			res.Converged = !hasFixes(diags)
			break
		}

		ar, err := Apply(cur, diags, ApplyOptions{Mode: opts.Mode, TargetID: opts.TargetID, DryRun: true})
		if ar != nil {
			res.Skipped = ar.Skipped
		}
		if errors.Is(err, ErrNoFixes) {
			res.Converged = true
			break
		}
		if err != nil {
			return res, err
		}
		res.Passes = pass
		res.Applied = append(res.Applied, ar.Applied...)

		changed := make(map[source.FileID][]byte, len(ar.FileChanges))
		for _, ch := range ar.FileChanges {
			changed[ch.File] = ch.After
			if i, ok := index[ch.File]; ok {
				edits[i] += ch.EditCount
			}
		}
		next := source.NewFileSetWithBase(cur.BaseDir())
		for i, id := range ids {
			f := cur.Get(id)
			content := f.Content
			if after, ok := changed[id]; ok {
				if _, seen := original[i]; !seen {
					original[i] = f.Content
				}
				content = after
			}
			ids[i] = next.Add(f.Path, content, f.Flags&^source.FileHasCRLF)
		}
		cur = next
		if opts.Mode != ApplyModeAll {
			res.Converged = true
			break
		}
	}

	for i, id := range files {
		before, ok := original[i]
		if !ok {
			continue
		}
		after := cur.Get(ids[i]).Content
		if bytes.Equal(before, after) {
			continue
		}
		file := fs.Get(id)
		path := file.FormatPath("relative", fs.BaseDir())
		if opts.Verify != nil {
			if err := opts.Verify(ctx, file, after); err != nil {
				res.Skipped = append(res.Skipped, SkippedFix{
					Title:  path,
					Reason: fmt.Errorf("%w: %w", ErrVerifyFailed, err).Error(),
				})
				continue
			}
		}
		if opts.Write {
			if err := WriteFile(file, after); err != nil {
				return res, err
			}
		}
		res.Files = append(res.Files, FileChange{
			File:      id,
			Path:      path,
			EditCount: edits[i],
			Before:    before,
			After:     after,
		})
	}
	return res, nil
}

func hasFixes(diags []diag.Diagnostic) bool {
	for i := range diags {
		if diags[i].HasFix() {
			return true
		}
	}
	return false
}
