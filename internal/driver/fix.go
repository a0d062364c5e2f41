package driver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"trivet/internal/analysis"
	"trivet/internal/diag"
	"trivet/internal/fix"
	"trivet/internal/parser"
	"trivet/internal/rules"
	"trivet/internal/source"
	"trivet/internal/trace"
	"trivet/internal/verify"
)

// FixOptions configure Fix.
type FixOptions struct {
	Table     *rules.Table
	Filter    FileFilter
	Mode      fix.ApplyMode
	TargetID  string
	MaxPasses int
	// Verify re-parses every fixed file with an independent grammar
	// before accepting it.
	Verify bool
	// Write puts accepted results on disk; false leaves FileChanges for a diff.
	Write   bool
	Sink    ProgressSink
	BaseDir string
}

// FixResult pairs the loop outcome with the files it ran over and the
// files that could not be loaded.
type FixResult struct {
	*fix.LoopResult
	FileSet    *source.FileSet
	LoadErrors []diag.Diagnostic
}

// Analyzer adapts a rule table to fix.AnalyzeFunc. Fixes are deferred:
// only the ones a pass selects get built.
func Analyzer(table *rules.Table) fix.AnalyzeFunc {
	return func(ctx context.Context, file *source.File) ([]diag.Diagnostic, error) {
		tree := parser.Parse(file, parser.Options{})
		return analysis.Run(ctx, tree, table, analysis.Options{DeferFixes: true})
	}
}

// Fix applies rule fixes to the files under paths until they settle.
func Fix(ctx context.Context, paths []string, opts FixOptions) (*FixResult, error) {
	if opts.Table == nil {
		return nil, fmt.Errorf("driver: rule table is required")
	}
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "fix")
	defer span.End("")

	files, err := Discover(paths, opts.Filter)
	if err != nil {
		return nil, err
	}
	fileSet, ids, loadErrors := loadFiles(opts.BaseDir, files, opts.Sink)
	res := &FixResult{FileSet: fileSet}
	loaded := make([]source.FileID, 0, len(ids))
	for i, path := range files {
		if loadErr, failed := loadErrors[i]; failed {
			res.LoadErrors = append(res.LoadErrors, loadDiagnostic(path, ids[i], loadErr))
			emit(opts.Sink, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr})
			continue
		}
		loaded = append(loaded, ids[i])
	}

	analyze := Analyzer(opts.Table)
	tracked := func(ctx context.Context, file *source.File) ([]diag.Diagnostic, error) {
		emit(opts.Sink, Event{File: file.Path, Stage: StageFix, Status: StatusWorking})
		return analyze(ctx, file)
	}
	loopOpts := fix.LoopOptions{
		Mode:      opts.Mode,
		TargetID:  opts.TargetID,
		MaxPasses: opts.MaxPasses,
		Write:     opts.Write,
	}
	if opts.Verify {
		loopOpts.Verify = func(ctx context.Context, file *source.File, after []byte) error {
			started := time.Now()
			err := verify.Rewrite(ctx, file, after)
			status := StatusDone
			if err != nil {
				status = StatusError
			}
			emit(opts.Sink, Event{File: file.Path, Stage: StageVerify, Status: status, Err: err, Elapsed: time.Since(started)})
			return err
		}
	}
	lr, err := fix.Loop(ctx, fileSet, loaded, tracked, loopOpts)
	res.LoopResult = lr
	if lr != nil {
		span.WithExtra("passes", strconv.Itoa(lr.Passes)).WithExtra("applied", strconv.Itoa(len(lr.Applied)))
	}
	if err != nil {
		return res, err
	}
	for _, id := range loaded {
		emit(opts.Sink, Event{File: fileSet.Get(id).Path, Stage: StageFix, Status: StatusDone})
	}
	return res, nil
}
