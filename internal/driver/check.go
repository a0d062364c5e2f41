package driver

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"trivet/internal/analysis"
	"trivet/internal/ast"
	"trivet/internal/diag"
	"trivet/internal/lexer"
	"trivet/internal/observ"
	"trivet/internal/parser"
	"trivet/internal/rules"
	"trivet/internal/source"
	"trivet/internal/trace"
)

// Options configure Check.
type Options struct {
	Table  *rules.Table
	Filter FileFilter
	// Jobs bounds concurrent files; 0 means GOMAXPROCS.
	Jobs           int
	MaxDiagnostics int
	// Cache, when set, short-cuts files whose content, table and version
	// were seen before. Fingerprint must describe the table.
	Cache       *DiskCache
	Fingerprint string
	Sink        ProgressSink
	Timings     bool
	// BaseDir для относительных путей; пусто = текущий каталог.
	BaseDir string
}

// FileResult содержит результат проверки одного файла.
type FileResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	Cached bool
	// Tree is nil for cached files and files that failed to load.
	Tree   *ast.Tree
	Timing *observ.Report
}

// Result of a Check run. Files are in discovery order.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Diagnostics returns every file's diagnostics in file order.
func (r *Result) Diagnostics() []diag.Diagnostic {
	if r == nil {
		return nil
	}
	var out []diag.Diagnostic
	for _, f := range r.Files {
		if f.Bag != nil {
			out = append(out, f.Bag.Items()...)
		}
	}
	return out
}

// Check discovers files under paths and analyses each of them. One file
// is one job; a file that cannot be read yields an IO diagnostic instead
// of failing the run.
func Check(ctx context.Context, paths []string, opts Options) (*Result, error) {
	if opts.Table == nil {
		return nil, fmt.Errorf("driver: rule table is required")
	}
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "check")
	defer span.End("")

	files, err := Discover(paths, opts.Filter)
	if err != nil {
		return nil, err
	}
	fileSet, ids, loadErrors := loadFiles(opts.BaseDir, files, opts.Sink)
	span.WithExtra("files", strconv.Itoa(len(files)))

	// Настраиваем параллелизм
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			bag := diag.NewBag(opts.MaxDiagnostics)
			if loadErr, failed := loadErrors[i]; failed {
				bag.Add(loadDiagnostic(path, ids[i], loadErr))
				results[i] = FileResult{Path: path, FileID: ids[i], Bag: bag}
				emit(opts.Sink, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr})
				return nil
			}
			res, err := checkFile(gctx, fileSet.Get(ids[i]), bag, opts)
			if err != nil {
				emit(opts.Sink, Event{File: path, Stage: StageAnalyze, Status: StatusError, Err: err})
				return err
			}
			res.Path = path
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Result{FileSet: fileSet, Files: results}, nil
}

// loadFiles reads every file up front: a FileSet is not safe for
// concurrent Add. Failed loads are keyed by their index in files and
// stand in the set as empty virtual files.
func loadFiles(baseDir string, files []string, sink ProgressSink) (*source.FileSet, []source.FileID, map[int]error) {
	var fileSet *source.FileSet
	if baseDir != "" {
		fileSet = source.NewFileSetWithBase(baseDir)
	} else {
		fileSet = source.NewFileSet()
	}
	ids := make([]source.FileID, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		emit(sink, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			// пустой виртуальный файл, чтобы у диагностики был путь
			loadErrors[i] = err
			id = fileSet.AddVirtual(path, nil)
		}
		ids[i] = id
	}
	return fileSet, ids, loadErrors
}

func loadDiagnostic(path string, file source.FileID, err error) diag.Diagnostic {
	return diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.IOLoadFileError,
		Message:  fmt.Sprintf("failed to load %s: %v", path, err),
		Primary:  source.Span{File: file},
	}
}

func checkFile(ctx context.Context, file *source.File, bag *diag.Bag, opts Options) (FileResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeFile, file.Path)
	defer span.End("")
	tracer := trace.FromContext(ctx)
	started := time.Now()

	res := FileResult{FileID: file.ID, Bag: bag}
	var key Digest
	if opts.Cache != nil {
		key = Key(opts.Fingerprint, file)
		cached, ok, err := opts.Cache.Get(key, file.ID)
		if err != nil {
			// битая запись - просто пересчитаем
			trace.Point(tracer, trace.ScopeFile, "cache", err.Error(), span.ID())
		}
		if ok {
			addAll(bag, cached)
			res.Cached = true
			span.WithExtra("cache", "hit")
			emit(opts.Sink, Event{File: file.Path, Stage: StageAnalyze, Status: StatusCached, Elapsed: time.Since(started)})
			return res, nil
		}
	}

	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
	}

	emit(opts.Sink, Event{File: file.Path, Stage: StageParse, Status: StatusWorking})
	stop := timer.Begin("parse")
	// полный набор копим без лимита: в кэш попадает всё, лимит - только на выдачу
	full := diag.NewBag(0)
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: full})
	toks := lexer.Tokenize(file, lexer.Options{Reporter: reporter})
	tree := parser.ParseTokens(file, toks, parser.Options{Reporter: reporter})
	stop(fmt.Sprintf("tokens=%d", len(toks)))
	if n := reporter.Suppressed(); n > 0 {
		span.WithExtra("repeated", strconv.Itoa(n))
	}
	res.Tree = tree

	emit(opts.Sink, Event{File: file.Path, Stage: StageAnalyze, Status: StatusWorking})
	stop = timer.Begin("analyze")
	diags, err := analysis.Run(ctx, tree, opts.Table, analysis.Options{})
	if err != nil {
		return res, err
	}
	stop(fmt.Sprintf("diags=%d", len(diags)))
	for _, d := range diags {
		full.Add(d)
	}
	full.Sort()
	addAll(bag, full.Items())
	span.WithExtra("diagnostics", strconv.Itoa(full.Len()))

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, full.Items()); err != nil {
			trace.Point(tracer, trace.ScopeFile, "cache", err.Error(), span.ID())
		}
	}
	if timer != nil {
		report := timer.Report()
		res.Timing = &report
	}
	emit(opts.Sink, Event{File: file.Path, Stage: StageAnalyze, Status: StatusDone, Elapsed: time.Since(started)})
	return res, nil
}

func addAll(bag *diag.Bag, diags []diag.Diagnostic) {
	for _, d := range diags {
		if !bag.Add(d) {
			return
		}
	}
}
