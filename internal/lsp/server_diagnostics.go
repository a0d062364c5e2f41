package lsp

import (
	"context"
	"slices"
	"strings"
	"time"

	"trivet/internal/analysis"
	"trivet/internal/ast"
	"trivet/internal/diag"
	"trivet/internal/parser"
	"trivet/internal/rules"
	"trivet/internal/source"
)

// AnalyzeFunc lints one document. Lexer and parser diagnostics are
// returned alongside rule diagnostics.
type AnalyzeFunc func(ctx context.Context, table *rules.Table, file *source.File) (*ast.Tree, []diag.Diagnostic, error)

// AnalyzeDocument is the default AnalyzeFunc. Fixes are built eagerly so
// code actions can hand out their edits directly.
func AnalyzeDocument(ctx context.Context, table *rules.Table, file *source.File) (*ast.Tree, []diag.Diagnostic, error) {
	bag := diag.NewBag(0)
	tree := parser.Parse(file, parser.Options{Reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag})})
	found, err := analysis.Run(ctx, tree, table, analysis.Options{})
	if err != nil {
		return tree, nil, err
	}
	for _, d := range found {
		bag.Add(d)
	}
	bag.Sort()
	return tree, bag.Items(), nil
}

// docSnapshot is the last analysis of one document version.
type docSnapshot struct {
	version int
	fileSet *source.FileSet
	file    *source.File
	tree    *ast.Tree
	table   *rules.Table
	diags   []diag.Diagnostic
}

type pendingDoc struct {
	uri     string
	path    string
	text    string
	version int
}

func (s *Server) scheduleDiagnostics() {
	s.sched.schedule(s.runDiagnostics)
}

// runDiagnostics analyses every open document whose snapshot is stale,
// in URI order. A newer generation cancels ctx; results of a superseded
// run are dropped.
func (s *Server) runDiagnostics(ctx context.Context, gen uint64) {
	s.mu.Lock()
	ws := s.workspace
	limit := s.maxDiagnostics
	verbose := s.verbose
	var (
		pending []pendingDoc
		ignored []string
	)
	for uri, doc := range s.docs {
		path := uriToPath(uri)
		switch {
		case !ws.analysable(path):
			if doc.published {
				doc.published = false
				doc.snap = nil
				ignored = append(ignored, uri)
			}
		case !doc.current():
			pending = append(pending, pendingDoc{uri: uri, path: path, text: doc.text, version: doc.version})
		}
	}
	s.mu.Unlock()

	for _, uri := range ignored {
		if err := s.publish(uri, nil, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
	slices.SortFunc(pending, func(a, b pendingDoc) int { return strings.Compare(a.uri, b.uri) })

	for _, p := range pending {
		if ctx.Err() != nil || s.sched.stale(gen) {
			return
		}
		started := time.Now()
		fileSet := source.NewFileSet()
		file := fileSet.Get(fileSet.AddVirtual(p.path, []byte(p.text)))
		tree, diags, err := s.analyze(ctx, ws.Table, file)
		if err != nil {
			if ctx.Err() == nil {
				s.logf("diagnostics failed for %s: %v", p.uri, err)
			}
			return
		}
		snap := &docSnapshot{version: p.version, fileSet: fileSet, file: file, tree: tree, table: ws.Table, diags: diags}
		if !s.storeSnapshot(p.uri, snap) {
			continue
		}
		list := toLSPDiagnostics(p.uri, file, diags, limit)
		version := p.version
		if err := s.publish(p.uri, &version, list); err != nil {
			s.logf("failed to publish diagnostics: %v", err)
		}
		if verbose {
			s.logf("published %d diagnostics for %s (version %d) in %s", len(list), p.uri, p.version, time.Since(started))
		}
	}
}

// storeSnapshot keeps snap when the document is still open with the
// analysed text.
func (s *Server) storeSnapshot(uri string, snap *docSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.docs[uri]
	if doc == nil || doc.version != snap.version || doc.text != string(snap.file.Content) {
		return false
	}
	doc.snap = snap
	doc.published = true
	return true
}

// clearPublishedDiagnostics empties the diagnostics of every document
// that has some, in URI order.
func (s *Server) clearPublishedDiagnostics() {
	s.mu.Lock()
	var uris []string
	for uri, doc := range s.docs {
		if doc.published {
			doc.published = false
			doc.snap = nil
			uris = append(uris, uri)
		}
	}
	s.mu.Unlock()
	slices.Sort(uris)
	for _, uri := range uris {
		if err := s.publish(uri, nil, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
}

func toLSPDiagnostics(uri string, file *source.File, diags []diag.Diagnostic, limit int) []lspDiagnostic {
	out := make([]lspDiagnostic, 0, min(len(diags), limit))
	for i := range diags {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, toLSPDiagnostic(uri, file, &diags[i]))
	}
	return out
}

func toLSPDiagnostic(uri string, file *source.File, d *diag.Diagnostic) lspDiagnostic {
	out := lspDiagnostic{
		Range:    spanRange(file, d.Primary),
		Severity: lspSeverity(d.Severity),
		Code:     d.Code.ID(),
		Source:   "trivet",
		Message:  d.Message,
	}
	for _, n := range d.Notes {
		if n.Span.File != file.ID {
			continue
		}
		out.RelatedInformation = append(out.RelatedInformation, diagnosticRelatedInformation{
			Location: location{URI: uri, Range: spanRange(file, n.Span)},
			Message:  n.Msg,
		})
	}
	return out
}

func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	default:
		return 3
	}
}
