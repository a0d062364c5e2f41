package lsp

import (
	"context"
	"strings"

	"trivet/internal/analysis"
	"trivet/internal/diag"
)

const fixAllKind = "source.fixAll.trivet"

func (s *Server) handleCodeAction(msg *rpcMessage) error {
	var params codeActionParams
	if err := decodeParams(msg, &params); err != nil {
		return s.conn.fail(msg.ID, codeInvalidParams, "invalid params")
	}
	uri := canonicalURI(params.TextDocument.URI)
	snap := s.snapshotFor(uri)
	if snap == nil {
		return s.conn.reply(msg.ID, []codeAction{})
	}
	var actions []codeAction
	if wants(params.Context.Only, "quickfix") {
		actions = append(actions, quickFixes(uri, snap, params.Range)...)
	}
	if wants(params.Context.Only, fixAllKind) {
		if action, ok := fixAll(uri, snap); ok {
			actions = append(actions, action)
		}
	}
	if actions == nil {
		actions = []codeAction{}
	}
	return s.conn.reply(msg.ID, actions)
}

// wants implements the "only" filter: a requested kind matches itself and
// every kind below it ("source" matches "source.fixAll.trivet").
func wants(only []string, kind string) bool {
	if len(only) == 0 {
		return true
	}
	for _, o := range only {
		if kind == o || strings.HasPrefix(kind, o+".") {
			return true
		}
	}
	return false
}

// quickFixes offers every fix of the diagnostics that touch rng.
func quickFixes(uri string, snap *docSnapshot, rng lspRange) []codeAction {
	var out []codeAction
	ctx := diag.FixBuildContext{FileSet: snap.fileSet}
	for i := range snap.diags {
		d := &snap.diags[i]
		if !d.HasFix() || !overlaps(spanRange(snap.file, d.Primary), rng) {
			continue
		}
		related := toLSPDiagnostic(uri, snap.file, d)
		for _, f := range d.Fixes {
			resolved, err := f.Resolve(ctx)
			if err != nil || len(resolved.Edits) == 0 {
				continue
			}
			edits := make([]textEdit, 0, len(resolved.Edits))
			for _, e := range resolved.Edits {
				if e.Span.File != snap.file.ID {
					continue
				}
				edits = append(edits, textEdit{Range: spanRange(snap.file, e.Span), NewText: e.NewText})
			}
			if len(edits) == 0 {
				continue
			}
			out = append(out, codeAction{
				Title:       resolved.Title,
				Kind:        "quickfix",
				Diagnostics: []lspDiagnostic{related},
				IsPreferred: resolved.IsPreferred,
				Edit:        &workspaceEdit{Changes: map[string][]textEdit{uri: edits}},
			})
		}
	}
	return out
}

// fixAll rewrites the snapshot's tree with every fix that does not
// collide with an earlier one and returns the result as one whole-document
// edit. Colliding fixes wait for the next request, after the client
// re-sends the document. A rewrite that adds syntax errors is declined.
func fixAll(uri string, snap *docSnapshot) (codeAction, bool) {
	if snap.tree == nil || snap.table == nil {
		return codeAction{}, false
	}
	batch, err := analysis.FixAll(context.Background(), snap.tree, snap.table)
	if err != nil || batch.Result == nil || batch.Applied == 0 {
		return codeAction{}, false
	}
	if batch.Result.SyntaxErrors > syntaxErrors(snap.diags) {
		return codeAction{}, false
	}
	whole := lspRange{
		Start: position{},
		End:   filePosition(snap.file, endOfFile),
	}
	return codeAction{
		Title: "Fix all trivet issues",
		Kind:  fixAllKind,
		Edit: &workspaceEdit{Changes: map[string][]textEdit{
			uri: {{Range: whole, NewText: batch.Result.Text()}},
		}},
	}, true
}

func syntaxErrors(diags []diag.Diagnostic) int {
	n := 0
	for i := range diags {
		if diags[i].Severity == diag.SevError && !diags[i].Code.IsRule() {
			n++
		}
	}
	return n
}
