package lsp

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
)

func requestCodeActions(t *testing.T, server *Server, out *bytes.Buffer, params codeActionParams) []codeAction {
	t.Helper()
	out.Reset()
	payload, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := server.handleMessage(&rpcMessage{ID: json.RawMessage(`7`), Method: "textDocument/codeAction", Params: payload}); err != nil {
		t.Fatalf("codeAction: %v", err)
	}
	msgs := readAll(t, out)
	if len(msgs) != 1 {
		t.Fatalf("expected one response, got %d", len(msgs))
	}
	var actions []codeAction
	if err := json.Unmarshal(msgs[0].Result, &actions); err != nil {
		t.Fatalf("decode actions: %v", err)
	}
	return actions
}

func openAndAnalyze(t *testing.T, text string) (*Server, *bytes.Buffer, string) {
	t.Helper()
	server, out := newTestServer(t)
	uri := pathToURI(filepath.Join(t.TempDir(), "Program.cs"))
	notify(t, server, "textDocument/didOpen", didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: uri, Version: 1, Text: text},
	})
	flush(server)
	if server.snapshotFor(uri) == nil {
		t.Fatal("document was not analysed")
	}
	return server, out, uri
}

func applyEdits(text string, edits []textEdit) string {
	// edits of one action never overlap; apply back to front
	for i := len(edits) - 1; i >= 0; i-- {
		r := edits[i].Range
		text = applyChanges(text, []textDocumentContentChangeEvent{{Range: &r, Text: edits[i].NewText}})
	}
	return text
}

func TestQuickFixInsertsBlankLine(t *testing.T) {
	server, out, uri := openAndAnalyze(t, logBeforeIf)
	actions := requestCodeActions(t, server, out, codeActionParams{
		TextDocument: textDocumentIdentifier{URI: uri},
		Range:        lspRange{Start: position{Line: 0, Character: 11}, End: position{Line: 0, Character: 11}},
		Context:      codeActionContext{Only: []string{"quickfix"}},
	})
	if len(actions) != 1 {
		t.Fatalf("expected one quick fix, got %+v", actions)
	}
	a := actions[0]
	if a.Kind != "quickfix" || !a.IsPreferred || a.Edit == nil {
		t.Fatalf("unexpected action: %+v", a)
	}
	if len(a.Diagnostics) != 1 || a.Diagnostics[0].Code != "TRV1001" {
		t.Fatalf("action should carry its diagnostic: %+v", a.Diagnostics)
	}
	got := applyEdits(logBeforeIf, a.Edit.Changes[uri])
	if want := "Log.Debug();\n\nif (x) { }\n"; got != want {
		t.Fatalf("fixed text = %q, want %q", got, want)
	}
}

func TestQuickFixOutsideRange(t *testing.T) {
	server, out, uri := openAndAnalyze(t, logBeforeIf)
	actions := requestCodeActions(t, server, out, codeActionParams{
		TextDocument: textDocumentIdentifier{URI: uri},
		Range:        lspRange{Start: position{Line: 1, Character: 4}, End: position{Line: 1, Character: 5}},
		Context:      codeActionContext{Only: []string{"quickfix"}},
	})
	if len(actions) != 0 {
		t.Fatalf("expected no actions away from the diagnostic, got %+v", actions)
	}
}

func TestFixAllAlignsChain(t *testing.T) {
	src := "obj\n    .Foo()\n     .Bar()\n   .Baz();\n"
	server, out, uri := openAndAnalyze(t, src)
	actions := requestCodeActions(t, server, out, codeActionParams{
		TextDocument: textDocumentIdentifier{URI: uri},
		Context:      codeActionContext{Only: []string{"source"}},
	})
	if len(actions) != 1 || actions[0].Kind != fixAllKind {
		t.Fatalf("expected one fix-all action, got %+v", actions)
	}
	got := applyEdits(src, actions[0].Edit.Changes[uri])
	if want := "obj\n    .Foo()\n    .Bar()\n    .Baz();\n"; got != want {
		t.Fatalf("fixed text = %q, want %q", got, want)
	}
}

func TestFixAllRewritesEveryRuleInOneEdit(t *testing.T) {
	src := "obj\n    .Foo()\n     .Bar();\n\n" + logBeforeIf
	server, out, uri := openAndAnalyze(t, src)
	actions := requestCodeActions(t, server, out, codeActionParams{
		TextDocument: textDocumentIdentifier{URI: uri},
		Context:      codeActionContext{Only: []string{fixAllKind}},
	})
	if len(actions) != 1 {
		t.Fatalf("expected one fix-all action, got %+v", actions)
	}
	edits := actions[0].Edit.Changes[uri]
	if len(edits) != 1 || edits[0].Range.Start != (position{}) {
		t.Fatalf("expected one whole-document edit, got %+v", edits)
	}
	got := applyEdits(src, edits)
	if want := "obj\n    .Foo()\n    .Bar();\n\nLog.Debug();\n\nif (x) { }\n"; got != want {
		t.Fatalf("fixed text = %q, want %q", got, want)
	}
}

func TestFixAllNothingToFix(t *testing.T) {
	server, out, uri := openAndAnalyze(t, "Log.Debug();\n\nif (x) { }\n")
	actions := requestCodeActions(t, server, out, codeActionParams{
		TextDocument: textDocumentIdentifier{URI: uri},
		Context:      codeActionContext{Only: []string{fixAllKind}},
	})
	if len(actions) != 0 {
		t.Fatalf("expected no fix-all action on clean text, got %+v", actions)
	}
}

func TestWantsKindHierarchy(t *testing.T) {
	cases := []struct {
		only []string
		kind string
		want bool
	}{
		{nil, "quickfix", true},
		{[]string{"quickfix"}, "quickfix", true},
		{[]string{"source"}, fixAllKind, true},
		{[]string{"source.fixAll"}, fixAllKind, true},
		{[]string{"refactor"}, "quickfix", false},
		{[]string{"quick"}, "quickfix", false},
	}
	for _, tc := range cases {
		if got := wants(tc.only, tc.kind); got != tc.want {
			t.Errorf("wants(%v, %q) = %v, want %v", tc.only, tc.kind, got, tc.want)
		}
	}
}
