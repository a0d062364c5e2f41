package lexer_test

import (
	"strings"
	"testing"

	"trivet/internal/diag"
	"trivet/internal/lexer"
	"trivet/internal/source"
	"trivet/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []*diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

func lex(t *testing.T, src string) ([]token.Token, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.cs", []byte(src)))
	rep := &testReporter{}
	return lexer.Tokenize(file, lexer.Options{Reporter: rep}), rep
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tk := range toks {
		out = append(out, tk.Kind)
	}
	return out
}

func joined(toks []token.Token) string {
	var b strings.Builder
	for _, tk := range toks {
		b.WriteString(tk.FullText())
	}
	return b.String()
}

func TestLosslessRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"\n\n",
		"class A { void M() { Log.Debug(\"x\"); } }\n",
		"#region Setup\r\nvar x = 1; // tail\r\n#endregion\r\n",
		"/* open",
		"var s = @\"multi\nline \"\"quoted\"\"\";\n",
		"var r = \"\"\"\n  raw \"text\"\n  \"\"\";\n",
		"var i = $\"a {b + \"c\"} {{lit}} {d:N2}\";",
		"var j = $$\"\"\"{{x}} {y}\"\"\";",
		"char c = '\\''; var bad = \"oops\nnext();",
		"\xff\x00x;",
		"a?.b ?? c ??= d; e >>= 1; f<List<int>> g;",
	}
	for _, src := range inputs {
		toks, _ := lex(t, src)
		if got := joined(toks); got != src {
			t.Errorf("round trip mismatch:\n src=%q\n got=%q", src, got)
		}
		if toks[len(toks)-1].Kind != token.EOF {
			t.Errorf("last token must be EOF for %q", src)
		}
	}
}

func TestTrailingTriviaStopsAfterFirstNewline(t *testing.T) {
	toks, _ := lex(t, "a; // c\n\n  b;")
	semi := toks[1]
	if semi.Kind != token.Semicolon {
		t.Fatalf("toks[1] = %v", semi.Kind)
	}
	wantTrail := []token.TriviaKind{token.TriviaSpace, token.TriviaLineComment, token.TriviaNewline}
	if len(semi.Trailing) != len(wantTrail) {
		t.Fatalf("trailing = %+v", semi.Trailing)
	}
	for i, k := range wantTrail {
		if semi.Trailing[i].Kind != k {
			t.Fatalf("trailing[%d] = %v, want %v", i, semi.Trailing[i].Kind, k)
		}
	}
	b := toks[2]
	if len(b.Leading) != 2 || b.Leading[0].Kind != token.TriviaNewline || b.Leading[1].Text != "  " {
		t.Fatalf("leading of b = %+v", b.Leading)
	}
}

func TestCRLFIsSingleNewlineItem(t *testing.T) {
	toks, _ := lex(t, "a;\r\n\r\nb;")
	if got := toks[1].Trailing[0].Text; got != "\r\n" {
		t.Fatalf("trailing newline = %q", got)
	}
	lead := toks[2].Leading
	if len(lead) != 1 || lead[0].Kind != token.TriviaNewline || lead[0].Text != "\r\n" {
		t.Fatalf("leading = %+v", lead)
	}
}

func TestDirectiveOnlyAtLineStart(t *testing.T) {
	toks, rep := lex(t, "  #region Fields\nint x;\nx # y;")
	lead := toks[0].Leading
	if len(lead) != 3 || lead[1].Kind != token.TriviaDirective {
		t.Fatalf("leading = %+v", lead)
	}
	if d := lead[1].Directive; d == nil || d.Name != "region" || d.Payload != "Fields" {
		t.Fatalf("directive = %+v", d)
	}
	var invalid int
	for _, tk := range toks {
		if tk.Kind == token.Invalid {
			invalid++
		}
	}
	if invalid != 1 || len(rep.diagnostics) != 1 {
		t.Fatalf("mid-line '#' must be an invalid token, got %d invalid, %d diags", invalid, len(rep.diagnostics))
	}
}

func TestEOFCarriesFinalTrivia(t *testing.T) {
	toks, _ := lex(t, "x;\n\n// end\n")
	eof := toks[len(toks)-1]
	if len(eof.Leading) != 3 {
		t.Fatalf("EOF leading = %+v", eof.Leading)
	}
	if eof.Leading[1].Kind != token.TriviaLineComment {
		t.Fatalf("EOF leading[1] = %v", eof.Leading[1].Kind)
	}
}

func TestOperatorsAndLiterals(t *testing.T) {
	toks, rep := lex(t, "x?.y ?? z && !a || b >= 1.5e3 ? 'c' : 0x1F;")
	want := []token.Kind{
		token.Ident, token.QuestionDot, token.Ident, token.QuestionQuestion, token.Ident,
		token.AndAnd, token.Bang, token.Ident, token.OrOr, token.Ident, token.GtEq,
		token.RealLit, token.Question, token.CharLit, token.Colon, token.IntLit,
		token.Semicolon, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("kinds = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kind[%d] = %v, want %v (all: %v)", i, got[i], want[i], got)
		}
	}
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", rep.diagnostics)
	}
}

func TestMultilineStringsAreSingleTokens(t *testing.T) {
	toks, _ := lex(t, "s = @\"a\nb\" + $\"\"\"\n{x}\n\"\"\";")
	if toks[2].Kind != token.StringLit || toks[2].Text != "@\"a\nb\"" {
		t.Fatalf("verbatim = %v %q", toks[2].Kind, toks[2].Text)
	}
	if toks[4].Kind != token.InterpStringLit {
		t.Fatalf("raw interpolated = %v %q", toks[4].Kind, toks[4].Text)
	}
}

func TestUnterminatedStringStopsAtNewline(t *testing.T) {
	toks, rep := lex(t, "a = \"oops\nb;")
	if toks[2].Kind != token.Invalid || toks[2].Text != "\"oops" {
		t.Fatalf("toks[2] = %v %q", toks[2].Kind, toks[2].Text)
	}
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexUnterminatedString {
		t.Fatalf("diagnostics = %+v", rep.diagnostics)
	}
	if toks[3].Text != "b" {
		t.Fatalf("lexing must resume on the next line, got %q", toks[3].Text)
	}
}

func TestVerbatimIdentifierAndDocComment(t *testing.T) {
	toks, _ := lex(t, "/// <summary/>\n@class x;")
	if toks[0].Kind != token.Ident || toks[0].Text != "@class" {
		t.Fatalf("toks[0] = %v %q", toks[0].Kind, toks[0].Text)
	}
	if toks[0].Leading[0].Kind != token.TriviaDocComment {
		t.Fatalf("leading[0] = %v", toks[0].Leading[0].Kind)
	}
}

func TestDoubledDelimitersStayInsideStrings(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
		text string
	}{
		{"a = @\"say \"\"hi\"\"\";", token.StringLit, "@\"say \"\"hi\"\"\""},
		{"a = $\"{{x}} {y}\";", token.InterpStringLit, "$\"{{x}} {y}\""},
		{"a = $@\"{{\"\"}}\";", token.InterpStringLit, "$@\"{{\"\"}}\""},
	}
	for _, tc := range cases {
		toks, rep := lex(t, tc.src)
		if toks[2].Kind != tc.kind || toks[2].Text != tc.text {
			t.Errorf("%q: toks[2] = %v %q", tc.src, toks[2].Kind, toks[2].Text)
		}
		if toks[3].Kind != token.Semicolon || len(rep.diagnostics) != 0 {
			t.Errorf("%q: string ran past its end, diagnostics %+v", tc.src, rep.diagnostics)
		}
	}
}

func TestBlockCommentEndsAtFirstClose(t *testing.T) {
	toks, _ := lex(t, "/* a ** b */ x;")
	lead := toks[0].Leading
	if len(lead) == 0 || lead[0].Kind != token.TriviaBlockComment || lead[0].Text != "/* a ** b */" {
		t.Fatalf("leading = %+v", lead)
	}
}
