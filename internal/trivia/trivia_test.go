package trivia_test

import (
	"testing"

	"trivet/internal/testkit"
	"trivet/internal/trivia"
)

func TestBetweenCountsBlankLines(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		blank     int
		newlines  int
		comment   bool
		directive bool
		adjPrev   bool
		adjNext   bool
	}{
		{"same line", "a(); b();", 0, 0, false, false, false, false},
		{"next line", "a();\nb();", 0, 1, false, false, false, false},
		{"one blank", "a();\n\nb();", 1, 2, false, false, false, false},
		{"whitespace-only line is blank", "a();\n   \t\nb();", 1, 2, false, false, false, false},
		{"two blanks", "a();\n\n\n  b();", 2, 3, false, false, false, false},
		{"crlf", "a();\r\n\r\nb();", 1, 2, false, false, false, false},
		{"trailing noise", "a();   \n\nb();", 1, 2, false, false, false, false},
		{"comment line is not blank", "a();\n// c\nb();", 0, 2, true, false, true, true},
		{"comment after blank", "a();\n\n// c\nb();", 1, 3, true, false, false, true},
		{"comment before blank", "a();\n// c\n\nb();", 1, 3, true, false, true, false},
		{"trailing comment", "a(); // c\n\nb();", 1, 2, true, false, false, false},
		{"directive", "a();\n#region R\nb();", 0, 2, false, true, false, false},
		{"block comment lines", "a();\n/* x\n y */\nb();", 0, 3, true, false, true, true},
	}
	for _, tt := range tests {
		p := testkit.ParseSource("g.cs", tt.src)
		a := testkit.FindToken(p.Tree, ";", 0)
		b := testkit.FindToken(p.Tree, "b", 0)
		g := trivia.Between(p.Tree, a, b)
		if g.BlankLines != tt.blank || g.Newlines != tt.newlines {
			t.Errorf("%s: blank=%d newlines=%d, want %d/%d", tt.name, g.BlankLines, g.Newlines, tt.blank, tt.newlines)
		}
		if g.HasComment != tt.comment || g.HasDirective != tt.directive {
			t.Errorf("%s: comment=%v directive=%v", tt.name, g.HasComment, g.HasDirective)
		}
		if g.CommentAdjacentToPrev != tt.adjPrev || g.CommentAdjacentToNext != tt.adjNext {
			t.Errorf("%s: adjPrev=%v adjNext=%v, want %v/%v", tt.name, g.CommentAdjacentToPrev, g.CommentAdjacentToNext, tt.adjPrev, tt.adjNext)
		}
		if g.SameLine != (tt.newlines == 0) {
			t.Errorf("%s: SameLine=%v", tt.name, g.SameLine)
		}
	}
}

func TestIndentAndFirstOnLine(t *testing.T) {
	p := testkit.ParseSource("i.cs", "x = a\n\t  .B()\n    .C(); /* c */ d();\n")
	tests := []struct {
		text   string
		n      int
		indent int
		first  bool
	}{
		{"x", 0, 0, true},
		{".", 0, 3, true},
		{".", 1, 4, true},
		{"d", 0, 0, false},
		{"=", 0, 0, false},
	}
	for _, tt := range tests {
		id := testkit.FindToken(p.Tree, tt.text, tt.n)
		w, ok := trivia.Indent(p.Tree, id)
		if ok != tt.first || (ok && w != tt.indent) {
			t.Errorf("Indent(%q #%d) = %d, %v; want %d, %v", tt.text, tt.n, w, ok, tt.indent, tt.first)
		}
		if trivia.FirstOnLine(p.Tree, id) != tt.first {
			t.Errorf("FirstOnLine(%q #%d) != %v", tt.text, tt.n, tt.first)
		}
	}
}

func TestClassify(t *testing.T) {
	p := testkit.ParseSource("c.cs", "a();\n\n  // note\n\n    b();")
	b := testkit.FindToken(p.Tree, "b", 0)
	info := trivia.Classify(p.Tree.Token(b).Leading)
	want := trivia.RunInfo{BlankLines: 2, Newlines: 3, HasComment: true, IndentWidth: 4, StartsLine: true}
	if info != want {
		t.Fatalf("Classify = %+v, want %+v", info, want)
	}
}

func TestEOLFollowsFile(t *testing.T) {
	p := testkit.ParseSource("e.cs", "a();\r\nb();\r\n")
	if got := trivia.EOL(p.Tree, testkit.FindToken(p.Tree, "b", 0)); got != "\r\n" {
		t.Fatalf("EOL = %q, want CRLF", got)
	}
	p = testkit.ParseSource("e.cs", "a();")
	if got := trivia.EOL(p.Tree, testkit.FindToken(p.Tree, "a", 0)); got != "\n" {
		t.Fatalf("EOL = %q, want LF fallback", got)
	}
}
