package position_test

import (
	"testing"

	"trivet/internal/ast"
	"trivet/internal/position"
	"trivet/internal/testkit"
)

func TestOfCountsRunesAndTabs(t *testing.T) {
	src := "var α = 1;\n\tx = \"é\" + y;\n"
	p := testkit.ParseSource("p.cs", src)
	tests := []struct {
		text string
		n    int
		want position.Position
	}{
		{"var", 0, position.Position{Line: 0, Column: 0}},
		{"=", 0, position.Position{Line: 0, Column: 6}},
		{"1", 0, position.Position{Line: 0, Column: 8}},
		{"x", 0, position.Position{Line: 1, Column: 1}},
		{"+", 0, position.Position{Line: 1, Column: 9}},
		{"y", 0, position.Position{Line: 1, Column: 11}},
	}
	for _, tt := range tests {
		id := testkit.FindToken(p.Tree, tt.text, tt.n)
		if got := position.Of(p.Tree, id); got != tt.want {
			t.Errorf("Of(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestMultilineLiteralDoesNotShiftLaterTokens(t *testing.T) {
	src := "var s = @\"a\nbb\nccc\"; var z = 1;\n"
	p := testkit.ParseSource("p.cs", src)
	z := testkit.FindToken(p.Tree, "z", 0)
	if got, want := position.Of(p.Tree, z), (position.Position{Line: 2, Column: 10}); got != want {
		t.Fatalf("Of(z) = %v, want %v", got, want)
	}
}

func TestPositionsFollowSourceOrder(t *testing.T) {
	p := testkit.ParseSource("p.cs", "a\r\n  .B()\r\n  .C();\r\n")
	var prev position.Position
	for i := 1; i <= p.Tree.TokenCount(); i++ {
		cur := position.Of(p.Tree, ast.TokenID(i))
		if position.Compare(prev, cur) > 0 {
			t.Fatalf("token %d at %v precedes previous %v", i, cur, prev)
		}
		prev = cur
	}
}

func TestColumnDelta(t *testing.T) {
	a := position.Position{Line: 3, Column: 4}
	if d, ok := position.ColumnDelta(a, position.Position{Line: 3, Column: 9}); !ok || d != 5 {
		t.Fatalf("same line delta = %d, %v", d, ok)
	}
	if _, ok := position.ColumnDelta(a, position.Position{Line: 4, Column: 4}); ok {
		t.Fatalf("cross-line delta must not be comparable")
	}
	if !a.Less(position.Position{Line: 3, Column: 5}) || a.Less(a) {
		t.Fatalf("Less is not a strict order")
	}
}
