// Package position maps tokens to (line, column) pairs.
//
// Line and Column are 0-based. Column counts runes since the start of the
// line, a tab is one rune. Positions always come from the token's span start
// and the file line index; the text of literals is never re-scanned, so a
// verbatim or raw string spanning lines cannot shift later positions.
package position

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"trivet/internal/ast"
	"trivet/internal/source"
)

type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Less: лексикографический порядок (line, column).
func (p Position) Less(q Position) bool {
	return Compare(p, q) < 0
}

func Compare(a, b Position) int {
	switch {
	case a.Line != b.Line:
		if a.Line < b.Line {
			return -1
		}
		return 1
	case a.Column < b.Column:
		return -1
	case a.Column > b.Column:
		return 1
	}
	return 0
}

// ColumnDelta returns b.Column - a.Column. ok is false when the positions are
// on different lines: columns of different lines are not comparable.
func ColumnDelta(a, b Position) (delta int, ok bool) {
	if a.Line != b.Line {
		return 0, false
	}
	return b.Column - a.Column, true
}

// OfOffset converts a byte offset in f into a Position.
func OfOffset(f *source.File, off uint32) Position {
	if f == nil {
		return Position{}
	}
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	off = min(off, n)
	line := f.LineOf(off)
	start := f.LineStart(line)
	return Position{Line: line, Column: utf8.RuneCount(f.Content[start:off])}
}

// Of returns the position of the first character of token id.
func Of(tree *ast.Tree, id ast.TokenID) Position {
	tok := tree.Token(id)
	if tok == nil {
		return Position{}
	}
	return OfOffset(tree.File, tok.Span.Start)
}

// End returns the position just past the last character of token id.
func End(tree *ast.Tree, id ast.TokenID) Position {
	tok := tree.Token(id)
	if tok == nil {
		return Position{}
	}
	return OfOffset(tree.File, tok.Span.End)
}

// SameLine reports whether tokens a and b start on the same line.
func SameLine(tree *ast.Tree, a, b ast.TokenID) bool {
	return Of(tree, a).Line == Of(tree, b).Line
}
