package ast

import (
	"strings"

	"trivet/internal/source"
	"trivet/internal/token"
)

type Hints struct{ Stmts, Exprs, Lists uint }

// Tree: результат разбора одного файла. Токены хранятся полностью (с trivia),
// поэтому склейка Tokens воспроизводит исходный текст байт в байт.
type Tree struct {
	File   *source.File
	Tokens []token.Token // последний - EOF
	Stmts  *Stmts
	Exprs  *Exprs
	Lists  *Lists
	Root   ListID
}

func NewTree(file *source.File, toks []token.Token, hints Hints) *Tree {
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 9
	}
	if hints.Lists == 0 {
		hints.Lists = 1 << 6
	}
	return &Tree{
		File:   file,
		Tokens: toks,
		Stmts:  NewStmts(hints.Stmts),
		Exprs:  NewExprs(hints.Exprs),
		Lists:  NewLists(hints.Lists),
	}
}

// Token returns the token for id, or nil for NoTokenID / out of range.
func (t *Tree) Token(id TokenID) *token.Token {
	if id == NoTokenID || int(id) > len(t.Tokens) {
		return nil
	}
	return &t.Tokens[id-1]
}

// TokenCount includes EOF.
func (t *Tree) TokenCount() int { return len(t.Tokens) }

// EOF returns the id of the terminating token.
func (t *Tree) EOF() TokenID { return TokenID(len(t.Tokens)) }

// Next returns the following token id, NoTokenID after EOF.
func (t *Tree) Next(id TokenID) TokenID {
	if int(id) >= len(t.Tokens) {
		return NoTokenID
	}
	return id + 1
}

// Prev returns the preceding token id, NoTokenID for the first token.
func (t *Tree) Prev(id TokenID) TokenID {
	if id <= 1 {
		return NoTokenID
	}
	return id - 1
}

func (t *Tree) Stmt(id StmtID) *Stmt { return t.Stmts.Get(id) }
func (t *Tree) Expr(id ExprID) *Expr { return t.Exprs.Get(id) }
func (t *Tree) List(id ListID) *List { return t.Lists.Get(id) }

// Text reassembles the full source text.
func (t *Tree) Text() string {
	var b strings.Builder
	b.Grow(len(t.File.Content))
	for i := range t.Tokens {
		tk := &t.Tokens[i]
		for _, tv := range tk.Leading {
			b.WriteString(tv.Text)
		}
		b.WriteString(tk.Text)
		for _, tv := range tk.Trailing {
			b.WriteString(tv.Text)
		}
	}
	return b.String()
}

// ForEachList visits every list in allocation order (inner lists before outer).
func (t *Tree) ForEachList(fn func(id ListID, l *List)) {
	for i, l := range t.Lists.Arena.All() {
		fn(ListID(i), l)
	}
}

// ForEachExpr visits every expression in allocation order (children before parents).
func (t *Tree) ForEachExpr(fn func(id ExprID, e *Expr)) {
	for i, e := range t.Exprs.Arena.All() {
		fn(ExprID(i), e)
	}
}

// ExprDepth counts expression ancestors of id.
func (t *Tree) ExprDepth(id ExprID) int {
	depth := 0
	for e := t.Expr(id); e != nil && e.Parent.IsValid(); e = t.Expr(e.Parent) {
		depth++
	}
	return depth
}

// Sibling returns the statement at offset delta from id within its list.
func (t *Tree) Sibling(id StmtID, delta int) StmtID {
	s := t.Stmt(id)
	if s == nil || !s.List.IsValid() {
		return NoStmtID
	}
	l := t.List(s.List)
	i := s.Index + delta
	if i < 0 || i >= len(l.Items) {
		return NoStmtID
	}
	return l.Items[i]
}

// StmtSpan covers the statement tokens without surrounding trivia.
func (t *Tree) StmtSpan(id StmtID) source.Span {
	s := t.Stmt(id)
	if s == nil {
		return source.Span{}
	}
	return t.tokenRange(s.First, s.Last)
}

// ExprSpan covers the expression tokens without surrounding trivia.
func (t *Tree) ExprSpan(id ExprID) source.Span {
	e := t.Expr(id)
	if e == nil {
		return source.Span{}
	}
	return t.tokenRange(e.First, e.Last)
}

func (t *Tree) tokenRange(first, last TokenID) source.Span {
	a, b := t.Token(first), t.Token(last)
	switch {
	case a == nil && b == nil:
		return source.Span{}
	case a == nil:
		return b.Span
	case b == nil:
		return a.Span
	}
	return a.Span.Cover(b.Span)
}
