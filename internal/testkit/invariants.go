package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"trivet/internal/ast"
	"trivet/internal/source"
)

// CheckLossless проверяет, что конкатенация trivia и текста токенов даёт
// исходный файл байт в байт, а спаны токенов идут подряд без дыр.
func CheckLossless(tree *ast.Tree) error {
	if tree == nil || tree.File == nil {
		return fmt.Errorf("nil tree or file")
	}
	if got, want := tree.Text(), string(tree.File.Content); got != want {
		return fmt.Errorf("round trip mismatch:\n got: %q\nwant: %q", got, want)
	}
	var off uint32
	for i := range tree.Tokens {
		tok := &tree.Tokens[i]
		full := tok.FullSpan()
		if full.Start != off {
			return fmt.Errorf("token %d (%s) starts at %d, want %d", i+1, tok.Kind, full.Start, off)
		}
		if full.File != tree.File.ID && full.End > full.Start {
			return fmt.Errorf("token %d span points to file %d, want %d", i+1, full.File, tree.File.ID)
		}
		off = full.End
	}
	n, err := safecast.Conv[uint32](len(tree.File.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if off != n {
		return fmt.Errorf("tokens cover %d bytes, file has %d", off, n)
	}
	return nil
}

// CheckTreeInvariants runs structural checks on a parsed tree:
// 1) every statement has First <= Last inside the token range
// 2) list items are ordered and point back to their list
// 3) every child expression lies inside its parent's token range
func CheckTreeInvariants(tree *ast.Tree) error {
	if err := CheckLossless(tree); err != nil {
		return err
	}
	count := ast.TokenID(tree.TokenCount())
	for id := ast.StmtID(1); int(id) <= int(tree.Stmts.Arena.Len()); id++ {
		s := tree.Stmt(id)
		if !s.First.IsValid() || s.First > s.Last || s.Last > count {
			return fmt.Errorf("stmt %d (%s) has bad token range [%d, %d]", id, s.Kind, s.First, s.Last)
		}
	}
	var listErr error
	tree.ForEachList(func(lid ast.ListID, l *ast.List) {
		if listErr != nil {
			return
		}
		var prev ast.TokenID
		for i, it := range l.Items {
			s := tree.Stmt(it)
			if s.List != lid || s.Index != i {
				listErr = fmt.Errorf("stmt %d in list %d has List=%d Index=%d, want %d/%d", it, lid, s.List, s.Index, lid, i)
				return
			}
			if s.First <= prev {
				listErr = fmt.Errorf("list %d items out of order at %d", lid, i)
				return
			}
			prev = s.Last
		}
	})
	if listErr != nil {
		return listErr
	}
	var exprErr error
	tree.ForEachExpr(func(id ast.ExprID, e *ast.Expr) {
		if exprErr != nil {
			return
		}
		if e.First > e.Last && e.Last.IsValid() {
			exprErr = fmt.Errorf("expr %d (%s) has bad token range [%d, %d]", id, e.Kind, e.First, e.Last)
			return
		}
		for _, c := range tree.Exprs.Children(id) {
			ce := tree.Expr(c)
			if ce.First < e.First || ce.Last > e.Last {
				exprErr = fmt.Errorf("expr %d (%s) [%d, %d] escapes parent %d (%s) [%d, %d]",
					c, ce.Kind, ce.First, ce.Last, id, e.Kind, e.First, e.Last)
				return
			}
		}
	})
	return exprErr
}

// SpanText возвращает текст файла под спаном.
func SpanText(f *source.File, sp source.Span) string {
	if f == nil || sp.End < sp.Start || int(sp.End) > len(f.Content) {
		return ""
	}
	return string(f.Content[sp.Start:sp.End])
}
