package rules

import (
	"cmp"
	"slices"

	"trivet/internal/ast"
	"trivet/internal/token"
)

// Statements returns, in source order, the statements of statement lists
// (blocks, switch sections, top level) for which keep holds.
func Statements(tree *ast.Tree, keep func(tree *ast.Tree, id ast.StmtID) bool) []ast.StmtID {
	var out []ast.StmtID
	tree.ForEachList(func(_ ast.ListID, l *ast.List) {
		if !l.Kind.IsStatementList() {
			return
		}
		for _, id := range l.Items {
			if keep(tree, id) {
				out = append(out, id)
			}
		}
	})
	return sortBySource(tree, out)
}

// braceEdges returns the first (first=true) or last statement of every
// brace-delimited list: blocks, type bodies, braced namespaces.
func braceEdges(tree *ast.Tree, first bool) []ast.StmtID {
	var out []ast.StmtID
	tree.ForEachList(func(_ ast.ListID, l *ast.List) {
		if len(l.Items) == 0 || l.Kind == ast.ListAccessors {
			return
		}
		open := tree.Token(l.Open)
		if open == nil || open.Kind != token.LBrace {
			return
		}
		if first {
			out = append(out, l.Items[0])
		} else {
			out = append(out, l.Items[len(l.Items)-1])
		}
	})
	return sortBySource(tree, out)
}

func sortBySource(tree *ast.Tree, ids []ast.StmtID) []ast.StmtID {
	slices.SortFunc(ids, func(a, b ast.StmtID) int {
		return cmp.Compare(tree.Stmt(a).First, tree.Stmt(b).First)
	})
	return ids
}

func isReturnOrThrow(_ *ast.Tree, s *ast.Stmt) bool {
	return s.Kind == ast.StmtReturn || s.Kind == ast.StmtThrow
}

func isControl(_ *ast.Tree, s *ast.Stmt) bool {
	return s.Kind.IsControl() && s.Kind != ast.StmtFixed
}

func stmtIs(pred func(*ast.Tree, *ast.Stmt) bool) func(*ast.Tree, ast.StmtID) bool {
	return func(tree *ast.Tree, id ast.StmtID) bool {
		s := tree.Stmt(id)
		return s != nil && pred(tree, s)
	}
}
