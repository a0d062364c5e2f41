package testkit

import (
	"trivet/internal/ast"
	"trivet/internal/diag"
	"trivet/internal/parser"
	"trivet/internal/source"
)

// Parsed: результат разбора виртуального файла для тестов.
type Parsed struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    *ast.Tree
	Bag     *diag.Bag
}

// ParseSource разбирает src как виртуальный файл name.
func ParseSource(name, src string) *Parsed {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, []byte(src)))
	bag := diag.NewBag(0)
	tree := parser.Parse(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	return &Parsed{FileSet: fs, File: file, Tree: tree, Bag: bag}
}

// FindToken возвращает первый токен с данным текстом, начиная с n-го вхождения (0-based).
func FindToken(tree *ast.Tree, text string, n int) ast.TokenID {
	for i := range tree.Tokens {
		if tree.Tokens[i].Text != text {
			continue
		}
		if n == 0 {
			return ast.TokenID(i + 1)
		}
		n--
	}
	return ast.NoTokenID
}

// FindStmts: все операторы данного вида в порядке размещения.
func FindStmts(tree *ast.Tree, kind ast.StmtKind) []ast.StmtID {
	var out []ast.StmtID
	for id := ast.StmtID(1); int(id) <= int(tree.Stmts.Arena.Len()); id++ {
		if tree.Stmt(id).Kind == kind {
			out = append(out, id)
		}
	}
	return out
}

// FindExprs: все выражения данного вида в порядке размещения.
func FindExprs(tree *ast.Tree, kind ast.ExprKind) []ast.ExprID {
	var out []ast.ExprID
	tree.ForEachExpr(func(id ast.ExprID, e *ast.Expr) {
		if e.Kind == kind {
			out = append(out, id)
		}
	})
	return out
}
