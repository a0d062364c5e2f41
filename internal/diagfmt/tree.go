package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"trivet/internal/ast"
	"trivet/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

// FormatTreePretty печатает синтаксическое дерево: списки, операторы и
// (с withExprs) выражения, каждый узел со своим диапазоном line:col.
func FormatTreePretty(w io.Writer, tree *ast.Tree, fs *source.FileSet, withExprs bool) error {
	if tree == nil {
		return fmt.Errorf("diagfmt: nil tree")
	}
	b := treeBuilder{tree: tree, fs: fs, exprs: withExprs}
	root := b.list(tree.Root)
	fmt.Fprintln(w, root.label)
	writeChildren(w, root.children, "")
	return nil
}

func writeChildren(w io.Writer, nodes []*treeNode, prefix string) {
	for i, n := range nodes {
		branch, next := "├─ ", "│  "
		if i == len(nodes)-1 {
			branch, next = "└─ ", "   "
		}
		fmt.Fprintln(w, prefix+branch+n.label)
		writeChildren(w, n.children, prefix+next)
	}
}

type treeBuilder struct {
	tree  *ast.Tree
	fs    *source.FileSet
	exprs bool
}

// formatSpan formats a source.Span as "startLine:startCol-endLine:endCol".
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}

// excerptOf returns the first line of the node text, shortened.
func (b treeBuilder) excerptOf(first, last ast.TokenID) string {
	var sb strings.Builder
	for id := first; id.IsValid() && id <= last; id = b.tree.Next(id) {
		tok := b.tree.Token(id)
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok.Text)
		if sb.Len() > 60 {
			break
		}
	}
	return runewidth.Truncate(sb.String(), 40, "…")
}

func (b treeBuilder) list(id ast.ListID) *treeNode {
	l := b.tree.List(id)
	if l == nil {
		return &treeNode{label: "List: <nil>"}
	}
	label := fmt.Sprintf("List[%s] depth=%d items=%d", l.Kind, l.Depth, len(l.Items))
	node := &treeNode{label: label}
	for _, item := range l.Items {
		node.children = append(node.children, b.stmt(item))
	}
	return node
}

func (b treeBuilder) stmt(id ast.StmtID) *treeNode {
	s := b.tree.Stmt(id)
	if s == nil {
		return &treeNode{label: "Stmt: <nil>"}
	}
	node := &treeNode{label: fmt.Sprintf("%s (%s) %q",
		s.Kind, formatSpan(b.tree.StmtSpan(id), b.fs), b.excerptOf(s.First, s.Last))}
	if b.exprs {
		if s.Expr.IsValid() {
			node.children = append(node.children, b.expr(s.Expr))
		}
		for _, e := range s.Exprs {
			node.children = append(node.children, b.expr(e))
		}
	}
	for _, c := range s.Children {
		node.children = append(node.children, b.stmt(c))
	}
	for _, body := range s.Bodies {
		node.children = append(node.children, b.list(body))
	}
	return node
}

func (b treeBuilder) expr(id ast.ExprID) *treeNode {
	e := b.tree.Expr(id)
	if e == nil {
		return &treeNode{label: "Expr: <nil>"}
	}
	node := &treeNode{label: fmt.Sprintf("Expr %s (%s)", e.Kind, formatSpan(b.tree.ExprSpan(id), b.fs))}
	for _, c := range b.tree.Exprs.Children(id) {
		node.children = append(node.children, b.expr(c))
	}
	if e.Body.IsValid() {
		node.children = append(node.children, b.stmt(e.Body))
	}
	return node
}
