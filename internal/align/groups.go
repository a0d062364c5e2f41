package align

import (
	"slices"

	"trivet/internal/ast"
	"trivet/internal/position"
	"trivet/internal/token"
)

// Constructors of the groups used by the shipped alignment rules. Each
// walks the whole tree and returns groups in allocation order.

func isChainLink(tree *ast.Tree, e *ast.Expr) bool {
	switch e.Kind {
	case ast.ExprMember, ast.ExprCall, ast.ExprIndex:
		return true
	case ast.ExprPostfix:
		return tree.Token(e.Op).Kind == token.Bang
	}
	return false
}

func isChainDot(tree *ast.Tree, e *ast.Expr) bool {
	if e.Kind != ast.ExprMember {
		return false
	}
	k := tree.Token(e.Op).Kind
	return k == token.Dot || k == token.QuestionDot
}

// Chains: one group per member-access chain, starting at the '.' of the first
// member call. The first anchor is the reference.
func Chains(tree *ast.Tree) []Group {
	var out []Group
	tree.ForEachExpr(func(id ast.ExprID, e *ast.Expr) {
		if !isChainLink(tree, e) {
			return
		}
		if parent := tree.Expr(e.Parent); parent != nil && isChainLink(tree, parent) && parent.Left == id {
			return // не голова цепочки
		}
		var links []ast.ExprID
		for cur := id; cur.IsValid(); {
			x := tree.Expr(cur)
			if !isChainLink(tree, x) {
				break
			}
			links = append(links, cur)
			cur = x.Left
		}
		slices.Reverse(links)

		var anchors []ast.TokenID
		for _, l := range links {
			x := tree.Expr(l)
			if !isChainDot(tree, x) {
				continue
			}
			if len(anchors) == 0 {
				call := tree.Expr(x.Parent)
				if call == nil || call.Kind != ast.ExprCall || call.Left != l {
					continue // до первого вызова
				}
			}
			anchors = append(anchors, x.Op)
		}
		if len(anchors) < 2 {
			return
		}
		out = append(out, Group{Anchors: anchors, Reference: FirstAnchor(), Depth: tree.ExprDepth(id)})
	})
	return out
}

// Ternaries: '?' and ':' against the first token of the condition.
func Ternaries(tree *ast.Tree) []Group {
	var out []Group
	tree.ForEachExpr(func(id ast.ExprID, e *ast.Expr) {
		if e.Kind != ast.ExprConditional || !e.Left.IsValid() {
			return
		}
		anchors := []ast.TokenID{e.Op}
		if e.Op2.IsValid() {
			anchors = append(anchors, e.Op2)
		}
		out = append(out, Group{
			Anchors:   anchors,
			Reference: At(tree.Expr(e.Left).First, 0),
			Depth:     tree.ExprDepth(id),
		})
	})
	return out
}

func isLogical(tree *ast.Tree, e *ast.Expr) bool {
	if e == nil || e.Kind != ast.ExprBinary {
		return false
	}
	k := tree.Token(e.Op).Kind
	return k == token.AndAnd || k == token.OrOr
}

// BooleanOperators: the '&&' / '||' operators of one logical expression (a
// parenthesised operand starts its own group). The operator belongs one
// column left of the first operand; the operand column itself is accepted.
func BooleanOperators(tree *ast.Tree) []Group {
	var out []Group
	tree.ForEachExpr(func(id ast.ExprID, e *ast.Expr) {
		if !isLogical(tree, e) || isLogical(tree, tree.Expr(e.Parent)) {
			return
		}
		var anchors []ast.TokenID
		var walk func(ast.ExprID)
		walk = func(cur ast.ExprID) {
			x := tree.Expr(cur)
			if !isLogical(tree, x) {
				return
			}
			walk(x.Left)
			anchors = append(anchors, x.Op)
			walk(x.Right)
		}
		walk(id)
		out = append(out, Group{
			Anchors:   anchors,
			Reference: At(e.First, -1),
			Slack:     1,
			Depth:     tree.ExprDepth(id),
		})
	})
	return out
}

// Initializers: the braces of an object/collection initializer against the
// first token on the line that holds 'new'.
func Initializers(tree *ast.Tree) []Group {
	var out []Group
	tree.ForEachExpr(func(id ast.ExprID, e *ast.Expr) {
		if e.Kind != ast.ExprNew || !e.Init.IsValid() {
			return
		}
		init := tree.Expr(e.Init)
		anchors := []ast.TokenID{init.Op}
		if init.Op2.IsValid() {
			anchors = append(anchors, init.Op2)
		}
		out = append(out, Group{
			Anchors:   anchors,
			Reference: At(LineHead(tree, e.Op), 0),
			Depth:     tree.ExprDepth(id),
		})
	})
	return out
}

// LineHead returns the first token that starts on the line where id starts.
func LineHead(tree *ast.Tree, id ast.TokenID) ast.TokenID {
	line := position.Of(tree, id).Line
	head := id
	for prev := tree.Prev(head); prev.IsValid() && position.Of(tree, prev).Line == line; prev = tree.Prev(prev) {
		head = prev
	}
	return head
}
