package blankline

import (
	"trivet/internal/ast"
	"trivet/internal/token"
	"trivet/internal/trivia"
)

// Context places a statement in its list. Before/After are the boundary
// tokens around it: the last token of the previous statement (or the list
// opener) and the first token of the next statement (or the list closer).
type Context struct {
	Target ast.StmtID
	List   ast.ListID
	Prev   ast.StmtID
	Next   ast.StmtID
	Before ast.TokenID
	After  ast.TokenID
}

// NewContext builds the context of a statement that belongs to a list.
func NewContext(tree *ast.Tree, target ast.StmtID) (Context, bool) {
	s := tree.Stmt(target)
	if s == nil || !s.List.IsValid() {
		return Context{}, false
	}
	l := tree.List(s.List)
	ctx := Context{
		Target: target,
		List:   s.List,
		Prev:   tree.Sibling(target, -1),
		Next:   tree.Sibling(target, 1),
	}
	if ctx.Prev.IsValid() {
		ctx.Before = tree.Stmt(ctx.Prev).Last
	} else {
		ctx.Before = l.Open
	}
	if ctx.Next.IsValid() {
		ctx.After = tree.Stmt(ctx.Next).First
	} else {
		ctx.After = l.Close
	}
	return ctx, true
}

// Verdict of one evaluation. Needs* are missing required blank lines, HasExtra*
// are forbidden blank lines that are present.
type Verdict struct {
	NeedsBlankBefore bool
	NeedsBlankAfter  bool
	HasExtraBefore   bool
	HasExtraAfter    bool
	BlankBefore      int
	BlankAfter       int
	ExemptBefore     ExemptKind
	ExemptAfter      ExemptKind
}

// Satisfied reports whether no side is violated.
func (v Verdict) Satisfied() bool {
	return !v.NeedsBlankBefore && !v.NeedsBlankAfter && !v.HasExtraBefore && !v.HasExtraAfter
}

type side uint8

const (
	before side = iota
	after
)

// Evaluate checks both sides of ctx.Target against policy.
func Evaluate(tree *ast.Tree, ctx Context, policy Policy) Verdict {
	var v Verdict
	target := tree.Stmt(ctx.Target)
	if target == nil {
		return v
	}
	if policy.Before != Ignore && ctx.Before.IsValid() {
		g := trivia.Between(tree, ctx.Before, target.First)
		v.BlankBefore = g.BlankLines
		if v.ExemptBefore = exempt(tree, ctx, policy, before, g); v.ExemptBefore == 0 {
			v.NeedsBlankBefore = policy.Before == Require && g.BlankLines == 0
			v.HasExtraBefore = policy.Before == Forbid && g.BlankLines > 0
		}
	}
	if policy.After != Ignore && ctx.After.IsValid() {
		g := trivia.Between(tree, target.Last, ctx.After)
		v.BlankAfter = g.BlankLines
		if v.ExemptAfter = exempt(tree, ctx, policy, after, g); v.ExemptAfter == 0 {
			v.NeedsBlankAfter = policy.After == Require && g.BlankLines == 0
			v.HasExtraAfter = policy.After == Forbid && g.BlankLines > 0
		}
	}
	return v
}

// exempt returns the first exemption of the table that covers the side, or 0.
func exempt(tree *ast.Tree, ctx Context, policy Policy, sd side, g trivia.Gap) ExemptKind {
	l := tree.List(ctx.List)
	inSection := l != nil && l.Kind == ast.ListSwitchSection
	for _, e := range policy.Exempt {
		ok := false
		switch e.Kind {
		case FirstInList:
			ok = sd == before && !ctx.Prev.IsValid()
		case LastInList:
			ok = sd == after && !ctx.Next.IsValid()
		case FirstInSection:
			ok = sd == before && inSection && !ctx.Prev.IsValid()
		case NextIsJump:
			ok = sd == after && inSection && ctx.Next.IsValid() && tree.Stmt(ctx.Next).Kind.IsJump()
		case PrevSameKind:
			ok = sd == before && ctx.Prev.IsValid() && e.Same != nil && e.Same(tree, ctx.Prev)
		case NextSameKind:
			ok = sd == after && ctx.Next.IsValid() && e.Same != nil && e.Same(tree, ctx.Next)
		case CommentAdjacent:
			ok = sd == before && g.CommentAdjacentToNext || sd == after && g.CommentAdjacentToPrev
		case BlockBoundary:
			if sd == before && !ctx.Prev.IsValid() {
				ok = isBrace(tree, ctx.Before, token.LBrace)
			}
			if sd == after && !ctx.Next.IsValid() {
				ok = isBrace(tree, ctx.After, token.RBrace)
			}
		}
		if ok {
			return e.Kind
		}
	}
	return 0
}

func isBrace(tree *ast.Tree, id ast.TokenID, k token.Kind) bool {
	tok := tree.Token(id)
	return tok != nil && tok.Kind == k
}
