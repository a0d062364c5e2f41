package rules

import (
	"trivet/internal/align"
	"trivet/internal/ast"
	"trivet/internal/blankline"
	"trivet/internal/diag"
)

// catalog returns a fresh copy of the shipped rules in table order.
//
// Exemptions per rule:
//
//	TRV1001  first/last in list, neighbour is also a logging call,
//	         first in a case section, jump next in a case section,
//	         comment touching the call
//	TRV1002  first in list, first in a case section
//	TRV1003  first/last in list, jump next in a case section,
//	         comment touching the statement
//	TRV1004  none (forbid only)
//	TRV1005  none (forbid only)
func catalog(logging *Logging) []Rule {
	isLog := logging.IsLogCall
	return []Rule{
		{
			Code:     diag.RuleLogCallBlankLines,
			Name:     "log-call-blank-lines",
			Subject:  "logging call",
			Severity: diag.SevWarning,
			Kind:     KindBlankLine,
			Enabled:  true,
			Select: func(tree *ast.Tree) []ast.StmtID {
				return Statements(tree, isLog)
			},
			Policy: blankline.Policy{
				Before: blankline.Require,
				After:  blankline.Require,
				Exempt: []blankline.Exemption{
					blankline.Exempt(blankline.FirstInList),
					blankline.Exempt(blankline.LastInList),
					blankline.SameKind(blankline.PrevSameKind, isLog),
					blankline.SameKind(blankline.NextSameKind, isLog),
					blankline.Exempt(blankline.FirstInSection),
					blankline.Exempt(blankline.NextIsJump),
					blankline.Exempt(blankline.CommentAdjacent),
				},
			},
		},
		{
			Code:     diag.RuleReturnBlankLineBefore,
			Name:     "return-blank-line-before",
			Subject:  "return statement",
			Severity: diag.SevWarning,
			Kind:     KindBlankLine,
			Enabled:  true,
			Select: func(tree *ast.Tree) []ast.StmtID {
				return Statements(tree, stmtIs(isReturnOrThrow))
			},
			Policy: blankline.Policy{
				Before: blankline.Require,
				Exempt: []blankline.Exemption{
					blankline.Exempt(blankline.FirstInList),
					blankline.Exempt(blankline.FirstInSection),
				},
			},
		},
		{
			Code:     diag.RuleControlBlankLines,
			Name:     "control-blank-lines",
			Subject:  "control statement",
			Severity: diag.SevWarning,
			Kind:     KindBlankLine,
			Enabled:  true,
			Select: func(tree *ast.Tree) []ast.StmtID {
				return Statements(tree, stmtIs(isControl))
			},
			Policy: blankline.Policy{
				Before: blankline.Require,
				After:  blankline.Require,
				Exempt: []blankline.Exemption{
					blankline.Exempt(blankline.FirstInList),
					blankline.Exempt(blankline.LastInList),
					blankline.Exempt(blankline.NextIsJump),
					blankline.Exempt(blankline.CommentAdjacent),
				},
			},
		},
		{
			Code:     diag.RuleBlockOpenNoBlank,
			Name:     "block-open-no-blank",
			Subject:  "first statement of a block",
			Severity: diag.SevWarning,
			Kind:     KindBlankLine,
			Enabled:  true,
			Select: func(tree *ast.Tree) []ast.StmtID {
				return braceEdges(tree, true)
			},
			Policy: blankline.Policy{Before: blankline.Forbid},
		},
		{
			Code:     diag.RuleBlockCloseNoBlank,
			Name:     "block-close-no-blank",
			Subject:  "last statement of a block",
			Severity: diag.SevWarning,
			Kind:     KindBlankLine,
			Enabled:  true,
			Select: func(tree *ast.Tree) []ast.StmtID {
				return braceEdges(tree, false)
			},
			Policy: blankline.Policy{After: blankline.Forbid},
		},
		{
			Code:     diag.RuleChainAlignment,
			Name:     "chain-alignment",
			Subject:  "chained call",
			Severity: diag.SevWarning,
			Kind:     KindAlignment,
			Enabled:  true,
			Groups:   align.Chains,
		},
		{
			Code:     diag.RuleTernaryAlignment,
			Name:     "ternary-alignment",
			Subject:  "conditional operator",
			Severity: diag.SevWarning,
			Kind:     KindAlignment,
			Enabled:  true,
			Groups:   align.Ternaries,
		},
		{
			Code:     diag.RuleBooleanOperatorAlignment,
			Name:     "boolean-operator-alignment",
			Subject:  "boolean operator",
			Severity: diag.SevWarning,
			Kind:     KindAlignment,
			Enabled:  true,
			Groups:   align.BooleanOperators,
		},
		{
			Code:     diag.RuleInitializerBraceAlignment,
			Name:     "initializer-brace-alignment",
			Subject:  "initializer brace",
			Severity: diag.SevWarning,
			Kind:     KindAlignment,
			Enabled:  true,
			Groups:   align.Initializers,
		},
	}
}
