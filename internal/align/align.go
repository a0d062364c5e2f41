// Package align compares the columns of related tokens (anchors) against a
// reference column.
package align

import (
	"cmp"
	"slices"

	"trivet/internal/ast"
	"trivet/internal/position"
	"trivet/internal/trivia"
)

type Status uint8

const (
	Match Status = iota
	TooFarLeft
	TooFarRight
	// SameLine: the anchor is not the first token on its line and is exempt.
	SameLine
)

var statusNames = [...]string{
	Match:       "match",
	TooFarLeft:  "too-far-left",
	TooFarRight: "too-far-right",
	SameLine:    "same-line",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

type ReferenceKind uint8

const (
	// RefFirstAnchor: the first anchor defines the column and is not judged itself.
	RefFirstAnchor ReferenceKind = iota
	// RefToken: the column of Token plus Offset; every anchor is judged.
	RefToken
)

type Reference struct {
	Kind   ReferenceKind
	Token  ast.TokenID
	Offset int
}

// FirstAnchor is the reference used by call chains.
func FirstAnchor() Reference { return Reference{Kind: RefFirstAnchor} }

// At references the column of tok shifted by offset.
func At(tok ast.TokenID, offset int) Reference {
	return Reference{Kind: RefToken, Token: tok, Offset: offset}
}

// Group: набор якорей одной конструкции в порядке исходника.
type Group struct {
	Rule      string
	Anchors   []ast.TokenID
	Reference Reference
	// Slack: сколько колонок правее Expected ещё допустимо.
	Slack int
	// Depth: глубина вложенности конструкции; глубже обрабатывается раньше.
	Depth int
}

type Verdict struct {
	Anchor   ast.TokenID
	Status   Status
	Expected int
	Actual   int
	Delta    int // Actual - Expected
	// Target: колонка, в которую надо сдвинуть якорь: Expected, прижатый к
	// окну [Expected, Expected+Slack].
	Target int
	Line   int
}

// Ok reports whether the anchor needs no change.
func (v Verdict) Ok() bool { return v.Status == Match || v.Status == SameLine }

// ReferenceColumn returns the expected column of the group. ok is false when
// the group has no usable reference.
func ReferenceColumn(tree *ast.Tree, g Group) (col int, ok bool) {
	switch g.Reference.Kind {
	case RefFirstAnchor:
		if len(g.Anchors) == 0 {
			return 0, false
		}
		return position.Of(tree, g.Anchors[0]).Column, true
	case RefToken:
		if tree.Token(g.Reference.Token) == nil {
			return 0, false
		}
		col = position.Of(tree, g.Reference.Token).Column + g.Reference.Offset
		return col, col >= 0
	}
	return 0, false
}

// Analyze judges every anchor of g. With RefFirstAnchor the first anchor is
// the reference and gets no verdict. A group without a reference yields nil.
func Analyze(tree *ast.Tree, g Group) []Verdict {
	expected, ok := ReferenceColumn(tree, g)
	if !ok {
		return nil
	}
	anchors := g.Anchors
	if g.Reference.Kind == RefFirstAnchor {
		anchors = anchors[1:]
	}
	out := make([]Verdict, 0, len(anchors))
	for _, a := range anchors {
		pos := position.Of(tree, a)
		v := Verdict{Anchor: a, Expected: expected, Actual: pos.Column, Line: pos.Line}
		v.Delta = v.Actual - v.Expected
		v.Target = min(max(v.Actual, expected), expected+g.Slack)
		switch {
		case !trivia.FirstOnLine(tree, a):
			v.Status = SameLine
			v.Target = v.Actual
		case v.Actual < expected:
			v.Status = TooFarLeft
		case v.Actual > expected+g.Slack:
			v.Status = TooFarRight
		default:
			v.Status = Match
		}
		out = append(out, v)
	}
	return out
}

// Result pairs a group with its verdicts.
type Result struct {
	Group    Group
	Verdicts []Verdict
}

// AnalyzeNested analyses groups independently, innermost first. Groups of the
// same depth keep their relative order.
func AnalyzeNested(tree *ast.Tree, groups []Group) []Result {
	order := slices.Clone(groups)
	slices.SortStableFunc(order, func(a, b Group) int {
		return cmp.Compare(b.Depth, a.Depth)
	})
	out := make([]Result, 0, len(order))
	for _, g := range order {
		out = append(out, Result{Group: g, Verdicts: Analyze(tree, g)})
	}
	return out
}
