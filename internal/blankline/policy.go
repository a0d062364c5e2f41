// Package blankline decides whether a statement has the blank-line separation
// a rule asks for. Evaluation is pure: the verdict depends only on the tree,
// the context and the policy.
package blankline

import (
	"trivet/internal/ast"
)

type Requirement uint8

const (
	Ignore Requirement = iota
	Require
	Forbid
)

func (r Requirement) String() string {
	switch r {
	case Require:
		return "require"
	case Forbid:
		return "forbid"
	}
	return "ignore"
}

type ExemptKind uint8

const (
	// FirstInList exempts the before side when the target opens its list.
	FirstInList ExemptKind = iota + 1
	// LastInList exempts the after side when the target closes its list.
	LastInList
	// FirstInSection exempts the before side of the first statement after a case label.
	FirstInSection
	// NextIsJump exempts the after side when the next statement of a switch
	// section is break/continue/return/goto/throw.
	NextIsJump
	// PrevSameKind exempts the before side when Same(prev) holds.
	PrevSameKind
	// NextSameKind exempts the after side when Same(next) holds.
	NextSameKind
	// CommentAdjacent exempts a side whose gap has a comment touching the target.
	CommentAdjacent
	// BlockBoundary exempts a side whose neighbour is the brace of a block.
	BlockBoundary
)

var exemptNames = [...]string{
	FirstInList:     "first-in-list",
	LastInList:      "last-in-list",
	FirstInSection:  "first-in-section",
	NextIsJump:      "next-is-jump",
	PrevSameKind:    "prev-same-kind",
	NextSameKind:    "next-same-kind",
	CommentAdjacent: "comment-adjacent",
	BlockBoundary:   "block-boundary",
}

func (k ExemptKind) String() string {
	if int(k) < len(exemptNames) && exemptNames[k] != "" {
		return exemptNames[k]
	}
	return "unknown"
}

// Exemption: запись таблицы исключений правила.
type Exemption struct {
	Kind ExemptKind
	// Same: предикат соседа для PrevSameKind/NextSameKind.
	Same func(tree *ast.Tree, id ast.StmtID) bool
}

func Exempt(kind ExemptKind) Exemption { return Exemption{Kind: kind} }

// SameKind builds a PrevSameKind or NextSameKind exemption.
func SameKind(kind ExemptKind, pred func(tree *ast.Tree, id ast.StmtID) bool) Exemption {
	return Exemption{Kind: kind, Same: pred}
}

type Policy struct {
	Before Requirement
	After  Requirement
	Exempt []Exemption
}
