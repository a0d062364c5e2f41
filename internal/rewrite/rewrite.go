// Package rewrite applies edit plans to a tree in one pass.
//
// Only the trivia runs named by the plans change; every other byte of the
// file is copied unchanged.
package rewrite

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"slices"

	"trivet/internal/ast"
	"trivet/internal/diag"
	"trivet/internal/parser"
	"trivet/internal/plan"
	"trivet/internal/source"
	"trivet/internal/token"
)

// ErrPlanCollision: two plans name the same token. The whole rewrite is
// dropped; the diagnostics stay.
var ErrPlanCollision = errors.New("rewrite: plans collide on one token")

type Result struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    *ast.Tree
	Edits   []diag.TextEdit
	// SyntaxErrors: число синтаксических ошибок при повторном разборе.
	SyntaxErrors int
}

// Text returns the rewritten content.
func (r *Result) Text() string { return string(r.File.Content) }

// Edits converts plans into text edits over the tree's file, ordered by offset.
func Edits(tree *ast.Tree, plans []plan.EditPlan) ([]diag.TextEdit, error) {
	seen := make(map[ast.TokenID]struct{}, len(plans))
	edits := make([]diag.TextEdit, 0, len(plans))
	for _, p := range plans {
		if _, dup := seen[p.Token]; dup {
			return nil, fmt.Errorf("%w: token %d", ErrPlanCollision, p.Token)
		}
		seen[p.Token] = struct{}{}
		tok := tree.Token(p.Token)
		if tok == nil {
			return nil, fmt.Errorf("rewrite: plan names unknown token %d", p.Token)
		}
		old := tok.Leading
		at := tok.Span.Start
		if p.Side == plan.Trailing {
			old = tok.Trailing
			at = tok.Span.End
		}
		sp := source.Span{File: tok.Span.File, Start: at, End: at}
		if s, ok := token.RunSpan(old); ok {
			sp = s
		}
		edits = append(edits, diag.TextEdit{
			Span:    sp,
			NewText: token.RunText(p.Trivia),
			OldText: token.RunText(old),
		})
	}
	slices.SortFunc(edits, func(a, b diag.TextEdit) int {
		return cmp.Compare(a.Span.Start, b.Span.Start)
	})
	return edits, nil
}

// Merge appends more to plans. When a plan of more names a token already
// planned (by plans or earlier in more), plans is returned unchanged with
// an error wrapping ErrPlanCollision.
func Merge(plans, more []plan.EditPlan) ([]plan.EditPlan, error) {
	for i, p := range more {
		same := func(q plan.EditPlan) bool { return q.Token == p.Token }
		if slices.ContainsFunc(plans, same) || slices.ContainsFunc(more[:i], same) {
			return plans, fmt.Errorf("%w: token %d", ErrPlanCollision, p.Token)
		}
	}
	return append(slices.Clip(plans), more...), nil
}

// Splice applies sorted, non-overlapping edits to content.
func Splice(content []byte, edits []diag.TextEdit) ([]byte, error) {
	var b bytes.Buffer
	b.Grow(len(content))
	var last uint32
	for _, e := range edits {
		if e.Span.Start < last || int(e.Span.End) > len(content) || e.Span.End < e.Span.Start {
			return nil, fmt.Errorf("rewrite: edit %d..%d overlaps or is out of range", e.Span.Start, e.Span.End)
		}
		if e.OldText != "" && string(content[e.Span.Start:e.Span.End]) != e.OldText {
			return nil, fmt.Errorf("rewrite: stale edit at %d", e.Span.Start)
		}
		b.Write(content[last:e.Span.Start])
		b.WriteString(e.NewText)
		last = e.Span.End
	}
	b.Write(content[last:])
	return b.Bytes(), nil
}

// Apply rewrites the tree's file with all plans atomically and re-parses the
// result. Nothing is applied on error.
func Apply(tree *ast.Tree, plans []plan.EditPlan) (*Result, error) {
	edits, err := Edits(tree, plans)
	if err != nil {
		return nil, err
	}
	content, err := Splice(tree.File.Content, edits)
	if err != nil {
		return nil, err
	}
	fs := source.NewFileSet()
	file := fs.Get(fs.Add(tree.File.Path, content, tree.File.Flags&^source.FileHasCRLF))
	bag := diag.NewBag(0)
	newTree := parser.Parse(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	errs := 0
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			errs++
		}
	}
	return &Result{FileSet: fs, File: file, Tree: newTree, Edits: edits, SyntaxErrors: errs}, nil
}
