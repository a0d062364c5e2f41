// Package verify re-parses fixed content with an independent C# grammar
// before it is written. Fixes only touch whitespace, so a file that parsed
// cleanly must still parse cleanly afterwards.
package verify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"trivet/internal/diag"
	"trivet/internal/parser"
	"trivet/internal/source"
)

// ErrSyntax reports content the grammar rejects.
var ErrSyntax = errors.New("verify: syntax error")

// Report: результат разбора одного содержимого.
type Report struct {
	// Errors: число ERROR/MISSING узлов tree-sitter.
	Errors int
	// First: позиция первого такого узла (0-based строка и байтовая колонка).
	FirstRow, FirstColumn uint32
	// Native: число синтаксических ошибок собственного парсера.
	Native int
}

// Clean reports whether both parsers accepted the content.
func (r Report) Clean() bool { return r.Errors == 0 && r.Native == 0 }

// sitter.Parser не потокобезопасен, держим пул.
var parsers = sync.Pool{
	New: func() any {
		p := sitter.NewParser()
		p.SetLanguage(csharp.GetLanguage())
		return p
	},
}

// Check parses content with both the tree-sitter grammar and the native parser.
func Check(ctx context.Context, content []byte) (Report, error) {
	var rep Report
	p := parsers.Get().(*sitter.Parser)
	defer parsers.Put(p)

	tree, err := p.ParseCtx(ctx, nil, content)
	if err != nil {
		return rep, fmt.Errorf("verify: parse: %w", err)
	}
	defer tree.Close()
	root := tree.RootNode()
	if root.HasError() {
		countErrors(root, &rep)
	}

	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("verify.cs", content))
	bag := diag.NewBag(0)
	parser.Parse(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	rep.Native = bag.Len()
	return rep, nil
}

func countErrors(n *sitter.Node, rep *Report) {
	if n.IsError() || n.IsMissing() {
		if rep.Errors == 0 {
			pt := n.StartPoint()
			rep.FirstRow, rep.FirstColumn = pt.Row, pt.Column
		}
		rep.Errors++
		return
	}
	if !n.HasError() {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		countErrors(n.Child(i), rep)
	}
}

// Rewrite rejects an edit that makes content parse worse than before.
// Files that were already broken only have to stay no worse.
func Rewrite(ctx context.Context, file *source.File, after []byte) error {
	before, err := Check(ctx, file.Content)
	if err != nil {
		return err
	}
	now, err := Check(ctx, after)
	if err != nil {
		return err
	}
	if now.Errors > before.Errors {
		return fmt.Errorf("%w at %d:%d (%d new error nodes)",
			ErrSyntax, now.FirstRow+1, now.FirstColumn+1, now.Errors-before.Errors)
	}
	if now.Native > before.Native {
		return fmt.Errorf("%w: %d new parser errors", ErrSyntax, now.Native-before.Native)
	}
	return nil
}
