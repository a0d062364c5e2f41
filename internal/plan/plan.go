// Package plan turns a violation into the replacement trivia run of one token.
package plan

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"trivet/internal/ast"
	"trivet/internal/token"
	"trivet/internal/trivia"
)

var (
	// ErrNotRepresentable: the violation is real but no minimal trivia edit
	// can fix it (the tokens share a line, the anchor is not first on its line).
	ErrNotRepresentable = errors.New("plan: fix not representable")
	// ErrNoop: the trivia already satisfies the requirement.
	ErrNoop = errors.New("plan: nothing to change")
)

type Kind uint8

const (
	BlankLineMissing Kind = iota
	BlankLineExtra
	ColumnMismatch
)

func (k Kind) String() string {
	switch k {
	case BlankLineMissing:
		return "blank-line-missing"
	case BlankLineExtra:
		return "blank-line-extra"
	case ColumnMismatch:
		return "column-mismatch"
	}
	return "unknown"
}

type Side uint8

const (
	Leading Side = iota
	Trailing
)

func (s Side) String() string {
	if s == Trailing {
		return "trailing"
	}
	return "leading"
}

// Violation: Token is the token whose leading trivia holds the defect (the
// later token of a blank-line gap, or the misaligned anchor). Required and
// Actual are blank-line counts or columns depending on Kind.
type Violation struct {
	Kind     Kind
	Token    ast.TokenID
	Side     Side
	Required int
	Actual   int
	// Reference is the token a ColumnMismatch anchor lines up with. A tab
	// indent on its line is copied so the two lines match in any tab width.
	Reference ast.TokenID
}

type EditPlan struct {
	Token  ast.TokenID
	Side   Side
	Trivia []token.Trivia
}

// Plan computes the replacement run for v.
func Plan(tree *ast.Tree, v Violation) (EditPlan, error) {
	tok := tree.Token(v.Token)
	if tok == nil {
		return EditPlan{}, fmt.Errorf("plan: unknown token %d: %w", v.Token, ErrNotRepresentable)
	}
	if v.Side != Leading {
		return EditPlan{}, fmt.Errorf("plan: %s edits only touch leading trivia: %w", v.Kind, ErrNotRepresentable)
	}
	var (
		run []token.Trivia
		err error
	)
	switch v.Kind {
	case BlankLineMissing:
		run, err = insertBlankLine(tree, v.Token, max(v.Required, 1))
	case BlankLineExtra:
		run, err = dropBlankLines(tree, v.Token, max(v.Required, 0))
	case ColumnMismatch:
		run, err = setColumn(tree, v.Token, v.Required, v.Reference)
	default:
		err = fmt.Errorf("plan: unknown violation kind %d: %w", v.Kind, ErrNotRepresentable)
	}
	if err != nil {
		return EditPlan{}, err
	}
	return EditPlan{Token: v.Token, Side: Leading, Trivia: run}, nil
}

// insertBlankLine вставляет переводы строк в начало первой строки внутри
// leading-trivia, пока пустых строк не станет want. Комментарии и директивы
// остаются на месте и в прежнем порядке.
func insertBlankLine(tree *ast.Tree, id ast.TokenID, want int) ([]token.Trivia, error) {
	tok := tree.Token(id)
	atStart := trivia.LeadingStartsLine(tree, id)
	info := trivia.ClassifyFrom(tok.Leading, atStart)
	if info.BlankLines >= want {
		return nil, ErrNoop
	}
	at := -1
	if atStart {
		at = 0
	} else {
		for i, tv := range tok.Leading {
			if tv.Kind == token.TriviaNewline {
				at = i + 1
				break
			}
		}
	}
	if at < 0 {
		// токены на одной строке: вставка одного перевода строки не даст пустую строку
		return nil, ErrNotRepresentable
	}
	eol := trivia.EOL(tree, id)
	out := make([]token.Trivia, 0, len(tok.Leading)+want)
	out = append(out, tok.Leading[:at]...)
	for range want - info.BlankLines {
		out = append(out, token.Newline(eol))
	}
	out = append(out, tok.Leading[at:]...)
	return out, nil
}

// dropBlankLines удаляет лишние пустые строки (вместе с их пробелами),
// оставляя первые keep.
func dropBlankLines(tree *ast.Tree, id ast.TokenID, keep int) ([]token.Trivia, error) {
	tok := tree.Token(id)
	lineStart := trivia.LeadingStartsLine(tree, id)
	out := make([]token.Trivia, 0, len(tok.Leading))
	kept := 0
	dropped := false
	pending := 0 // начало текущей строки в out
	for _, tv := range tok.Leading {
		switch tv.Kind {
		case token.TriviaSpace:
			out = append(out, tv)
		case token.TriviaNewline:
			blank := lineStart
			if blank {
				for _, x := range out[pending:] {
					if x.Kind != token.TriviaSpace {
						blank = false
						break
					}
				}
			}
			if blank && kept >= keep {
				out = out[:pending]
				dropped = true
				lineStart = true
				continue
			}
			if blank {
				kept++
			}
			out = append(out, tv)
			pending = len(out)
			lineStart = true
		default:
			out = append(out, tv)
			lineStart = false
		}
	}
	if !dropped {
		return nil, ErrNoop
	}
	return out, nil
}

// setColumn заменяет отступ после последнего перевода строки на col колонок:
// пробелы, либо табуляции строки ref и пробелы после них.
func setColumn(tree *ast.Tree, id ast.TokenID, col int, ref ast.TokenID) ([]token.Trivia, error) {
	if col < 0 {
		return nil, ErrNotRepresentable
	}
	tok := tree.Token(id)
	width, ok := trivia.Indent(tree, id)
	if !ok {
		return nil, ErrNotRepresentable
	}
	pad := token.Space(col)
	tabbed := false
	if indent := lineIndent(tree, ref); strings.ContainsRune(indent, '\t') && len(indent) <= col {
		pad.Text = indent + strings.Repeat(" ", col-len(indent))
		tabbed = true
	}
	start := 0
	for i := len(tok.Leading) - 1; i >= 0; i-- {
		if tok.Leading[i].Kind == token.TriviaNewline {
			start = i + 1
			break
		}
	}
	if width == col && (!tabbed || token.RunText(tok.Leading[start:]) == pad.Text) {
		return nil, ErrNoop
	}
	out := slices.Clone(tok.Leading[:start])
	if col > 0 {
		out = append(out, pad)
	}
	return out, nil
}

// lineIndent returns the blanks that open the line holding id.
func lineIndent(tree *ast.Tree, id ast.TokenID) string {
	tok := tree.Token(id)
	if !id.IsValid() || tok == nil || tree.File == nil {
		return ""
	}
	f := tree.File
	start := f.LineStart(f.LineOf(tok.Span.Start))
	end := start
	for end < tok.Span.Start && (f.Content[end] == ' ' || f.Content[end] == '\t') {
		end++
	}
	return string(f.Content[start:end])
}
