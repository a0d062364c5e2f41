// Package trivia classifies the whitespace, line breaks, comments and
// directives that surround tokens.
//
// A blank line is a line holding nothing but whitespace. Whitespace that
// precedes a line break on a line with other content is noise, and whitespace
// before a token on its own line is indentation. A line that holds only a
// comment is neither blank nor code.
package trivia

import (
	"strings"
	"unicode/utf8"

	"trivet/internal/ast"
	"trivet/internal/token"
)

// RunInfo summarises one trivia run.
type RunInfo struct {
	BlankLines   int
	Newlines     int
	HasComment   bool
	HasDirective bool
	// IndentWidth: ширина пробелов перед токеном на его строке, в рунах.
	// Имеет смысл только при StartsLine.
	IndentWidth int
	// StartsLine: after the run the owning token is the first thing on its line.
	StartsLine bool
}

// Classify summarises a leading run, assuming it begins at a line start (the
// previous token's trailing trivia ended with a line break).
func Classify(run []token.Trivia) RunInfo {
	return ClassifyFrom(run, true)
}

// ClassifyFrom summarises run; atLineStart tells whether the run begins at the
// start of a line.
func ClassifyFrom(run []token.Trivia, atLineStart bool) RunInfo {
	var info RunInfo
	content := !atLineStart
	indent := 0
	for _, tv := range run {
		switch tv.Kind {
		case token.TriviaSpace:
			indent += utf8.RuneCountInString(tv.Text)
		case token.TriviaNewline:
			if !content {
				info.BlankLines++
			}
			info.Newlines++
			content = false
			indent = 0
		default:
			if tv.Kind.IsComment() {
				info.HasComment = true
			}
			if tv.Kind == token.TriviaDirective {
				info.HasDirective = true
			}
			info.Newlines += strings.Count(tv.Text, "\n")
			content = true
			indent = 0
		}
	}
	info.StartsLine = !content
	if info.StartsLine {
		info.IndentWidth = indent
	}
	return info
}

// EndsWithNewline reports whether the last item of run is a line break.
func EndsWithNewline(run []token.Trivia) bool {
	return len(run) > 0 && run[len(run)-1].Kind == token.TriviaNewline
}

// LeadingStartsLine reports whether the leading run of token id begins at a
// line start: the token is the first in the file or the previous token's
// trailing trivia ends with a line break.
func LeadingStartsLine(tree *ast.Tree, id ast.TokenID) bool {
	prev := tree.Token(tree.Prev(id))
	if prev == nil {
		return true
	}
	return EndsWithNewline(prev.Trailing)
}

// FirstOnLine reports whether nothing but whitespace precedes token id on its line.
func FirstOnLine(tree *ast.Tree, id ast.TokenID) bool {
	_, ok := Indent(tree, id)
	return ok
}

// Indent returns the indentation width of token id in runes. ok is false when
// the token is not the first thing on its line.
func Indent(tree *ast.Tree, id ast.TokenID) (int, bool) {
	tok := tree.Token(id)
	if tok == nil {
		return 0, false
	}
	info := ClassifyFrom(tok.Leading, LeadingStartsLine(tree, id))
	if !info.StartsLine {
		return 0, false
	}
	return info.IndentWidth, true
}

// EOL returns the line terminator used right before token id, falling back
// to the first terminator in the file and then to "\n".
func EOL(tree *ast.Tree, id ast.TokenID) string {
	for cur := id; cur.IsValid(); cur = tree.Prev(cur) {
		tok := tree.Token(cur)
		if eol := lastNewline(tok.Leading); eol != "" {
			return eol
		}
		if prev := tree.Token(tree.Prev(cur)); prev != nil {
			if eol := lastNewline(prev.Trailing); eol != "" {
				return eol
			}
		}
	}
	for i := range tree.Tokens {
		if eol := lastNewline(tree.Tokens[i].Trailing); eol != "" {
			return eol
		}
	}
	return "\n"
}

func lastNewline(run []token.Trivia) string {
	for i := len(run) - 1; i >= 0; i-- {
		if run[i].Kind == token.TriviaNewline {
			return run[i].Text
		}
	}
	return ""
}
