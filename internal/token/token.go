package token

import (
	"trivet/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind     Kind
	Span     source.Span
	Text     string
	Leading  []Trivia
	Trailing []Trivia
}

// FullSpan covers the token together with its leading and trailing trivia.
func (t Token) FullSpan() source.Span {
	sp := t.Span
	if lead, ok := RunSpan(t.Leading); ok {
		sp = lead.Cover(sp)
	}
	if trail, ok := RunSpan(t.Trailing); ok {
		sp = sp.Cover(trail)
	}
	return sp
}

// FullText is the token text with all its trivia.
func (t Token) FullText() string {
	return RunText(t.Leading) + t.Text + RunText(t.Trailing)
}

// IsLiteral reports whether the token is a numeric, character, string or keyword literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, RealLit, CharLit, StringLit, InterpStringLit, KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	return t.Kind >= Plus && t.Kind <= RBracket
}

// IsKeyword reports whether the token is a reserved keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwAbstract && t.Kind <= KwWhile
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsJump reports whether the keyword leaves the current statement list.
func (k Kind) IsJump() bool {
	switch k {
	case KwBreak, KwContinue, KwReturn, KwGoto, KwThrow:
		return true
	}
	return false
}
