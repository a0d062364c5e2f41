package lexer

import (
	"trivet/internal/diag"
	"trivet/internal/token"
)

// scanIdentOrKeyword сканирует [Ident] и проверяет через LookupKeyword.
// Token.Text - ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 {
		return lx.emit(token.Invalid, start)
	}
	if r < utf8RuneSelf {
		lx.cursor.Bump()
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		// хвост может продолжиться Unicode-буквами
		lx.scanIdentTail()
	} else {
		if !isIdentStartRune(r) {
			lx.bumpRune()
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexUnknownChar, tok.Span, "unexpected character")
			return tok
		}
		lx.bumpRune()
		lx.scanIdentTail()
	}

	tok := lx.emit(token.Ident, start)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}

func (lx *Lexer) scanIdentTail() {
	for {
		r, sz := lx.peekRune()
		if sz == 0 || !isIdentContinueRune(r) {
			return
		}
		lx.bumpRune()
	}
}

// scanAt: @ident (никогда не ключевое слово), @"...", @$"...".
func (lx *Lexer) scanAt() token.Token {
	start := lx.cursor.Mark()
	switch next := lx.cursor.PeekAt(1); {
	case next == '"':
		return lx.scanString()
	case next == '$':
		return lx.scanInterpolated()
	case isIdentStartByte(next) || next >= utf8RuneSelf:
		lx.cursor.Bump() // '@'
		r, _ := lx.peekRune()
		if isIdentStartRune(r) {
			lx.bumpRune()
			lx.scanIdentTail()
			return lx.emit(token.Ident, start)
		}
	}
	lx.cursor.Reset(start)
	lx.cursor.Bump()
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "stray '@'")
	return tok
}
