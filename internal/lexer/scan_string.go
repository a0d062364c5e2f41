package lexer

import (
	"trivet/internal/diag"
	"trivet/internal/token"
)

// Строки: "..." (escape), @"..." ("" как кавычка), """...""" (raw, многострочные),
// интерполированные $"..{x}..", $@"..", $$"""..{{x}}..""". Многострочные формы
// остаются одним токеном; позиции считаются по индексу строк файла, не по тексту литерала.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	var ok bool
	switch {
	case lx.cursor.Peek() == '@':
		lx.cursor.Bump()
		ok = lx.scanVerbatimBody(0)
	case lx.quoteRun() >= 3:
		ok = lx.scanRawBody(lx.quoteRun(), 0)
	default:
		lx.cursor.Bump()
		ok = lx.scanRegularBody(0)
	}
	return lx.finishString(token.StringLit, start, ok)
}

func (lx *Lexer) scanInterpolated() token.Token {
	start := lx.cursor.Mark()
	verbatim := lx.cursor.Eat('@')
	dollars := 0
	for lx.cursor.Eat('$') {
		dollars++
	}
	if !verbatim {
		verbatim = lx.cursor.Eat('@')
	}

	var ok bool
	switch {
	case verbatim:
		ok = lx.scanVerbatimBody(dollars)
	case lx.quoteRun() >= 3:
		ok = lx.scanRawBody(lx.quoteRun(), dollars)
	default:
		lx.cursor.Bump()
		ok = lx.scanRegularBody(dollars)
	}
	return lx.finishString(token.InterpStringLit, start, ok)
}

func (lx *Lexer) finishString(kind token.Kind, start Mark, ok bool) token.Token {
	if ok {
		return lx.emit(kind, start)
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

func (lx *Lexer) quoteRun() int {
	var n uint32
	for lx.cursor.PeekAt(n) == '"' {
		n++
	}
	return int(n)
}

// курсор после открывающей кавычки; перевод строки внутри - ошибка (и не съедается)
func (lx *Lexer) scanRegularBody(dollars int) bool {
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == '"':
			lx.cursor.Bump()
			return true
		case b == '\\':
			lx.cursor.Bump()
			if nb := lx.cursor.Peek(); nb == '\n' || nb == '\r' {
				return false
			}
			lx.cursor.Bump()
		case b == '\n' || b == '\r':
			return false
		case b == '{' && dollars > 0:
			if lx.try2('{', '{') {
				continue
			}
			lx.cursor.Bump()
			if !lx.scanHole(1) {
				return false
			}
		default:
			lx.cursor.Bump()
		}
	}
	return false
}

// курсор на открывающей кавычке
func (lx *Lexer) scanVerbatimBody(dollars int) bool {
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == '"':
			if lx.try2('"', '"') {
				continue
			}
			lx.cursor.Bump()
			return true
		case b == '{' && dollars > 0:
			if lx.try2('{', '{') {
				continue
			}
			lx.cursor.Bump()
			if !lx.scanHole(1) {
				return false
			}
		default:
			lx.cursor.Bump()
		}
	}
	return false
}

// курсор на первой из quotes кавычек; закрывает такая же по длине серия
func (lx *Lexer) scanRawBody(quotes, dollars int) bool {
	for i := 0; i < quotes; i++ {
		lx.cursor.Bump()
	}
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == '"':
			run := lx.quoteRun()
			for i := 0; i < run; i++ {
				lx.cursor.Bump()
			}
			if run >= quotes {
				return true
			}
		case b == '{' && dollars > 0:
			run := 0
			for lx.cursor.Peek() == '{' {
				lx.cursor.Bump()
				run++
			}
			if run >= dollars {
				if !lx.scanHole(dollars) {
					return false
				}
			}
		default:
			lx.cursor.Bump()
		}
	}
	return false
}

// scanHole: курсор после открывающей фигурной скобки интерполяции.
// Закрывается closers подряд идущими '}' на нулевой глубине.
func (lx *Lexer) scanHole(closers int) bool {
	depth := 0
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '"' || (b == '@' && lx.cursor.PeekAt(1) == '"'):
			lx.scanString()
		case b == '$' && lx.isInterpolationStart(), b == '@' && lx.cursor.PeekAt(1) == '$':
			lx.scanInterpolated()
		case b == '\'':
			lx.scanChar()
		case b == '(' || b == '[' || b == '{':
			depth++
			lx.cursor.Bump()
		case b == ')' || b == ']':
			depth--
			lx.cursor.Bump()
		case b == '}':
			lx.cursor.Bump()
			if depth > 0 {
				depth--
				continue
			}
			for i := 1; i < closers && lx.cursor.Peek() == '}'; i++ {
				lx.cursor.Bump()
			}
			return true
		default:
			lx.cursor.Bump()
		}
	}
	return false
}

// 'a', '\n', 'A'
func (lx *Lexer) scanChar() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\''
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == '\'':
			lx.cursor.Bump()
			return lx.emit(token.CharLit, start)
		case b == '\\':
			lx.cursor.Bump()
			if nb := lx.cursor.Peek(); nb != '\n' && nb != '\r' {
				lx.cursor.Bump()
			}
		case b == '\n' || b == '\r':
			return lx.unterminatedChar(start)
		default:
			lx.bumpRune()
		}
	}
	return lx.unterminatedChar(start)
}

func (lx *Lexer) unterminatedChar(start Mark) token.Token {
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedChar, tok.Span, "unterminated character literal")
	return tok
}
