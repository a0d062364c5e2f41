package lexer

import (
	"trivet/internal/diag"
	"trivet/internal/token"
)

// Поддержка: 123, 1_000, 0x1F, 0b1010, 1.5, .5, 1e-3, суффиксы u/l/ul (целые) и f/d/m (вещественные).
// Неверные формы - репорт, токен завершаем как есть.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	digits := func(ok func(byte) bool) int {
		n := 0
		for {
			b := lx.cursor.Peek()
			if b == '_' || ok(b) {
				if b != '_' {
					n++
				}
				lx.cursor.Bump()
				continue
			}
			return n
		}
	}
	isBin := func(b byte) bool { return b == '0' || b == '1' }

	if lx.cursor.Peek() == '0' {
		switch lx.cursor.PeekAt(1) {
		case 'x', 'X':
			lx.cursor.Bump()
			lx.cursor.Bump()
			if digits(isHex) == 0 {
				return lx.badNumber(start, "expected hex digits after 0x")
			}
			lx.scanIntSuffix()
			return lx.emit(token.IntLit, start)
		case 'b', 'B':
			lx.cursor.Bump()
			lx.cursor.Bump()
			if digits(isBin) == 0 {
				return lx.badNumber(start, "expected binary digits after 0b")
			}
			lx.scanIntSuffix()
			return lx.emit(token.IntLit, start)
		}
	}

	digits(isDec)

	// дробная часть - только если после точки цифра (иначе это member access: 1.ToString())
	if lx.isNumberAfterDot() {
		kind = token.RealLit
		lx.cursor.Bump()
		digits(isDec)
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if digits(isDec) == 0 {
			lx.cursor.Reset(mark)
			return lx.badNumber(start, "expected exponent digits")
		}
		kind = token.RealLit
	}

	switch lx.cursor.Peek() {
	case 'f', 'F', 'd', 'D', 'm', 'M':
		lx.cursor.Bump()
		kind = token.RealLit
	default:
		if kind == token.IntLit {
			lx.scanIntSuffix()
		}
	}
	return lx.emit(kind, start)
}

func (lx *Lexer) scanIntSuffix() {
	for i := 0; i < 2; i++ {
		switch lx.cursor.Peek() {
		case 'u', 'U', 'l', 'L':
			lx.cursor.Bump()
		default:
			return
		}
	}
}

func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	// доедаем хвост, чтобы не плодить мусорные идентификаторы
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexBadNumber, tok.Span, msg)
	return tok
}
