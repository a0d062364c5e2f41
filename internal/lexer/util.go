package lexer

import (
	"unicode"
	"unicode/utf8"
)

const utf8RuneSelf = utf8.RuneSelf

// peekRune decodes the rune at the cursor; size is 0 at EOF.
func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	if b := lx.cursor.Peek(); b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
}

func (lx *Lexer) bumpRune() {
	if _, sz := lx.peekRune(); sz > 0 {
		lx.cursor.Off += uint32(sz) // sz <= utf8.UTFMax
	}
}

// tryOp consumes op when the input continues with it.
func (lx *Lexer) tryOp(op string) bool {
	for i := range len(op) {
		if lx.cursor.PeekAt(uint32(i)) != op[i] {
			return false
		}
	}
	lx.cursor.Off += uint32(len(op))
	return true
}

// try2 consumes the pair a, b.
func (lx *Lexer) try2(a, b byte) bool {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != a || b1 != b {
		return false
	}
	lx.cursor.Off += 2
	return true
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\v' || b == '\f'
}

func isDec(b byte) bool { return '0' <= b && b <= '9' }

func isHex(b byte) bool {
	return isDec(b) || ('a' <= b && b <= 'f') || ('A' <= b && b <= 'F')
}

func isIdentStartByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isIdentContinueByte(b byte) bool { return isIdentStartByte(b) || isDec(b) }

func isIdentStartRune(r rune) bool { return r == '_' || unicode.IsLetter(r) }

// C# also allows combining marks (Mn) inside identifiers.
func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// isNumberAfterDot matches ".5".
func (lx *Lexer) isNumberAfterDot() bool {
	return lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1))
}

// isInterpolationStart matches $" $@" $$""" and the like.
func (lx *Lexer) isInterpolationStart() bool {
	var i uint32
	for lx.cursor.PeekAt(i) == '$' {
		i++
	}
	if lx.cursor.PeekAt(i) == '@' {
		i++
	}
	return i > 0 && lx.cursor.PeekAt(i) == '"'
}
