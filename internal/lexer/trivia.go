package lexer

import (
	"strings"
	"unicode/utf8"

	"trivet/internal/diag"
	"trivet/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
//   - ' ', '\t', '\v', '\f' коалесцируются в один TriviaSpace
//   - каждый перевод строки - отдельный TriviaNewline ("\r\n" целиком)
//   - //... и /*...*/ -> комментарии, /// и /** */ -> TriviaDocComment
//   - '#' первым непробельным на строке -> TriviaDirective до конца строки
//   - битые байты и управляющие символы -> TriviaSkipped
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = nil
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case isBlank(b):
			lx.hold = append(lx.hold, lx.scanSpace())
		case b == '\n' || b == '\r':
			lx.hold = append(lx.hold, lx.scanNewline())
			lx.lineStart = true
		case b == '/':
			tv, ok := lx.scanComment()
			if !ok {
				return
			}
			lx.hold = append(lx.hold, tv)
			lx.lineStart = false
		case b == '#' && lx.lineStart:
			lx.hold = append(lx.hold, lx.scanDirective())
			lx.lineStart = false
		case lx.isSkippable():
			lx.hold = append(lx.hold, lx.scanSkipped())
		default:
			return
		}
	}
}

// collectTrailingTrivia собирает пробелы и комментарии после токена до первого
// перевода строки включительно.
func (lx *Lexer) collectTrailingTrivia() []token.Trivia {
	var out []token.Trivia
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case isBlank(b):
			out = append(out, lx.scanSpace())
		case b == '\n' || b == '\r':
			out = append(out, lx.scanNewline())
			lx.lineStart = true
			return out
		case b == '/':
			tv, ok := lx.scanComment()
			if !ok {
				return out
			}
			out = append(out, tv)
		default:
			return out
		}
	}
	return out
}

func (lx *Lexer) trivia(kind token.TriviaKind, start Mark) token.Trivia {
	sp := lx.cursor.SpanFrom(start)
	return token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) scanSpace() token.Trivia {
	start := lx.cursor.Mark()
	for isBlank(lx.cursor.Peek()) && !lx.cursor.EOF() {
		lx.cursor.Bump()
	}
	return lx.trivia(token.TriviaSpace, start)
}

func (lx *Lexer) scanNewline() token.Trivia {
	start := lx.cursor.Mark()
	if !lx.try2('\r', '\n') {
		lx.cursor.Bump()
	}
	return lx.trivia(token.TriviaNewline, start)
}

// scanComment: //, ///, /* */, /** */. ok=false - это оператор '/'.
func (lx *Lexer) scanComment() (token.Trivia, bool) {
	start := lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' || (b1 != '/' && b1 != '*') {
		return token.Trivia{}, false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()

	if b1 == '/' {
		kind := token.TriviaLineComment
		// "///" - документация, "////" - снова обычный комментарий
		if lx.cursor.Peek() == '/' && lx.cursor.PeekAt(1) != '/' {
			kind = token.TriviaDocComment
		}
		lx.skipToLineEnd()
		return lx.trivia(kind, start), true
	}

	kind := token.TriviaBlockComment
	if b2 := lx.cursor.Peek(); b2 == '*' && lx.cursor.PeekAt(1) != '/' {
		kind = token.TriviaDocComment
	}
	for !lx.cursor.EOF() {
		if lx.try2('*', '/') {
			return lx.trivia(kind, start), true
		}
		lx.cursor.Bump()
	}
	tv := lx.trivia(kind, start)
	lx.errLex(diag.LexUnterminatedBlockComment, tv.Span, "unterminated block comment")
	return tv, true
}

func (lx *Lexer) scanDirective() token.Trivia {
	start := lx.cursor.Mark()
	lx.skipToLineEnd()
	tv := lx.trivia(token.TriviaDirective, start)

	body := strings.TrimSpace(strings.TrimPrefix(tv.Text, "#"))
	name, payload := body, ""
	if i := strings.IndexAny(body, " \t"); i >= 0 {
		name, payload = body[:i], strings.TrimSpace(body[i+1:])
	}
	tv.Directive = &token.Directive{Name: name, Payload: payload}
	return tv
}

func (lx *Lexer) isSkippable() bool {
	b := lx.cursor.Peek()
	if b < 0x20 || b == 0x7f {
		return true
	}
	if b < utf8RuneSelf {
		return false
	}
	r, _ := lx.peekRune()
	return r == utf8.RuneError
}

func (lx *Lexer) scanSkipped() token.Trivia {
	start := lx.cursor.Mark()
	if lx.cursor.Peek() < utf8RuneSelf {
		lx.cursor.Bump()
	} else {
		lx.bumpRune()
	}
	tv := lx.trivia(token.TriviaSkipped, start)
	if lx.cursor.File.Content[tv.Span.Start] >= utf8RuneSelf {
		lx.errLex(diag.LexInvalidUTF8, tv.Span, "invalid UTF-8 sequence")
	} else {
		lx.errLex(diag.LexUnknownChar, tv.Span, "unexpected control character")
	}
	return tv
}

func (lx *Lexer) skipToLineEnd() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' || b == '\r' {
			return
		}
		lx.cursor.Bump()
	}
}
