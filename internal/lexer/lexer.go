package lexer

import (
	"trivet/internal/source"
	"trivet/internal/token"
)

type Lexer struct {
	file      *source.File
	cursor    Cursor
	opts      Options
	look      *token.Token   // 1 элементный буфер для токена
	hold      []token.Trivia // накопленные leading trivia
	lineStart bool           // курсор в начале строки: '#' здесь открывает директиву
	done      bool           // EOF уже выдан
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:      file,
		cursor:    NewCursor(file),
		opts:      opts,
		lineStart: true,
	}
}

// Tokenize lexes the whole file. The last token is always EOF and carries the
// trivia that follows the last significant token.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	out := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

// Next возвращает следующий значимый токен с собранными Leading и Trailing.
// Первый EOF получает оставшиеся trivia, последующие EOF пустые.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	if lx.done {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		lx.done = true
		tok := token.Token{Kind: token.EOF, Span: lx.emptySpan(), Leading: lx.hold}
		lx.hold = nil
		return tok
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()

	case ch == '@':
		// @ident, @"verbatim", @$"interpolated"
		tok = lx.scanAt()

	case ch >= utf8RuneSelf:
		// возможный Unicode идентификатор; иначе Invalid
		tok = lx.scanIdentOrKeyword()

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '.' && lx.isNumberAfterDot():
		tok = lx.scanNumber()

	case ch == '"':
		tok = lx.scanString()

	case ch == '$' && lx.isInterpolationStart():
		tok = lx.scanInterpolated()

	case ch == '\'':
		tok = lx.scanChar()

	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil
	lx.lineStart = false
	tok.Trailing = lx.collectTrailingTrivia()
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: lx.text(sp)}
}
