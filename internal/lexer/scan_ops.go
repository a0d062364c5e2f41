package lexer

import (
	"trivet/internal/diag"
	"trivet/internal/token"
)

// multiOps are tried longest first. ">>" and ">>=" are absent: the lexer
// cannot tell a shift from closing nested generics (List<List<int>>), so
// the parser joins two '>' tokens instead.
var multiOps = []struct {
	text string
	kind token.Kind
}{
	{"??=", token.QuestionQuestionAssign},
	{"<<=", token.ShlAssign},
	{"??", token.QuestionQuestion},
	{"::", token.ColonColon},
	{"..", token.DotDot},
	{"->", token.Arrow},
	{"=>", token.FatArrow},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"==", token.EqEq},
	{"!=", token.BangEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"<<", token.Shl},
	{"++", token.PlusPlus},
	{"--", token.MinusMinus},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.StarAssign},
	{"/=", token.SlashAssign},
	{"%=", token.PercentAssign},
	{"&=", token.AmpAssign},
	{"|=", token.PipeAssign},
	{"^=", token.CaretAssign},
}

var singleOps = [128]token.Kind{
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash,
	'%': token.Percent, '=': token.Assign, '!': token.Bang, '<': token.Lt,
	'>': token.Gt, '&': token.Amp, '|': token.Pipe, '^': token.Caret,
	'~': token.Tilde, '?': token.Question, ':': token.Colon, ';': token.Semicolon,
	',': token.Comma, '.': token.Dot, '(': token.LParen, ')': token.RParen,
	'{': token.LBrace, '}': token.RBrace, '[': token.LBracket, ']': token.RBracket,
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	// "?.5" is '?' followed by the number .5
	if lx.cursor.Peek() == '?' && lx.cursor.PeekAt(1) == '.' && !isDec(lx.cursor.PeekAt(2)) {
		lx.cursor.Off += 2
		return lx.emit(token.QuestionDot, start)
	}
	for _, op := range multiOps {
		if lx.tryOp(op.text) {
			return lx.emit(op.kind, start)
		}
	}
	ch := lx.cursor.Bump()
	if ch < utf8RuneSelf && singleOps[ch] != token.Invalid {
		return lx.emit(singleOps[ch], start)
	}
	// '#' не в начале строки, '`', '\\', одиночный '$' ...
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character")
	return tok
}
