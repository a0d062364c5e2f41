package parser

import (
	"trivet/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precCoalesce       = 1  // ?? (правоассоциативно)
	precLogicalOr      = 2  // ||
	precLogicalAnd     = 3  // &&
	precBitwiseOr      = 4  // |
	precBitwiseXor     = 5  // ^
	precBitwiseAnd     = 6  // &
	precEquality       = 7  // == !=
	precComparison     = 8  // < <= > >= is as
	precShift          = 9  // << >>
	precAdditive       = 10 // + -
	precMultiplicative = 11 // * / %
	precRange          = 12 // ..
)

// binaryOp возвращает приоритет оператора в текущей позиции, его
// правоассоциативность и число токенов (">>" собирается из двух '>').
// prec == 0 - не бинарный оператор.
func (p *Parser) binaryOp() (prec int, rightAssoc bool, width int) {
	switch p.kind() {
	case token.QuestionQuestion:
		return precCoalesce, true, 1
	case token.OrOr:
		return precLogicalOr, false, 1
	case token.AndAnd:
		return precLogicalAnd, false, 1
	case token.Pipe:
		return precBitwiseOr, false, 1
	case token.Caret:
		return precBitwiseXor, false, 1
	case token.Amp:
		return precBitwiseAnd, false, 1
	case token.EqEq, token.BangEq:
		return precEquality, false, 1
	case token.Gt:
		if p.adjacent(p.pos, token.Gt) {
			return precShift, false, 2
		}
		return precComparison, false, 1
	case token.Lt, token.LtEq, token.GtEq, token.KwIs, token.KwAs:
		return precComparison, false, 1
	case token.Shl:
		return precShift, false, 1
	case token.Plus, token.Minus:
		return precAdditive, false, 1
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative, false, 1
	case token.DotDot:
		return precRange, false, 1
	}
	return 0, false, 0
}

// assignOp: ширина оператора присваивания в текущей позиции (0 - не присваивание).
func (p *Parser) assignOp() int {
	switch p.kind() {
	case token.Assign, token.PlusAssign, token.MinusAssign, token.StarAssign, token.SlashAssign,
		token.PercentAssign, token.AmpAssign, token.PipeAssign, token.CaretAssign, token.ShlAssign,
		token.QuestionQuestionAssign:
		return 1
	case token.Gt:
		if p.adjacent(p.pos, token.GtEq) {
			return 2 // >>=
		}
	}
	return 0
}

// adjacent: за токеном i вплотную (без trivia) следует токен вида k.
func (p *Parser) adjacent(i int, k token.Kind) bool {
	if i+1 >= len(p.toks) || p.toks[i+1].Kind != k {
		return false
	}
	return len(p.toks[i].Trailing) == 0 && len(p.toks[i+1].Leading) == 0
}

// canStartExpr: может ли токен начинать выражение (для await/throw/cast/range).
func canStartExpr(k token.Kind) bool {
	switch k {
	case token.Ident, token.IntLit, token.RealLit, token.CharLit, token.StringLit, token.InterpStringLit,
		token.KwTrue, token.KwFalse, token.KwNull, token.KwThis, token.KwBase, token.KwNew, token.KwDefault,
		token.KwTypeof, token.KwSizeof, token.KwChecked, token.KwUnchecked, token.KwDelegate, token.KwThrow,
		token.KwStackalloc, token.LParen, token.LBracket, token.Bang, token.Tilde, token.Minus, token.Plus,
		token.PlusPlus, token.MinusMinus, token.Caret, token.DotDot, token.Amp, token.Star:
		return true
	}
	return false
}
