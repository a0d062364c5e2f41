package parser

import (
	"trivet/internal/token"
)

// scanType: чистый lookahead: пытается распознать тип, начиная с токена i.
// Возвращает индекс первого токена после типа.
//
//	Name, A.B, A::B, List<T>, (int, string), T?, T*, T[], T[,]
func (p *Parser) scanType(i int) (int, bool) {
	switch p.kindAt(i) {
	case token.LParen:
		j, ok := p.scanTupleType(i)
		if !ok {
			return i, false
		}
		i = j
	case token.Ident, token.KwVoid:
		i++
		for {
			if p.kindAt(i) == token.Lt {
				if j, ok := p.scanTypeArgs(i); ok {
					i = j
				}
			}
			if (p.kindAt(i) == token.Dot || p.kindAt(i) == token.ColonColon) && p.kindAt(i+1) == token.Ident {
				i += 2
				continue
			}
			break
		}
	default:
		return i, false
	}
	for {
		switch p.kindAt(i) {
		case token.Question, token.Star:
			i++
			continue
		case token.LBracket:
			j := i + 1
			for p.kindAt(j) == token.Comma {
				j++
			}
			if p.kindAt(j) == token.RBracket {
				i = j + 1
				continue
			}
		}
		return i, true
	}
}

func (p *Parser) scanTupleType(i int) (int, bool) {
	j := i + 1
	elems := 0
	for {
		k, ok := p.scanType(j)
		if !ok {
			return i, false
		}
		j = k
		elems++
		if p.kindAt(j) == token.Ident {
			j++ // имя элемента
		}
		switch p.kindAt(j) {
		case token.Comma:
			j++
			continue
		case token.RParen:
			if elems < 2 {
				return i, false
			}
			return j + 1, true
		}
		return i, false
	}
}

// scanTypeArgs: '<' T (, T)* '>'; допускает пустые аргументы (Dictionary<,>).
func (p *Parser) scanTypeArgs(i int) (int, bool) {
	j := i + 1
	for {
		if k, ok := p.scanType(j); ok {
			j = k
		}
		switch p.kindAt(j) {
		case token.Comma:
			j++
		case token.Gt:
			return j + 1, true
		default:
			return i, false
		}
	}
}

// genericCallAhead: в позиции '<' стоит список аргументов типа, за которым
// идёт то, что не может продолжать сравнение.
func (p *Parser) genericArgsAhead() (int, bool) {
	end, ok := p.scanTypeArgs(p.pos)
	if !ok {
		return p.pos, false
	}
	switch p.kindAt(end) {
	case token.LParen, token.Dot, token.QuestionDot, token.RParen, token.Comma, token.Semicolon,
		token.RBracket, token.RBrace, token.ColonColon, token.LBrace:
		return end, true
	}
	return p.pos, false
}

// lambdaAhead: '(' ... ')' '=>'
func (p *Parser) lambdaAhead() bool {
	if !p.at(token.LParen) {
		return false
	}
	m := p.matchIndex(p.pos)
	return m > 0 && p.kindAt(m+1) == token.FatArrow
}

// castAhead: '(' Type ')' за которым начинается операнд.
func (p *Parser) castAhead() bool {
	if !p.at(token.LParen) {
		return false
	}
	m := p.matchIndex(p.pos)
	if m < 0 {
		return false
	}
	end, ok := p.scanType(p.pos + 1)
	if !ok || end != m {
		return false
	}
	switch p.kindAt(m + 1) {
	case token.Ident, token.IntLit, token.RealLit, token.CharLit, token.StringLit, token.InterpStringLit,
		token.KwTrue, token.KwFalse, token.KwNull, token.KwThis, token.KwBase, token.KwNew, token.KwTypeof,
		token.KwDefault, token.KwSizeof, token.LParen, token.Bang, token.Tilde:
		return true
	}
	return false
}

var localModifiers = map[string]bool{"async": true, "scoped": true}

// declKind: что начинается в текущей позиции оператора.
type declKind uint8

const (
	declNone declKind = iota
	declVariable
	declFunction
)

// localDeclAhead различает объявление локальной переменной/функции и
// выражение-оператор.
func (p *Parser) localDeclAhead() declKind {
	i := p.pos
	for {
		k := p.kindAt(i)
		if k == token.KwStatic || k == token.KwUnsafe || k == token.KwReadonly || k == token.KwRef ||
			k == token.KwConst || k == token.KwExtern ||
			(k == token.Ident && localModifiers[p.textAt(i)] && p.kindAt(i+1) != token.LParen && p.kindAt(i+1) != token.FatArrow) {
			i++
			continue
		}
		break
	}
	if p.kindAt(i) == token.Ident {
		switch p.textAt(i) {
		case "var":
			if p.kindAt(i+1) == token.LParen {
				return declVariable // var (a, b) = ...
			}
		case "await", "yield", "nameof":
			return declNone
		}
	}
	end, ok := p.scanType(i)
	if !ok || end == i || p.kindAt(end) != token.Ident {
		return declNone
	}
	switch p.kindAt(end + 1) {
	case token.Assign, token.Semicolon, token.Comma:
		return declVariable
	case token.LParen, token.Lt:
		return declFunction
	}
	return declNone
}
