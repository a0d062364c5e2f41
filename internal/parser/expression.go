package parser

import (
	"trivet/internal/ast"
	"trivet/internal/diag"
	"trivet/internal/token"
)

// parseExpr: вход в разбор выражения (уровень присваивания).
func (p *Parser) parseExpr() ast.ExprID {
	left := p.parseConditional()
	if !left.IsValid() {
		return left
	}
	w := p.assignOp()
	if w == 0 {
		return left
	}
	op := p.curID()
	for range w {
		p.advance()
	}
	if p.at(token.KwRef) {
		p.advance()
	}
	right := p.parseExpr()
	if !right.IsValid() {
		p.err(diag.SynExpectExpression, "expected expression after assignment")
	}
	return p.newExpr(ast.Expr{Kind: ast.ExprAssign, First: p.firstOf(left), Op: op, Left: left, Right: right})
}

// cond ? a : b
func (p *Parser) parseConditional() ast.ExprID {
	cond := p.parseBinary(1)
	if !cond.IsValid() || !p.at(token.Question) {
		return cond
	}
	q := p.advance()
	then := p.parseExpr()
	colon, _ := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in conditional expression")
	var els ast.ExprID
	if colon.IsValid() {
		els = p.parseExpr()
	}
	return p.newExpr(ast.Expr{
		Kind: ast.ExprConditional, First: p.firstOf(cond),
		Op: q, Op2: colon, Left: cond, Right: then, Third: els,
	})
}

// parseBinary: Pratt-цикл по таблице приоритетов.
func (p *Parser) parseBinary(minPrec int) ast.ExprID {
	left := p.parseUnary()
	if !left.IsValid() {
		return left
	}
	for {
		prec, rightAssoc, w := p.binaryOp()
		if prec == 0 || prec < minPrec {
			return left
		}
		opKind := p.kind()
		op := p.curID()
		for range w {
			p.advance()
		}
		var right ast.ExprID
		switch {
		case opKind == token.KwIs:
			right = p.parsePattern()
		case opKind == token.KwAs:
			right = p.parseTypeExpr()
		case opKind == token.DotDot && !canStartExpr(p.kind()):
			// a.. без правой границы
		default:
			next := prec + 1
			if rightAssoc {
				next = prec
			}
			right = p.parseBinary(next)
			if !right.IsValid() {
				p.err(diag.SynExpectExpression, "expected operand after "+opKind.String())
			}
		}
		left = p.newExpr(ast.Expr{Kind: ast.ExprBinary, First: p.firstOf(left), Op: op, Left: left, Right: right})
	}
}

func (p *Parser) parseUnary() ast.ExprID {
	switch p.kind() {
	case token.Bang, token.Tilde, token.Minus, token.Plus, token.PlusPlus, token.MinusMinus,
		token.Caret, token.Amp, token.Star, token.KwRef, token.KwThrow:
		return p.prefix()
	case token.DotDot:
		op := p.advance()
		var operand ast.ExprID
		if canStartExpr(p.kind()) {
			operand = p.parseUnary()
		}
		return p.newExpr(ast.Expr{Kind: ast.ExprUnary, First: op, Op: op, Left: operand})
	case token.LParen:
		if p.castAhead() {
			return p.parseCast()
		}
	case token.Ident:
		if p.atIdent("await") && canStartExpr(p.peekKind(1)) && !binaryLike(p.peekKind(1)) {
			return p.prefix()
		}
	}
	return p.parsePostfix(p.parsePrimary())
}

// binaryLike: токены, которые после 'await' скорее продолжают выражение,
// чем начинают операнд.
func binaryLike(k token.Kind) bool {
	switch k {
	case token.Minus, token.Plus, token.Star, token.Amp, token.Caret, token.DotDot:
		return true
	}
	return false
}

func (p *Parser) prefix() ast.ExprID {
	op := p.advance()
	operand := p.parseUnary()
	if !operand.IsValid() {
		p.err(diag.SynExpectExpression, "expected operand")
	}
	return p.newExpr(ast.Expr{Kind: ast.ExprUnary, First: op, Op: op, Left: operand})
}

// (Type) operand
func (p *Parser) parseCast() ast.ExprID {
	open := p.advance()
	name := p.curID()
	end, _ := p.scanType(p.pos)
	p.pos = end
	p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' in cast")
	operand := p.parseUnary()
	return p.newExpr(ast.Expr{Kind: ast.ExprCast, First: open, Op: open, Name: name, Left: operand})
}

// parsePostfix: доступ к членам, вызовы, индексация, x++, x!, switch/with.
func (p *Parser) parsePostfix(left ast.ExprID) ast.ExprID {
	if !left.IsValid() {
		return left
	}
	for {
		switch p.kind() {
		case token.Dot, token.QuestionDot, token.ColonColon, token.Arrow:
			op := p.advance()
			if p.tree.Token(op).Kind == token.QuestionDot && p.at(token.LBracket) {
				left = p.parseIndex(left)
				continue
			}
			name, _ := p.expect(token.Ident, diag.SynExpectIdentifier, "expected member name")
			if p.at(token.Lt) {
				if end, ok := p.genericArgsAhead(); ok {
					p.pos = end
				}
			}
			left = p.newExpr(ast.Expr{Kind: ast.ExprMember, First: p.firstOf(left), Op: op, Name: name, Left: left})
		case token.LParen:
			open := p.advance()
			args := p.parseArgs(token.RParen)
			cl, _ := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close argument list")
			left = p.newExpr(ast.Expr{Kind: ast.ExprCall, First: p.firstOf(left), Op: open, Op2: cl, Left: left, Args: args})
		case token.LBracket:
			left = p.parseIndex(left)
		case token.PlusPlus, token.MinusMinus:
			op := p.advance()
			left = p.newExpr(ast.Expr{Kind: ast.ExprPostfix, First: p.firstOf(left), Op: op, Left: left})
		case token.Bang:
			// null-forgiving: x!
			if !p.adjacent(p.pos-1, token.Bang) {
				return left
			}
			op := p.advance()
			left = p.newExpr(ast.Expr{Kind: ast.ExprPostfix, First: p.firstOf(left), Op: op, Left: left})
		case token.KwSwitch:
			if p.peekKind(1) != token.LBrace {
				return left
			}
			left = p.parseSwitchExpr(left)
		case token.Ident:
			if !p.atIdent("with") || p.peekKind(1) != token.LBrace {
				return left
			}
			op := p.advance()
			init := p.parseInitializer()
			left = p.newExpr(ast.Expr{Kind: ast.ExprBinary, First: p.firstOf(left), Op: op, Left: left, Right: init})
		default:
			return left
		}
	}
}

func (p *Parser) parseIndex(left ast.ExprID) ast.ExprID {
	open := p.advance()
	args := p.parseArgs(token.RBracket)
	cl, _ := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']'")
	return p.newExpr(ast.Expr{Kind: ast.ExprIndex, First: p.firstOf(left), Op: open, Op2: cl, Left: left, Args: args})
}

// parseArgs: аргументы до closer (не съедается): именованные, ref/out/in,
// out var x.
func (p *Parser) parseArgs(closer token.Kind) []ast.ExprID {
	var args []ast.ExprID
	for !p.at(closer) && !p.at(token.EOF) {
		before := p.pos
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if p.kind() == token.Ident && p.peekKind(1) == token.Colon {
			p.advance()
			p.advance()
		}
		if p.atOr(token.KwRef, token.KwOut, token.KwIn) {
			p.advance()
			// out var x / out int x
			if end, ok := p.scanType(p.pos); ok && end > p.pos && p.kindAt(end) == token.Ident {
				p.pos = end
			}
		}
		if e := p.parseExpr(); e.IsValid() {
			args = append(args, e)
		}
		if p.pos == before {
			if p.atOr(token.RBrace, token.Semicolon) {
				break
			}
			p.skipBalanced()
		}
	}
	return args
}

// subject switch { pattern [when cond] => result, ... }
func (p *Parser) parseSwitchExpr(subject ast.ExprID) ast.ExprID {
	kw := p.advance()
	p.advance() // {
	var arms []ast.ExprID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		before := p.pos
		for !p.atOr(token.FatArrow, token.RBrace, token.EOF, token.Comma, token.Semicolon) && !p.atIdent("when") {
			if closerOf(p.kind()) != token.Invalid {
				p.skipBalanced()
				continue
			}
			p.advance()
		}
		if p.atIdent("when") {
			p.advance()
			if e := p.parseExpr(); e.IsValid() {
				arms = append(arms, e)
			}
		}
		if _, ok := p.expect(token.FatArrow, diag.SynUnexpectedToken, "expected '=>' in switch arm"); ok {
			if e := p.parseExpr(); e.IsValid() {
				arms = append(arms, e)
			}
		}
		if p.pos == before || p.at(token.Semicolon) {
			break
		}
	}
	cl, _ := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close switch expression")
	return p.newExpr(ast.Expr{Kind: ast.ExprSwitch, First: p.firstOf(subject), Op: kw, Op2: cl, Left: subject, Args: arms})
}

// typeEnd: конец типа с позиции i. Хвостовой '?' не считается nullable,
// если за ним начинается выражение (x is T ? a : b).
func (p *Parser) typeEnd(i int) int {
	end, ok := p.scanType(i)
	if !ok {
		return i
	}
	if end > i+1 && p.kindAt(end-1) == token.Question && canStartExpr(p.kindAt(end)) {
		end--
	}
	return end
}

func (p *Parser) parseTypeExpr() ast.ExprID {
	first := p.curID()
	end := p.typeEnd(p.pos)
	if end == p.pos {
		p.err(diag.SynExpectIdentifier, "expected type")
		return ast.NoExprID
	}
	p.pos = end
	return p.newExpr(ast.Expr{Kind: ast.ExprType, First: first, Name: first})
}

// parsePattern: паттерн справа от is; хранится как непрозрачный ExprType.
func (p *Parser) parsePattern() ast.ExprID {
	first := p.curID()
	p.patternPrimary()
	for (p.atIdent("and") || p.atIdent("or")) && p.peekKind(1) != token.Semicolon {
		p.advance()
		p.patternPrimary()
	}
	if p.curID() == first {
		p.err(diag.SynExpectExpression, "expected pattern")
		return ast.NoExprID
	}
	return p.newExpr(ast.Expr{Kind: ast.ExprType, First: first, Name: first})
}

func (p *Parser) patternPrimary() {
	switch {
	case p.atIdent("not"):
		p.advance()
		p.patternPrimary()
		return
	case p.atOr(token.Lt, token.LtEq, token.Gt, token.GtEq):
		p.advance()
		p.parseUnary()
		return
	case p.atOr(token.LBrace, token.LParen, token.LBracket):
		p.skipBalanced()
		p.designation()
		return
	case p.atOr(token.KwNull, token.KwTrue, token.KwFalse, token.IntLit, token.RealLit, token.CharLit,
		token.StringLit, token.InterpStringLit, token.Minus):
		p.parseUnary()
		return
	}
	if end := p.typeEnd(p.pos); end > p.pos {
		p.pos = end
		if p.atOr(token.LBrace, token.LParen) {
			p.skipBalanced()
		}
		p.designation()
		return
	}
}

// designation: имя переменной после типа в паттерне.
func (p *Parser) designation() {
	if p.kind() != token.Ident {
		return
	}
	switch p.cur().Text {
	case "and", "or", "when":
		return
	}
	p.advance()
}
