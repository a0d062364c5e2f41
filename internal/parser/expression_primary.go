package parser

import (
	"trivet/internal/ast"
	"trivet/internal/diag"
	"trivet/internal/token"
)

func (p *Parser) parsePrimary() ast.ExprID {
	first := p.curID()
	switch p.kind() {
	case token.Ident:
		if p.peekKind(1) == token.FatArrow {
			return p.parseLambda(first)
		}
		if p.atIdent("async") && (p.peekKind(1) == token.Ident && p.peekKind(2) == token.FatArrow ||
			p.peekKind(1) == token.LParen && p.lambdaAheadAt(p.pos+1) || p.peekKind(1) == token.KwDelegate) {
			p.advance()
			if p.at(token.KwDelegate) {
				return p.parseAnonymousMethod(first)
			}
			return p.parseLambda(first)
		}
		p.advance()
		if p.at(token.Lt) {
			if end, ok := p.genericArgsAhead(); ok {
				p.pos = end
			}
		}
		return p.newExpr(ast.Expr{Kind: ast.ExprIdent, First: first, Name: first})

	case token.IntLit, token.RealLit, token.CharLit, token.StringLit, token.InterpStringLit,
		token.KwTrue, token.KwFalse, token.KwNull:
		p.advance()
		return p.newExpr(ast.Expr{Kind: ast.ExprLiteral, First: first, Name: first})

	case token.KwThis, token.KwBase:
		p.advance()
		return p.newExpr(ast.Expr{Kind: ast.ExprIdent, First: first, Name: first})

	case token.KwDefault:
		p.advance()
		if p.at(token.LParen) {
			p.skipBalanced()
		}
		return p.newExpr(ast.Expr{Kind: ast.ExprLiteral, First: first, Name: first})

	case token.KwTypeof, token.KwSizeof:
		p.advance()
		if p.at(token.LParen) {
			p.skipBalanced()
		} else {
			p.err(diag.SynUnexpectedToken, "expected '('")
		}
		return p.newExpr(ast.Expr{Kind: ast.ExprType, First: first, Name: first})

	case token.KwChecked, token.KwUnchecked:
		op := p.advance()
		if !p.at(token.LParen) {
			p.err(diag.SynUnexpectedToken, "expected '('")
			return p.newExpr(ast.Expr{Kind: ast.ExprUnknown, First: first})
		}
		inner := p.parseParen()
		return p.newExpr(ast.Expr{Kind: ast.ExprUnary, First: first, Op: op, Left: inner})

	case token.KwStatic:
		// static x => ... / static (a) => ...
		if p.peekKind(2) == token.FatArrow || p.lambdaAheadAt(p.pos+1) {
			p.advance()
			return p.parseLambda(first)
		}

	case token.KwDelegate:
		return p.parseAnonymousMethod(first)

	case token.LParen:
		if p.lambdaAhead() {
			return p.parseLambda(first)
		}
		return p.parseParen()

	case token.KwNew, token.KwStackalloc:
		return p.parseNew()

	case token.LBrace:
		return p.parseInitializer()

	case token.LBracket:
		open := p.advance()
		elems := p.parseArgs(token.RBracket)
		cl, _ := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close collection")
		return p.newExpr(ast.Expr{Kind: ast.ExprCollection, First: open, Op: open, Op2: cl, Args: elems})
	}
	p.err(diag.SynExpectExpression, "expected expression, got "+p.kind().String())
	return ast.NoExprID
}

func (p *Parser) lambdaAheadAt(i int) bool {
	if p.kindAt(i) != token.LParen {
		return false
	}
	m := p.matchIndex(i)
	return m > 0 && p.kindAt(m+1) == token.FatArrow
}

// parseLambda: x => body | (params) => body; текущая позиция - параметры.
func (p *Parser) parseLambda(first ast.TokenID) ast.ExprID {
	if p.at(token.LParen) {
		p.skipBalanced()
	} else {
		p.advance()
	}
	arrow, _ := p.expect(token.FatArrow, diag.SynUnexpectedToken, "expected '=>'")
	e := ast.Expr{Kind: ast.ExprLambda, First: first, Op: arrow}
	if p.at(token.LBrace) {
		e.Body = p.parseBlock()
	} else {
		e.Left = p.parseExpr()
	}
	return p.newExpr(e)
}

// delegate [(params)] { ... }
func (p *Parser) parseAnonymousMethod(first ast.TokenID) ast.ExprID {
	kw := p.advance()
	if p.at(token.LParen) {
		p.skipBalanced()
	}
	e := ast.Expr{Kind: ast.ExprLambda, First: first, Op: kw}
	if p.at(token.LBrace) {
		e.Body = p.parseBlock()
	} else {
		p.err(diag.SynUnexpectedToken, "expected '{' after delegate")
	}
	return p.newExpr(e)
}

// (expr) или кортеж (a, b)
func (p *Parser) parseParen() ast.ExprID {
	open := p.advance()
	var elems []ast.ExprID
	for !p.at(token.RParen) && !p.at(token.EOF) {
		before := p.pos
		if p.kind() == token.Ident && p.peekKind(1) == token.Colon {
			p.advance() // именованный элемент кортежа
			p.advance()
		}
		if e := p.parseExpr(); e.IsValid() {
			elems = append(elems, e)
		}
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if p.pos == before || !p.at(token.RParen) {
			break
		}
	}
	cl, _ := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'")
	e := ast.Expr{Kind: ast.ExprParen, First: open, Op: open, Op2: cl}
	if len(elems) == 1 {
		e.Left = elems[0]
	} else {
		e.Args = elems
	}
	return p.newExpr(e)
}

// new T(args) { init } | new T[n] { init } | new() | new[] { } | new { A = 1 }
func (p *Parser) parseNew() ast.ExprID {
	kw := p.advance()
	e := ast.Expr{Kind: ast.ExprNew, First: kw, Op: kw}
	if !p.atOr(token.LParen, token.LBracket, token.LBrace) {
		end := p.typeEnd(p.pos)
		if end == p.pos {
			p.err(diag.SynExpectIdentifier, "expected type after new")
			return p.newExpr(e)
		}
		e.Name = p.curID()
		p.pos = end
	}
	for p.at(token.LBracket) {
		// размеры массива
		open := p.pos
		p.advance()
		e.Args = append(e.Args, p.parseArgs(token.RBracket)...)
		if !p.at(token.RBracket) {
			p.pos = open
			p.skipBalanced()
			break
		}
		p.advance()
	}
	if p.at(token.LParen) {
		p.advance()
		e.Args = append(e.Args, p.parseArgs(token.RParen)...)
		p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close constructor arguments")
	}
	if p.at(token.LBrace) {
		e.Init = p.parseInitializer()
	}
	return p.newExpr(e)
}

// { a, b = c, [k] = v, { nested } }
func (p *Parser) parseInitializer() ast.ExprID {
	open := p.advance()
	var elems []ast.ExprID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		before := p.pos
		if e := p.parseExpr(); e.IsValid() {
			elems = append(elems, e)
		}
		if p.pos == before {
			if p.atOr(token.Semicolon, token.RParen, token.RBracket) {
				break
			}
			p.skipBalanced()
		}
	}
	cl, _ := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close initializer")
	return p.newExpr(ast.Expr{Kind: ast.ExprInitializer, First: open, Op: open, Op2: cl, Args: elems})
}
