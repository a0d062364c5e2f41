package parser

import (
	"trivet/internal/ast"
	"trivet/internal/diag"
	"trivet/internal/token"
)

// parseBlock: '{' statements '}' как StmtBlock с одним списком.
func (p *Parser) parseBlock() ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	body := p.parseBraceList(ast.ListBlock, p.parseStatement)
	return p.newStmt(ast.Stmt{Kind: ast.StmtBlock, First: first, Bodies: []ast.ListID{body}}, mark)
}

// parseEmbedded: тело if/while/for/...: блок или одиночный оператор.
func (p *Parser) parseEmbedded() ast.StmtID {
	if p.at(token.EOF) || p.at(token.RBrace) {
		p.err(diag.SynExpectExpression, "expected statement")
		return ast.NoStmtID
	}
	p.depth++
	defer func() { p.depth-- }()
	return p.parseStatement()
}

func (p *Parser) parseStatement() ast.StmtID {
	switch p.kind() {
	case token.LBrace:
		return p.parseBlock()
	case token.Semicolon:
		first := p.curID()
		p.advance()
		return p.newStmt(ast.Stmt{Kind: ast.StmtEmpty, First: first}, p.exprMark())
	case token.KwIf:
		return p.parseIf()
	case token.KwFor:
		return p.parseFor()
	case token.KwForeach:
		return p.parseForeach(p.curID())
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDo()
	case token.KwSwitch:
		if p.peekKind(1) == token.LParen {
			return p.parseSwitch()
		}
	case token.KwTry:
		return p.parseTry()
	case token.KwLock:
		return p.parseHeaded(ast.StmtLock)
	case token.KwFixed:
		return p.parseHeaded(ast.StmtFixed)
	case token.KwChecked, token.KwUnchecked, token.KwUnsafe:
		if p.peekKind(1) == token.LBrace {
			return p.parseChecked()
		}
	case token.KwUsing:
		return p.parseUsing(p.curID())
	case token.KwReturn:
		return p.parseJump(ast.StmtReturn, true)
	case token.KwThrow:
		return p.parseJump(ast.StmtThrow, true)
	case token.KwBreak:
		return p.parseJump(ast.StmtBreak, false)
	case token.KwContinue:
		return p.parseJump(ast.StmtContinue, false)
	case token.KwGoto:
		return p.parseGoto()
	case token.RBrace, token.RParen, token.RBracket:
		return p.unknownStmt()
	case token.Ident:
		switch {
		case p.atIdent("yield") && (p.peekKind(1) == token.KwReturn || p.peekKind(1) == token.KwBreak):
			return p.parseYield()
		case p.atIdent("await") && p.peekKind(1) == token.KwUsing:
			first := p.advance()
			return p.parseUsing(first)
		case p.atIdent("await") && p.peekKind(1) == token.KwForeach:
			first := p.advance()
			return p.parseForeach(first)
		case p.peekKind(1) == token.Colon:
			return p.parseLabeled()
		}
	}
	switch p.localDeclAhead() {
	case declVariable:
		return p.parseLocalDecl()
	case declFunction:
		return p.parseLocalFunc()
	}
	return p.parseExprStmt()
}

func (p *Parser) parseExprStmt() ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	e := p.parseExpr()
	if !e.IsValid() {
		return p.unknownStmt()
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after expression"); !ok {
		p.skipToStmtEnd()
	}
	return p.newStmt(ast.Stmt{Kind: ast.StmtExpr, First: first, Expr: e}, mark)
}

// parseLocalDecl: [modifiers] Type a [= init] {, b [= init]} ;
func (p *Parser) parseLocalDecl() ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	st := ast.Stmt{Kind: ast.StmtLocalDecl, First: first}
	for p.atOr(token.KwStatic, token.KwUnsafe, token.KwReadonly, token.KwRef, token.KwConst, token.KwExtern) ||
		p.kind() == token.Ident && localModifiers[p.cur().Text] {
		p.advance()
	}
	if p.atIdent("var") && p.peekKind(1) == token.LParen {
		// var (a, b) = ...
		p.advance()
		p.skipBalanced()
	} else {
		end, _ := p.scanType(p.pos)
		p.pos = end
		p.expect(token.Ident, diag.SynExpectIdentifier, "expected variable name")
	}
	for {
		if p.at(token.Assign) {
			p.advance()
			if p.at(token.KwRef) {
				p.advance()
			}
			if e := p.parseExpr(); e.IsValid() {
				st.Exprs = append(st.Exprs, e)
			}
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
		p.expect(token.Ident, diag.SynExpectIdentifier, "expected variable name")
	}
	if len(st.Exprs) > 0 {
		st.Expr = st.Exprs[0]
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after declaration"); !ok {
		p.skipToStmtEnd()
	}
	return p.newStmt(st, mark)
}

// parseLocalFunc: [modifiers] Type Name<T>(params) [where ...] { } | => expr;
func (p *Parser) parseLocalFunc() ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	st := ast.Stmt{Kind: ast.StmtLocalFunc, First: first}
	p.skipUntil(token.LBrace, token.FatArrow, token.Semicolon)
	switch {
	case p.at(token.LBrace):
		st.Children = append(st.Children, p.parseBlock())
	case p.at(token.FatArrow):
		p.advance()
		st.Expr = p.parseExpr()
		p.expectSemicolon()
	default:
		p.expectSemicolon()
	}
	return p.newStmt(st, mark)
}

// return/throw [expr]; break; continue;
func (p *Parser) parseJump(kind ast.StmtKind, withValue bool) ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	kw := p.advance()
	st := ast.Stmt{Kind: kind, First: first, Keyword: kw}
	if withValue && !p.at(token.Semicolon) {
		st.Expr = p.parseExpr()
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';'"); !ok {
		p.skipToStmtEnd()
	}
	return p.newStmt(st, mark)
}

// goto label; goto case X; goto default;
func (p *Parser) parseGoto() ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	kw := p.advance()
	st := ast.Stmt{Kind: ast.StmtGoto, First: first, Keyword: kw}
	switch {
	case p.at(token.KwCase):
		p.advance()
		st.Expr = p.parseExpr()
	case p.at(token.KwDefault):
		p.advance()
	default:
		p.expect(token.Ident, diag.SynExpectIdentifier, "expected label")
	}
	p.expectSemicolon()
	return p.newStmt(st, mark)
}

// yield return expr; | yield break;
func (p *Parser) parseYield() ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	p.advance()
	kw := p.advance()
	st := ast.Stmt{Kind: ast.StmtYield, First: first, Keyword: kw}
	if p.tree.Token(kw).Kind == token.KwReturn {
		st.Expr = p.parseExpr()
	}
	p.expectSemicolon()
	return p.newStmt(st, mark)
}

// label: statement
func (p *Parser) parseLabeled() ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	p.advance()
	p.advance()
	st := ast.Stmt{Kind: ast.StmtLabeled, First: first}
	if !p.at(token.RBrace) && !p.at(token.EOF) {
		if inner := p.parseEmbedded(); inner.IsValid() {
			st.Children = append(st.Children, inner)
		}
	}
	return p.newStmt(st, mark)
}
