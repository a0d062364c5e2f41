package parser

import (
	"trivet/internal/ast"
	"trivet/internal/diag"
	"trivet/internal/token"
)

// parseCondition: '(' expr ')'
func (p *Parser) parseCondition() ast.ExprID {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return ast.NoExprID
	}
	e := p.parseExpr()
	if !p.at(token.RParen) {
		p.skipUntil(token.RParen)
	}
	p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'")
	return e
}

// if (cond) then [else else]; else-if - вложенный StmtIf во втором Children.
func (p *Parser) parseIf() ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	kw := p.advance()
	st := ast.Stmt{Kind: ast.StmtIf, First: first, Keyword: kw}
	st.Expr = p.parseCondition()
	if then := p.parseEmbedded(); then.IsValid() {
		st.Children = append(st.Children, then)
	}
	if p.at(token.KwElse) {
		p.advance()
		if els := p.parseEmbedded(); els.IsValid() {
			st.Children = append(st.Children, els)
		}
	}
	return p.newStmt(st, mark)
}

// parseHeader разбирает содержимое скобок заголовка for/fixed/using:
// объявления и выражения через ',' и ';'. Возвращает выражения в порядке
// появления и индекс первого выражения второй секции (условие for), либо -1.
func (p *Parser) parseHeader() ([]ast.ExprID, int) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return nil, -1
	}
	var exprs []ast.ExprID
	cond, section := -1, 0
	for !p.at(token.RParen) && !p.at(token.EOF) && !p.at(token.RBrace) {
		switch {
		case p.at(token.Semicolon):
			p.advance()
			section++
			continue
		case p.at(token.Comma):
			p.advance()
			continue
		case p.localDeclAhead() == declVariable:
			for p.atOr(token.KwRef, token.KwReadonly, token.KwConst) || p.atIdent("scoped") {
				p.advance()
			}
			end, _ := p.scanType(p.pos)
			p.pos = end
			p.expect(token.Ident, diag.SynExpectIdentifier, "expected variable name")
			if !p.at(token.Assign) {
				continue
			}
			p.advance()
		}
		before := p.pos
		e := p.parseExpr()
		if e.IsValid() {
			if section == 1 && cond < 0 {
				cond = len(exprs)
			}
			exprs = append(exprs, e)
		}
		if p.pos == before {
			p.skipBalanced()
		}
	}
	p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'")
	return exprs, cond
}

func (p *Parser) parseFor() ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	kw := p.advance()
	st := ast.Stmt{Kind: ast.StmtFor, First: first, Keyword: kw}
	exprs, cond := p.parseHeader()
	st.Exprs = exprs
	if cond >= 0 {
		st.Expr = exprs[cond]
	}
	if body := p.parseEmbedded(); body.IsValid() {
		st.Children = append(st.Children, body)
	}
	return p.newStmt(st, mark)
}

// [await] foreach (T x in expr) body
func (p *Parser) parseForeach(first ast.TokenID) ast.StmtID {
	mark := p.exprMark()
	kw := p.advance()
	st := ast.Stmt{Kind: ast.StmtForeach, First: first, Keyword: kw}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); ok {
		p.skipUntil(token.KwIn, token.RParen)
		if _, ok := p.expect(token.KwIn, diag.SynUnexpectedToken, "expected 'in'"); ok {
			st.Expr = p.parseExpr()
		}
		p.skipUntil(token.RParen)
		p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'")
	}
	if body := p.parseEmbedded(); body.IsValid() {
		st.Children = append(st.Children, body)
	}
	return p.newStmt(st, mark)
}

func (p *Parser) parseWhile() ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	kw := p.advance()
	st := ast.Stmt{Kind: ast.StmtWhile, First: first, Keyword: kw}
	st.Expr = p.parseCondition()
	if body := p.parseEmbedded(); body.IsValid() {
		st.Children = append(st.Children, body)
	}
	return p.newStmt(st, mark)
}

// do body while (cond);
func (p *Parser) parseDo() ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	kw := p.advance()
	st := ast.Stmt{Kind: ast.StmtDo, First: first, Keyword: kw}
	if body := p.parseEmbedded(); body.IsValid() {
		st.Children = append(st.Children, body)
	}
	if _, ok := p.expect(token.KwWhile, diag.SynUnexpectedToken, "expected 'while' after do body"); ok {
		st.Expr = p.parseCondition()
		p.expectSemicolon()
	}
	return p.newStmt(st, mark)
}

// atSwitchLabel: case ... : | default :
func (p *Parser) atSwitchLabel() bool {
	return p.at(token.KwCase) || p.at(token.KwDefault) && p.peekKind(1) == token.Colon
}

// parseSwitch: каждая секция - отдельный ListSwitchSection. Open секции -
// двоеточие последней метки, Close - первый токен следующей секции или '}'.
func (p *Parser) parseSwitch() ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	kw := p.advance()
	st := ast.Stmt{Kind: ast.StmtSwitch, First: first, Keyword: kw}
	st.Expr = p.parseCondition()
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after switch"); !ok {
		return p.newStmt(st, mark)
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if !p.atSwitchLabel() {
			// операторы до первой метки
			p.err(diag.SynUnexpectedToken, "expected 'case' or 'default'")
			p.skipToStmtEnd()
			if p.at(token.RParen) || p.at(token.RBracket) {
				p.advance()
			}
			continue
		}
		sectionFirst := p.curID()
		var labels []ast.TokenID
		var open ast.TokenID
		for p.atSwitchLabel() {
			labels = append(labels, p.curID())
			open = p.parseSwitchLabel(&st)
		}
		if n := len(st.Bodies); n > 0 {
			p.tree.List(st.Bodies[n-1]).Close = sectionFirst
		}
		lid := p.parseList(ast.ListSwitchSection, open, p.parseStatement, func() bool {
			return p.at(token.RBrace) || p.atSwitchLabel()
		})
		p.tree.List(lid).Labels = labels
		st.Bodies = append(st.Bodies, lid)
	}
	if cl, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close switch"); ok {
		if n := len(st.Bodies); n > 0 {
			p.tree.List(st.Bodies[n-1]).Close = cl
		}
	}
	return p.newStmt(st, mark)
}

// parseSwitchLabel съедает метку и возвращает её двоеточие. Выражение
// when-условия попадает в Exprs оператора switch.
func (p *Parser) parseSwitchLabel(st *ast.Stmt) ast.TokenID {
	p.advance()
	for !p.at(token.Colon) && !p.at(token.EOF) && !p.at(token.RBrace) && !p.atIdent("when") {
		if closerOf(p.kind()) != token.Invalid {
			p.skipBalanced()
			continue
		}
		p.advance()
	}
	if p.atIdent("when") {
		p.advance()
		if e := p.parseExpr(); e.IsValid() {
			st.Exprs = append(st.Exprs, e)
		}
	}
	colon, _ := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after case label")
	return colon
}

// try block {catch [(T e)] [when (cond)] block} [finally block]
func (p *Parser) parseTry() ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	kw := p.advance()
	st := ast.Stmt{Kind: ast.StmtTry, First: first, Keyword: kw}
	st.Children = append(st.Children, p.parseBlock())
	for p.at(token.KwCatch) {
		p.advance()
		if p.at(token.LParen) {
			p.skipBalanced()
		}
		if p.atIdent("when") {
			p.advance()
			if e := p.parseCondition(); e.IsValid() {
				st.Exprs = append(st.Exprs, e)
			}
		}
		st.Children = append(st.Children, p.parseBlock())
	}
	if p.at(token.KwFinally) {
		p.advance()
		st.Children = append(st.Children, p.parseBlock())
	}
	return p.newStmt(st, mark)
}

// lock (expr) body | fixed (T* p = ...) body
func (p *Parser) parseHeaded(kind ast.StmtKind) ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	kw := p.advance()
	st := ast.Stmt{Kind: kind, First: first, Keyword: kw}
	st.Exprs, _ = p.parseHeader()
	if len(st.Exprs) > 0 {
		st.Expr = st.Exprs[0]
	}
	if body := p.parseEmbedded(); body.IsValid() {
		st.Children = append(st.Children, body)
	}
	return p.newStmt(st, mark)
}

// checked { } | unchecked { } | unsafe { }
func (p *Parser) parseChecked() ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	kw := p.advance()
	st := ast.Stmt{Kind: ast.StmtChecked, First: first, Keyword: kw}
	st.Children = append(st.Children, p.parseBlock())
	return p.newStmt(st, mark)
}

// [await] using (resource) body - оператор; [await] using var x = ...; -
// объявление (StmtLocalDecl с Keyword = using).
func (p *Parser) parseUsing(first ast.TokenID) ast.StmtID {
	if p.peekKind(1) != token.LParen {
		kw := p.advance()
		id := p.parseLocalDecl()
		s := p.tree.Stmt(id)
		s.First = first
		s.Keyword = kw
		return id
	}
	mark := p.exprMark()
	kw := p.advance()
	st := ast.Stmt{Kind: ast.StmtUsing, First: first, Keyword: kw}
	st.Exprs, _ = p.parseHeader()
	if len(st.Exprs) > 0 {
		st.Expr = st.Exprs[0]
	}
	if body := p.parseEmbedded(); body.IsValid() {
		st.Children = append(st.Children, body)
	}
	return p.newStmt(st, mark)
}
