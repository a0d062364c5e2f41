package parser

import (
	"trivet/internal/ast"
	"trivet/internal/diag"
	"trivet/internal/token"
)

var memberModifiers = map[token.Kind]bool{
	token.KwPublic: true, token.KwPrivate: true, token.KwProtected: true, token.KwInternal: true,
	token.KwStatic: true, token.KwAbstract: true, token.KwSealed: true, token.KwVirtual: true,
	token.KwOverride: true, token.KwReadonly: true, token.KwConst: true, token.KwExtern: true,
	token.KwUnsafe: true, token.KwVolatile: true, token.KwNew: true, token.KwFixed: true,
}

var contextualModifiers = map[string]bool{
	"partial": true, "async": true, "required": true, "file": true,
}

func (p *Parser) atModifier() bool {
	if memberModifiers[p.kind()] {
		// new() как выражение на верхнем уровне не встречается, а в теле типа
		// 'new' перед членом - модификатор
		return !(p.at(token.KwNew) && p.peekKind(1) == token.LParen)
	}
	return p.kind() == token.Ident && contextualModifiers[p.cur().Text] &&
		(p.peekKind(1) == token.Ident || p.peekKind(1) == token.KwVoid || memberModifiers[p.peekKind(1)] ||
			p.peekKind(1) == token.KwClass || p.peekKind(1) == token.KwStruct || p.peekKind(1) == token.KwInterface)
}

func (p *Parser) atTypeKeyword() bool {
	switch p.kind() {
	case token.KwClass, token.KwStruct, token.KwInterface, token.KwEnum:
		return true
	case token.Ident:
		return p.cur().Text == "record" && (p.peekKind(1) == token.Ident || p.peekKind(1) == token.KwClass || p.peekKind(1) == token.KwStruct)
	}
	return false
}

// startsMember: на верхнем уровне отличает объявление от top-level оператора.
func (p *Parser) startsMember() bool {
	return p.at(token.LBracket) || p.atModifier() || p.atTypeKeyword() ||
		p.at(token.KwDelegate) && p.peekKind(1) != token.LParen && p.peekKind(1) != token.LBrace
}

func (p *Parser) parseTopLevelItem() ast.StmtID {
	switch {
	case p.at(token.KwUsing) && !p.usingStatementAhead():
		return p.parseUsingDirective()
	case p.atIdent("global") && p.peekKind(1) == token.KwUsing:
		return p.parseUsingDirective()
	case p.at(token.KwExtern) && p.textAt(p.pos+1) == "alias":
		return p.parseUsingDirective()
	case p.at(token.KwNamespace):
		return p.parseNamespace()
	case p.startsMember():
		return p.parseMember()
	}
	return p.parseStatement()
}

func (p *Parser) parseNamespaceItem() ast.StmtID {
	switch {
	case p.at(token.KwUsing), p.atIdent("global") && p.peekKind(1) == token.KwUsing:
		return p.parseUsingDirective()
	case p.at(token.KwExtern) && p.textAt(p.pos+1) == "alias":
		return p.parseUsingDirective()
	case p.at(token.KwNamespace):
		return p.parseNamespace()
	}
	return p.parseMember()
}

// using как оператор: using (...) / using var x = ... / await using
func (p *Parser) usingStatementAhead() bool {
	next := p.peekKind(1)
	if next == token.LParen {
		return true
	}
	if next == token.Ident && p.textAt(p.pos+1) == "var" {
		return true
	}
	return false
}

// using X.Y; using static X; using A = B; global using X; extern alias X;
func (p *Parser) parseUsingDirective() ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	kw := p.advance()
	p.skipUntil(token.Semicolon, token.RBrace)
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after using directive")
	return p.newStmt(ast.Stmt{Kind: ast.StmtUsingDirective, First: first, Keyword: kw}, mark)
}

// namespace A.B { ... } | namespace A.B; (file-scoped - до конца файла)
func (p *Parser) parseNamespace() ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	kw := p.advance()
	p.skipUntil(token.LBrace, token.Semicolon)

	var body ast.ListID
	switch {
	case p.at(token.Semicolon):
		open := p.advance()
		body = p.parseList(ast.ListNamespace, open, p.parseNamespaceItem, func() bool { return false })
		p.tree.List(body).Close = p.tree.EOF()
	case p.at(token.LBrace):
		body = p.parseBraceList(ast.ListNamespace, p.parseNamespaceItem)
	default:
		p.err(diag.SynUnexpectedToken, "expected '{' or ';' after namespace name")
		return p.newStmt(ast.Stmt{Kind: ast.StmtNamespace, First: first, Keyword: kw}, mark)
	}
	return p.newStmt(ast.Stmt{Kind: ast.StmtNamespace, First: first, Keyword: kw, Bodies: []ast.ListID{body}}, mark)
}

// parseBraceList: '{' items '}'
func (p *Parser) parseBraceList(kind ast.ListKind, item func() ast.StmtID) ast.ListID {
	open, _ := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	lid := p.parseList(kind, open, item, func() bool { return p.at(token.RBrace) })
	if cl, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}'"); ok {
		p.tree.List(lid).Close = cl
	}
	return lid
}

// parseList: общий цикл списка с гарантией продвижения.
func (p *Parser) parseList(kind ast.ListKind, open ast.TokenID, item func() ast.StmtID, stop func() bool) ast.ListID {
	d := p.depth
	p.depth++
	var items []ast.StmtID
	for !p.at(token.EOF) && !stop() {
		before := p.pos
		id := item()
		if p.pos == before {
			id = p.unknownStmt()
		}
		if id.IsValid() {
			items = append(items, id)
		}
	}
	p.depth--
	lid := p.tree.Lists.New(ast.List{Kind: kind, Open: open, Items: items, Depth: d})
	for i, it := range items {
		s := p.tree.Stmt(it)
		s.List = lid
		s.Index = i
		s.Depth = d
	}
	return lid
}

// parseMember: атрибуты, модификаторы, затем тип, метод, свойство, поле...
func (p *Parser) parseMember() ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	for p.at(token.LBracket) {
		p.skipBalanced()
	}
	for p.atModifier() {
		p.advance()
	}

	switch {
	case p.atTypeKeyword():
		return p.parseTypeDecl(first, mark)
	case p.at(token.KwDelegate):
		kw := p.advance()
		p.skipUntil(token.Semicolon)
		p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after delegate declaration")
		return p.newStmt(ast.Stmt{Kind: ast.StmtMember, First: first, Keyword: kw}, mark)
	}

	st := ast.Stmt{Kind: ast.StmtMember, First: first}
	hadParen := false
	for {
		switch p.kind() {
		case token.EOF, token.RBrace:
			if p.curID() == first {
				return ast.NoStmtID
			}
			p.err(diag.SynUnexpectedToken, "incomplete member declaration")
			return p.newStmt(st, mark)
		case token.LParen:
			hadParen = true
			p.skipBalanced()
		case token.LBracket:
			p.skipBalanced()
		case token.Semicolon:
			p.advance()
			return p.newStmt(st, mark)
		case token.Assign:
			// поле/константа: a = 1, b = 2;
			p.advance()
			st.Expr = p.parseExpr()
			st.Exprs = append(st.Exprs, st.Expr)
			for p.at(token.Comma) {
				p.advance()
				p.expect(token.Ident, diag.SynExpectIdentifier, "expected field name")
				if p.at(token.Assign) {
					p.advance()
					st.Exprs = append(st.Exprs, p.parseExpr())
				}
			}
			p.expectSemicolon()
			return p.newStmt(st, mark)
		case token.FatArrow:
			p.advance()
			st.Expr = p.parseExpr()
			p.expectSemicolon()
			return p.newStmt(st, mark)
		case token.LBrace:
			if hadParen {
				st.Children = append(st.Children, p.parseBlock())
				return p.newStmt(st, mark)
			}
			st.Bodies = append(st.Bodies, p.parseBraceList(ast.ListAccessors, p.parseAccessor))
			if p.at(token.Assign) {
				p.advance()
				st.Expr = p.parseExpr()
				p.expectSemicolon()
			}
			return p.newStmt(st, mark)
		default:
			p.advance()
		}
	}
}

// class/struct/interface/record/enum
func (p *Parser) parseTypeDecl(first ast.TokenID, mark uint32) ast.StmtID {
	isEnum := p.at(token.KwEnum)
	kw := p.advance()
	if p.tree.Token(kw).Text == "record" && p.atOr(token.KwClass, token.KwStruct) {
		p.advance()
	}
	p.skipUntil(token.LBrace, token.Semicolon)

	st := ast.Stmt{Kind: ast.StmtTypeDecl, First: first, Keyword: kw}
	switch {
	case p.at(token.Semicolon):
		p.advance()
	case p.at(token.LBrace) && isEnum:
		p.skipBalanced()
	case p.at(token.LBrace):
		st.Bodies = append(st.Bodies, p.parseBraceList(ast.ListTypeBody, p.parseMember))
	default:
		p.err(diag.SynUnexpectedToken, "expected type body")
	}
	if p.at(token.Semicolon) {
		p.advance()
	}
	return p.newStmt(st, mark)
}

// get; set => x; init { ... }
func (p *Parser) parseAccessor() ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	for p.at(token.LBracket) {
		p.skipBalanced()
	}
	for p.atOr(token.KwPrivate, token.KwProtected, token.KwInternal, token.KwReadonly) {
		p.advance()
	}
	kw, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected accessor")
	if !ok {
		return ast.NoStmtID
	}
	st := ast.Stmt{Kind: ast.StmtAccessor, First: first, Keyword: kw}
	switch {
	case p.at(token.Semicolon):
		p.advance()
	case p.at(token.FatArrow):
		p.advance()
		st.Expr = p.parseExpr()
		p.expectSemicolon()
	case p.at(token.LBrace):
		st.Children = append(st.Children, p.parseBlock())
	default:
		p.err(diag.SynUnexpectedToken, "expected accessor body")
	}
	return p.newStmt(st, mark)
}

func (p *Parser) expectSemicolon() {
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';'")
}
