package parser

import (
	"trivet/internal/ast"
	"trivet/internal/diag"
	"trivet/internal/source"
	"trivet/internal/token"
)

// diagSpan: лучший span для диагностики: текущий токен, а на EOF - конец
// последнего съеденного.
func (p *Parser) diagSpan() source.Span {
	if p.at(token.EOF) && p.pos > 0 {
		end := p.toks[p.pos-1].Span.End
		return source.Span{File: p.toks[p.pos-1].Span.File, Start: end, End: end}
	}
	return p.cur().Span
}

// expect: ожидаем конкретный токен. Если нет - репортим и возвращаем (NoTokenID, false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (ast.TokenID, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, msg)
	return ast.NoTokenID, false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.diagSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.opts.Reporter == nil {
		return false
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Enough() {
		return false // достигли максимального количества ошибок
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil, nil)
	return true
}

func closerOf(k token.Kind) token.Kind {
	switch k {
	case token.LParen:
		return token.RParen
	case token.LBracket:
		return token.RBracket
	case token.LBrace:
		return token.RBrace
	}
	return token.Invalid
}

// matchIndex: индекс парной закрывающей скобки для открывающей в i, либо -1.
func (p *Parser) matchIndex(i int) int {
	if closerOf(p.kindAt(i)) == token.Invalid {
		return -1
	}
	stack := make([]token.Kind, 0, 8)
	for j := i; j < len(p.toks); j++ {
		k := p.toks[j].Kind
		if c := closerOf(k); c != token.Invalid {
			stack = append(stack, c)
			continue
		}
		if k == token.RParen || k == token.RBracket || k == token.RBrace {
			if len(stack) == 0 || stack[len(stack)-1] != k {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return j
			}
		}
	}
	return -1
}

// skipBalanced съедает скобочную группу целиком. Незакрытая группа съедается
// до конца файла с диагностикой.
func (p *Parser) skipBalanced() ast.TokenID {
	if closerOf(p.kind()) == token.Invalid {
		return p.advance()
	}
	m := p.matchIndex(p.pos)
	if m < 0 {
		p.err(diag.SynUnclosedDelimiter, "unclosed delimiter")
		depth := 0
		for !p.at(token.EOF) {
			switch p.kind() {
			case token.LParen, token.LBracket, token.LBrace:
				depth++
			case token.RParen, token.RBracket, token.RBrace:
				depth--
				if depth < 0 {
					return p.lastID()
				}
			}
			p.advance()
		}
		return p.lastID()
	}
	p.pos = m + 1
	return p.lastID()
}

// skipToStmtEnd: восстановление внутри оператора - до ';' (съедается) или
// '}' (остаётся), скобочные группы пропускаются целиком.
func (p *Parser) skipToStmtEnd() {
	for !p.at(token.EOF) {
		switch p.kind() {
		case token.Semicolon:
			p.advance()
			return
		case token.RBrace, token.RParen, token.RBracket:
			return
		case token.LParen, token.LBracket, token.LBrace:
			p.skipBalanced()
		default:
			p.advance()
		}
	}
}

// skipUntil съедает токены до одного из stop (не включая) с учётом скобок.
func (p *Parser) skipUntil(stop ...token.Kind) {
	for !p.at(token.EOF) && !p.atOr(stop...) {
		switch p.kind() {
		case token.RParen, token.RBracket, token.RBrace:
			return
		case token.LParen, token.LBracket, token.LBrace:
			p.skipBalanced()
		default:
			p.advance()
		}
	}
}

func (p *Parser) exprMark() uint32 { return p.tree.Exprs.Arena.Len() }

// newStmt размещает оператор и проставляет обратные связи: Parent у вложенных
// операторов, Owner у дочерних списков, Stmt у выражений, созданных с mark.
func (p *Parser) newStmt(s ast.Stmt, mark uint32) ast.StmtID {
	if !s.Last.IsValid() {
		s.Last = p.lastID()
	}
	if s.Last < s.First {
		s.Last = s.First
	}
	s.Depth = p.depth
	id := p.tree.Stmts.New(s)
	for _, c := range s.Children {
		if cs := p.tree.Stmt(c); cs != nil {
			cs.Parent = id
		}
	}
	for _, lid := range s.Bodies {
		l := p.tree.List(lid)
		if l == nil {
			continue
		}
		l.Owner = id
		for _, it := range l.Items {
			p.tree.Stmt(it).Parent = id
		}
	}
	n := p.tree.Exprs.Arena.Len()
	for e := mark + 1; e <= n; e++ {
		if x := p.tree.Expr(ast.ExprID(e)); x.Stmt == ast.NoStmtID {
			x.Stmt = id
		}
	}
	return id
}

func (p *Parser) newExpr(e ast.Expr) ast.ExprID {
	if !e.Last.IsValid() {
		e.Last = p.lastID()
	}
	if e.Last < e.First {
		e.Last = e.First
	}
	return p.tree.Exprs.New(e)
}

func (p *Parser) firstOf(e ast.ExprID) ast.TokenID {
	if x := p.tree.Expr(e); x != nil {
		return x.First
	}
	return p.curID()
}

// unknownStmt съедает хотя бы один токен и оформляет его как StmtUnknown.
func (p *Parser) unknownStmt() ast.StmtID {
	first := p.curID()
	mark := p.exprMark()
	p.report(diag.SynUnexpectedToken, diag.SevError, p.cur().Span, "unexpected token "+p.cur().Kind.String())
	if closerOf(p.kind()) != token.Invalid {
		p.skipBalanced()
	} else {
		p.advance()
	}
	return p.newStmt(ast.Stmt{Kind: ast.StmtUnknown, First: first}, mark)
}
