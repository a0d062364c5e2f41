package parser

import (
	"slices"

	"trivet/internal/ast"
	"trivet/internal/diag"
	"trivet/internal/lexer"
	"trivet/internal/source"
	"trivet/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser: состояние парсера на один файл. Работает поверх полного среза
// токенов: произвольный lookahead нужен для различения объявлений, приведений
// типов и лямбд.
type Parser struct {
	tree  *ast.Tree
	toks  []token.Token
	pos   int // индекс текущего токена (0-based)
	opts  Options
	depth int // глубина вложенности списков операторов
}

// Parse лексит и разбирает файл. Синтаксические ошибки не прерывают разбор:
// непонятные участки становятся StmtUnknown/ExprUnknown.
func Parse(file *source.File, opts Options) *ast.Tree {
	toks := lexer.Tokenize(file, lexer.Options{Reporter: opts.Reporter})
	return ParseTokens(file, toks, opts)
}

// ParseTokens разбирает уже полученный поток токенов (последний - EOF).
func ParseTokens(file *source.File, toks []token.Token, opts Options) *ast.Tree {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		eof := token.Token{Kind: token.EOF}
		if file != nil {
			end := uint32(len(file.Content))
			eof.Span = source.Span{File: file.ID, Start: end, End: end}
		}
		toks = append(toks, eof)
	}
	hint := uint(len(toks) / 4)
	p := &Parser{
		tree: ast.NewTree(file, toks, ast.Hints{Stmts: hint, Exprs: hint * 2}),
		toks: toks,
		opts: opts,
	}
	p.tree.Root = p.parseList(ast.ListTopLevel, ast.NoTokenID, p.parseTopLevelItem, func() bool { return false })
	p.tree.List(p.tree.Root).Close = p.tree.EOF()
	return p.tree
}

func (p *Parser) cur() *token.Token { return &p.toks[p.pos] }

func (p *Parser) kind() token.Kind { return p.toks[p.pos].Kind }

// peekKind смотрит на n токенов вперёд; за концом - EOF.
func (p *Parser) peekKind(n int) token.Kind {
	return p.kindAt(p.pos + n)
}

func (p *Parser) kindAt(i int) token.Kind {
	if i < 0 || i >= len(p.toks) {
		return token.EOF
	}
	return p.toks[i].Kind
}

func (p *Parser) textAt(i int) string {
	if i < 0 || i >= len(p.toks) {
		return ""
	}
	return p.toks[i].Text
}

func (p *Parser) at(k token.Kind) bool {
	return p.kind() == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.kind())
}

// atIdent: контекстное ключевое слово (var, when, yield, record, ...)
func (p *Parser) atIdent(text string) bool {
	return p.kind() == token.Ident && p.cur().Text == text
}

func (p *Parser) curID() ast.TokenID { return ast.TokenID(p.pos + 1) }

// lastID: последний съеденный токен
func (p *Parser) lastID() ast.TokenID { return ast.TokenID(p.pos) }

// advance съедает текущий токен и возвращает его id. EOF не съедается.
func (p *Parser) advance() ast.TokenID {
	id := p.curID()
	if p.kind() != token.EOF {
		p.pos++
	}
	return id
}

func (p *Parser) IsError() bool {
	return p.opts.CurrentErrors != 0
}
