package ast

type ExprKind uint8

const (
	ExprUnknown ExprKind = iota
	ExprIdent
	ExprLiteral
	ExprType // тип или паттерн справа от is/as, typeof(...)
	ExprMember
	ExprCall
	ExprIndex
	ExprUnary
	ExprPostfix
	ExprBinary
	ExprAssign
	ExprConditional
	ExprParen
	ExprCast
	ExprLambda
	ExprNew
	ExprInitializer
	ExprCollection
	ExprSwitch
)

var exprKindNames = [...]string{
	ExprUnknown:     "Unknown",
	ExprIdent:       "Ident",
	ExprLiteral:     "Literal",
	ExprType:        "Type",
	ExprMember:      "Member",
	ExprCall:        "Call",
	ExprIndex:       "Index",
	ExprUnary:       "Unary",
	ExprPostfix:     "Postfix",
	ExprBinary:      "Binary",
	ExprAssign:      "Assign",
	ExprConditional: "Conditional",
	ExprParen:       "Paren",
	ExprCast:        "Cast",
	ExprLambda:      "Lambda",
	ExprNew:         "New",
	ExprInitializer: "Initializer",
	ExprCollection:  "Collection",
	ExprSwitch:      "Switch",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "ExprKind(?)"
}

// Expr: узел выражения. Значение полей зависит от Kind:
//
//	Member:      Left.Name, Op = '.' или '?.'
//	Call/Index:  Left(Args), Op = '(' / '[', Op2 = ')' / ']'
//	Unary:       Op Left;  Postfix: Left Op
//	Binary:      Left Op Right (в том числе is/as, Right - ExprType)
//	Assign:      Left Op Right
//	Conditional: Left ? Right : Third, Op = '?', Op2 = ':'
//	Paren:       (Left) или кортеж (Args)
//	Cast:        (Type) Left, Op = '('
//	Lambda:      параметры => Left или Body
//	New:         Op = 'new', Args - аргументы конструктора, Init - инициализатор
//	Initializer: Op = '{', Op2 = '}', Args - элементы
//	Collection:  Op = '[', Op2 = ']', Args - элементы
type Expr struct {
	Kind   ExprKind
	First  TokenID
	Last   TokenID
	Op     TokenID
	Op2    TokenID
	Name   TokenID
	Left   ExprID
	Right  ExprID
	Third  ExprID
	Init   ExprID
	Args   []ExprID
	Body   StmtID
	Parent ExprID
	Stmt   StmtID // оператор, которому принадлежит выражение
}

type Exprs struct {
	Arena *Arena[Expr]
}

func NewExprs(capHint uint) *Exprs {
	return &Exprs{
		Arena: NewArena[Expr](capHint),
	}
}

// New allocates e and links its direct children back to it.
func (e *Exprs) New(expr Expr) ExprID {
	id := ExprID(e.Arena.Allocate(expr))
	for _, child := range e.children(id) {
		if c := e.Get(child); c != nil {
			c.Parent = id
		}
	}
	return id
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// Children returns direct sub-expressions in source order.
func (e *Exprs) Children(id ExprID) []ExprID {
	return e.children(id)
}

func (e *Exprs) children(id ExprID) []ExprID {
	x := e.Get(id)
	if x == nil {
		return nil
	}
	out := make([]ExprID, 0, 3+len(x.Args))
	add := func(c ExprID) {
		if c.IsValid() {
			out = append(out, c)
		}
	}
	switch x.Kind {
	case ExprNew:
		// new T(args) { init }
		for _, a := range x.Args {
			add(a)
		}
		add(x.Init)
		return out
	case ExprCall, ExprIndex:
		add(x.Left)
		for _, a := range x.Args {
			add(a)
		}
		add(x.Init)
		return out
	}
	add(x.Left)
	add(x.Right)
	add(x.Third)
	for _, a := range x.Args {
		add(a)
	}
	add(x.Init)
	return out
}
