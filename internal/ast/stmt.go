package ast

type StmtKind uint8

const (
	StmtUnknown StmtKind = iota
	StmtBlock
	StmtEmpty
	StmtExpr
	StmtLocalDecl
	StmtLocalFunc
	StmtIf
	StmtFor
	StmtForeach
	StmtWhile
	StmtDo
	StmtSwitch
	StmtTry
	StmtUsing
	StmtLock
	StmtFixed
	StmtChecked
	StmtReturn
	StmtThrow
	StmtBreak
	StmtContinue
	StmtGoto
	StmtYield
	StmtLabeled
	// объявления
	StmtUsingDirective
	StmtNamespace
	StmtTypeDecl
	StmtMember
	StmtAccessor
)

var stmtKindNames = [...]string{
	StmtUnknown:        "Unknown",
	StmtBlock:          "Block",
	StmtEmpty:          "Empty",
	StmtExpr:           "Expr",
	StmtLocalDecl:      "LocalDecl",
	StmtLocalFunc:      "LocalFunc",
	StmtIf:             "If",
	StmtFor:            "For",
	StmtForeach:        "Foreach",
	StmtWhile:          "While",
	StmtDo:             "Do",
	StmtSwitch:         "Switch",
	StmtTry:            "Try",
	StmtUsing:          "Using",
	StmtLock:           "Lock",
	StmtFixed:          "Fixed",
	StmtChecked:        "Checked",
	StmtReturn:         "Return",
	StmtThrow:          "Throw",
	StmtBreak:          "Break",
	StmtContinue:       "Continue",
	StmtGoto:           "Goto",
	StmtYield:          "Yield",
	StmtLabeled:        "Labeled",
	StmtUsingDirective: "UsingDirective",
	StmtNamespace:      "Namespace",
	StmtTypeDecl:       "TypeDecl",
	StmtMember:         "Member",
	StmtAccessor:       "Accessor",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "StmtKind(?)"
}

// IsJump reports whether the statement transfers control out of its list.
func (k StmtKind) IsJump() bool {
	switch k {
	case StmtBreak, StmtContinue, StmtReturn, StmtThrow, StmtGoto:
		return true
	}
	return false
}

// IsControl reports whether the statement is a compound control-flow statement.
func (k StmtKind) IsControl() bool {
	switch k {
	case StmtIf, StmtFor, StmtForeach, StmtWhile, StmtDo, StmtSwitch, StmtTry, StmtUsing, StmtLock, StmtFixed:
		return true
	}
	return false
}

// Stmt: оператор или объявление. Дочерние списки (тело блока, секции switch,
// тело типа) лежат в Bodies; вложенные операторы без собственного списка
// (ветви if, тело цикла, блоки try/catch) - в Children.
type Stmt struct {
	Kind     StmtKind
	First    TokenID
	Last     TokenID
	List     ListID // содержащий список; NoListID для вложенных операторов
	Index    int    // позиция в содержащем списке
	Parent   StmtID
	Depth    int
	Keyword  TokenID // if/while/return/...; NoTokenID, если нет
	Expr     ExprID  // условие, возвращаемое значение, выражение оператора
	Exprs    []ExprID
	Bodies   []ListID
	Children []StmtID
}

type Stmts struct {
	Arena *Arena[Stmt]
}

func NewStmts(capHint uint) *Stmts {
	return &Stmts{
		Arena: NewArena[Stmt](capHint),
	}
}

func (s *Stmts) New(stmt Stmt) StmtID {
	return StmtID(s.Arena.Allocate(stmt))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}
