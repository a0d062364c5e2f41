package ast

// ListKind classifies a statement list.
type ListKind uint8

const (
	// ListTopLevel: верхний уровень файла (using, namespace, типы, top-level statements)
	ListTopLevel ListKind = iota
	// ListNamespace: тело namespace (в том числе file-scoped)
	ListNamespace
	// ListTypeBody: члены class/struct/interface/record
	ListTypeBody
	// ListAccessors: get/set/init/add/remove свойства или события
	ListAccessors
	// ListBlock: тело { ... } блока операторов
	ListBlock
	// ListSwitchSection: операторы одной case-секции
	ListSwitchSection
)

func (k ListKind) String() string {
	switch k {
	case ListTopLevel:
		return "top-level"
	case ListNamespace:
		return "namespace"
	case ListTypeBody:
		return "type-body"
	case ListAccessors:
		return "accessors"
	case ListBlock:
		return "block"
	case ListSwitchSection:
		return "switch-section"
	}
	return "unknown"
}

// IsStatementList reports whether items are executable statements.
func (k ListKind) IsStatementList() bool {
	return k == ListBlock || k == ListSwitchSection || k == ListTopLevel
}

// List is an ordered sequence of sibling statements.
//
// Open/Close are the delimiting tokens: braces for blocks and bodies, the colon
// of the last case label for a switch section (Close is then the first token of
// the next section or the closing brace of the switch).
type List struct {
	Kind   ListKind
	Open   TokenID
	Close  TokenID
	Items  []StmtID
	Owner  StmtID
	Labels []TokenID // только для ListSwitchSection: первые токены меток case/default
	Depth  int
}

type Lists struct {
	Arena *Arena[List]
}

func NewLists(capHint uint) *Lists {
	return &Lists{Arena: NewArena[List](capHint)}
}

func (l *Lists) New(list List) ListID {
	return ListID(l.Arena.Allocate(list))
}

func (l *Lists) Get(id ListID) *List {
	return l.Arena.Get(uint32(id))
}
