package ast

type (
	// TokenID: 1-based индекс в Tree.Tokens
	TokenID uint32
	StmtID  uint32
	ExprID  uint32
	ListID  uint32
)

const (
	NoTokenID TokenID = 0
	NoStmtID  StmtID  = 0
	NoExprID  ExprID  = 0
	NoListID  ListID  = 0
)

func (id TokenID) IsValid() bool { return id != NoTokenID }
func (id StmtID) IsValid() bool  { return id != NoStmtID }
func (id ExprID) IsValid() bool  { return id != NoExprID }
func (id ListID) IsValid() bool  { return id != NoListID }
