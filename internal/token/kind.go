package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token (including @verbatim names).
	Ident

	KwAbstract   // abstract
	KwAs         // as
	KwBase       // base
	KwBreak      // break
	KwCase       // case
	KwCatch      // catch
	KwChecked    // checked
	KwClass      // class
	KwConst      // const
	KwContinue   // continue
	KwDefault    // default
	KwDelegate   // delegate
	KwDo         // do
	KwElse       // else
	KwEnum       // enum
	KwEvent      // event
	KwExplicit   // explicit
	KwExtern     // extern
	KwFalse      // false
	KwFinally    // finally
	KwFixed      // fixed
	KwFor        // for
	KwForeach    // foreach
	KwGoto       // goto
	KwIf         // if
	KwImplicit   // implicit
	KwIn         // in
	KwInterface  // interface
	KwInternal   // internal
	KwIs         // is
	KwLock       // lock
	KwNamespace  // namespace
	KwNew        // new
	KwNull       // null
	KwOperator   // operator
	KwOut        // out
	KwOverride   // override
	KwParams     // params
	KwPrivate    // private
	KwProtected  // protected
	KwPublic     // public
	KwReadonly   // readonly
	KwRef        // ref
	KwReturn     // return
	KwSealed     // sealed
	KwSizeof     // sizeof
	KwStackalloc // stackalloc
	KwStatic     // static
	KwStruct     // struct
	KwSwitch     // switch
	KwThis       // this
	KwThrow      // throw
	KwTrue       // true
	KwTry        // try
	KwTypeof     // typeof
	KwUnchecked  // unchecked
	KwUnsafe     // unsafe
	KwUsing      // using
	KwVirtual    // virtual
	KwVoid       // void
	KwVolatile   // volatile
	KwWhile      // while

	IntLit
	RealLit
	CharLit
	// StringLit covers regular, verbatim and raw string literals.
	StringLit
	// InterpStringLit covers $"..." in all its forms, holes included.
	InterpStringLit

	Plus                   // +
	Minus                  // -
	Star                   // *
	Slash                  // /
	Percent                // %
	Assign                 // =
	PlusAssign             // +=
	MinusAssign            // -=
	StarAssign             // *=
	SlashAssign            // /=
	PercentAssign          // %=
	AmpAssign              // &=
	PipeAssign             // |=
	CaretAssign            // ^=
	ShlAssign              // <<=
	QuestionQuestionAssign // ??=
	EqEq                   // ==
	Bang                   // !
	BangEq                 // !=
	Lt                     // <
	LtEq                   // <=
	Gt                     // >
	GtEq                   // >=
	Shl                    // <<
	Amp                    // &
	Pipe                   // |
	Caret                  // ^
	Tilde                  // ~
	AndAnd                 // &&
	OrOr                   // ||
	PlusPlus               // ++
	MinusMinus             // --
	Question               // ?
	QuestionQuestion       // ??
	QuestionDot            // ?.
	Colon                  // :
	ColonColon             // ::
	Semicolon              // ;
	Comma                  // ,
	Dot                    // .
	DotDot                 // ..
	Arrow                  // ->
	FatArrow               // =>
	LParen                 // (
	RParen                 // )
	LBrace                 // {
	RBrace                 // }
	LBracket               // [
	RBracket               // ]
)

var kindNames = [...]string{
	Invalid:                "Invalid",
	EOF:                    "EOF",
	Ident:                  "Ident",
	KwAbstract:             "abstract",
	KwAs:                   "as",
	KwBase:                 "base",
	KwBreak:                "break",
	KwCase:                 "case",
	KwCatch:                "catch",
	KwChecked:              "checked",
	KwClass:                "class",
	KwConst:                "const",
	KwContinue:             "continue",
	KwDefault:              "default",
	KwDelegate:             "delegate",
	KwDo:                   "do",
	KwElse:                 "else",
	KwEnum:                 "enum",
	KwEvent:                "event",
	KwExplicit:             "explicit",
	KwExtern:               "extern",
	KwFalse:                "false",
	KwFinally:              "finally",
	KwFixed:                "fixed",
	KwFor:                  "for",
	KwForeach:              "foreach",
	KwGoto:                 "goto",
	KwIf:                   "if",
	KwImplicit:             "implicit",
	KwIn:                   "in",
	KwInterface:            "interface",
	KwInternal:             "internal",
	KwIs:                   "is",
	KwLock:                 "lock",
	KwNamespace:            "namespace",
	KwNew:                  "new",
	KwNull:                 "null",
	KwOperator:             "operator",
	KwOut:                  "out",
	KwOverride:             "override",
	KwParams:               "params",
	KwPrivate:              "private",
	KwProtected:            "protected",
	KwPublic:               "public",
	KwReadonly:             "readonly",
	KwRef:                  "ref",
	KwReturn:               "return",
	KwSealed:               "sealed",
	KwSizeof:               "sizeof",
	KwStackalloc:           "stackalloc",
	KwStatic:               "static",
	KwStruct:               "struct",
	KwSwitch:               "switch",
	KwThis:                 "this",
	KwThrow:                "throw",
	KwTrue:                 "true",
	KwTry:                  "try",
	KwTypeof:               "typeof",
	KwUnchecked:            "unchecked",
	KwUnsafe:               "unsafe",
	KwUsing:                "using",
	KwVirtual:              "virtual",
	KwVoid:                 "void",
	KwVolatile:             "volatile",
	KwWhile:                "while",
	IntLit:                 "IntLit",
	RealLit:                "RealLit",
	CharLit:                "CharLit",
	StringLit:              "StringLit",
	InterpStringLit:        "InterpStringLit",
	Plus:                   "+",
	Minus:                  "-",
	Star:                   "*",
	Slash:                  "/",
	Percent:                "%",
	Assign:                 "=",
	PlusAssign:             "+=",
	MinusAssign:            "-=",
	StarAssign:             "*=",
	SlashAssign:            "/=",
	PercentAssign:          "%=",
	AmpAssign:              "&=",
	PipeAssign:             "|=",
	CaretAssign:            "^=",
	ShlAssign:              "<<=",
	QuestionQuestionAssign: "??=",
	EqEq:                   "==",
	Bang:                   "!",
	BangEq:                 "!=",
	Lt:                     "<",
	LtEq:                   "<=",
	Gt:                     ">",
	GtEq:                   ">=",
	Shl:                    "<<",
	Amp:                    "&",
	Pipe:                   "|",
	Caret:                  "^",
	Tilde:                  "~",
	AndAnd:                 "&&",
	OrOr:                   "||",
	PlusPlus:               "++",
	MinusMinus:             "--",
	Question:               "?",
	QuestionQuestion:       "??",
	QuestionDot:            "?.",
	Colon:                  ":",
	ColonColon:             "::",
	Semicolon:              ";",
	Comma:                  ",",
	Dot:                    ".",
	DotDot:                 "..",
	Arrow:                  "->",
	FatArrow:               "=>",
	LParen:                 "(",
	RParen:                 ")",
	LBrace:                 "{",
	RBrace:                 "}",
	LBracket:               "[",
	RBracket:               "]",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
