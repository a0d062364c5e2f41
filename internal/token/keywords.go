package token

var keywords = map[string]Kind{
	"abstract":   KwAbstract,
	"as":         KwAs,
	"base":       KwBase,
	"break":      KwBreak,
	"case":       KwCase,
	"catch":      KwCatch,
	"checked":    KwChecked,
	"class":      KwClass,
	"const":      KwConst,
	"continue":   KwContinue,
	"default":    KwDefault,
	"delegate":   KwDelegate,
	"do":         KwDo,
	"else":       KwElse,
	"enum":       KwEnum,
	"event":      KwEvent,
	"explicit":   KwExplicit,
	"extern":     KwExtern,
	"false":      KwFalse,
	"finally":    KwFinally,
	"fixed":      KwFixed,
	"for":        KwFor,
	"foreach":    KwForeach,
	"goto":       KwGoto,
	"if":         KwIf,
	"implicit":   KwImplicit,
	"in":         KwIn,
	"interface":  KwInterface,
	"internal":   KwInternal,
	"is":         KwIs,
	"lock":       KwLock,
	"namespace":  KwNamespace,
	"new":        KwNew,
	"null":       KwNull,
	"operator":   KwOperator,
	"out":        KwOut,
	"override":   KwOverride,
	"params":     KwParams,
	"private":    KwPrivate,
	"protected":  KwProtected,
	"public":     KwPublic,
	"readonly":   KwReadonly,
	"ref":        KwRef,
	"return":     KwReturn,
	"sealed":     KwSealed,
	"sizeof":     KwSizeof,
	"stackalloc": KwStackalloc,
	"static":     KwStatic,
	"struct":     KwStruct,
	"switch":     KwSwitch,
	"this":       KwThis,
	"throw":      KwThrow,
	"true":       KwTrue,
	"try":        KwTry,
	"typeof":     KwTypeof,
	"unchecked":  KwUnchecked,
	"unsafe":     KwUnsafe,
	"using":      KwUsing,
	"virtual":    KwVirtual,
	"void":       KwVoid,
	"volatile":   KwVolatile,
	"while":      KwWhile,
}

// LookupKeyword возвращает тип и bool если это зарезервированное слово.
// Ключевые слова регистрозависимые; контекстные (var, when, yield, ...) сюда не входят.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
