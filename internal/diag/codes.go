package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Правила: пустые строки
	RuleLogCallBlankLines     Code = 1001
	RuleReturnBlankLineBefore Code = 1002
	RuleControlBlankLines     Code = 1003
	RuleBlockOpenNoBlank      Code = 1004
	RuleBlockCloseNoBlank     Code = 1005

	// Правила: выравнивание
	RuleChainAlignment            Code = 2001
	RuleTernaryAlignment          Code = 2002
	RuleBooleanOperatorAlignment  Code = 2003
	RuleInitializerBraceAlignment Code = 2004

	// Лексические
	LexInfo                     Code = 4000
	LexUnknownChar              Code = 4001
	LexUnterminatedString       Code = 4002
	LexUnterminatedBlockComment Code = 4003
	LexBadNumber                Code = 4004
	LexUnterminatedChar         Code = 4005
	LexInvalidUTF8              Code = 4006

	// Парсерные
	SynInfo              Code = 5000
	SynUnexpectedToken   Code = 5001
	SynUnclosedDelimiter Code = 5002
	SynExpectSemicolon   Code = 5003
	SynExpectExpression  Code = 5004
	SynExpectIdentifier  Code = 5005

	// Ввод-вывод
	IOLoadFileError Code = 6001

	// Применение исправлений
	FixVerifyFailed Code = 7001
)

var codeDescription = map[Code]string{
	UnknownCode:                   "Unknown error",
	RuleLogCallBlankLines:         "Logging call must be surrounded by blank lines",
	RuleReturnBlankLineBefore:     "Return or throw must be preceded by a blank line",
	RuleControlBlankLines:         "Control statement must be surrounded by blank lines",
	RuleBlockOpenNoBlank:          "No blank line after an opening brace",
	RuleBlockCloseNoBlank:         "No blank line before a closing brace",
	RuleChainAlignment:            "Call chain members must be aligned",
	RuleTernaryAlignment:          "Conditional operator parts must be aligned",
	RuleBooleanOperatorAlignment:  "Boolean operators must be aligned with their operands",
	RuleInitializerBraceAlignment: "Initializer braces must be aligned with the declaration",
	LexInfo:                       "Lexical information",
	LexUnknownChar:                "Unknown character",
	LexUnterminatedString:         "Unterminated string literal",
	LexUnterminatedBlockComment:   "Unterminated block comment",
	LexBadNumber:                  "Invalid numeric literal",
	LexUnterminatedChar:           "Unterminated character literal",
	LexInvalidUTF8:                "Invalid UTF-8 sequence",
	SynInfo:                       "Syntax information",
	SynUnexpectedToken:            "Unexpected token",
	SynUnclosedDelimiter:          "Unclosed delimiter",
	SynExpectSemicolon:            "Missing semicolon",
	SynExpectExpression:           "Expected expression",
	SynExpectIdentifier:           "Expected identifier",
	IOLoadFileError:               "I/O error while loading file",
	FixVerifyFailed:               "Fixed file no longer parses",
}

func (c Code) prefix() string {
	switch {
	case c >= 1000 && c < 4000:
		return "TRV"
	case c >= 4000 && c < 5000:
		return "LEX"
	case c >= 5000 && c < 6000:
		return "SYN"
	case c >= 6000 && c < 7000:
		return "IO"
	case c >= 7000 && c < 8000:
		return "FIX"
	}
	return "E"
}

// ID returns the stable identifier, e.g. TRV1001.
func (c Code) ID() string {
	return fmt.Sprintf("%s%04d", c.prefix(), uint16(c))
}

func (c Code) Title() string {
	if d, ok := codeDescription[c]; ok {
		return d
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// IsRule reports whether the code belongs to a style rule rather than to
// the lexer, the parser or the host.
func (c Code) IsRule() bool {
	return c >= 1000 && c < 4000
}

// ParseCode resolves an identifier like "TRV2003" back to its Code.
func ParseCode(id string) (Code, bool) {
	for c := range codeDescription {
		if c.ID() == id {
			return c, true
		}
	}
	return UnknownCode, false
}
