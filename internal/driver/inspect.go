package driver

import (
	"trivet/internal/ast"
	"trivet/internal/diag"
	"trivet/internal/lexer"
	"trivet/internal/parser"
	"trivet/internal/source"
	"trivet/internal/token"
)

// Inspection is a single file opened for the tokenize and tree commands.
// Lexer and parser problems collect in Bag.
type Inspection struct {
	FileSet *source.FileSet
	File    *source.File
	Bag     *diag.Bag
}

func Inspect(path string, maxDiagnostics int) (*Inspection, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return &Inspection{FileSet: fs, File: fs.Get(id), Bag: diag.NewBag(maxDiagnostics)}, nil
}

// Tokens lexes the file; the last token is EOF.
func (in *Inspection) Tokens() []token.Token {
	return lexer.Tokenize(in.File, lexer.Options{Reporter: diag.BagReporter{Bag: in.Bag}})
}

func (in *Inspection) Tree() *ast.Tree {
	return parser.Parse(in.File, parser.Options{Reporter: diag.BagReporter{Bag: in.Bag}})
}
