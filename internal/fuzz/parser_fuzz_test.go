package fuzztests

import (
	"context"
	"testing"
	"time"

	"trivet/internal/ast"
	"trivet/internal/diag"
	"trivet/internal/parser"
	"trivet/internal/source"
	"trivet/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func parse(input []byte) *ast.Tree {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("fuzz.cs", input))
	bag := diag.NewBag(128)
	return parser.Parse(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 128})
}

// FuzzParserLossless: the tree keeps every token and reproduces the input.
func FuzzParserLossless(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		tree := parse(clampInput(input))
		if err := testkit.CheckLossless(tree); err != nil {
			t.Fatalf("lossless: %v", err)
		}
	})
}

// FuzzParserNoHang tests that the parser doesn't hang on any input.
// It uses a timeout to detect infinite loops that could be caused by
// malformed input or edge cases in error recovery.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	// Add specific edge cases of error recovery
	f.Add([]byte("void M() { int x = 1\nint y = 2; }")) // missing semicolon
	f.Add([]byte("switch (k) { case 1: case 2: }"))   // empty sections
	f.Add([]byte("{ { { { } } } }"))                   // deeply nested blocks
	f.Add([]byte("x ? y ? z : w"))                     // unbalanced conditional
	f.Add([]byte("for (int i = 0 i < 10 i++) {}"))     // for without semicolons
	f.Add([]byte("new List<int> { 1, 2, { 3 } "))      // unterminated initializer
	f.Add([]byte("a.b().c(.d()"))                      // broken chain

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = parse(input)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}
