package diagfmt

import (
	"fmt"
	"io"

	"trivet/internal/diag"
	"trivet/internal/source"
)

// Short печатает по одной строке на диагностику, в формате, который
// понимают редакторы и CI:
// <path>:<line>:<col>: <severity>: <message> [<CODE>]
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) {
	for _, d := range bag.Items() {
		start, _ := fs.Resolve(d.Primary)
		path := displayPath(fs, fs.Get(d.Primary.File), mode)
		fixable := ""
		if d.HasFix() {
			fixable = " (fixable)"
		}
		fmt.Fprintf(w, "%s:%d:%d: %s: %s [%s]%s\n",
			path, start.Line, start.Col, d.Severity.Label(), d.Message, d.Code.ID(), fixable)
	}
}
