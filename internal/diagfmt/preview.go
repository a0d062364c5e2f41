package diagfmt

import (
	"fmt"
	"strings"

	"trivet/internal/diag"
	"trivet/internal/source"
)

func displayPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	if f == nil {
		return "<unknown>"
	}
	base := ""
	if mode == PathModeRelative {
		base = fs.BaseDir()
	}
	return f.FormatPath(mode.String(), base)
}

// editPreview holds the whole lines an edit touches, before and after it.
type editPreview struct {
	before, after []string
}

func previewEdit(fs *source.FileSet, edit diag.TextEdit) (editPreview, error) {
	file := fs.Get(edit.Span.File)
	if file == nil {
		return editPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	start, end := int(edit.Span.Start), int(edit.Span.End)
	if start > end || end > len(file.Content) {
		return editPreview{}, fmt.Errorf("edit %d..%d outside %s", start, end, file.Path)
	}

	lo := int(file.LineStart(file.LineOf(edit.Span.Start)))
	hi := len(file.Content)
	if last := file.LineOf(edit.Span.End); last < len(file.LineIdx) {
		hi = int(file.LineIdx[last]) + 1
	}
	block := file.Content[lo:hi]

	var after strings.Builder
	after.Write(block[:start-lo])
	after.WriteString(edit.NewText)
	after.Write(block[end-lo:])
	return editPreview{
		before: previewLines(string(block)),
		after:  previewLines(after.String()),
	}, nil
}

// previewLines drops the final terminator only; blank lines inside the
// block are what blank-line fixes change, so they stay.
func previewLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
}
