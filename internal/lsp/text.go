package lsp

import "strings"

// applyChanges applies incremental (or full, when Range is nil) content
// changes in order.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		start := offsetForPosition(text, change.Range.Start)
		end := max(offsetForPosition(text, change.Range.End), start)
		text = text[:start] + change.Text + text[end:]
	}
	return text
}

// offsetForPosition maps a UTF-16 position to a byte offset in text,
// clamping past-the-end lines and columns.
func offsetForPosition(text string, pos position) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	i := 0
	for line := 0; line < pos.Line; line++ {
		nl := strings.IndexByte(text[i:], '\n')
		if nl < 0 {
			return len(text)
		}
		i += nl + 1
	}
	end := strings.IndexByte(text[i:], '\n')
	if end < 0 {
		end = len(text) - i
	}
	return i + utf16Prefix([]byte(text[i:i+end]), pos.Character)
}
