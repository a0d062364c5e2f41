package lsp

import (
	"unicode/utf16"
	"unicode/utf8"

	"trivet/internal/source"
)

// Editors address text in UTF-16 code units per line; trivet spans are
// byte offsets. Everything crossing the wire goes through these helpers.

// endOfFile clamps to the last offset of any file.
const endOfFile = ^uint32(0)

// utf16Prefix returns how many bytes of line fit in units UTF-16 units.
// A unit count that lands inside a surrogate pair stops before the rune.
func utf16Prefix(line []byte, units int) int {
	i := 0
	for i < len(line) {
		r, size := utf8.DecodeRune(line[i:])
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if n > units {
			break
		}
		units -= n
		i += size
	}
	return i
}

func utf16Count(b []byte) int {
	n := 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		n += max(utf16.RuneLen(r), 1)
		b = b[size:]
	}
	return n
}

// lineBounds returns the byte range of a 0-based line without its '\n'.
func lineBounds(file *source.File, line int) (start, end int) {
	start = int(file.LineStart(line))
	end = len(file.Content)
	if line < len(file.LineIdx) {
		end = int(file.LineIdx[line])
	}
	return start, max(start, end)
}

func fileOffset(file *source.File, pos position) uint32 {
	switch {
	case file == nil || pos.Line < 0 || pos.Character < 0:
		return 0
	case pos.Line > len(file.LineIdx):
		return uint32(len(file.Content))
	}
	start, end := lineBounds(file, pos.Line)
	return uint32(start + utf16Prefix(file.Content[start:end], pos.Character))
}

func filePosition(file *source.File, off uint32) position {
	if file == nil {
		return position{}
	}
	off = min(off, uint32(len(file.Content)))
	line := file.LineOf(off)
	start := file.LineStart(line)
	return position{Line: line, Character: utf16Count(file.Content[start:off])}
}

func spanRange(file *source.File, span source.Span) lspRange {
	if file == nil {
		return lspRange{}
	}
	return lspRange{Start: filePosition(file, span.Start), End: filePosition(file, span.End)}
}

// overlaps counts touching ends, so an empty range acts as a caret.
func overlaps(a, b lspRange) bool {
	return !less(a.End, b.Start) && !less(b.End, a.Start)
}

func less(a, b position) bool {
	if a.Line == b.Line {
		return a.Character < b.Character
	}
	return a.Line < b.Line
}
