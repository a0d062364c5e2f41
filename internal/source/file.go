package source

import (
	"os"
	"path/filepath"
	"sort"
)

// LineCount counts lines; a trailing '\n' opens an empty last line.
func (f *File) LineCount() int {
	return len(f.LineIdx) + 1
}

// LineOf returns the 0-based line holding byte offset off. A '\n'
// belongs to the line it ends.
func (f *File) LineOf(off uint32) int {
	return sort.Search(len(f.LineIdx), func(i int) bool { return f.LineIdx[i] >= off })
}

// LineStart returns the offset of the first byte of the 0-based line,
// clamped to the last line.
func (f *File) LineStart(line int) uint32 {
	switch {
	case line <= 0 || len(f.LineIdx) == 0:
		return 0
	case line > len(f.LineIdx):
		line = len(f.LineIdx)
	}
	return f.LineIdx[line-1] + 1
}

// GetLine returns the text of the 1-based line without its terminator,
// or "" past the end of the file.
func (f *File) GetLine(lineNum uint32) string {
	n := int(lineNum)
	if n == 0 || n > f.LineCount() {
		return ""
	}
	start := int(f.LineStart(n - 1))
	end := len(f.Content)
	if n-1 < len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	if start >= len(f.Content) || start > end {
		return ""
	}
	text := f.Content[start:end]
	if len(text) > 0 && text[len(text)-1] == '\r' {
		text = text[:len(text)-1]
	}
	return string(text)
}

// FormatPath renders the path for output. mode is one of absolute,
// relative, basename or auto; anything else prints the stored path.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case "basename":
		return BaseName(f.Path)
	case "auto":
		// длинные абсолютные пути сокращаем до имени файла
		if filepath.IsAbs(f.Path) && len(f.Path) >= 40 {
			return BaseName(f.Path)
		}
	}
	return f.Path
}
