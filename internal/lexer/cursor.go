package lexer

import (
	"fmt"

	"trivet/internal/source"

	"fortio.org/safecast"
)

// Cursor: побайтовое чтение содержимого файла. Все чтения за концом
// возвращают 0, поэтому сканеры не проверяют границы сами.
type Cursor struct {
	File *source.File
	Off  uint32
	end  uint32
}

func NewCursor(f *source.File) Cursor {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("lexer: file %s too large: %w", f.Path, err))
	}
	return Cursor{File: f, end: end}
}

func (c *Cursor) EOF() bool { return c.Off >= c.end }

// PeekAt returns the byte n positions ahead, or 0 past the end.
func (c *Cursor) PeekAt(n uint32) byte {
	if i := c.Off + n; i < c.end {
		return c.File.Content[i]
	}
	return 0
}

func (c *Cursor) Peek() byte { return c.PeekAt(0) }

// Peek2 reports ok only when both bytes exist.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.end {
		return 0, 0, false
	}
	return c.File.Content[c.Off], c.File.Content[c.Off+1], true
}

func (c *Cursor) Peek3() (b0, b1, b2 byte, ok bool) {
	if c.Off+2 >= c.end {
		return 0, 0, 0, false
	}
	return c.File.Content[c.Off], c.File.Content[c.Off+1], c.File.Content[c.Off+2], true
}

// Bump consumes one byte and returns it; at EOF it returns 0 and stays.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.File.Content[c.Off] != b {
		return false
	}
	c.Off++
	return true
}

// Mark: сохранённая позиция для SpanFrom и Reset.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }

// SpanFrom covers the bytes consumed since m.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}
