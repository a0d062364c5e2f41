package lexer

import (
	"testing"

	"trivet/internal/source"
)

func virtualFile(t *testing.T, content string) (*source.FileSet, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	return fs, fs.Get(fs.AddVirtual("Cursor.cs", []byte(content)))
}

func TestCursorReadsCRLFByteByByte(t *testing.T) {
	_, f := virtualFile(t, "a\r\nb")
	c := NewCursor(f)
	var got []byte
	for !c.EOF() {
		got = append(got, c.Bump())
	}
	if string(got) != "a\r\nb" {
		t.Fatalf("read %q", got)
	}
	if c.Peek() != 0 || c.Bump() != 0 || c.Off != 4 {
		t.Fatalf("cursor must stay at EOF: off=%d", c.Off)
	}
}

func TestCursorLookahead(t *testing.T) {
	_, f := virtualFile(t, "=>;")
	c := NewCursor(f)
	if b0, b1, ok := c.Peek2(); !ok || b0 != '=' || b1 != '>' {
		t.Fatalf("Peek2 = %q %q %v", b0, b1, ok)
	}
	if _, _, _, ok := c.Peek3(); !ok {
		t.Fatalf("Peek3 should see three bytes")
	}
	if c.PeekAt(2) != ';' || c.PeekAt(3) != 0 {
		t.Fatalf("PeekAt past the end must be 0")
	}
	c.Bump()
	c.Bump()
	if _, _, ok := c.Peek2(); ok {
		t.Fatalf("Peek2 on the last byte must fail")
	}
}

func TestCursorEatAndReset(t *testing.T) {
	_, f := virtualFile(t, "@\"x\"")
	c := NewCursor(f)
	start := c.Mark()
	if c.Eat('"') {
		t.Fatalf("Eat must not consume a different byte")
	}
	if !c.Eat('@') || !c.Eat('"') {
		t.Fatalf("Eat failed on matching bytes")
	}
	if sp := c.SpanFrom(start); sp.Start != 0 || sp.End != 2 || sp.File != f.ID {
		t.Fatalf("span = %+v", sp)
	}
	c.Reset(start)
	if c.Peek() != '@' {
		t.Fatalf("Reset did not rewind")
	}
}

func TestCursorSpanResolvesMultibyte(t *testing.T) {
	// "α" занимает 2 байта; колонки считаются в байтах
	fs, f := virtualFile(t, "α\nβ")
	c := NewCursor(f)
	m := c.Mark()
	c.Bump()
	c.Bump()
	start, end := fs.Resolve(c.SpanFrom(m))
	if start != (source.LineCol{Line: 1, Col: 1}) || end != (source.LineCol{Line: 1, Col: 3}) {
		t.Fatalf("resolve = %+v..%+v", start, end)
	}
	m = c.Mark()
	c.Bump()
	_, end = fs.Resolve(c.SpanFrom(m))
	if end != (source.LineCol{Line: 2, Col: 1}) {
		t.Fatalf("newline span should end at 2:1, got %+v", end)
	}
}
