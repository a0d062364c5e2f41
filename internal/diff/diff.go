// Package diff renders unified diffs of fixed files for `trivet fix --diff`.
package diff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// DefaultContext is the number of unchanged lines around a hunk.
const DefaultContext = 3

// Options control rendering.
type Options struct {
	// Context lines around each hunk; negative means DefaultContext.
	Context int
	Color   bool
}

type opKind uint8

const (
	opKeep opKind = iota
	opDel
	opIns
)

// op: одна строка скрипта правки; a/b - индексы в старом/новом тексте, -1 если нет.
type op struct {
	kind opKind
	a, b int
}

// Unified writes a unified diff of before→after under the a/ b/ prefixes.
// Equal inputs write nothing. Lines keep their own terminators, so a
// change from LF to CRLF shows up as a changed line.
func Unified(w io.Writer, path string, before, after []byte, opts Options) error {
	if bytes.Equal(before, after) {
		return nil
	}
	ctxLines := opts.Context
	if ctxLines < 0 {
		ctxLines = DefaultContext
	}
	old := splitLines(before)
	cur := splitLines(after)
	script := shortestEdit(old, cur)

	p := newPalette(opts.Color)
	var buf bytes.Buffer
	p.header.Fprintf(&buf, "--- a/%s", path)
	buf.WriteByte('\n')
	p.header.Fprintf(&buf, "+++ b/%s", path)
	buf.WriteByte('\n')
	for _, h := range hunks(script, ctxLines) {
		h.write(&buf, old, cur, p)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// String is Unified into a string without color.
func String(path string, before, after []byte) string {
	var b bytes.Buffer
	_ = Unified(&b, path, before, after, Options{Context: DefaultContext})
	return b.String()
}

func splitLines(s []byte) [][]byte {
	if len(s) == 0 {
		return nil
	}
	lines := bytes.SplitAfter(s, []byte("\n"))
	if len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// shortestEdit is Myers' O(ND) greedy algorithm with a saved frontier per
// step for the backward walk.
func shortestEdit(a, b [][]byte) []op {
	n, m := len(a), len(b)
	limit := n + m
	if limit == 0 {
		return nil
	}
	off := limit
	v := make([]int, 2*limit+2)
	var frontiers [][]int

	for d := 0; d <= limit; d++ {
		frontiers = append(frontiers, append([]int(nil), v...))
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[off+k-1] < v[off+k+1]) {
				x = v[off+k+1]
			} else {
				x = v[off+k-1] + 1
			}
			y := x - k
			for x < n && y < m && bytes.Equal(a[x], b[y]) {
				x++
				y++
			}
			v[off+k] = x
			if x >= n && y >= m {
				return walkBack(frontiers, n, m, off)
			}
		}
	}
	return nil
}

func walkBack(frontiers [][]int, n, m, off int) []op {
	x, y := n, m
	script := make([]op, 0, n+m)
	for d := len(frontiers) - 1; d > 0; d-- {
		v := frontiers[d]
		k := x - y
		down := k == -d || (k != d && v[off+k-1] < v[off+k+1])
		prevK := k - 1
		if down {
			prevK = k + 1
		}
		prevX := v[off+prevK]
		prevY := prevX - prevK
		for x > prevX && y > prevY {
			x--
			y--
			script = append(script, op{kind: opKeep, a: x, b: y})
		}
		if down {
			y--
			script = append(script, op{kind: opIns, a: -1, b: y})
		} else {
			x--
			script = append(script, op{kind: opDel, a: x, b: -1})
		}
	}
	for x > 0 && y > 0 {
		x--
		y--
		script = append(script, op{kind: opKeep, a: x, b: y})
	}
	for i, j := 0, len(script)-1; i < j; i, j = i+1, j-1 {
		script[i], script[j] = script[j], script[i]
	}
	return script
}

// hunk: oldFrom/newFrom - сколько строк каждой стороны предшествует хунку.
type hunk struct {
	ops              []op
	oldFrom, oldSize int
	newFrom, newSize int
}

// hunks cuts the script around changes; changes closer than 2*ctx lines
// share a hunk.
func hunks(script []op, ctx int) []hunk {
	var out []hunk
	i := 0
	for i < len(script) {
		if script[i].kind == opKeep {
			i++
			continue
		}
		start := max(i-ctx, 0)
		end := i
		for j := i; j < len(script); j++ {
			if script[j].kind != opKeep {
				end = j
				continue
			}
			if j-end > 2*ctx {
				break
			}
		}
		stop := min(end+ctx+1, len(script))
		out = append(out, newHunk(script, start, stop))
		i = stop
	}
	return out
}

func newHunk(script []op, start, stop int) hunk {
	h := hunk{ops: script[start:stop]}
	for _, o := range script[:start] {
		if o.a >= 0 {
			h.oldFrom++
		}
		if o.b >= 0 {
			h.newFrom++
		}
	}
	for _, o := range h.ops {
		if o.a >= 0 {
			h.oldSize++
		}
		if o.b >= 0 {
			h.newSize++
		}
	}
	return h
}

// rangeOf follows GNU diff: an empty range names the line before it.
func rangeOf(from, size int) string {
	if size == 0 {
		return fmt.Sprintf("%d,0", from)
	}
	return fmt.Sprintf("%d,%d", from+1, size)
}

func (h hunk) write(buf *bytes.Buffer, old, cur [][]byte, p palette) {
	p.hunk.Fprintf(buf, "@@ -%s +%s @@", rangeOf(h.oldFrom, h.oldSize), rangeOf(h.newFrom, h.newSize))
	buf.WriteByte('\n')
	for _, o := range h.ops {
		switch o.kind {
		case opKeep:
			writeLine(buf, ' ', old[o.a], p.keep)
		case opDel:
			writeLine(buf, '-', old[o.a], p.del)
		case opIns:
			writeLine(buf, '+', cur[o.b], p.ins)
		}
	}
}

func writeLine(buf *bytes.Buffer, mark byte, line []byte, c *color.Color) {
	text := bytes.TrimSuffix(line, []byte("\n"))
	c.Fprintf(buf, "%c%s", mark, visibleCR(text))
	buf.WriteByte('\n')
	if !bytes.HasSuffix(line, []byte("\n")) {
		buf.WriteString("\\ No newline at end of file\n")
	}
}

// visibleCR keeps a trailing \r readable in a terminal.
func visibleCR(text []byte) []byte {
	if bytes.HasSuffix(text, []byte("\r")) {
		return append(bytes.TrimSuffix(text, []byte("\r")), `\r`...)
	}
	return text
}

type palette struct {
	header, hunk, keep, del, ins *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		header: color.New(color.Bold),
		hunk:   color.New(color.FgCyan),
		keep:   color.New(color.Reset),
		del:    color.New(color.FgRed),
		ins:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.header, p.hunk, p.keep, p.del, p.ins} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}
