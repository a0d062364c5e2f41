package trivia

import (
	"strings"

	"trivet/internal/ast"
	"trivet/internal/token"
)

// Gap describes the text between two tokens: the trailing trivia of the
// first, the leading trivia of the second and, when the tokens are not
// adjacent, everything in between.
type Gap struct {
	BlankLines   int
	Newlines     int
	HasComment   bool
	HasDirective bool
	// CommentAdjacentToPrev: a comment sits on the line right after the first
	// token's line. A comment trailing the first token on its own line does
	// not count.
	CommentAdjacentToPrev bool
	// CommentAdjacentToNext: a comment sits on the line right before the
	// second token or on the same line in front of it.
	CommentAdjacentToNext bool
	SameLine              bool
}

type lineState struct {
	comment bool
	content bool // код, директива или пропущенный текст
}

// Between classifies the gap between tokens a and b (a before b).
func Between(tree *ast.Tree, a, b ast.TokenID) Gap {
	var items []token.Trivia
	lines := []lineState{{content: true}} // строка токена a
	cur := &lines[0]
	push := func(run []token.Trivia) {
		for _, tv := range run {
			switch tv.Kind {
			case token.TriviaSpace:
			case token.TriviaNewline:
				lines = append(lines, lineState{})
				cur = &lines[len(lines)-1]
			default:
				if tv.Kind.IsComment() {
					cur.comment = true
				} else {
					cur.content = true
				}
				for range strings.Count(tv.Text, "\n") {
					lines = append(lines, lineState{comment: tv.Kind.IsComment(), content: !tv.Kind.IsComment()})
					cur = &lines[len(lines)-1]
				}
			}
			items = append(items, tv)
		}
	}

	if ta := tree.Token(a); ta != nil {
		push(ta.Trailing)
	}
	for id := a + 1; id < b; id++ {
		t := tree.Token(id)
		push(t.Leading)
		cur.content = true
		for range strings.Count(t.Text, "\n") {
			lines = append(lines, lineState{content: true})
			cur = &lines[len(lines)-1]
		}
		push(t.Trailing)
	}
	if tb := tree.Token(b); tb != nil {
		push(tb.Leading)
	}

	var g Gap
	g.Newlines = len(lines) - 1
	g.SameLine = g.Newlines == 0
	for _, tv := range items {
		g.HasComment = g.HasComment || tv.Kind.IsComment()
		g.HasDirective = g.HasDirective || tv.Kind == token.TriviaDirective
	}
	last := len(lines) - 1
	for i := 1; i < last; i++ {
		if !lines[i].comment && !lines[i].content {
			g.BlankLines++
		}
	}
	if last >= 1 && lines[1].comment {
		g.CommentAdjacentToPrev = true
	}
	if lines[last].comment || last >= 1 && lines[last-1].comment && last-1 > 0 {
		g.CommentAdjacentToNext = true
	}
	return g
}
