package token

import "trivet/internal/source"

// Directive is the parsed form of a preprocessor line such as "#region Setup".
type Directive struct {
	Name    string
	Payload string
}

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocComment
	TriviaDirective
	TriviaSkipped
)

var triviaNames = [...]string{
	TriviaSpace:        "Space",
	TriviaNewline:      "Newline",
	TriviaLineComment:  "LineComment",
	TriviaBlockComment: "BlockComment",
	TriviaDocComment:   "DocComment",
	TriviaDirective:    "Directive",
	TriviaSkipped:      "Skipped",
}

func (k TriviaKind) String() string {
	if int(k) < len(triviaNames) {
		return triviaNames[k]
	}
	return "Unknown"
}

// IsComment reports whether the trivia is any kind of comment.
func (k TriviaKind) IsComment() bool {
	return k == TriviaLineComment || k == TriviaBlockComment || k == TriviaDocComment
}

type Trivia struct {
	Kind      TriviaKind
	Span      source.Span
	Text      string
	Directive *Directive // только если Kind == TriviaDirective
}

// Synthetic trivia carry no span; the rewriter creates them.

// Space returns a whitespace trivia of n blanks.
func Space(n int) Trivia {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return Trivia{Kind: TriviaSpace, Text: string(b)}
}

// Newline returns an end-of-line trivia with the given terminator.
func Newline(eol string) Trivia {
	return Trivia{Kind: TriviaNewline, Text: eol}
}

// RunText concatenates the text of a trivia run.
func RunText(run []Trivia) string {
	n := 0
	for _, tv := range run {
		n += len(tv.Text)
	}
	b := make([]byte, 0, n)
	for _, tv := range run {
		b = append(b, tv.Text...)
	}
	return string(b)
}

// RunSpan returns the source span covered by a run of lexed trivia.
// ok is false for an empty run.
func RunSpan(run []Trivia) (sp source.Span, ok bool) {
	if len(run) == 0 {
		return source.Span{}, false
	}
	return run[0].Span.Cover(run[len(run)-1].Span), true
}
