package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"trivet/internal/source"
	"trivet/internal/token"
)

type TriviaOutput struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type TokenOutput struct {
	Kind     string         `json:"kind"`
	Text     string         `json:"text,omitempty"`
	Span     source.Span    `json:"span"`
	Leading  []TriviaOutput `json:"leading,omitempty"`
	Trailing []TriviaOutput `json:"trailing,omitempty"`
}

func triviaOutput(run []token.Trivia) []TriviaOutput {
	if len(run) == 0 {
		return nil // Убираем пустые массивы из JSON
	}
	out := make([]TriviaOutput, len(run))
	for i, tr := range run {
		out[i] = TriviaOutput{Kind: tr.Kind.String(), Text: tr.Text}
	}
	return out
}

func triviaSummary(run []token.Trivia) string {
	parts := make([]string, len(run))
	for i, tr := range run {
		parts[i] = fmt.Sprintf("%s(%q)", tr.Kind, tr.Text)
	}
	return strings.Join(parts, " ")
}

// FormatTokensPretty выводит токены в человекочитаемом формате:
// номер, вид, текст, позиция, затем ведущие и хвостовые trivia.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		fmt.Fprintf(w, "%3d: %-15s", i+1, tok.Kind.String())
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		fmt.Fprintln(w)

		if len(tok.Leading) > 0 {
			fmt.Fprintf(w, "       leading:  %s\n", triviaSummary(tok.Leading))
		}
		if len(tok.Trailing) > 0 {
			fmt.Fprintf(w, "       trailing: %s\n", triviaSummary(tok.Trailing))
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Kind:     tok.Kind.String(),
			Text:     tok.Text,
			Span:     tok.Span,
			Leading:  triviaOutput(tok.Leading),
			Trailing: triviaOutput(tok.Trailing),
		})
		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
