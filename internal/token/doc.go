// Package token defines lexical token kinds and trivia for C#-dialect sources.
// Invariants:
//   - Token.Text is exactly the source bytes covered by Token.Span.
//   - Every byte of the input belongs to exactly one token text or one trivia item.
//   - Leading trivia runs from the end of the previous token's trailing trivia up
//     to the token; trailing trivia stops after the first end-of-line.
//   - One TriviaNewline per line break; "\r\n" is a single item.
//   - Preprocessor directives (#region, #if, ...) are TriviaDirective items and
//     never appear in the main token stream.
//   - Predefined type names (int, string, bool, ...) and contextual keywords
//     (var, yield, when, nameof, record, ...) are identifiers.
package token
