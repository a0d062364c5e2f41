// Package diag defines the diagnostic model shared by the lexer, the parser,
// the rule engine and the host.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning, Error.
//   - Code – compact numeric identifier with a stable string form (TRV1001, LEX4002, ...).
//   - Message – short and actionable.
//   - Primary span – where the issue is.
//   - Notes – optional secondary spans.
//   - Fixes – optional Fix records.
//
// # Fix suggestions
//
// A Fix is data only: Title, Kind, Applicability, IsPreferred, RequiresAll and
// concrete TextEdits in source coordinates. OldText on an edit is a guard the
// fix engine checks before applying. A Fix may carry a Thunk instead of edits;
// MaterializeFixes expands thunks deterministically.
//
// Package diag does no formatting and no IO. Rendering lives in
// internal/diagfmt, application of fixes in internal/fix.
package diag
