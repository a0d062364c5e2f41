// Package trace records what a trivet run is doing: driver phases, per-file
// work and per-rule evaluation.
//
// Enable it from the command line:
//
//	trivet check --trace=- --trace-level=detail src/
//
// A Tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "analyze", 0)
//	defer span.End("")
//
// Levels gate scopes: phase shows driver and pass boundaries, detail adds
// files, debug adds individual rules. Storage is a stream (written at once),
// a ring (kept in memory and dumped on demand) or both.
package trace
