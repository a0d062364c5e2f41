package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
)

// WithTracer returns ctx carrying t; a nil t stores Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// ParentID is the id of the innermost span opened with Start, 0 at the root.
func ParentID(ctx context.Context) uint64 {
	if ctx != nil {
		if id, ok := ctx.Value(spanKey{}).(uint64); ok {
			return id
		}
	}
	return 0
}

// Start opens a span under the innermost span of ctx and returns a context
// in which the new span is the parent. A disabled tracer returns ctx as is.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	span := Begin(FromContext(ctx), scope, name, ParentID(ctx))
	if span.ID() == 0 {
		return ctx, span
	}
	return context.WithValue(ctx, spanKey{}, span.ID()), span
}
