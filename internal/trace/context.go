package trace

import "context"

type ctxKey struct{}

// ctxState is what a context carries: the tracer and the span that new
// spans nest under.
type ctxState struct {
	tracer Tracer
	parent uint64
}

func stateOf(ctx context.Context) ctxState {
	if ctx != nil {
		if st, ok := ctx.Value(ctxKey{}).(ctxState); ok {
			return st
		}
	}
	return ctxState{tracer: Nop}
}

// FromContext returns the tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return stateOf(ctx).tracer
}

// WithTracer attaches t to ctx; a nil t means Nop. The current parent span
// is kept.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	st := stateOf(ctx)
	st.tracer = t
	return context.WithValue(ctx, ctxKey{}, st)
}

// WithSpan makes span the parent of spans started from the returned context.
func WithSpan(ctx context.Context, span *Span) context.Context {
	st := stateOf(ctx)
	st.parent = span.ID()
	return context.WithValue(ctx, ctxKey{}, st)
}

// Start begins a span with the context's tracer under its current span.
func Start(ctx context.Context, scope Scope, name string) *Span {
	st := stateOf(ctx)
	return Begin(st.tracer, scope, name, st.parent)
}
