// Package trace records structured events of a jvmabi run.
//
// Tracing is off by default. Enable it from the CLI:
//
//	jvmabi plan --trace=- --trace-level=detail
//	jvmabi plan --trace=.jvmabi/trace.ndjson --trace-level=debug
//
// Events carry a Scope; the Level decides which scopes are written:
//
//   - LevelPhase: driver and stage boundaries (load, plan, record)
//   - LevelDetail: one span per top-level class
//   - LevelDebug: individual property decisions
//
// File outputs are rotated, so long-running watch loops do not grow the
// trace without bound.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx = trace.WithSpan(ctx, root)
//	span := trace.Start(ctx, trace.ScopeStage, "plan")
//	defer span.End("")
package trace
