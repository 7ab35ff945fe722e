// Package trace records what pyfmt is doing while it formats files.
//
// Tracing is the only logging pyfmt has: spans mark the driver run, each
// file and each pass over a file (parse, format, verify), points mark
// single facts such as a cache hit.
//
// # Usage
//
//	pyfmt fmt --trace=- --trace-level=detail src/
//
// # Tracers
//
//   - Nop: tracing disabled
//   - StreamTracer: writes every event as it happens
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans events out to several tracers
//
// # Levels and scopes
//
// LevelPhase shows driver and pass spans, LevelDetail adds per-file spans,
// LevelDebug adds per-line events. LevelError emits nothing by itself; the
// ring is dumped when a run fails.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "verify", parent)
//	defer span.End("")
package trace
