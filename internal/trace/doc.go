// Package trace records spans for the nova toolchain.
//
// Spans are nested by scope: a command (compile, run) contains phases
// (parse, build, lower, pack, launch), a phase contains per-unit work and,
// at debug level, per-function calls inside the VM.
//
//	ctx = trace.WithTracer(ctx, t)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "parse", 0)
//	defer span.End("")
//
// Tracing is off unless the CLI is given --trace; the disabled tracer costs
// one interface call per span.
package trace
