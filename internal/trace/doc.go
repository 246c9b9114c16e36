// Package trace records what the driver is doing: phases, files and, at the
// debug level, the steps inside a file. Tracers travel in a context.
//
//	t, _ := trace.New(trace.Config{Level: trace.LevelPhase, OutputPath: "-"})
//	ctx = trace.WithTracer(ctx, t)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "parse", 0)
//	defer span.End("")
//
// Levels, from quiet to loud: off, error, phase, file, debug.
package trace
