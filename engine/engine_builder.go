package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/executor"
	"github.com/Carmen-Shannon/oxy-gl/engine/vao"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfilerInterval sets how often the profiler logs a sample. Defaults to 1 second.
//
// Parameters:
//   - interval: the minimum time between samples
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfilerInterval(interval time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.profilerInterval = interval
	}
}

// WithExecutor uses an existing executor rather than creating one. The engine does not close an
// executor it did not create.
//
// Parameters:
//   - exec: a running executor
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithExecutor(exec executor.Executor) EngineBuilderOption {
	return func(e *engine) {
		e.exec = exec
	}
}

// WithExecutorOptions collects options for the executor the engine creates. Ignored when
// WithExecutor is also given.
//
// Parameters:
//   - options: executor options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithExecutorOptions(options ...executor.ExecutorBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.execOptions = append(e.execOptions, options...)
	}
}

// WithCacheOptions collects options for the vertex array cache.
//
// Parameters:
//   - options: cache options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCacheOptions(options ...vao.CacheBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.cacheOptions = append(e.cacheOptions, options...)
	}
}
