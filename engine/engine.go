package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/buffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/executor"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gl/engine/vao"
)

// engine implements the Engine interface.
// Couples the GL executor with the vertex array cache that builds on it.
type engine struct {
	mu *sync.Mutex

	exec         executor.Executor
	ownsExecutor bool
	execOptions  []executor.ExecutorBuilderOption

	vertexArrays vao.Cache
	cacheOptions []vao.CacheBuilderOption

	profiler         *profiler.Profiler
	profilingEnabled bool
	profilerInterval time.Duration

	closeOnce sync.Once
	closeErr  error
}

// Engine is the main entry point. It owns one GL context through its executor and the cache
// of vertex arrays built in that context.
type Engine interface {
	// Executor returns the executor owning the GL context.
	//
	// Returns:
	//   - executor.Executor: the executor
	Executor() executor.Executor

	// VertexArrays returns the vertex array cache.
	//
	// Returns:
	//   - vao.Cache: the cache
	VertexArrays() vao.Cache

	// VertexArray returns the vertex array for drawing buf with program, building it on a miss.
	// Shorthand for VertexArrays().GetOrCreate.
	//
	// Parameters:
	//   - buf: the vertex buffer
	//   - program: the linked program
	//
	// Returns:
	//   - gl.VertexArrayID: the vertex array name
	//   - error: error if the vertex array could not be built
	VertexArray(buf buffer.VertexBuffer, program gl.ProgramID) (gl.VertexArrayID, error)

	// ReleaseBuffer drops every vertex array built from a buffer. Call it before deleting the buffer.
	//
	// Parameters:
	//   - id: the buffer name
	//
	// Returns:
	//   - int: the number of vertex arrays released
	ReleaseBuffer(id gl.BufferID) int

	// ReleaseProgram drops every vertex array built for a program. Call it before deleting the program.
	//
	// Parameters:
	//   - id: the program name
	//
	// Returns:
	//   - int: the number of vertex arrays released
	ReleaseProgram(id gl.ProgramID) int

	// EnableProfiler enables periodic profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables profiling output.
	DisableProfiler()

	// Tick advances the profiler by one unit of work. A no-op while profiling is disabled.
	//
	// Returns:
	//   - bool: true if a profiler sample was logged
	Tick() bool

	// Close tears down the cache, queueing the release of every vertex array, then closes the
	// executor if the engine created it, which drains those releases on the GL thread.
	// Safe to call multiple times.
	//
	// Returns:
	//   - error: the executor's close error, if any
	Close() error
}

// NewEngine creates a new Engine with the provided options.
// Unless WithExecutor supplies one, an executor is created from the options collected with
// WithExecutorOptions; that executor needs either executor.WithAPI or executor.WithInit.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:               &sync.Mutex{},
		profilerInterval: time.Second,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.exec == nil {
		e.exec = executor.NewExecutor(e.execOptions...)
		e.ownsExecutor = true
	}
	e.vertexArrays = vao.NewCache(e.exec, e.cacheOptions...)

	e.profiler = profiler.NewProfiler(
		profiler.WithInterval(e.profilerInterval),
		profiler.WithSource("vao", func() []any {
			s := e.vertexArrays.Stats()
			return []any{
				"len", s.Len,
				"hits", s.Hits,
				"misses", s.Misses,
				"constructions", s.Constructions,
				"destructions", s.Destructions,
			}
		}),
		profiler.WithSource("executor", func() []any {
			return []any{
				"pending", e.exec.Pending(),
				"executed", e.exec.Executed(),
			}
		}),
	)

	return e
}

func (e *engine) Executor() executor.Executor {
	return e.exec
}

func (e *engine) VertexArrays() vao.Cache {
	return e.vertexArrays
}

func (e *engine) VertexArray(buf buffer.VertexBuffer, program gl.ProgramID) (gl.VertexArrayID, error) {
	return e.vertexArrays.GetOrCreate(buf, program)
}

func (e *engine) ReleaseBuffer(id gl.BufferID) int {
	return e.vertexArrays.EvictBuffer(id)
}

func (e *engine) ReleaseProgram(id gl.ProgramID) int {
	return e.vertexArrays.EvictProgram(id)
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) Tick() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.profilingEnabled {
		return false
	}
	return e.profiler.Tick()
}

func (e *engine) Close() error {
	e.closeOnce.Do(func() {
		cacheErr := e.vertexArrays.Close()
		var execErr error
		if e.ownsExecutor {
			execErr = e.exec.Close()
		}
		e.closeErr = errors.Join(cacheErr, execErr)
	})
	return e.closeErr
}
