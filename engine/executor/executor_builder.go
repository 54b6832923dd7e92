package executor

import "github.com/Carmen-Shannon/oxy-gl/engine/gl"

// ExecutorBuilderOption is a functional option applied to an executor during construction via NewExecutor.
type ExecutorBuilderOption func(*executor)

// WithAPI serves tasks with an already usable GL call surface, skipping context initialization.
// Typically used with the headless recorder.
//
// Parameters:
//   - api: the GL call surface handed to every task
//
// Returns:
//   - ExecutorBuilderOption: a function that applies the API option to an executor
func WithAPI(api gl.API) ExecutorBuilderOption {
	return func(e *executor) {
		e.api = api
	}
}

// WithInit sets the hook that creates the GL context, makes it current, and returns the call
// surface. The hook runs on the worker thread before any task. If it fails, every queued and
// future task is rejected with ErrClosed. Takes precedence over WithAPI.
//
// Parameters:
//   - init: the context initialization hook
//
// Returns:
//   - ExecutorBuilderOption: a function that applies the init option to an executor
func WithInit(init func() (gl.API, error)) ExecutorBuilderOption {
	return func(e *executor) {
		e.init = init
	}
}

// WithTeardown sets a hook run on the worker thread after the last task has drained, e.g. to
// destroy the window that owns the context.
//
// Parameters:
//   - teardown: the hook to run once at shutdown
//
// Returns:
//   - ExecutorBuilderOption: a function that applies the teardown option to an executor
func WithTeardown(teardown func()) ExecutorBuilderOption {
	return func(e *executor) {
		e.teardown = teardown
	}
}

// WithThreadLock controls whether the worker pins itself to an OS thread. Defaults to true,
// which any real GL context requires.
//
// Parameters:
//   - lock: false to leave the worker goroutine unpinned
//
// Returns:
//   - ExecutorBuilderOption: a function that applies the thread lock option to an executor
func WithThreadLock(lock bool) ExecutorBuilderOption {
	return func(e *executor) {
		e.lockThread = lock
	}
}

// WithName sets the name attached to the executor's log records.
//
// Parameters:
//   - name: the executor name (default "gl")
//
// Returns:
//   - ExecutorBuilderOption: a function that applies the name option to an executor
func WithName(name string) ExecutorBuilderOption {
	return func(e *executor) {
		e.name = name
	}
}
