package executor

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
)

// Future is the one-shot result of a value-returning task submitted with Async.
type Future[T any] struct {
	result <-chan error
	once   sync.Once

	// value is written by the worker before result is signaled.
	value T
	err   error
}

// Async submits fn and returns a Future for its result. The task enters the same FIFO as every
// other submission.
//
// Parameters:
//   - e: the executor to run fn on
//   - fn: the value-producing unit of work
//
// Returns:
//   - *Future[T]: the pending result
func Async[T any](e Executor, fn func(api gl.API, state *gl.State) T) *Future[T] {
	f := &Future[T]{}
	f.result = e.Go(func(api gl.API, state *gl.State) {
		f.value = fn(api, state)
	})
	return f
}

// Wait blocks until the task has run and returns its value. Subsequent calls return the same
// result immediately.
//
// Returns:
//   - T: the task's value, or the zero value on error
//   - error: ErrClosed or ErrTaskPanicked (wrapped) if the task did not complete
func (f *Future[T]) Wait() (T, error) {
	f.once.Do(func() {
		f.err = <-f.result
	})
	if f.err != nil {
		var zero T
		return zero, f.err
	}
	return f.value, nil
}

// Call submits fn and blocks until it returns.
//
// Parameters:
//   - e: the executor to run fn on
//   - fn: the value-producing unit of work
//
// Returns:
//   - T: the task's value
//   - error: ErrClosed or ErrTaskPanicked (wrapped) if the task did not complete
func Call[T any](e Executor, fn func(api gl.API, state *gl.State) T) (T, error) {
	return Async(e, fn).Wait()
}
