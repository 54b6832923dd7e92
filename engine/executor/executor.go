// Package executor owns the GL context. A single worker goroutine, pinned to one OS thread,
// runs every submitted task strictly in submission order and is the only code that ever
// touches the gl.API or the tracked gl.State.
package executor

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
)

var (
	// ErrClosed is returned when a task is submitted after Close, or when a queued task could
	// not run because the executor failed to initialize its context.
	ErrClosed = errors.New("executor: closed")

	// ErrTaskPanicked is reported to the waiter of a task that panicked on the worker.
	ErrTaskPanicked = errors.New("executor: task panicked")
)

// Task is a unit of work run exclusively on the executor worker. It receives the GL call
// surface and the tracked context state, and may mutate the latter.
type Task func(api gl.API, state *gl.State)

// Executor serializes all access to a GL context.
//
// Tasks run one at a time, in the order they were submitted across all producers. A task must
// not call Exec, Call or Close on its own executor; the worker would wait on itself.
type Executor interface {
	// Submit enqueues a task without waiting for it to run.
	//
	// Parameters:
	//   - task: the unit of work to run on the worker
	//
	// Returns:
	//   - error: ErrClosed if the executor no longer accepts work
	Submit(task Task) error

	// Go enqueues a task and returns a channel that receives exactly one value once the task
	// has finished: nil on success, an error wrapping ErrTaskPanicked if it panicked, or an
	// error wrapping ErrClosed if it was never run.
	//
	// Parameters:
	//   - task: the unit of work to run on the worker
	//
	// Returns:
	//   - <-chan error: the completion channel
	Go(task Task) <-chan error

	// Exec enqueues a task and blocks until it has run. There is no timeout.
	//
	// Parameters:
	//   - task: the unit of work to run on the worker
	//
	// Returns:
	//   - error: the task's completion value, see Go
	Exec(task Task) error

	// Pending returns the number of tasks queued but not yet started.
	//
	// Returns:
	//   - int: the queue depth
	Pending() int

	// Executed returns the number of tasks the worker has finished, including panicked ones.
	//
	// Returns:
	//   - uint64: the executed task count
	Executed() uint64

	// Close stops accepting tasks, lets the worker drain everything already queued, runs the
	// teardown hook on the worker thread and waits for the worker to exit. Safe to call more
	// than once.
	//
	// Returns:
	//   - error: the context initialization error, if the worker never started serving
	Close() error
}

// executor is the implementation of the Executor interface.
type executor struct {
	name  string
	queue *taskQueue

	// api and state are owned by the worker goroutine once it is started.
	api   gl.API
	state gl.State

	init       func() (gl.API, error)
	teardown   func()
	lockThread bool

	executed atomic.Uint64

	exited chan struct{}
	err    error // written by the worker before exited is closed
}

var _ Executor = &executor{}

// NewExecutor creates an Executor and starts its worker. Either WithAPI or WithInit must be
// supplied; NewExecutor panics otherwise.
//
// Parameters:
//   - options: functional options to configure the executor
//
// Returns:
//   - Executor: the running executor
func NewExecutor(options ...ExecutorBuilderOption) Executor {
	e := &executor{
		name:       "gl",
		queue:      newTaskQueue(),
		lockThread: true,
		exited:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(e)
	}
	if e.api == nil && e.init == nil {
		panic("executor: NewExecutor requires WithAPI or WithInit")
	}

	go e.run()
	return e
}

func (e *executor) Submit(task Task) error {
	if !e.queue.push(job{task: task}) {
		return ErrClosed
	}
	return nil
}

func (e *executor) Go(task Task) <-chan error {
	done := make(chan error, 1)
	if !e.queue.push(job{task: task, done: done}) {
		done <- ErrClosed
	}
	return done
}

func (e *executor) Exec(task Task) error {
	return <-e.Go(task)
}

func (e *executor) Pending() int {
	return e.queue.len()
}

func (e *executor) Executed() uint64 {
	return e.executed.Load()
}

func (e *executor) Close() error {
	e.queue.close()
	<-e.exited
	return e.err
}

// run is the worker loop. It pins itself to an OS thread, brings up the context through the
// init hook, then serves the queue until it is closed and empty.
func (e *executor) run() {
	defer close(e.exited)

	if e.lockThread {
		// GL contexts are current per OS thread, not per goroutine.
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	log := common.Logger().With("executor", e.name)

	if e.init != nil {
		api, err := e.init()
		if err != nil {
			e.err = fmt.Errorf("executor %s: context init failed: %w", e.name, err)
			log.Error("context init failed", "error", err)
			e.abort(fmt.Errorf("%w: %w", ErrClosed, err))
			return
		}
		e.api = api
	}
	log.Info("executor started")

	for {
		j, ok := e.queue.next()
		if !ok {
			break
		}
		e.execute(j)
	}

	if e.teardown != nil {
		e.teardown()
	}
	log.Info("executor stopped", "executed", e.executed.Load())
}

// execute runs one job and reports its completion.
func (e *executor) execute(j job) {
	err := e.invoke(j.task)
	e.executed.Add(1)
	if err != nil {
		common.Logger().Warn("recovered from panic in executor task", "executor", e.name, "error", err)
	}
	if j.done != nil {
		j.done <- err
	}
}

// invoke calls the task, converting a panic into an error so the worker keeps serving.
func (e *executor) invoke(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()
	task(e.api, &e.state)
	return nil
}

// abort closes the queue and fails every queued job with err without running it.
func (e *executor) abort(err error) {
	e.queue.close()
	for {
		j, ok := e.queue.tryPop()
		if !ok {
			return
		}
		if j.done != nil {
			j.done <- err
		}
	}
}
