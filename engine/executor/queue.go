package executor

import "sync"

// job is one queued unit of work. done is nil for fire-and-forget submissions, otherwise it is
// buffered with capacity 1 and receives exactly one value.
type job struct {
	task Task
	done chan error
}

// taskQueue is an unbounded FIFO feeding the single executor worker.
//
// It is unbounded so that producers (notably fire-and-forget destruction) never block on the
// worker. The signal channel has a buffer of one: pushes coalesce into a single pending wake-up
// and Close closes it to release the worker for good.
type taskQueue struct {
	mu     *sync.Mutex
	jobs   []job
	closed bool
	signal chan struct{}
}

func newTaskQueue() *taskQueue {
	return &taskQueue{
		mu:     &sync.Mutex{},
		jobs:   make([]job, 0, 64),
		signal: make(chan struct{}, 1),
	}
}

// push appends j to the back of the queue. Returns false once the queue is closed.
func (q *taskQueue) push(j job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.jobs = append(q.jobs, j)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// tryPop removes the front job without blocking.
func (q *taskQueue) tryPop() (job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

// next blocks until a job is available and removes it. It returns false once the queue is
// closed and fully drained. Only the worker calls next.
func (q *taskQueue) next() (job, bool) {
	for {
		q.mu.Lock()
		if j, ok := q.popLocked(); ok {
			q.mu.Unlock()
			return j, true
		}
		if q.closed {
			q.mu.Unlock()
			return job{}, false
		}
		q.mu.Unlock()

		<-q.signal
	}
}

func (q *taskQueue) popLocked() (job, bool) {
	if len(q.jobs) == 0 {
		return job{}, false
	}
	j := q.jobs[0]
	// Clear the slot so the backing array does not pin the task closure.
	q.jobs[0] = job{}
	if len(q.jobs) == 1 {
		q.jobs = q.jobs[:0]
	} else {
		q.jobs = q.jobs[1:]
	}
	return j, true
}

// close rejects further pushes and wakes the worker. Jobs already queued stay queued.
func (q *taskQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}

func (q *taskQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}
