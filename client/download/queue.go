package download

import (
	"context"
	"errors"
	"sync"
)

// WorkFunc is the signature for queued work.
type WorkFunc func(ctx context.Context) error

// Queue runs a batch of work functions with bounded concurrency, such as
// the pages of a filing history.
type Queue struct {
	wg       sync.WaitGroup
	sem      chan struct{}
	failFast bool

	mu       sync.Mutex
	shutdown bool
	running  map[*Result]struct{}
	errs     []error
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithFailFast makes the first failure cancel all running work and skip
// work that has not started. Wait then reports only that failure.
func WithFailFast() QueueOption {
	return func(q *Queue) {
		q.failFast = true
	}
}

// NewQueue creates a Queue with the given concurrency limit.
// If maxConcurrent <= 0, concurrency is unlimited.
func NewQueue(maxConcurrent int, optFns ...QueueOption) *Queue {
	q := &Queue{running: make(map[*Result]struct{})}
	if maxConcurrent > 0 {
		q.sem = make(chan struct{}, maxConcurrent)
	}
	for _, opt := range optFns {
		opt(q)
	}
	return q
}

// Wait blocks until all work in the queue completes. It returns every
// error joined, or only the first one for a fail-fast queue.
func (q *Queue) Wait() error {
	q.wg.Wait()

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.failFast && len(q.errs) > 0 {
		return q.errs[0]
	}

	return errors.Join(q.errs...)
}

// Shutdown prevents queued work that has not started from executing.
func (q *Queue) Shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.shutdown = true
}

// Start launches fn in a new goroutine managed by the queue
// and returns a Result for tracking it.
func (q *Queue) Start(ctx context.Context, fn WorkFunc) *Result {
	ctx, cancel := context.WithCancel(ctx)
	r := &Result{
		done:   make(chan struct{}),
		cancel: cancel,
		queue:  q,
	}

	q.wg.Add(1)
	go func() {
		defer func() {
			cancel()
			close(r.done)
			q.wg.Done()
		}()

		if q.sem != nil {
			select {
			case q.sem <- struct{}{}:
				defer func() {
					<-q.sem
				}()
			case <-ctx.Done():
				r.err = ctx.Err()
				q.recordErr(r.err)
				return
			}
		}

		if !q.enter(r) {
			r.err = ErrQueueShutdown
			return
		}
		defer q.leave(r)

		r.err = fn(ctx)
		if r.err != nil {
			q.recordErr(r.err)
		}
	}()

	return r
}

// enter registers r as running unless the queue was shut down.
func (q *Queue) enter(r *Result) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.shutdown {
		if !q.failFast {
			q.errs = append(q.errs, ErrQueueShutdown)
		}
		return false
	}

	q.running[r] = struct{}{}
	return true
}

func (q *Queue) leave(r *Result) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.running, r)
}

func (q *Queue) recordErr(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.failFast && q.shutdown {
		return
	}

	q.errs = append(q.errs, err)

	if q.failFast {
		q.shutdown = true
		for r := range q.running {
			r.cancel()
		}
	}
}
