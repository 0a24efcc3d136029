package download

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

// peak tracks the highest value running reaches.
type peak struct {
	running atomic.Int32
	max     atomic.Int32
}

func (p *peak) enter() {
	cur := p.running.Add(1)
	for {
		old := p.max.Load()
		if cur <= old || p.max.CompareAndSwap(old, cur) {
			return
		}
	}
}

func (p *peak) leave() { p.running.Add(-1) }

func TestQueue_Results(t *testing.T) {
	errPage := errors.New("page 2 unavailable")

	testCases := map[string]struct {
		work    []error
		expErrs []error
	}{
		"allSucceed": {
			work: []error{nil, nil, nil},
		},
		"singleFailure": {
			work:    []error{nil, errPage, nil},
			expErrs: []error{errPage},
		},
		"joined": {
			work:    []error{errPage, context.DeadlineExceeded},
			expErrs: []error{errPage, context.DeadlineExceeded},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			q := NewQueue(2)

			results := make([]*Result, len(tc.work))
			for i, werr := range tc.work {
				results[i] = q.Start(t.Context(), func(context.Context) error { return werr })
			}

			for i, r := range results {
				if err := r.Err(); !errors.Is(err, tc.work[i]) {
					t.Errorf("result %d: expected %v, got %v", i, tc.work[i], err)
				}
				select {
				case <-r.Done():
				default:
					t.Errorf("result %d: Done not closed after Err returned", i)
				}
			}

			err := results[0].Wait()
			if len(tc.expErrs) == 0 && err != nil {
				t.Fatalf("expected nil, got %v", err)
			}
			for _, exp := range tc.expErrs {
				if !errors.Is(err, exp) {
					t.Errorf("expected joined error to contain %v, got %v", exp, err)
				}
			}
		})
	}
}

func TestQueue_ConcurrencyLimit(t *testing.T) {
	testCases := map[string]struct {
		limit   int
		total   int
		expPeak int32
	}{
		"bounded":   {limit: 2, total: 6, expPeak: 2},
		"single":    {limit: 1, total: 3, expPeak: 1},
		"unlimited": {limit: 0, total: 8, expPeak: 8},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			q := NewQueue(tc.limit)

			var p peak
			barrier := make(chan struct{})

			for range tc.total {
				q.Start(t.Context(), func(context.Context) error {
					p.enter()
					defer p.leave()
					<-barrier
					return nil
				})
			}

			time.Sleep(50 * time.Millisecond)
			close(barrier)

			if err := q.Wait(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := p.max.Load(); got != tc.expPeak {
				t.Errorf("expected peak concurrency %d, got %d", tc.expPeak, got)
			}
		})
	}
}

func TestQueue_FailFast(t *testing.T) {
	errPage := errors.New("fetching page 1: 404")
	q := NewQueue(2, WithFailFast())

	release := make(chan struct{})
	started := make(chan struct{}, 2)
	var ran atomic.Int32

	slow := q.Start(t.Context(), func(ctx context.Context) error {
		ran.Add(1)
		started <- struct{}{}
		<-ctx.Done()
		return ctx.Err()
	})

	q.Start(t.Context(), func(context.Context) error {
		ran.Add(1)
		started <- struct{}{}
		<-release
		return errPage
	})

	<-started
	<-started

	// Both slots are taken, so this waits on the semaphore and must be skipped.
	skipped := q.Start(t.Context(), func(context.Context) error {
		ran.Add(1)
		return nil
	})

	time.Sleep(20 * time.Millisecond)
	close(release)

	if err := q.Wait(); err != errPage {
		t.Fatalf("expected only the first failure, got %v", err)
	}
	if err := slow.Err(); !errors.Is(err, context.Canceled) {
		t.Errorf("expected running work cancelled, got %v", err)
	}
	if err := skipped.Err(); !errors.Is(err, ErrQueueShutdown) {
		t.Errorf("expected pending work skipped, got %v", err)
	}
	if n := ran.Load(); n != 2 {
		t.Errorf("expected 2 work functions to run, got %d", n)
	}
}

func TestQueue_Cancel(t *testing.T) {
	q := NewQueue(0)

	started := make(chan struct{})
	r := q.Start(t.Context(), func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	<-started
	r.Cancel()

	if err := r.Err(); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestQueue_ContextCancelledWhileWaitingForSlot(t *testing.T) {
	q := NewQueue(1)

	release := make(chan struct{})
	q.Start(t.Context(), func(context.Context) error {
		<-release
		return nil
	})

	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	r := q.Start(ctx, func(context.Context) error {
		t.Error("work function should not have run")
		return nil
	})

	if err := r.Err(); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	close(release)

	if err := q.Wait(); err == nil {
		t.Error("expected queue error from cancelled work")
	}
}

func TestQueue_Shutdown(t *testing.T) {
	q := NewQueue(1)

	release := make(chan struct{})
	q.Start(t.Context(), func(context.Context) error {
		<-release
		return nil
	})

	time.Sleep(20 * time.Millisecond)

	q.Shutdown()
	close(release)

	r := q.Start(t.Context(), func(context.Context) error {
		t.Error("work function should not have run after shutdown")
		return nil
	})

	if err := r.Err(); !errors.Is(err, ErrQueueShutdown) {
		t.Errorf("expected ErrQueueShutdown, got %v", err)
	}
}

func ExampleQueue() {
	q := NewQueue(2, WithFailFast())

	pages := []string{"CIK0000320193-submissions-001.json", "CIK0000320193-submissions-002.json"}
	counts := make([]int, len(pages))

	for i, name := range pages {
		q.Start(context.Background(), func(context.Context) error {
			counts[i] = len(name)
			return nil
		})
	}

	if err := q.Wait(); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(counts)
	// Output: [34 34]
}
