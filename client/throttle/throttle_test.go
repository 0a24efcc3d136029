package throttle

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNew_Validation(t *testing.T) {
	testCases := []struct {
		name     string
		capacity int
		period   time.Duration
		expErr   error
	}{
		{
			name:     "Invalid capacity (zero)",
			capacity: 0,
			period:   time.Second,
			expErr:   ErrMustNotBeZero,
		},
		{
			name:     "Invalid capacity (negative)",
			capacity: -5,
			period:   time.Second,
			expErr:   ErrMustNotBeZero,
		},
		{
			name:     "Invalid period (zero)",
			capacity: 10,
			period:   0,
			expErr:   ErrMustNotBeZero,
		},
		{
			name:     "Period shorter than capacity",
			capacity: 10,
			period:   5 * time.Nanosecond,
			expErr:   ErrMustNotBeZero,
		},
		{
			name:     "Valid input",
			capacity: 10,
			period:   time.Second,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := New(tc.capacity, tc.period, nil)

			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Errorf("exp err %v; got: %v", tc.expErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("exp nil err, got: %v", err)
			}
			defer g.Close()

			if g.Capacity() != tc.capacity {
				t.Errorf("exp capacity %d, got %d", tc.capacity, g.Capacity())
			}
			if g.Available() != tc.capacity {
				t.Errorf("exp full pool of %d, got %d", tc.capacity, g.Available())
			}
			if exp := tc.period / time.Duration(tc.capacity); g.Interval() != exp {
				t.Errorf("exp interval %v, got %v", exp, g.Interval())
			}
		})
	}
}

func TestGovernor_Burst(t *testing.T) {
	start := time.Now()

	g, err := New(5, time.Second, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	for i := range 5 {
		if err := g.Acquire(context.Background()); err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
	}

	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first 5 acquires should be fast (< 100ms), took %v", elapsed)
	}

	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire 6: %v", err)
	}

	if elapsed := time.Since(start); elapsed < 200*time.Millisecond {
		t.Errorf("6th acquire should wait for a refill (>= 200ms), took %v", elapsed)
	}
}

func TestGovernor_SlidingWindow(t *testing.T) {
	const (
		capacity = 5
		period   = 100 * time.Millisecond
		callers  = 8
	)

	g, err := New(capacity, period, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	// Spend the initial burst so only refills are measured.
	for range capacity {
		if err := g.Acquire(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*period)
	defer cancel()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		stamp []time.Time
	)

	for range callers {
		wg.Go(func() {
			for g.Acquire(ctx) == nil {
				mu.Lock()
				stamp = append(stamp, time.Now())
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	if len(stamp) < capacity {
		t.Fatalf("exp at least %d acquires over %v, got %d", capacity, 3*period, len(stamp))
	}

	slices.SortFunc(stamp, time.Time.Compare)

	// One extra admission absorbs a refill landing on the window edge.
	limit := capacity + 1
	for i, from := range stamp {
		n := 0
		for _, at := range stamp[i:] {
			if at.Sub(from) >= period {
				break
			}
			n++
		}
		if n > limit {
			t.Fatalf("%d acquires within %v starting at #%d, limit %d", n, period, i, limit)
		}
	}
}

func TestGovernor_Concurrent(t *testing.T) {
	const (
		capacity = 4
		period   = 200 * time.Millisecond
		callers  = 12
	)

	start := time.Now()

	g, err := New(capacity, period, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	var (
		wg       sync.WaitGroup
		admitted atomic.Int32
	)

	for range callers {
		wg.Go(func() {
			if err := g.Acquire(t.Context()); err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			admitted.Add(1)
		})
	}
	wg.Wait()

	if n := admitted.Load(); n != callers {
		t.Fatalf("exp %d admitted, got %d", callers, n)
	}

	// 4 from the initial pool, then 8 refills at 50ms each.
	if elapsed, floor := time.Since(start), 8*g.Interval(); elapsed < floor {
		t.Errorf("exp throughput capped (>= %v), took %v", floor, elapsed)
	}
}

func TestGovernor_ContextEnded(t *testing.T) {
	g, err := New(1, time.Hour, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	if err := g.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	t.Run("deadline while waiting", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := g.Acquire(ctx)
		if !errors.Is(err, ErrContextEnded) || !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("exp ErrContextEnded wrapping DeadlineExceeded, got %v", err)
		}
	})

	t.Run("cancelled before acquiring", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := g.Acquire(ctx)
		if !errors.Is(err, ErrContextEnded) || !errors.Is(err, context.Canceled) {
			t.Errorf("exp ErrContextEnded wrapping Canceled, got %v", err)
		}
	})

	if n := g.Available(); n != 0 {
		t.Errorf("abandoned waits must not add tokens, got %d", n)
	}
}

func TestGovernor_Close(t *testing.T) {
	g, err := New(1, time.Hour, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := g.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- g.Acquire(context.Background())
	}()

	time.Sleep(10 * time.Millisecond)
	g.Close()
	g.Close()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("exp ErrClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("waiter not released by Close")
	}

	if err := g.Acquire(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("exp ErrClosed after Close, got %v", err)
	}
}

func TestGovernor_LogsExhaustion(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	g, err := New(1, 40*time.Millisecond, func() *slog.Logger { return logger })
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	for range 3 {
		if err := g.Acquire(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	if n := strings.Count(buf.String(), "throttle tokens exhausted"); n != 1 {
		t.Errorf("exp exhaustion logged once per second, got %d lines:\n%s", n, buf.String())
	}
}
