package throttle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrContextEnded  = errors.New("throttle context ended")
	ErrClosed        = errors.New("throttle closed")
)

// Governor is a token-bucket rate governor. It is safe for concurrent use.
type Governor struct {
	pool      *pool
	capacity  int
	interval  time.Duration
	logFn     func() *slog.Logger
	exhausted rate.Sometimes
}

// pool is shared with the replenisher goroutine. It is kept apart from
// Governor so an unclosed Governor can still become unreachable.
type pool struct {
	tokens chan struct{}
	done   chan struct{}
	once   sync.Once
}

// New returns a Governor that admits at most capacity requests per period.
// logFn lazily resolves the logger when the pool runs dry, making option
// ordering irrelevant. A nil logFn, or one returning nil, disables logging.
func New(capacity int, period time.Duration, logFn func() *slog.Logger) (*Governor, error) {
	if capacity <= 0 || period <= 0 {
		return nil, fmt.Errorf("capacity[%d] and period[%s] %w", capacity, period, ErrMustNotBeZero)
	}

	interval := period / time.Duration(capacity)
	if interval <= 0 {
		return nil, fmt.Errorf("refill interval for capacity[%d] over period[%s] %w", capacity, period, ErrMustNotBeZero)
	}

	if logFn == nil {
		logFn = func() *slog.Logger { return nil }
	}

	p := &pool{
		tokens: make(chan struct{}, capacity),
		done:   make(chan struct{}),
	}
	for range capacity {
		p.tokens <- struct{}{}
	}

	g := &Governor{
		pool:      p,
		capacity:  capacity,
		interval:  interval,
		logFn:     logFn,
		exhausted: rate.Sometimes{Interval: time.Second},
	}

	go p.refill(interval)
	runtime.AddCleanup(g, func(p *pool) { p.close() }, p)

	return g, nil
}

// Acquire blocks until a token is available, ctx ends, or the Governor is
// closed. With a context that never ends the wait is unbounded.
func (g *Governor) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	select {
	case <-g.pool.done:
		return ErrClosed
	default:
	}

	select {
	case <-g.pool.tokens:
		return nil
	default:
	}

	if logger := g.logFn(); logger != nil {
		g.exhausted.Do(func() {
			logger.Info("throttle tokens exhausted", "capacity", g.capacity, "interval", g.interval.String())
		})
	}

	select {
	case <-g.pool.tokens:
		return nil
	case <-g.pool.done:
		return ErrClosed
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrContextEnded, ctx.Err())
	}
}

// Close stops the replenisher. Pending and future Acquire calls fail with
// ErrClosed. Close is idempotent.
func (g *Governor) Close() {
	g.pool.close()
}

// Available reports the tokens currently in the pool.
func (g *Governor) Available() int { return len(g.pool.tokens) }

func (g *Governor) Capacity() int { return g.capacity }

// Interval is the time between replenished tokens.
func (g *Governor) Interval() time.Duration { return g.interval }

func (p *pool) refill(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			select {
			case p.tokens <- struct{}{}:
			default: // full
			}
		}
	}
}

func (p *pool) close() {
	p.once.Do(func() { close(p.done) })
}
