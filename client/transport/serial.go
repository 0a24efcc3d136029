package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
)

var ErrClosed = errors.New("serial transport closed")

// Serial funnels every exchange through a single goroutine. An exchange
// owns the goroutine from the moment it starts until its response body is
// closed, so at most one exchange is ever in flight.
type Serial struct {
	next Transport
	jobs chan job
	done chan struct{}
	once sync.Once
}

type job struct {
	ctx    context.Context
	url    string
	header http.Header
	result chan result
}

type result struct {
	resp *Response
	err  error
}

// NewSerial starts the exchange loop in front of next. Call Close to stop it.
func NewSerial(next Transport) *Serial {
	s := &Serial{
		next: next,
		jobs: make(chan job),
		done: make(chan struct{}),
	}

	go s.loop()

	return s
}

func (s *Serial) Get(ctx context.Context, url string, header http.Header) (*Response, error) {
	j := job{
		ctx:    ctx,
		url:    url,
		header: header,
		result: make(chan result, 1),
	}

	select {
	case <-s.done:
		return nil, ErrClosed
	default:
	}

	select {
	case s.jobs <- j:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for serial slot: %w", ctx.Err())
	case <-s.done:
		return nil, ErrClosed
	}

	select {
	case r := <-j.result:
		return r.resp, r.err
	case <-ctx.Done():
		go discard(j.result)
		return nil, fmt.Errorf("waiting for serial exchange: %w", ctx.Err())
	case <-s.done:
		go discard(j.result)
		return nil, ErrClosed
	}
}

// Close stops the loop. An exchange already running completes; its body
// remains readable. Close is idempotent.
func (s *Serial) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Serial) loop() {
	for {
		select {
		case <-s.done:
			return
		case j := <-s.jobs:
			resp, err := s.next.Get(j.ctx, j.url, j.header)
			if err != nil {
				j.result <- result{err: err}
				continue
			}

			released := make(chan struct{})
			resp.Body = &heldBody{
				ReadCloser: resp.Body,
				release:    sync.OnceFunc(func() { close(released) }),
			}
			j.result <- result{resp: resp}

			select {
			case <-released:
			case <-s.done:
				return
			}
		}
	}
}

// discard closes the body of an exchange whose caller stopped waiting, so
// the loop is not left holding the slot.
func discard(ch <-chan result) {
	if r := <-ch; r.resp != nil {
		r.resp.Body.Close()
	}
}

type heldBody struct {
	io.ReadCloser
	release func()
}

func (b *heldBody) Close() error {
	defer b.release()
	return b.ReadCloser.Close()
}
