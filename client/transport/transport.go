package transport

import (
	"context"
	"io"
	"net/http"
)

// Transport performs a single GET exchange.
type Transport interface {
	Get(ctx context.Context, url string, header http.Header) (*Response, error)
}

// Response is the raw result of an exchange. The caller must close Body.
type Response struct {
	StatusCode    int
	Header        http.Header
	ContentLength int64
	Body          io.ReadCloser
}

// Func adapts an ordinary function to the Transport interface.
type Func func(ctx context.Context, url string, header http.Header) (*Response, error)

func (f Func) Get(ctx context.Context, url string, header http.Header) (*Response, error) {
	return f(ctx, url, header)
}
