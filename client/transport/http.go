package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout bounds a whole exchange on the default HTTP transport.
const DefaultTimeout = 30 * time.Second

// HTTP is the threaded Transport backed by an [http.Client].
type HTTP struct {
	c *http.Client
}

// Option is a functional option for configuring [HTTP] via [NewHTTP].
type Option func(*options) error
type options struct {
	client            *http.Client
	rt                http.RoundTripper
	timeout           *time.Duration
	noFollowRedirects bool
}

// WithHTTPClient replaces the default [http.Client]. The transport works on
// a copy, so the other options leave hc untouched.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		o.client = hc
		return nil
	}
}

// WithRoundTripper sets a custom [http.RoundTripper] as the base transport.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(o *options) error {
		if rt == nil {
			return errors.New("round tripper must not be nil")
		}
		o.rt = rt
		return nil
	}
}

// WithTimeout sets the overall exchange timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		o.timeout = &d
		return nil
	}
}

// WithNoFollowRedirects returns 3xx responses to the caller as-is.
func WithNoFollowRedirects() Option {
	return func(o *options) error {
		o.noFollowRedirects = true
		return nil
	}
}

// NewHTTP builds the threaded transport. By default it uses a dedicated
// [http.Client] with a 30 second timeout whose transport honours the
// HTTP_PROXY, HTTPS_PROXY and NO_PROXY environment variables.
func NewHTTP(optFns ...Option) (*HTTP, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying transport option: %w", err)
		}
	}

	var hc *http.Client
	switch {
	case opts.client != nil:
		c := *opts.client
		hc = &c
	default:
		hc = &http.Client{
			Timeout:   DefaultTimeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		}
	}

	if opts.rt != nil {
		hc.Transport = opts.rt
	}

	if opts.timeout != nil {
		hc.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		hc.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return &HTTP{c: hc}, nil
}

func (h *HTTP) Get(ctx context.Context, url string, header http.Header) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for k, v := range header {
		for _, element := range v {
			req.Header.Add(k, element)
		}
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exec http do: %w", err)
	}

	return &Response{
		StatusCode:    resp.StatusCode,
		Header:        resp.Header,
		ContentLength: resp.ContentLength,
		Body:          resp.Body,
	}, nil
}
