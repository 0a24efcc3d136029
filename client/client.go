package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/edgar/client/download"
	"github.com/adamwoolhether/edgar/client/throttle"
	"github.com/adamwoolhether/edgar/client/transport"
)

const tracerName = "github.com/adamwoolhether/edgar/client"

// Client issues rate-governed requests against the EDGAR APIs. It is safe
// for concurrent use; every endpoint shares one rate governor.
type Client struct {
	cfg       Config
	transport transport.Transport
	governor  *throttle.Governor
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *metrics
	closers   []func()
}

// handleFn operates on a 2xx response. The body is closed by the caller.
type handleFn func(resp *transport.Response) error

func Build(optFns ...Option) (*Client, error) {
	opts := options{
		baseURL:         DefaultBaseURL,
		rateLimit:       DefaultRateLimit,
		ratePeriod:      DefaultRatePeriod,
		pageConcurrency: DefaultPageConcurrency,
	}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	cfg := Config{
		UserAgent:       opts.userAgent,
		BaseURL:         opts.baseURL,
		RateLimit:       opts.rateLimit,
		RatePeriod:      opts.ratePeriod,
		PageConcurrency: opts.pageConcurrency,
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	c := &Client{
		cfg:    cfg,
		logger: slog.Default(),
	}

	if opts.logger != nil {
		c.logger = opts.logger
	}

	tp := opts.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	c.tracer = tp.Tracer(tracerName)

	if opts.registerer != nil {
		m, err := newMetrics(opts.registerer)
		if err != nil {
			return nil, err
		}
		c.metrics = m
	}

	c.transport = opts.transport
	if c.transport == nil {
		h, err := transport.NewHTTP(opts.httpOpts...)
		if err != nil {
			return nil, fmt.Errorf("configuring http transport: %w", err)
		}
		c.transport = h
	}

	if opts.serial {
		s := transport.NewSerial(c.transport)
		c.transport = s
		c.closers = append(c.closers, s.Close)
	}

	gov, err := throttle.New(cfg.RateLimit, cfg.RatePeriod, func() *slog.Logger { return c.logger })
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("configuring throttle: %w", err)
	}
	c.governor = gov
	c.closers = append(c.closers, gov.Close)

	return c, nil
}

// Config returns the resolved configuration.
func (c *Client) Config() Config { return c.cfg }

// Close stops the rate governor and any serial transport loop owned by the
// client. Requests issued afterwards fail.
func (c *Client) Close() {
	for _, fn := range c.closers {
		fn()
	}
}

// fetch runs one governed exchange and hands a 2xx response to fn. Non-2xx
// responses are turned into *RateLimitError or *APIError.
func (c *Client) fetch(ctx context.Context, endpoint, rawURL string, header http.Header, fn handleFn) (err error) {
	start := time.Now()
	target := RewriteURL(c.cfg.BaseURL, rawURL)
	reqID := uuid.NewString()
	logger := c.logger.With("request_id", reqID, "endpoint", endpoint)

	ctx, span := c.tracer.Start(ctx, "edgar."+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("edgar.endpoint", endpoint),
			attribute.String("edgar.request_id", reqID),
			attribute.String("url.full", target),
		),
	)
	defer func() {
		outcome := outcomeOf(err)
		c.metrics.recordRequest(endpoint, outcome, time.Since(start))
		span.SetAttributes(attribute.String("edgar.outcome", outcome))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.Debug("edgar request failed", "outcome", outcome, "error", err, "elapsed", time.Since(start))
		} else {
			logger.Debug("edgar request complete", "elapsed", time.Since(start))
		}
		span.End()
	}()

	waitStart := time.Now()
	if err := c.governor.Acquire(ctx); err != nil {
		return fmt.Errorf("acquiring rate governor token: %w", err)
	}
	c.metrics.recordWait(time.Since(waitStart))

	h := http.Header{}
	maps.Copy(h, header)
	h.Set("User-Agent", c.cfg.UserAgent)

	logger.Debug("edgar request", "url", target)

	resp, err := c.transport.Get(ctx, target, h)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	discardBody := true
	defer func() {
		if discardBody {
			if _, err := io.Copy(io.Discard, resp.Body); err != nil {
				logger.Error("failed to discard unused body", "error", err)
			}
		}
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	if err := interpret(resp); err != nil {
		return err
	}

	if err := fn(resp); err != nil {
		discardBody = false
		return err
	}

	return nil
}

// interpret classifies a response by status.
func interpret(resp *transport.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		rlErr := &RateLimitError{}
		if secs, err := strconv.ParseUint(strings.TrimSpace(resp.Header.Get("Retry-After")), 10, 32); err == nil {
			rlErr.RetryAfter = time.Duration(secs) * time.Second
			rlErr.HasRetryAfter = true
		}
		return rlErr
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
	if err != nil {
		b = []byte("unable to read body")
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
		Body:       string(b),
	}
}

// getJSON fetches rawURL and decodes the 2xx body into a new T.
func getJSON[T any](ctx context.Context, c *Client, endpoint, rawURL string) (*T, error) {
	var dest T

	decode := func(resp *transport.Response) error {
		body := &bodyReader{r: resp.Body}
		if err := json.NewDecoder(body).Decode(&dest); err != nil {
			if body.err != nil {
				return fmt.Errorf("%w: reading %s body: %w", ErrNetwork, endpoint, body.err)
			}
			return fmt.Errorf("%w: decoding %s body: %w", ErrParse, endpoint, err)
		}
		return nil
	}

	if err := c.fetch(ctx, endpoint, rawURL, nil, decode); err != nil {
		return nil, err
	}

	return &dest, nil
}

// bodyReader remembers the first read failure other than io.EOF so a
// truncated transfer is not mistaken for malformed JSON.
type bodyReader struct {
	r   io.Reader
	err error
}

func (b *bodyReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && b.err == nil {
		b.err = err
	}
	return n, err
}

func outcomeOf(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.As(err, &apiErr):
		return "status_" + strconv.Itoa(apiErr.StatusCode)
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, throttle.ErrContextEnded), errors.Is(err, download.ErrDownloadCancelled),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, download.ErrArchive), errors.Is(err, download.ErrUnsafePath):
		return "archive"
	case errors.Is(err, ErrIO):
		return "io"
	default:
		return "error"
	}
}
