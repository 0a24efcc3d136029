package client

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/edgar/client/throttle"
	"github.com/adamwoolhether/edgar/client/transport"
)

const (
	// DefaultRateLimit follows the SEC fair-access policy of 10 requests per second.
	DefaultRateLimit       = 10
	DefaultRatePeriod      = time.Second
	DefaultPageConcurrency = 4
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	userAgent       string
	baseURL         string
	rateLimit       int
	ratePeriod      time.Duration
	pageConcurrency int
	transport       transport.Transport
	httpOpts        []transport.Option
	serial          bool
	logger          *slog.Logger
	tracerProvider  trace.TracerProvider
	registerer      prometheus.Registerer
}

// WithUserAgent sets the User-Agent sent with every request. The SEC
// requires it to name the caller and a contact email.
func WithUserAgent(header string) Option {
	return func(o *options) error {
		o.userAgent = header
		return nil
	}
}

// WithBaseURL routes every request through prefix, which replaces the
// "https://" of each canonical URL. Use it for proxies and test servers:
// "http://localhost:8080/" turns https://data.sec.gov/x into
// http://localhost:8080/data.sec.gov/x.
func WithBaseURL(prefix string) Option {
	return func(o *options) error {
		if prefix == "" {
			return errors.New("base url must not be empty")
		}
		o.baseURL = prefix
		return nil
	}
}

// WithRateLimit admits at most requests per period across all endpoints.
func WithRateLimit(requests int, period time.Duration) Option {
	return func(o *options) error {
		if requests <= 0 || period <= 0 {
			return fmt.Errorf("requests[%d] and period[%s] %w", requests, period, throttle.ErrMustNotBeZero)
		}
		o.rateLimit = requests
		o.ratePeriod = period
		return nil
	}
}

// WithPageConcurrency bounds how many history pages AllFilings fetches at once.
func WithPageConcurrency(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("page concurrency[%d] %w", n, throttle.ErrMustNotBeZero)
		}
		o.pageConcurrency = n
		return nil
	}
}

// WithTransport replaces the default HTTP transport.
func WithTransport(t transport.Transport) Option {
	return func(o *options) error {
		if t == nil {
			return errors.New("transport must not be nil")
		}
		o.transport = t
		return nil
	}
}

// WithHTTPOptions configures the default HTTP transport. It is ignored
// when WithTransport is used.
func WithHTTPOptions(opts ...transport.Option) Option {
	return func(o *options) error {
		o.httpOpts = append(o.httpOpts, opts...)
		return nil
	}
}

// WithTimeout sets the overall exchange timeout of the default HTTP transport.
func WithTimeout(d time.Duration) Option {
	return WithHTTPOptions(transport.WithTimeout(d))
}

// WithSerial runs every exchange through a [transport.Serial], for hosts
// that cannot enter the network stack concurrently. The Client owns the
// serial loop and stops it on Close.
func WithSerial() Option {
	return func(o *options) error {
		o.serial = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithTracerProvider sets the provider for request spans. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) error {
		if tp == nil {
			return errors.New("tracer provider must not be nil")
		}
		o.tracerProvider = tp
		return nil
	}
}

// WithMetrics registers request metrics with reg. Each registry can back
// only one Client.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) error {
		if reg == nil {
			return errors.New("registerer must not be nil")
		}
		o.registerer = reg
		return nil
	}
}
