package edgartest

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"net/http/httptest"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const tracerName = "github.com/adamwoolhether/edgar/edgartest"

var cikFile = regexp.MustCompile(`^CIK\d{10}(-submissions-\d{3})?\.json$`)

// Server is a fake EDGAR. Documents are keyed by canonical URL, e.g.
// "https://data.sec.gov/submissions/CIK0000320193.json".
type Server struct {
	*httptest.Server

	mu   sync.Mutex
	docs map[string]document
	hits map[string]int
}

type document struct {
	contentType string
	body        []byte
	status      int
	header      http.Header
}

// Option configures a [Server].
type Option func(*options)

type options struct {
	logger     *slog.Logger
	tp         trace.TracerProvider
	limiter    *rate.Limiter
	retryAfter time.Duration
}

// WithLogger sets the logger for request and error logs.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTracerProvider sets the provider for server spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tp = tp
	}
}

// WithRateLimit answers 429 with a Retry-After of retryAfter once more
// than requests arrive within per.
func WithRateLimit(requests int, per, retryAfter time.Duration) Option {
	return func(o *options) {
		if requests <= 0 || per <= 0 {
			return
		}
		o.limiter = rate.NewLimiter(rate.Every(per/time.Duration(requests)), requests)
		o.retryAfter = retryAfter
	}
}

// NewServer starts a fake EDGAR. Call Close when done.
func NewServer(optFns ...Option) *Server {
	opts := options{
		logger: slog.New(slog.DiscardHandler),
		tp:     otel.GetTracerProvider(),
	}
	for _, opt := range optFns {
		opt(&opts)
	}

	s := &Server{
		docs: make(map[string]document),
		hits: make(map[string]int),
	}

	mw := []middleware{
		logRequests(opts.logger),
		respondErrors(opts.logger),
		requireUserAgent(),
	}
	if opts.limiter != nil {
		mw = append(mw, limitRate(opts.limiter, opts.retryAfter))
	}
	mw = append(mw, recoverPanics())

	rt := newRouter(opts.logger, opts.tp.Tracer(tracerName), mw...)
	rt.get("/data.sec.gov/submissions/{file}", s.serveCIKFile)
	rt.get("/data.sec.gov/api/xbrl/companyfacts/{file}", s.serveCIKFile)
	rt.get("/data.sec.gov/api/xbrl/companyconcept/{cik}/{taxonomy}/{tag}", s.serveConcept)
	rt.get("/{path...}", s.serve)

	s.Server = httptest.NewServer(rt)

	return s
}

// BaseURL is the prefix to hand to client.WithBaseURL.
func (s *Server) BaseURL() string {
	return s.URL + "/"
}

// SetJSON serves v encoded as JSON at rawURL.
func (s *Server) SetJSON(rawURL string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", rawURL, err)
	}

	s.SetRaw(rawURL, "application/json", b)

	return nil
}

// SetRaw serves body verbatim at rawURL.
func (s *Server) SetRaw(rawURL, contentType string, body []byte) {
	s.set(rawURL, document{contentType: contentType, body: body})
}

// SetArchive serves a zip archive holding files at rawURL.
func (s *Server) SetArchive(rawURL string, files map[string]string) error {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, name := range slices.Sorted(maps.Keys(files)) {
		w, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("adding %s: %w", name, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}

	s.SetRaw(rawURL, "application/zip", buf.Bytes())

	return nil
}

// SetStatus answers every request for rawURL with code and header.
func (s *Server) SetStatus(rawURL string, code int, header http.Header) {
	s.set(rawURL, document{status: code, header: header})
}

// Hits reports how many requests reached rawURL.
func (s *Server) Hits(rawURL string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.hits[key(rawURL)]
}

func (s *Server) set(rawURL string, doc document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[key(rawURL)] = doc
}

func (s *Server) serveCIKFile(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if !cikFile.MatchString(r.PathValue("file")) {
		return newStatusError(http.StatusNotFound, fmt.Errorf("%w: %s", errNotFound, r.URL.Path))
	}

	return s.serve(ctx, w, r)
}

func (s *Server) serveConcept(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if !cikFile.MatchString(r.PathValue("cik") + ".json") {
		return newStatusError(http.StatusNotFound, fmt.Errorf("%w: %s", errNotFound, r.URL.Path))
	}

	return s.serve(ctx, w, r)
}

func (s *Server) serve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	k := strings.TrimPrefix(r.URL.Path, "/")

	s.mu.Lock()
	s.hits[k]++
	doc, ok := s.docs[k]
	s.mu.Unlock()

	if !ok {
		return newStatusError(http.StatusNotFound, fmt.Errorf("%w: %s", errNotFound, k))
	}

	if doc.status != 0 {
		se := newStatusError(doc.status, errors.New(http.StatusText(doc.status)))
		se.header = doc.header
		return se
	}

	return respond(ctx, w, http.StatusOK, doc.contentType, doc.body)
}

// key strips the scheme from a canonical URL.
func key(rawURL string) string {
	for _, scheme := range []string{"https://", "http://"} {
		if rest, ok := strings.CutPrefix(rawURL, scheme); ok {
			return rest
		}
	}

	return strings.TrimPrefix(rawURL, "/")
}
