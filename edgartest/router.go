package edgartest

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// handler is a http.Handler that returns an error.
type handler func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

// middleware chains handlers together.
type middleware func(handler) handler

// router registers routes on a ServeMux, wrapping each in the middleware
// stack and a server span.
type router struct {
	mux    *http.ServeMux
	mw     []middleware
	logger *slog.Logger
	tracer trace.Tracer
}

func newRouter(logger *slog.Logger, tracer trace.Tracer, mw ...middleware) *router {
	return &router{
		mux:    http.NewServeMux(),
		mw:     mw,
		logger: logger,
		tracer: tracer,
	}
}

func (rt *router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.mux.ServeHTTP(w, r)
}

func (rt *router) get(path string, fn handler) {
	fn = wrap(rt.mw, fn)

	h := func(w http.ResponseWriter, r *http.Request) {
		ctx, span := rt.tracer.Start(r.Context(), "edgartest.handler", trace.WithSpanKind(trace.SpanKindServer))
		span.SetAttributes(attribute.String("path", r.URL.Path))
		defer span.End()

		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(w.Header()))

		traceID := span.SpanContext().TraceID().String()
		if !span.SpanContext().TraceID().IsValid() {
			traceID = uuid.NewString()
		}

		v := values{
			TraceID: traceID,
			Now:     time.Now().UTC(),
		}

		if err := fn(setValues(ctx, &v), w, r); err != nil {
			rt.logger.Error("edgartest", "handle", err)
		}
	}

	rt.mux.HandleFunc(http.MethodGet+" "+path, h)
}

// wrap middleware around the handler and execute in order given.
func wrap(mw []middleware, h handler) handler {
	for _, mwFn := range slices.Backward(mw) {
		if mwFn != nil {
			h = mwFn(h)
		}
	}

	return h
}

type ctxKey int

const valuesKey ctxKey = 1

// values are shared across the middleware of one request.
type values struct {
	TraceID    string
	Now        time.Time
	StatusCode int
}

func setValues(ctx context.Context, v *values) context.Context {
	return context.WithValue(ctx, valuesKey, v)
}

func getValues(ctx context.Context) *values {
	v, ok := ctx.Value(valuesKey).(*values)
	if !ok {
		return &values{TraceID: uuid.Nil.String(), Now: time.Now()}
	}

	return v
}

func setStatusCode(ctx context.Context, code int) {
	if v, ok := ctx.Value(valuesKey).(*values); ok {
		v.StatusCode = code
	}
}
