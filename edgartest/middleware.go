package edgartest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"path"
	"runtime/debug"
	"time"

	"golang.org/x/time/rate"
)

func logRequests(log *slog.Logger) middleware {
	return func(next handler) handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			v := getValues(ctx)

			log.Debug("request started", "path", r.URL.Path, "user_agent", r.UserAgent())

			err := next(ctx, w, r)

			log.Debug("request completed", "path", r.URL.Path, "statusCode", v.StatusCode, "since", time.Since(v.Now).String())

			return err
		}
	}
}

// respondErrors turns errors from the chain into JSON error bodies.
// Anything other than a *statusError is answered with a 500.
func respondErrors(log *slog.Logger) middleware {
	return func(next handler) handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			err := next(ctx, w, r)
			if err == nil {
				return nil
			}

			se, ok := errors.AsType[*statusError](err)
			if !ok {
				se = newStatusError(http.StatusInternalServerError, err)
			}

			log.Debug(err.Error(), "trace_id", getValues(ctx).TraceID, "status", se.Code,
				"source_err_file", path.Base(se.FileName), "source_err_func", path.Base(se.FuncName))

			maps.Copy(w.Header(), se.header)

			return respondJSON(ctx, w, se.Code, se)
		}
	}
}

func recoverPanics() middleware {
	return func(next handler) handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = fmt.Errorf("PANIC [%v] TRACE[%s]", rec, string(debug.Stack()))
				}
			}()

			return next(ctx, w, r)
		}
	}
}

// requireUserAgent answers 403 to requests without a User-Agent.
func requireUserAgent() middleware {
	return func(next handler) handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if r.UserAgent() == "" {
				return newStatusError(http.StatusForbidden, errMissingUserAgent)
			}

			return next(ctx, w, r)
		}
	}
}

// limitRate answers 429 once limiter runs dry.
func limitRate(limiter *rate.Limiter, retryAfter time.Duration) middleware {
	return func(next handler) handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if !limiter.Allow() {
				se := newStatusError(http.StatusTooManyRequests, errRateLimited)
				se.header = http.Header{"Retry-After": {fmt.Sprint(int(retryAfter.Seconds()))}}
				return se
			}

			return next(ctx, w, r)
		}
	}
}
