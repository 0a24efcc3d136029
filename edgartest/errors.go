package edgartest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// statusError is an error the server answers with a specific status code.
type statusError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	FuncName string `json:"-"`
	FileName string `json:"-"`
	header   http.Header
}

func newStatusError(code int, err error) *statusError {
	pc, filename, line, _ := runtime.Caller(1)

	return &statusError{
		Code:     code,
		Message:  err.Error(),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

func (e *statusError) Error() string {
	return e.Message
}

var (
	errNotFound         = errors.New("document not found")
	errMissingUserAgent = errors.New("request rate threshold exceeded or undeclared automated tool")
	errRateLimited      = errors.New("request rate threshold exceeded")
)

func respond(ctx context.Context, w http.ResponseWriter, code int, contentType string, body []byte) error {
	setStatusCode(ctx, code)

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(code)

	if _, err := w.Write(body); err != nil {
		return err
	}

	return nil
}

func respondJSON(ctx context.Context, w http.ResponseWriter, code int, data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return respond(ctx, w, code, "application/json", b)
}
