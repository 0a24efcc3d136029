package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// ToTemp streams body into a new temporary file and returns its path.
// The caller owns the file and must remove it. On any error the file has
// already been removed.
func ToTemp(ctx context.Context, body io.Reader, contentLength int64, logger *slog.Logger, optFns ...Option) (string, error) {
	opts, err := applyOptions(optFns)
	if err != nil {
		return "", fmt.Errorf("applying option: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	cr := &contextReader{ctx: ctx, r: body}

	file, err := os.CreateTemp(opts.tempDir, ".edgar-bulk-*.zip")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}

	var successful bool
	defer func() {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Error("defer closing temp file", "error", err)
		}
		if !successful {
			if err := os.Remove(file.Name()); err != nil {
				logger.Error("failed to remove temp file", "error", err)
			}
		}
	}()

	var writer io.Writer = file
	if opts.checksum != nil {
		writer = io.MultiWriter(writer, opts.checksum)
	}

	var pw *progressWriter
	if opts.progress {
		pw = &progressWriter{
			w:         writer,
			logger:    logger,
			total:     contentLength,
			startTime: time.Now(),
			sometimes: rate.Sometimes{Interval: time.Second},
		}
		writer = pw
	}

	n, err := io.Copy(writer, cr)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return "", fmt.Errorf("%w: %w", ErrDownloadCancelled, err)
		case cr.err != nil:
			return "", fmt.Errorf("%w: %w", ErrBodyRead, err)
		}

		return "", fmt.Errorf("writing temp file: %w", err)
	}

	if contentLength >= 0 && n != contentLength {
		return "", &Error{
			Err:    ErrContentLengthMismatch,
			Detail: fmt.Sprintf("expected %d bytes, got %d", contentLength, n),
		}
	}

	if err := opts.checksum.Verify(); err != nil {
		return "", err
	}

	if pw != nil {
		pw.log("download complete")
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	successful = true

	return file.Name(), nil
}

// Unpack stages body with ToTemp, extracts it into dir and removes the
// staged file whether or not extraction succeeds.
func Unpack(ctx context.Context, body io.Reader, contentLength int64, dir string, logger *slog.Logger, optFns ...Option) error {
	if logger == nil {
		logger = slog.Default()
	}

	path, err := ToTemp(ctx, body, contentLength, logger, optFns...)
	if err != nil {
		return err
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Error("failed to remove staged archive", "path", path, "error", err)
		}
	}()

	return Extract(ctx, path, dir)
}

// contextReader stops a copy once ctx ends and remembers read failures so
// they can be told apart from write failures.
type contextReader struct {
	ctx context.Context
	r   io.Reader
	err error
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}

	n, err := cr.r.Read(p)
	if err != nil && err != io.EOF {
		cr.err = err
	}

	return n, err
}
