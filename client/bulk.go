package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/adamwoolhether/edgar/client/download"
	"github.com/adamwoolhether/edgar/client/transport"
)

// DownloadBulkSubmissions fetches the nightly submissions archive and
// extracts it into dir.
func (c *Client) DownloadBulkSubmissions(ctx context.Context, dir string, optFns ...download.Option) error {
	return c.fetchArchive(ctx, "bulk_submissions", BulkSubmissionsURL, dir, optFns...)
}

// DownloadBulkCompanyFacts fetches the nightly company facts archive and
// extracts it into dir.
func (c *Client) DownloadBulkCompanyFacts(ctx context.Context, dir string, optFns ...download.Option) error {
	return c.fetchArchive(ctx, "bulk_companyfacts", BulkCompanyFactsURL, dir, optFns...)
}

// FetchAndExtract fetches the zip archive at rawURL through the rate
// governor, stages it in a temporary file and extracts every entry into
// dir. The staged file is removed whether or not extraction succeeds.
func (c *Client) FetchAndExtract(ctx context.Context, rawURL, dir string, optFns ...download.Option) error {
	return c.fetchArchive(ctx, "bulk", rawURL, dir, optFns...)
}

func (c *Client) fetchArchive(ctx context.Context, endpoint, rawURL, dir string, optFns ...download.Option) error {
	if dir == "" {
		return fmt.Errorf("%w: destination dir must not be empty", ErrRequest)
	}

	header := http.Header{"Accept": {"application/zip"}}

	unpack := func(resp *transport.Response) error {
		err := download.Unpack(ctx, resp.Body, resp.ContentLength, dir, c.logger, optFns...)
		return classifyArchiveErr(err)
	}

	return c.fetch(ctx, endpoint, rawURL, header, unpack)
}

func classifyArchiveErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, download.ErrBodyRead):
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	case errors.Is(err, download.ErrArchive),
		errors.Is(err, download.ErrUnsafePath),
		errors.Is(err, download.ErrDownloadCancelled),
		errors.Is(err, download.ErrChecksumMismatch),
		errors.Is(err, download.ErrContentLengthMismatch):
		return fmt.Errorf("extracting archive: %w", err)
	default:
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
}
