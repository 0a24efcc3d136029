// Package client is a rate-governed client for the SEC EDGAR REST APIs.
//
// # Building a Client
//
// The SEC rejects requests without a User-Agent naming the caller, so
// [WithUserAgent] is the one required option:
//
//	c, err := client.Build(
//		client.WithUserAgent("Sample Company admin@sample.com"),
//		client.WithTimeout(10*time.Second),
//	)
//	defer c.Close()
//
// Every request from a Client, whatever the endpoint, draws from one
// token bucket. The default admits 10 requests per second; see
// [WithRateLimit].
//
// # Endpoints
//
// JSON endpoints decode into the types of the submission, xbrl and ticker
// packages:
//
//	history, err := c.SubmissionHistory(ctx, "320193")
//	facts, err := c.CompanyFacts(ctx, "320193")
//	frames, err := c.Frames(ctx, xbrl.USGAAP, "AccountsPayableCurrent",
//		xbrl.SimpleUnit("USD"), xbrl.InstantaneousPeriod(2019, 1))
//
// CIKs are accepted in any loose form and normalised before a request is
// built. A CIK that cannot be normalised fails with [ErrInvalidCIK]
// without touching the network.
//
// # Errors
//
// Failures wrap one of [ErrNetwork], [ErrParse], [ErrRequest] or [ErrIO],
// or are a [*RateLimitError] (429) or [*APIError] (any other non-2xx).
// [IsTransient] reports whether a retry may succeed.
//
// # Bulk Archives
//
// [Client.DownloadBulkSubmissions] and [Client.DownloadBulkCompanyFacts]
// stage the nightly zip archives on disk and extract them. Entries that
// would land outside the destination are rejected with
// [download.ErrUnsafePath].
//
// # Transports
//
// Requests go through a [transport.Transport]. The default wraps
// [net/http]; [WithSerial] funnels exchanges through a single goroutine
// and [WithTransport] accepts any implementation, including a
// [transport.Func].
package client
