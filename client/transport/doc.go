// Package transport abstracts how the client performs a GET exchange so the
// same request logic runs on different hosts.
//
// [HTTP] is the threaded implementation built on [net/http]; exchanges run
// concurrently and connection pooling, proxies and timeouts are handled by
// the [http.Client].
//
// [Serial] is for single-threaded hosts, such as sandboxed edge workers,
// where the network primitive must not be entered concurrently. It executes
// every exchange on one dedicated goroutine, one at a time, and holds the
// slot until the caller closes the response body.
//
// Any function with the right signature can be used through [Func], which
// is mostly useful in tests.
package transport
