// Package download stages bulk archive bodies on disk and unpacks them.
//
// [ToTemp] streams a response body into a temporary file with optional
// checksum validation and progress reporting. [Extract] writes every entry
// of a zip archive beneath a destination directory and refuses entries that
// would land outside it. [Unpack] combines the two and removes the
// temporary file on every exit path:
//
//	err := download.Unpack(ctx, resp.Body, resp.ContentLength, "/data/facts", logger,
//		download.WithProgress(),
//	)
//
// [Queue] runs a batch of work functions with bounded concurrency and is
// used by the client to fetch paginated filing history.
package download
