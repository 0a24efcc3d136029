// Package edgartest provides an in-process fake of the EDGAR hosts for
// tests of code built on the client package.
//
// A [Server] stores documents by their canonical URL and serves them under
// the path layout that [client.WithBaseURL] produces:
//
//	srv := edgartest.NewServer()
//	defer srv.Close()
//
//	srv.SetJSON(client.CompanyTickersURL, tickers)
//
//	c, err := client.Build(
//		client.WithUserAgent("Sample Company admin@sample.com"),
//		client.WithBaseURL(srv.BaseURL()),
//	)
//
// Like the real hosts, the server rejects requests without a User-Agent
// and can be told to answer 429 once a request rate is exceeded.
package edgartest
