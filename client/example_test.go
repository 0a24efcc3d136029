package client_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/adamwoolhether/edgar/client"
	"github.com/adamwoolhether/edgar/xbrl"
)

func ExampleBuild() {
	c, err := client.Build(
		client.WithUserAgent("Sample Company admin@sample.com"),
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer c.Close()

	fmt.Println("rate limit:", c.Config().RateLimit, "per", c.Config().RatePeriod)
	// Output: rate limit: 10 per 1s
}

func ExampleBuild_missingUserAgent() {
	_, err := client.Build()
	fmt.Println(err)
	// Output: validating config: userAgent: This field is required
}

func ExampleClient_CompanyConcept() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"cik":320193,"taxonomy":"us-gaap","tag":"AccountsPayableCurrent","entityName":"Apple Inc.",
			"units":{"USD":[{"end":"2023-09-30","val":62611000000,"fy":2023,"fp":"FY","form":"10-K","filed":"2023-11-03"}]}}`)
	}))
	defer server.Close()

	c, err := client.Build(
		client.WithUserAgent("Sample Company admin@sample.com"),
		client.WithBaseURL(server.URL+"/"),
		client.WithLogger(slog.New(slog.DiscardHandler)),
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer c.Close()

	concept, err := c.CompanyConcept(context.Background(), "320193", xbrl.USGAAP, "AccountsPayableCurrent")
	if err != nil {
		fmt.Println(err)
		return
	}

	latest, _ := concept.MostRecent("USD")
	fmt.Println(concept.EntityName, concept.CIK, latest.Val)
	// Output: Apple Inc. 0000320193 6.2611e+10
}

func ExampleIsTransient() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c, err := client.Build(
		client.WithUserAgent("Sample Company admin@sample.com"),
		client.WithBaseURL(server.URL+"/"),
		client.WithLogger(slog.New(slog.DiscardHandler)),
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer c.Close()

	_, err = c.CompanyTickers(context.Background())
	fmt.Println(err)
	fmt.Println("transient:", client.IsTransient(err))
	// Output:
	// rate limit exceeded: retry after 5s
	// transient: true
}
