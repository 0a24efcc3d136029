package client

import (
	"context"
	"fmt"
	"slices"

	"github.com/adamwoolhether/edgar/client/download"
	"github.com/adamwoolhether/edgar/submission"
	"github.com/adamwoolhether/edgar/ticker"
	"github.com/adamwoolhether/edgar/xbrl"
)

// SubmissionHistory returns a company's profile and recent filings.
func (c *Client) SubmissionHistory(ctx context.Context, cik string) (*submission.History, error) {
	u, err := SubmissionsURL(cik)
	if err != nil {
		return nil, err
	}
	return getJSON[submission.History](ctx, c, "submissions", u)
}

// SubmissionFile returns an additional filing-history page by the name
// listed in a previous SubmissionHistory response.
func (c *Client) SubmissionFile(ctx context.Context, name string) (*submission.Recent, error) {
	u, err := SubmissionFileURL(name)
	if err != nil {
		return nil, err
	}
	return getJSON[submission.Recent](ctx, c, "submission_file", u)
}

// AllFilings returns the recent filings of a company followed by the
// filings of every additional history page, in page order. Pages are
// fetched concurrently; any failure fails the whole call.
func (c *Client) AllFilings(ctx context.Context, cik string) ([]submission.Filing, error) {
	history, err := c.SubmissionHistory(ctx, cik)
	if err != nil {
		return nil, err
	}

	pages := history.Pages()
	results := make([]*submission.Recent, len(pages))

	q := download.NewQueue(c.cfg.PageConcurrency, download.WithFailFast())
	for i, page := range pages {
		q.Start(ctx, func(ctx context.Context) error {
			recent, err := c.SubmissionFile(ctx, page.Name)
			if err != nil {
				return fmt.Errorf("fetching page %s: %w", page.Name, err)
			}
			results[i] = recent
			return nil
		})
	}

	if err := q.Wait(); err != nil {
		return nil, err
	}

	all := history.RecentFilings()
	for _, recent := range results {
		all = slices.Concat(all, recent.Filings())
	}

	return all, nil
}

// CompanyConcept returns every disclosure of one concept by one company.
func (c *Client) CompanyConcept(ctx context.Context, cik string, taxonomy xbrl.Taxonomy, tag string) (*xbrl.CompanyConcept, error) {
	u, err := CompanyConceptURL(cik, taxonomy, tag)
	if err != nil {
		return nil, err
	}
	return getJSON[xbrl.CompanyConcept](ctx, c, "companyconcept", u)
}

// CompanyFacts returns every fact a company has reported.
func (c *Client) CompanyFacts(ctx context.Context, cik string) (*xbrl.CompanyFacts, error) {
	u, err := CompanyFactsURL(cik)
	if err != nil {
		return nil, err
	}
	return getJSON[xbrl.CompanyFacts](ctx, c, "companyfacts", u)
}

// Frames returns one concept across all reporting companies for a period.
func (c *Client) Frames(ctx context.Context, taxonomy xbrl.Taxonomy, tag string, unit xbrl.Unit, period xbrl.Period) (*xbrl.Frames, error) {
	u, err := FramesURL(taxonomy, tag, unit, period)
	if err != nil {
		return nil, err
	}
	return getJSON[xbrl.Frames](ctx, c, "frames", u)
}

// CompanyTickers returns the exchange ticker list.
func (c *Client) CompanyTickers(ctx context.Context) (*ticker.Exchange, error) {
	return getJSON[ticker.Exchange](ctx, c, "company_tickers", CompanyTickersURL)
}

// MutualFundTickers returns the mutual-fund ticker list.
func (c *Client) MutualFundTickers(ctx context.Context) (*ticker.Funds, error) {
	return getJSON[ticker.Funds](ctx, c, "company_tickers_mf", MutualFundTickersURL)
}
