//go:build integration

package client_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/adamwoolhether/edgar/client"
	"github.com/adamwoolhether/edgar/xbrl"
)

const appleCIK = "320193"

func integrationClient(t *testing.T) *client.Client {
	t.Helper()

	ua := os.Getenv("EDGAR_USER_AGENT")
	if ua == "" {
		t.Skip("EDGAR_USER_AGENT not set")
	}

	c, err := client.Build(
		client.WithUserAgent(ua),
		client.WithTimeout(time.Minute),
	)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	t.Cleanup(c.Close)

	return c
}

func TestIntegration_SubmissionHistory(t *testing.T) {
	c := integrationClient(t)

	history, err := c.SubmissionHistory(t.Context(), appleCIK)
	if err != nil {
		t.Fatalf("submission history: %v", err)
	}

	if !slices.Contains(history.Tickers, "AAPL") {
		t.Errorf("expected AAPL in tickers, got %v", history.Tickers)
	}
	if len(history.RecentFilings()) == 0 {
		t.Error("expected recent filings")
	}
}

func TestIntegration_CompanyConcept(t *testing.T) {
	c := integrationClient(t)

	concept, err := c.CompanyConcept(t.Context(), appleCIK, xbrl.USGAAP, "AccountsPayableCurrent")
	if err != nil {
		t.Fatalf("company concept: %v", err)
	}

	if _, ok := concept.MostRecent("USD"); !ok {
		t.Error("expected a USD value")
	}
}

func TestIntegration_Frames(t *testing.T) {
	c := integrationClient(t)

	frames, err := c.Frames(t.Context(), xbrl.USGAAP, "AccountsPayableCurrent", xbrl.SimpleUnit("USD"), xbrl.InstantaneousPeriod(2019, 1))
	if err != nil {
		t.Fatalf("frames: %v", err)
	}

	if stats := frames.Statistics(); stats.Count == 0 {
		t.Error("expected frame values")
	}
}

func TestIntegration_CompanyTickers(t *testing.T) {
	c := integrationClient(t)

	list, err := c.CompanyTickers(t.Context())
	if err != nil {
		t.Fatalf("company tickers: %v", err)
	}

	entries, err := list.Entries()
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) < 1000 {
		t.Errorf("expected a full ticker list, got %d entries", len(entries))
	}
}

func TestIntegration_BulkSubmissions(t *testing.T) {
	if os.Getenv("EDGAR_BULK") == "" {
		t.Skip("EDGAR_BULK not set; the archive is several gigabytes")
	}
	c := integrationClient(t)

	dest := t.TempDir()
	if err := c.DownloadBulkSubmissions(t.Context(), dest); err != nil {
		t.Fatalf("bulk submissions: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dest, "CIK0000320193.json")); err != nil {
		t.Errorf("expected apple submissions in archive: %v", err)
	}
}
