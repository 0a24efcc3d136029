package submission

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const historyBody = `{
  "cik": "320193",
  "entityType": "operating",
  "sic": "3571",
  "sicDescription": "Electronic Computers",
  "insiderTransactionForOwnerExists": 0,
  "insiderTransactionForIssuerExists": 1,
  "name": "Apple Inc.",
  "tickers": ["AAPL"],
  "exchanges": ["Nasdaq"],
  "formerNames": [{"name": "APPLE COMPUTER INC", "from": "1994-01-26T00:00:00.000Z", "to": "2007-01-04T00:00:00.000Z"}],
  "filings": {
    "recent": {
      "accessionNumber": ["0000320193-24-000006", "0000320193-23-000106", "0000320193-23-000077"],
      "filingDate": ["2024-02-02", "2023-11-03", "2023-08-04"],
      "reportDate": ["2023-12-30", "2023-09-30"],
      "acceptanceDateTime": ["2024-02-01T18:03:00.000Z", "2023-11-02T18:08:27.000Z", "2023-08-03T18:04:43.000Z"],
      "form": ["10-Q", "10-K"],
      "primaryDocument": ["aapl-20231230.htm", "aapl-20230930.htm", "aapl-20230701.htm"],
      "items": ["", "", ""],
      "size": [4766433, 9353102, 5210312],
      "isXBRL": [1, 1, 1],
      "isInlineXBRL": [1, 0, 1],
      "isPaper": [0, 0, 0],
      "instanceUrl": ["https://www.sec.gov/a.xml", null]
    },
    "files": [
      {"name": "CIK0000320193-submissions-001.json", "filingCount": 2, "filingFrom": "1994-01-26", "filingTo": "2010-01-01"}
    ]
  }
}`

func decodeHistory(t *testing.T) *History {
	t.Helper()

	var h History
	if err := json.Unmarshal([]byte(historyBody), &h); err != nil {
		t.Fatalf("decoding history: %v", err)
	}

	return &h
}

func TestHistory_RecentFilings(t *testing.T) {
	h := decodeHistory(t)

	if h.CIK.String() != "0000320193" {
		t.Errorf("exp cik 0000320193, got %s", h.CIK)
	}

	exp := []Filing{
		{
			AccessionNumber:    "0000320193-24-000006",
			FilingDate:         "2024-02-02",
			ReportDate:         "2023-12-30",
			AcceptanceDateTime: "2024-02-01T18:03:00.000Z",
			Form:               "10-Q",
			PrimaryDocument:    "aapl-20231230.htm",
			Size:               4766433,
			IsXBRL:             true,
			IsInlineXBRL:       true,
			InstanceURL:        "https://www.sec.gov/a.xml",
		},
		{
			AccessionNumber:    "0000320193-23-000106",
			FilingDate:         "2023-11-03",
			ReportDate:         "2023-09-30",
			AcceptanceDateTime: "2023-11-02T18:08:27.000Z",
			Form:               "10-K",
			PrimaryDocument:    "aapl-20230930.htm",
			Size:               9353102,
			IsXBRL:             true,
		},
	}

	if diff := cmp.Diff(exp, h.RecentFilings()); diff != "" {
		t.Errorf("filings mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_TickerMap(t *testing.T) {
	testCases := map[string]struct {
		tickers   []string
		exchanges []string
		exp       map[string]string
	}{
		"matched": {
			tickers:   []string{"BRK-A", "BRK-B"},
			exchanges: []string{"NYSE", "NYSE"},
			exp:       map[string]string{"BRK-A": "NYSE", "BRK-B": "NYSE"},
		},
		"mismatched": {
			tickers:   []string{"BRK-A", "BRK-B"},
			exchanges: []string{"NYSE"},
			exp:       map[string]string{},
		},
		"empty": {
			exp: map[string]string{},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			h := History{Tickers: tc.tickers, Exchanges: tc.exchanges}
			if diff := cmp.Diff(tc.exp, h.TickerMap()); diff != "" {
				t.Errorf("ticker map mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

type fakePages map[string]*Recent

func (f fakePages) SubmissionFile(_ context.Context, name string) (*Recent, error) {
	r, ok := f[name]
	if !ok {
		return nil, errors.New("not found")
	}
	return r, nil
}

func TestHistory_AllFilings(t *testing.T) {
	h := decodeHistory(t)

	pages := fakePages{
		"CIK0000320193-submissions-001.json": {
			AccessionNumber: []string{"0000320193-09-000001", "0000320193-08-000001"},
			FilingDate:      []string{"2009-10-27", "2008-11-05"},
			Form:            []string{"10-K", "10-K"},
		},
	}

	all, err := h.AllFilings(t.Context(), pages)
	if err != nil {
		t.Fatalf("fetching all filings: %v", err)
	}

	var accns []string
	for _, f := range all {
		accns = append(accns, f.AccessionNumber)
	}

	exp := []string{"0000320193-24-000006", "0000320193-23-000106", "0000320193-09-000001", "0000320193-08-000001"}
	if diff := cmp.Diff(exp, accns); diff != "" {
		t.Errorf("accession mismatch (-want +got):\n%s", diff)
	}

	if _, err := h.AllFilings(t.Context(), fakePages{}); err == nil {
		t.Error("exp error for missing page")
	}
}

func TestHistory_Pages(t *testing.T) {
	top := History{Files: []FileInfo{{Name: "top.json"}}}
	if got := top.Pages(); len(got) != 1 || got[0].Name != "top.json" {
		t.Errorf("exp top-level page, got %+v", got)
	}

	nested := History{Files: []FileInfo{{Name: "top.json"}}, Filings: Filings{Files: []FileInfo{{Name: "nested.json"}}}}
	if got := nested.Pages(); len(got) != 1 || got[0].Name != "nested.json" {
		t.Errorf("exp nested page, got %+v", got)
	}
}
