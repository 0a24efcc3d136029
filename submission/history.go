package submission

import (
	"context"
	"fmt"

	"github.com/adamwoolhether/edgar/cik"
)

// PageFetcher retrieves an additional filing-history page by file name.
type PageFetcher interface {
	SubmissionFile(ctx context.Context, name string) (*Recent, error)
}

// History is a company's submission history.
type History struct {
	CIK                               cik.Number   `json:"cik"`
	EntityType                        string       `json:"entityType"`
	SIC                               string       `json:"sic"`
	SICDescription                    string       `json:"sicDescription"`
	InsiderTransactionForIssuerExists int          `json:"insiderTransactionForIssuerExists"`
	InsiderTransactionForOwnerExists  int          `json:"insiderTransactionForOwnerExists"`
	Name                              string       `json:"name"`
	Tickers                           []string     `json:"tickers"`
	Exchanges                         []string     `json:"exchanges"`
	FormerNames                       []FormerName `json:"formerNames"`
	Filings                           Filings      `json:"filings"`
	Files                             []FileInfo   `json:"files,omitempty"`
}

// FormerName is a name the company previously filed under.
type FormerName struct {
	Name string `json:"name"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Filings holds the inline recent filings and the index of older pages.
type Filings struct {
	Recent Recent     `json:"recent"`
	Files  []FileInfo `json:"files,omitempty"`
}

// FileInfo describes one additional filing-history page.
type FileInfo struct {
	Name        string `json:"name"`
	FilingCount int64  `json:"filingCount"`
	FilingFrom  string `json:"filingFrom"`
	FilingTo    string `json:"filingTo"`
}

// Recent is the columnar filing table: index i of every slice describes
// the same filing. The same shape is returned for additional pages.
type Recent struct {
	AccessionNumber       []string  `json:"accessionNumber"`
	FilingDate            []string  `json:"filingDate"`
	ReportDate            []string  `json:"reportDate"`
	AcceptanceDateTime    []string  `json:"acceptanceDateTime"`
	Form                  []string  `json:"form"`
	PrimaryDocument       []string  `json:"primaryDocument"`
	PrimaryDocDescription []string  `json:"primaryDocDescription"`
	FileNumber            []string  `json:"fileNumber"`
	FilmNumber            []string  `json:"filmNumber"`
	Items                 []string  `json:"items"`
	Size                  []int64   `json:"size"`
	IsXBRL                []int64   `json:"isXBRL"`
	IsInlineXBRL          []int64   `json:"isInlineXBRL"`
	IsPaper               []int64   `json:"isPaper"`
	InstanceURL           []*string `json:"instanceUrl"`
}

// Filing is one row of a [Recent] table.
type Filing struct {
	AccessionNumber       string
	FilingDate            string
	ReportDate            string
	AcceptanceDateTime    string
	Form                  string
	PrimaryDocument       string
	PrimaryDocDescription string
	FileNumber            string
	FilmNumber            string
	Items                 string
	Size                  int64
	IsXBRL                bool
	IsInlineXBRL          bool
	IsPaper               bool
	InstanceURL           string
}

// Filings flattens the columns into rows. Rows without a form or filing
// date are skipped; any other missing column takes its zero value.
func (r *Recent) Filings() []Filing {
	var out []Filing
	for i, accn := range r.AccessionNumber {
		if i >= len(r.Form) || i >= len(r.FilingDate) {
			continue
		}

		f := Filing{
			AccessionNumber:       accn,
			FilingDate:            r.FilingDate[i],
			Form:                  r.Form[i],
			ReportDate:            at(r.ReportDate, i),
			AcceptanceDateTime:    at(r.AcceptanceDateTime, i),
			PrimaryDocument:       at(r.PrimaryDocument, i),
			PrimaryDocDescription: at(r.PrimaryDocDescription, i),
			FileNumber:            at(r.FileNumber, i),
			FilmNumber:            at(r.FilmNumber, i),
			Items:                 at(r.Items, i),
			Size:                  at(r.Size, i),
			IsXBRL:                at(r.IsXBRL, i) == 1,
			IsInlineXBRL:          at(r.IsInlineXBRL, i) == 1,
			IsPaper:               at(r.IsPaper, i) == 1,
		}
		if u := at(r.InstanceURL, i); u != nil {
			f.InstanceURL = *u
		}

		out = append(out, f)
	}

	return out
}

// RecentFilings returns the inline filings.
func (h *History) RecentFilings() []Filing {
	return h.Filings.Recent.Filings()
}

// Pages returns the additional history pages. The API nests them under
// filings, but older responses also carry them at the top level.
func (h *History) Pages() []FileInfo {
	if len(h.Filings.Files) > 0 {
		return h.Filings.Files
	}
	return h.Files
}

// AllFilings returns the recent filings followed by the filings of every
// additional page, fetched one at a time in page order.
func (h *History) AllFilings(ctx context.Context, pf PageFetcher) ([]Filing, error) {
	all := h.RecentFilings()

	for _, page := range h.Pages() {
		recent, err := pf.SubmissionFile(ctx, page.Name)
		if err != nil {
			return nil, fmt.Errorf("fetching page %s: %w", page.Name, err)
		}
		all = append(all, recent.Filings()...)
	}

	return all, nil
}

// TickerMap maps each ticker to its exchange. It is empty unless the
// tickers and exchanges lists line up one to one.
func (h *History) TickerMap() map[string]string {
	m := make(map[string]string)
	if len(h.Tickers) != len(h.Exchanges) {
		return m
	}

	for i, t := range h.Tickers {
		m[t] = h.Exchanges[i]
	}

	return m
}

func at[T any](s []T, i int) T {
	var zero T
	if i >= len(s) {
		return zero
	}
	return s[i]
}
