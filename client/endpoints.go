package client

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/adamwoolhether/edgar/cik"
	"github.com/adamwoolhether/edgar/xbrl"
)

// DefaultBaseURL leaves canonical URLs untouched.
const DefaultBaseURL = "https://"

const (
	dataHost = "https://data.sec.gov"
	wwwHost  = "https://www.sec.gov"
)

const (
	CompanyTickersURL    = wwwHost + "/files/company_tickers_exchange.json"
	MutualFundTickersURL = wwwHost + "/files/company_tickers_mf.json"
	BulkSubmissionsURL   = wwwHost + "/Archives/edgar/daily-index/bulkdata/submissions.zip"
	BulkCompanyFactsURL  = wwwHost + "/Archives/edgar/daily-index/xbrl/companyfacts.zip"
)

// SubmissionsURL is the submission history of a company.
func SubmissionsURL(rawCIK string) (string, error) {
	id, err := cik.Format(rawCIK)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/submissions/CIK%s.json", dataHost, id), nil
}

// SubmissionFileURL is an additional history page named by a previous
// submissions response.
func SubmissionFileURL(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, "/\\") {
		return "", fmt.Errorf("%w: invalid submission file name %q", ErrRequest, name)
	}
	return fmt.Sprintf("%s/submissions/%s", dataHost, url.PathEscape(name)), nil
}

// CompanyConceptURL is one concept reported by one company.
func CompanyConceptURL(rawCIK string, taxonomy xbrl.Taxonomy, tag string) (string, error) {
	id, err := cik.Format(rawCIK)
	if err != nil {
		return "", err
	}
	if err := checkConcept(taxonomy, tag); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/api/xbrl/companyconcept/CIK%s/%s/%s.json", dataHost, id, taxonomy, url.PathEscape(tag)), nil
}

// CompanyFactsURL is every fact reported by one company.
func CompanyFactsURL(rawCIK string) (string, error) {
	id, err := cik.Format(rawCIK)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", dataHost, id), nil
}

// FramesURL is one concept across every reporting company for a period.
func FramesURL(taxonomy xbrl.Taxonomy, tag string, unit xbrl.Unit, period xbrl.Period) (string, error) {
	if err := checkConcept(taxonomy, tag); err != nil {
		return "", err
	}
	if unit.Numerator == "" {
		return "", fmt.Errorf("%w: %w", ErrRequest, xbrl.ErrInvalidUnit)
	}
	if err := period.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRequest, err)
	}
	return fmt.Sprintf("%s/api/xbrl/frames/%s/%s/%s/%s.json", dataHost, taxonomy, url.PathEscape(tag), url.PathEscape(unit.String()), period), nil
}

func checkConcept(taxonomy xbrl.Taxonomy, tag string) error {
	if !taxonomy.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrRequest, xbrl.ErrUnknownTaxonomy, taxonomy)
	}
	if tag == "" {
		return fmt.Errorf("%w: empty tag", ErrRequest)
	}
	return nil
}

// RewriteURL routes a canonical URL through base by replacing its
// "https://" prefix. URLs without that prefix pass through unchanged.
func RewriteURL(base, rawURL string) string {
	rest, ok := strings.CutPrefix(rawURL, "https://")
	if !ok {
		return rawURL
	}
	return base + rest
}
