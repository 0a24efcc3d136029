// Package submission models the EDGAR submissions API: a company's
// profile plus its filing history. The most recent filings (at least a
// year's worth, or 1,000 filings) arrive inline in columnar form; older
// filings are split into additional JSON pages that are fetched by name.
package submission
