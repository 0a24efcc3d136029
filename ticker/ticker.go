package ticker

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/adamwoolhether/edgar/cik"
)

var (
	ErrRowShape   = errors.New("row does not match fields")
	ErrColumnType = errors.New("unexpected column type")
)

const columns = 4

// RowError reports the row that could not be converted.
type RowError struct {
	Row    int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d column %s: %v", e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Table is the raw tabular payload.
type Table struct {
	Fields []string            `json:"fields"`
	Data   [][]json.RawMessage `json:"data"`
}

// Exchange is the company_tickers_exchange list: cik, name, ticker, exchange.
type Exchange struct {
	Table
}

// Company is one row of the exchange ticker list.
type Company struct {
	CIK      cik.Number
	Name     string
	Ticker   string
	Exchange string
}

// Entries converts every row. A null exchange becomes the empty string.
func (e *Exchange) Entries() ([]Company, error) {
	out := make([]Company, 0, len(e.Data))
	for i, row := range e.Data {
		if len(row) != columns {
			return nil, &RowError{Row: i, Err: fmt.Errorf("%w: %d columns, want %d", ErrRowShape, len(row), columns)}
		}

		var c Company
		if err := decode(i, "cik", row[0], &c.CIK); err != nil {
			return nil, err
		}
		if err := decodeString(i, "name", row[1], &c.Name, false); err != nil {
			return nil, err
		}
		if err := decodeString(i, "ticker", row[2], &c.Ticker, false); err != nil {
			return nil, err
		}
		if err := decodeString(i, "exchange", row[3], &c.Exchange, true); err != nil {
			return nil, err
		}

		out = append(out, c)
	}

	return out, nil
}

// Funds is the company_tickers_mf list: cik, seriesId, classId, symbol.
type Funds struct {
	Table
}

// Fund is one row of the mutual-fund ticker list.
type Fund struct {
	CIK      cik.Number
	SeriesID string
	ClassID  string
	Symbol   string
}

func (f *Funds) Entries() ([]Fund, error) {
	out := make([]Fund, 0, len(f.Data))
	for i, row := range f.Data {
		if len(row) != columns {
			return nil, &RowError{Row: i, Err: fmt.Errorf("%w: %d columns, want %d", ErrRowShape, len(row), columns)}
		}

		var fund Fund
		if err := decode(i, "cik", row[0], &fund.CIK); err != nil {
			return nil, err
		}
		if err := decodeString(i, "seriesId", row[1], &fund.SeriesID, false); err != nil {
			return nil, err
		}
		if err := decodeString(i, "classId", row[2], &fund.ClassID, false); err != nil {
			return nil, err
		}
		if err := decodeString(i, "symbol", row[3], &fund.Symbol, false); err != nil {
			return nil, err
		}

		out = append(out, fund)
	}

	return out, nil
}

func decode(row int, column string, raw json.RawMessage, v any) error {
	if isNull(raw) {
		return &RowError{Row: row, Column: column, Err: fmt.Errorf("%w: null", ErrColumnType)}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &RowError{Row: row, Column: column, Err: fmt.Errorf("%w: %w", ErrColumnType, err)}
	}
	return nil
}

// decodeString decodes a string column. A lenient column yields "" for
// null or any other non-string value.
func decodeString(row int, column string, raw json.RawMessage, s *string, lenient bool) error {
	if lenient {
		if err := json.Unmarshal(raw, s); err != nil || isNull(raw) {
			*s = ""
		}
		return nil
	}
	return decode(row, column, raw, s)
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
