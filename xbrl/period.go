package xbrl

import (
	"fmt"
	"strconv"
	"strings"
)

// PeriodKind distinguishes the three frame period encodings.
type PeriodKind int

const (
	// Annual data spans a calendar year: CY2019.
	Annual PeriodKind = iota + 1
	// Quarterly data spans a calendar quarter: CY2019Q1.
	Quarterly
	// Instantaneous data is a point in time at quarter end: CY2019Q1I.
	Instantaneous
)

// Period identifies the calendar period of a frame.
type Period struct {
	Kind    PeriodKind
	Year    int
	Quarter int
}

func AnnualPeriod(year int) Period {
	return Period{Kind: Annual, Year: year}
}

func QuarterlyPeriod(year, quarter int) Period {
	return Period{Kind: Quarterly, Year: year, Quarter: quarter}
}

func InstantaneousPeriod(year, quarter int) Period {
	return Period{Kind: Instantaneous, Year: year, Quarter: quarter}
}

// Validate checks the year is four digits and, for quarterly and
// instantaneous periods, that the quarter is within 1..4.
func (p Period) Validate() error {
	if p.Year < 0 || p.Year > 9999 {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, p.Year)
	}

	switch p.Kind {
	case Annual:
		return nil
	case Quarterly, Instantaneous:
		if p.Quarter < 1 || p.Quarter > 4 {
			return fmt.Errorf("%w: quarter %d", ErrInvalidPeriod, p.Quarter)
		}
		return nil
	}

	return fmt.Errorf("%w: unknown kind %d", ErrInvalidPeriod, p.Kind)
}

func (p Period) String() string {
	switch p.Kind {
	case Quarterly:
		return fmt.Sprintf("CY%dQ%d", p.Year, p.Quarter)
	case Instantaneous:
		return fmt.Sprintf("CY%dQ%dI", p.Year, p.Quarter)
	default:
		return fmt.Sprintf("CY%d", p.Year)
	}
}

// ParsePeriod parses the CY####, CY####Q# and CY####Q#I forms.
func ParsePeriod(s string) (Period, error) {
	rest, ok := strings.CutPrefix(s, "CY")
	if !ok {
		return Period{}, fmt.Errorf("%w: %q missing CY prefix", ErrInvalidPeriod, s)
	}

	yearStr, quarterStr, hasQuarter := strings.Cut(rest, "Q")

	year, err := parseDigits(yearStr)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q year: %w", ErrInvalidPeriod, s, err)
	}

	if !hasQuarter {
		return AnnualPeriod(year), nil
	}

	kind := Quarterly
	if q, ok := strings.CutSuffix(quarterStr, "I"); ok {
		kind = Instantaneous
		quarterStr = q
	}

	quarter, err := parseDigits(quarterStr)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q quarter: %w", ErrInvalidPeriod, s, err)
	}

	p := Period{Kind: kind, Year: year, Quarter: quarter}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}

	return p, nil
}

// parseDigits rejects signs and whitespace that strconv.Atoi tolerates.
func parseDigits(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit %q", r)
		}
	}
	return strconv.Atoi(s)
}
