package xbrl

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownTaxonomy = errors.New("unknown taxonomy")
	ErrInvalidPeriod   = errors.New("invalid period")
	ErrInvalidUnit     = errors.New("invalid unit")
)

// Taxonomy is a classification scheme for financial-reporting concepts.
type Taxonomy string

const (
	USGAAP   Taxonomy = "us-gaap"
	IFRSFull Taxonomy = "ifrs-full"
	DEI      Taxonomy = "dei"
	SRT      Taxonomy = "srt"
)

// Taxonomies lists every taxonomy the API serves.
var Taxonomies = []Taxonomy{USGAAP, IFRSFull, DEI, SRT}

// ParseTaxonomy matches s case-insensitively against the known taxonomies.
func ParseTaxonomy(s string) (Taxonomy, error) {
	t := Taxonomy(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTaxonomy, s)
	}

	return t, nil
}

func (t Taxonomy) Valid() bool {
	switch t {
	case USGAAP, IFRSFull, DEI, SRT:
		return true
	}
	return false
}

func (t Taxonomy) String() string { return string(t) }
