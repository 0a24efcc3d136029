package xbrl

import (
	"maps"
	"slices"

	"github.com/adamwoolhether/edgar/cik"
)

// CompanyConcept holds every disclosure of one concept by one company,
// grouped by unit of measure.
type CompanyConcept struct {
	CIK         cik.Number                `json:"cik"`
	EntityName  string                    `json:"entityName"`
	Taxonomy    string                    `json:"taxonomy"`
	Tag         string                    `json:"tag"`
	Label       string                    `json:"label"`
	Description string                    `json:"description"`
	Units       map[string][]ConceptValue `json:"units"`
}

// ConceptValue is a single reported value of a concept.
type ConceptValue struct {
	Start string  `json:"start,omitempty"`
	End   string  `json:"end"`
	Val   float64 `json:"val"`
	Accn  string  `json:"accn"`
	FY    int     `json:"fy"`
	FP    string  `json:"fp"`
	Form  string  `json:"form"`
	Filed string  `json:"filed"`
	Frame string  `json:"frame,omitempty"`
}

// UnitValue pairs a value with the unit it was reported in.
type UnitValue struct {
	Unit  string
	Value ConceptValue
}

// ValuesForUnit returns the values reported in unit, or nil.
func (c *CompanyConcept) ValuesForUnit(unit string) []ConceptValue {
	return c.Units[unit]
}

// MostRecent returns the value with the latest end date for unit. Among
// values sharing that date the last reported wins.
func (c *CompanyConcept) MostRecent(unit string) (ConceptValue, bool) {
	values := c.Units[unit]
	if len(values) == 0 {
		return ConceptValue{}, false
	}

	latest := values[0]
	for _, v := range values[1:] {
		if v.End >= latest.End {
			latest = v
		}
	}

	return latest, true
}

// AvailableUnits returns the reported units in sorted order.
func (c *CompanyConcept) AvailableUnits() []string {
	return slices.Sorted(maps.Keys(c.Units))
}

// ValuesForFiscalPeriod returns the values filed for the given fiscal
// year and period ("FY", "Q1".."Q4") across all units, ordered by unit.
func (c *CompanyConcept) ValuesForFiscalPeriod(fy int, fp string) []UnitValue {
	var out []UnitValue
	for _, unit := range c.AvailableUnits() {
		for _, v := range c.Units[unit] {
			if v.FY == fy && v.FP == fp {
				out = append(out, UnitValue{Unit: unit, Value: v})
			}
		}
	}

	return out
}
