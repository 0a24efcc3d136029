package xbrl

import (
	"maps"
	"slices"

	"github.com/adamwoolhether/edgar/cik"
)

// CompanyFacts holds every XBRL fact a company has reported, keyed by
// taxonomy and then by tag.
type CompanyFacts struct {
	CIK        cik.Number                 `json:"cik"`
	EntityName string                     `json:"entityName"`
	Facts      map[string]map[string]Fact `json:"facts"`
}

// Fact is one concept with its values grouped by unit.
type Fact struct {
	Label       string                 `json:"label,omitempty"`
	Description string                 `json:"description,omitempty"`
	Units       map[string][]FactValue `json:"units"`
}

// FactValue is a single reported value. Fiscal year and period are
// absent on some older filings.
type FactValue struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end"`
	Val   Value  `json:"val"`
	Accn  string `json:"accn"`
	FY    *int   `json:"fy,omitempty"`
	FP    string `json:"fp,omitempty"`
	Form  string `json:"form"`
	Filed string `json:"filed"`
	Frame string `json:"frame,omitempty"`
}

// FactRef locates a value within CompanyFacts.
type FactRef struct {
	Taxonomy string
	Tag      string
	Unit     string
	Value    FactValue
}

// Taxonomies returns the taxonomies present, sorted.
func (c *CompanyFacts) Taxonomies() []string {
	return slices.Sorted(maps.Keys(c.Facts))
}

// Tags returns the tags reported under taxonomy, sorted.
func (c *CompanyFacts) Tags(taxonomy string) []string {
	tags, ok := c.Facts[taxonomy]
	if !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(tags))
}

// Fact looks up a single concept.
func (c *CompanyFacts) Fact(taxonomy, tag string) (Fact, bool) {
	f, ok := c.Facts[taxonomy][tag]
	return f, ok
}

// MostRecent returns the value with the latest end date for the given
// concept and unit. Among values sharing that date the last reported wins.
func (c *CompanyFacts) MostRecent(taxonomy, tag, unit string) (FactValue, bool) {
	f, ok := c.Fact(taxonomy, tag)
	if !ok || len(f.Units[unit]) == 0 {
		return FactValue{}, false
	}

	values := f.Units[unit]
	latest := values[0]
	for _, v := range values[1:] {
		if v.End >= latest.End {
			latest = v
		}
	}

	return latest, true
}

// FactsForFiscalPeriod returns every value filed for the fiscal year
// and period.
func (c *CompanyFacts) FactsForFiscalPeriod(fy int, fp string) []FactRef {
	return c.filter(func(v FactValue) bool {
		return v.FY != nil && *v.FY == fy && v.FP == fp
	})
}

// FactsForForm returns every value reported on the given form type
// (10-K, 10-Q, ...).
func (c *CompanyFacts) FactsForForm(form string) []FactRef {
	return c.filter(func(v FactValue) bool {
		return v.Form == form
	})
}

// filter walks the facts in taxonomy, tag, unit order so results are stable.
func (c *CompanyFacts) filter(keep func(FactValue) bool) []FactRef {
	var out []FactRef
	for _, taxonomy := range c.Taxonomies() {
		tags := c.Facts[taxonomy]
		for _, tag := range slices.Sorted(maps.Keys(tags)) {
			units := tags[tag].Units
			for _, unit := range slices.Sorted(maps.Keys(units)) {
				for _, v := range units[unit] {
					if keep(v) {
						out = append(out, FactRef{Taxonomy: taxonomy, Tag: tag, Unit: unit, Value: v})
					}
				}
			}
		}
	}

	return out
}
