package xbrl

import (
	"cmp"
	"math"
	"slices"

	"github.com/adamwoolhether/edgar/cik"
)

// Frames aggregates one concept's values across every reporting entity
// for a single calendar period.
type Frames struct {
	Taxonomy    string       `json:"taxonomy"`
	Tag         string       `json:"tag"`
	CCP         string       `json:"ccp,omitempty"`
	UOM         string       `json:"uom,omitempty"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
	PTS         int          `json:"pts,omitempty"`
	Data        []FrameValue `json:"data"`
}

// FrameValue is one entity's value within a frame.
type FrameValue struct {
	Accn       string     `json:"accn"`
	CIK        cik.Number `json:"cik"`
	EntityName string     `json:"entityName"`
	Loc        string     `json:"loc,omitempty"`
	Start      string     `json:"start,omitempty"`
	End        string     `json:"end"`
	Val        float64    `json:"val"`
}

// FrameStatistics summarises the values in a frame. StdDev is the
// sample standard deviation and is zero for fewer than two values.
type FrameStatistics struct {
	Count  int
	Mean   float64
	Median float64
	Min    float64
	Max    float64
	StdDev float64
}

// ValuesForCompany returns the values reported by the given company.
// The CIK is normalised with [cik.Format]; an unparsable CIK yields nil.
func (f *Frames) ValuesForCompany(raw string) []FrameValue {
	formatted, err := cik.Format(raw)
	if err != nil {
		return nil
	}

	var out []FrameValue
	for _, v := range f.Data {
		if v.CIK.String() == formatted {
			out = append(out, v)
		}
	}

	return out
}

// Top returns the n entries with the largest values, or the smallest
// when ascending is set. Ties keep their original order.
func (f *Frames) Top(n int, ascending bool) []FrameValue {
	if n <= 0 {
		return nil
	}

	sorted := slices.Clone(f.Data)
	slices.SortStableFunc(sorted, func(a, b FrameValue) int {
		if ascending {
			return cmp.Compare(a.Val, b.Val)
		}
		return cmp.Compare(b.Val, a.Val)
	})

	return sorted[:min(n, len(sorted))]
}

// Statistics computes summary statistics over the frame's values.
func (f *Frames) Statistics() FrameStatistics {
	count := len(f.Data)
	if count == 0 {
		return FrameStatistics{}
	}

	values := make([]float64, count)
	var sum float64
	for i, v := range f.Data {
		values[i] = v.Val
		sum += v.Val
	}
	slices.Sort(values)

	stats := FrameStatistics{
		Count: count,
		Mean:  sum / float64(count),
		Min:   values[0],
		Max:   values[count-1],
	}

	if count%2 == 0 {
		stats.Median = (values[count/2-1] + values[count/2]) / 2
	} else {
		stats.Median = values[count/2]
	}

	if count > 1 {
		var squares float64
		for _, v := range values {
			squares += (v - stats.Mean) * (v - stats.Mean)
		}
		stats.StdDev = math.Sqrt(squares / float64(count-1))
	}

	return stats
}
