package aggregate

import (
	"sort"

	"github.com/roach88/visadata/internal/ir"
)

// Summary describes a cleaned table for run reports.
type Summary struct {
	Rows           int   `json:"rows"`
	NullCounts     int   `json:"null_counts"`
	NullContinents int   `json:"null_continents"`
	Issued         int64 `json:"issued"`
	Years          []int `json:"years"`
}

// Summarize counts rows, nulls and the total issued across all records.
func Summarize(records []ir.Record) Summary {
	s := Summary{Rows: len(records), Years: []int{}}
	seen := make(map[int]struct{})
	for _, r := range records {
		if r.IssuedCount == nil {
			s.NullCounts++
		}
		if !r.HasContinent() {
			s.NullContinents++
		}
		s.Issued += r.Count()
		if _, ok := seen[r.Year]; !ok {
			seen[r.Year] = struct{}{}
			s.Years = append(s.Years, r.Year)
		}
	}
	sort.Ints(s.Years)
	return s
}

// LatestYear returns the largest year in records, or ok == false when empty.
func LatestYear(records []ir.Record) (year int, ok bool) {
	for i, r := range records {
		if i == 0 || r.Year > year {
			year = r.Year
		}
	}
	return year, len(records) > 0
}
