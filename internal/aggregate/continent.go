package aggregate

import (
	"sort"

	"github.com/roach88/visadata/internal/ir"
)

type continentKey struct {
	year      int
	continent string
}

// continentPartial accumulates sums for one slice of the input.
type continentPartial map[continentKey]int64

func reduceContinents(records []ir.Record) continentPartial {
	p := make(continentPartial)
	for _, r := range records {
		if !r.HasContinent() {
			continue
		}
		p[continentKey{r.Year, r.Continent}] += r.Count()
	}
	return p
}

func (p continentPartial) merge(other continentPartial) {
	for k, v := range other {
		p[k] += v
	}
}

func (p continentPartial) rows() []ir.ContinentYearTotal {
	out := make([]ir.ContinentYearTotal, 0, len(p))
	for k, v := range p {
		out = append(out, ir.ContinentYearTotal{Year: k.year, Continent: k.continent, VisaIssued: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Continent < out[j].Continent
	})
	return out
}

// ByContinentYear drops records without a continent, groups the rest by
// (year, continent) and sums their counts. Every classified record
// contributes to exactly one row.
func ByContinentYear(records []ir.Record) []ir.ContinentYearTotal {
	return reduceContinents(records).rows()
}
