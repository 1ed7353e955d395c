package aggregate

import (
	"sort"

	"github.com/roach88/visadata/internal/ir"
)

// DefaultLimit is the number of countries in the ranking.
const DefaultLimit = 10

// TopQuery selects the ranking to compute.
type TopQuery struct {
	Year      int
	Limit     int
	Sentinels []string // exact-match country values to exclude
}

type countryAcc struct {
	sum   int64
	first int // index of the first contributing record in the full input
}

// countryPartial accumulates sums for one slice of the input.
type countryPartial map[string]*countryAcc

func reduceCountries(records []ir.Record, offset int, q TopQuery, sentinels map[string]struct{}) countryPartial {
	p := make(countryPartial)
	for i, r := range records {
		if r.Year != q.Year || r.Country == "" {
			continue
		}
		if _, skip := sentinels[r.Country]; skip {
			continue
		}
		acc, ok := p[r.Country]
		if !ok {
			acc = &countryAcc{first: offset + i}
			p[r.Country] = acc
		}
		acc.sum += r.Count()
	}
	return p
}

func (p countryPartial) merge(other countryPartial) {
	for country, acc := range other {
		cur, ok := p[country]
		if !ok {
			p[country] = &countryAcc{sum: acc.sum, first: acc.first}
			continue
		}
		cur.sum += acc.sum
		if acc.first < cur.first {
			cur.first = acc.first
		}
	}
}

func (p countryPartial) rows(limit int) []ir.CountryTotal {
	type ranked struct {
		country string
		countryAcc
	}
	all := make([]ranked, 0, len(p))
	for country, acc := range p {
		all = append(all, ranked{country, *acc})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].sum != all[j].sum {
			return all[i].sum > all[j].sum
		}
		return all[i].first < all[j].first
	})

	if limit < len(all) {
		all = all[:limit]
	}
	out := make([]ir.CountryTotal, len(all))
	for i, r := range all {
		out[i] = ir.CountryTotal{Country: r.country, VisaIssued: r.sum}
	}
	return out
}

func sentinelSet(sentinels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(sentinels))
	for _, s := range sentinels {
		set[s] = struct{}{}
	}
	return set
}

// Top ranks countries for q.Year by summed count. Records with an empty
// country or a sentinel country are excluded. A limit of zero or less, or a
// year with no rows, yields an empty result.
func Top(records []ir.Record, q TopQuery) []ir.CountryTotal {
	if q.Limit <= 0 {
		return []ir.CountryTotal{}
	}
	return reduceCountries(records, 0, q, sentinelSet(q.Sentinels)).rows(q.Limit)
}

// TopCountries ranks countries for year, excluding the default sentinels.
func TopCountries(records []ir.Record, year, limit int) []ir.CountryTotal {
	return Top(records, TopQuery{Year: year, Limit: limit, Sentinels: ir.DefaultSentinels})
}
