package pipeline

import (
	"context"
	"fmt"

	"github.com/roach88/visadata/internal/aggregate"
	"github.com/roach88/visadata/internal/ir"
)

// RunOptions selects the aggregate views.
type RunOptions struct {
	Year      int      // target year for the country ranking
	Limit     int      // ranking length, aggregate.DefaultLimit when zero
	Sentinels []string // ir.DefaultSentinels when nil
	Workers   int      // parallelism for cleaning and aggregation, sequential when <= 1
}

// Digests fingerprints every view of a run.
type Digests struct {
	Cleaned    string `json:"cleaned"`
	Continents string `json:"continents"`
	Countries  string `json:"countries"`
	Run        string `json:"run"`
}

// Result is the full output of one pipeline run.
type Result struct {
	Year         int                     `json:"year"`
	Limit        int                     `json:"limit"`
	Threshold    int                     `json:"threshold"`
	Sentinels    []string                `json:"sentinels"`
	Cleaned      []ir.Record             `json:"cleaned"`
	ByContinent  []ir.ContinentYearTotal `json:"by_continent"`
	TopCountries []ir.CountryTotal       `json:"top_countries"`
	Stats        Stats                   `json:"stats"`
	Summary      aggregate.Summary       `json:"summary"`
	Digests      Digests                 `json:"digests"`
}

func (o RunOptions) withDefaults() RunOptions {
	if o.Limit == 0 {
		o.Limit = aggregate.DefaultLimit
	}
	if o.Sentinels == nil {
		o.Sentinels = ir.DefaultSentinels
	}
	return o
}

// Run cleans raws and computes both aggregate views and their digests.
func (c *Context) Run(ctx context.Context, raws []ir.RawRecord, opts RunOptions) (*Result, error) {
	opts = opts.withDefaults()

	cleaned, stats, err := c.CleanParallel(ctx, raws, opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}
	c.logger.Info("records cleaned",
		"rows", stats.Records,
		"matched", stats.Matched,
		"passed_through", stats.PassedThrough,
		"overridden", stats.Overridden,
		"null_continent", stats.NullContinent,
	)

	q := aggregate.TopQuery{Year: opts.Year, Limit: opts.Limit, Sentinels: opts.Sentinels}
	var (
		byContinent []ir.ContinentYearTotal
		top         []ir.CountryTotal
	)
	if opts.Workers > 1 {
		if byContinent, err = aggregate.ByContinentYearParallel(ctx, cleaned, opts.Workers); err != nil {
			return nil, fmt.Errorf("aggregate by continent: %w", err)
		}
		if top, err = aggregate.TopParallel(ctx, cleaned, q, opts.Workers); err != nil {
			return nil, fmt.Errorf("aggregate top countries: %w", err)
		}
	} else {
		byContinent = aggregate.ByContinentYear(cleaned)
		top = aggregate.Top(cleaned, q)
	}
	c.logger.Info("views aggregated", "continent_rows", len(byContinent), "top_rows", len(top), "year", opts.Year)

	res := &Result{
		Year:         opts.Year,
		Limit:        opts.Limit,
		Threshold:    c.Threshold(),
		Sentinels:    opts.Sentinels,
		Cleaned:      cleaned,
		ByContinent:  byContinent,
		TopCountries: top,
		Stats:        stats,
		Summary:      aggregate.Summarize(cleaned),
	}
	if err := res.computeDigests(); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Result) computeDigests() error {
	var err error
	if r.Digests.Cleaned, err = ir.DigestRecords(r.Cleaned); err != nil {
		return err
	}
	if r.Digests.Continents, err = ir.DigestContinentTotals(r.ByContinent); err != nil {
		return err
	}
	if r.Digests.Countries, err = ir.DigestCountryTotals(r.TopCountries); err != nil {
		return err
	}
	r.Digests.Run, err = ir.RunDigest(r.Digests.Cleaned, r.Digests.Continents, r.Digests.Countries, r.Year, r.Limit, r.Threshold)
	return err
}
