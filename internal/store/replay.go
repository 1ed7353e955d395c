package store

import (
	"context"
	"fmt"

	"github.com/roach88/visadata/internal/ir"
	"github.com/roach88/visadata/internal/pipeline"
)

// Verification compares the digests recorded with a run against digests
// recomputed from the database.
type Verification struct {
	RunID      string           `json:"run_id"`
	Recorded   pipeline.Digests `json:"recorded"`
	Recomputed pipeline.Digests `json:"recomputed"`
	Mismatches []string         `json:"mismatches"`
}

// OK reports whether every recomputed digest matches.
func (v Verification) OK() bool {
	return len(v.Mismatches) == 0
}

// Verify replays a run's aggregation in SQL. The cleaned digest is
// recomputed from the stored records; the continent and country digests
// from QueryContinentTotals and QueryTopCountries, so a match also shows
// the SQL views agree with the in-memory ones that were recorded.
func (s *Store) Verify(ctx context.Context, runID string) (*Verification, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	records, err := s.ReadRecords(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	continents, err := s.QueryContinentTotals(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	countries, err := s.QueryTopCountries(ctx, runID, run.Year, run.Limit, run.Sentinels)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	v := &Verification{RunID: runID, Recorded: run.Digests, Mismatches: []string{}}
	if v.Recomputed.Cleaned, err = ir.DigestRecords(records); err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	if v.Recomputed.Continents, err = ir.DigestContinentTotals(continents); err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	if v.Recomputed.Countries, err = ir.DigestCountryTotals(countries); err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	v.Recomputed.Run, err = ir.RunDigest(v.Recomputed.Cleaned, v.Recomputed.Continents, v.Recomputed.Countries,
		run.Year, run.Limit, run.Threshold)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	check := func(name, recorded, recomputed string) {
		if recorded != recomputed {
			v.Mismatches = append(v.Mismatches, name)
		}
	}
	check("cleaned", v.Recorded.Cleaned, v.Recomputed.Cleaned)
	check("continents", v.Recorded.Continents, v.Recomputed.Continents)
	check("countries", v.Recorded.Countries, v.Recomputed.Countries)
	check("run", v.Recorded.Run, v.Recomputed.Run)
	return v, nil
}
