package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/visadata/internal/ir"
)

const runColumns = `
	r.id, r.seq, r.source, r.year, r.top_limit, r.threshold, r.params, r.stats,
	r.cleaned_digest, r.continents_digest, r.countries_digest, r.run_digest,
	r.pipeline_version, r.digest_version,
	(SELECT COUNT(*) FROM records WHERE run_id = r.id)
`

func scanRun(row interface{ Scan(...any) error }) (Run, error) {
	var (
		run           Run
		params, stats string
	)
	err := row.Scan(
		&run.ID, &run.Seq, &run.Source, &run.Year, &run.Limit, &run.Threshold, &params, &stats,
		&run.Digests.Cleaned, &run.Digests.Continents, &run.Digests.Countries, &run.Digests.Run,
		&run.PipelineVersion, &run.DigestVersion,
		&run.Rows,
	)
	if err != nil {
		return Run{}, err
	}

	p, err := unmarshalParams(params)
	if err != nil {
		return Run{}, err
	}
	run.Sentinels = p.Sentinels
	run.Workers = p.Workers

	if run.Stats, err = unmarshalStats(stats); err != nil {
		return Run{}, err
	}
	return run, nil
}

// ListRuns returns every run ordered by seq.
//
// Returns an empty slice (not nil) if the store has no runs.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs r
		ORDER BY r.seq ASC, r.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run. Returns ErrRunNotFound if id is unknown.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs r WHERE r.id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return &run, nil
}

// LatestRun returns the run with the highest seq, or ErrRunNotFound.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY seq DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return s.GetRun(ctx, id)
}

// ReadRecords returns a run's cleaned table in input order.
func (s *Store) ReadRecords(ctx context.Context, runID string) ([]ir.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT year, country, number_of_issued_numerical, continent
		FROM records
		WHERE run_id = ?
		ORDER BY pos ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := []ir.Record{}
	for rows.Next() {
		var (
			r                  ir.Record
			country, continent sql.NullString
			count              sql.NullInt64
		)
		if err := rows.Scan(&r.Year, &country, &count, &continent); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Country = country.String
		r.Continent = continent.String
		if count.Valid {
			r.IssuedCount = ir.Int64(count.Int64)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// ReadContinentTotals returns the continent view recorded with the run.
func (s *Store) ReadContinentTotals(ctx context.Context, runID string) ([]ir.ContinentYearTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT year, continent, visa_issued
		FROM continent_totals
		WHERE run_id = ?
		ORDER BY pos ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query continent totals: %w", err)
	}
	return scanContinentTotals(rows)
}

// ReadCountryTotals returns the country ranking recorded with the run.
func (s *Store) ReadCountryTotals(ctx context.Context, runID string) ([]ir.CountryTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT country, visa_issued
		FROM country_totals
		WHERE run_id = ?
		ORDER BY rank ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query country totals: %w", err)
	}
	return scanCountryTotals(rows)
}

func scanContinentTotals(rows *sql.Rows) ([]ir.ContinentYearTotal, error) {
	defer rows.Close()

	out := []ir.ContinentYearTotal{}
	for rows.Next() {
		var t ir.ContinentYearTotal
		if err := rows.Scan(&t.Year, &t.Continent, &t.VisaIssued); err != nil {
			return nil, fmt.Errorf("scan continent total: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate continent totals: %w", err)
	}
	return out, nil
}

func scanCountryTotals(rows *sql.Rows) ([]ir.CountryTotal, error) {
	defer rows.Close()

	out := []ir.CountryTotal{}
	for rows.Next() {
		var t ir.CountryTotal
		if err := rows.Scan(&t.Country, &t.VisaIssued); err != nil {
			return nil, fmt.Errorf("scan country total: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate country totals: %w", err)
	}
	return out, nil
}
