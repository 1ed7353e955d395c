package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/visadata/internal/ir"
	"github.com/roach88/visadata/internal/pipeline"
)

// Run is one archived pipeline run.
type Run struct {
	ID              string           `json:"id"`
	Seq             int64            `json:"seq"`
	Source          string           `json:"source"`
	Year            int              `json:"year"`
	Limit           int              `json:"limit"`
	Threshold       int              `json:"threshold"`
	Sentinels       []string         `json:"sentinels"`
	Workers         int              `json:"workers"`
	Rows            int              `json:"rows"`
	Stats           pipeline.Stats   `json:"stats"`
	Digests         pipeline.Digests `json:"digests"`
	PipelineVersion string           `json:"pipeline_version"`
	DigestVersion   string           `json:"digest_version"`
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

// WriteRun archives res in a single transaction and returns the new run.
// The run's seq is one past the highest seq in the store.
func (s *Store) WriteRun(ctx context.Context, source string, workers int, res *pipeline.Result) (*Run, error) {
	sentinels := res.Sentinels
	if sentinels == nil {
		sentinels = []string{}
	}
	params, err := marshalParams(runParams{Sentinels: sentinels, Workers: workers})
	if err != nil {
		return nil, fmt.Errorf("write run: %w", err)
	}
	stats, err := marshalStats(res.Stats)
	if err != nil {
		return nil, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return nil, fmt.Errorf("write run: next seq: %w", err)
	}

	run := &Run{
		ID:              s.ids.Generate(),
		Seq:             seq,
		Source:          source,
		Year:            res.Year,
		Limit:           res.Limit,
		Threshold:       res.Threshold,
		Sentinels:       sentinels,
		Workers:         workers,
		Rows:            len(res.Cleaned),
		Stats:           res.Stats,
		Digests:         res.Digests,
		PipelineVersion: ir.PipelineVersion,
		DigestVersion:   ir.DigestVersion,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, source, year, top_limit, threshold, params, stats,
		 cleaned_digest, continents_digest, countries_digest, run_digest,
		 pipeline_version, digest_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		run.Source,
		run.Year,
		run.Limit,
		run.Threshold,
		params,
		stats,
		run.Digests.Cleaned,
		run.Digests.Continents,
		run.Digests.Countries,
		run.Digests.Run,
		run.PipelineVersion,
		run.DigestVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("write run: %w", err)
	}

	if err := writeRecords(ctx, tx, run.ID, res.Cleaned); err != nil {
		return nil, fmt.Errorf("write run: %w", err)
	}
	if err := writeContinentTotals(ctx, tx, run.ID, res.ByContinent); err != nil {
		return nil, fmt.Errorf("write run: %w", err)
	}
	if err := writeCountryTotals(ctx, tx, run.ID, res.TopCountries); err != nil {
		return nil, fmt.Errorf("write run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("write run: commit: %w", err)
	}
	return run, nil
}

func writeRecords(ctx context.Context, tx *sql.Tx, runID string, records []ir.Record) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records
		(run_id, pos, year, country, number_of_issued_numerical, continent)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare records: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, runID, i, r.Year, nullString(r.Country), nullInt(r.IssuedCount), nullString(r.Continent)); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}
	return nil
}

func writeContinentTotals(ctx context.Context, tx *sql.Tx, runID string, rows []ir.ContinentYearTotal) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO continent_totals (run_id, pos, year, continent, visa_issued)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare continent totals: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, runID, i, row.Year, row.Continent, row.VisaIssued); err != nil {
			return fmt.Errorf("insert continent total %d: %w", i, err)
		}
	}
	return nil
}

func writeCountryTotals(ctx context.Context, tx *sql.Tx, runID string, rows []ir.CountryTotal) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO country_totals (run_id, rank, country, visa_issued)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare country totals: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, runID, i+1, row.Country, row.VisaIssued); err != nil {
			return fmt.Errorf("insert country total %d: %w", i+1, err)
		}
	}
	return nil
}
