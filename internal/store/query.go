package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/visadata/internal/ir"
)

// QueryContinentTotals re-aggregates a run's records by year and continent.
// Rows match aggregate.ByContinentYear: null continents are excluded, null
// counts sum as zero, and rows are ordered by year then continent.
func (s *Store) QueryContinentTotals(ctx context.Context, runID string) ([]ir.ContinentYearTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT year, continent, SUM(COALESCE(number_of_issued_numerical, 0)) AS visa_issued
		FROM records
		WHERE run_id = ? AND continent IS NOT NULL
		GROUP BY year, continent
		ORDER BY year ASC, continent COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query continent totals: %w", err)
	}
	return scanContinentTotals(rows)
}

// QueryTopCountries re-aggregates a run's records into the ranking for
// year. Rows match aggregate.Top: null and sentinel countries are excluded,
// ties go to the country seen first in the cleaned table.
func (s *Store) QueryTopCountries(ctx context.Context, runID string, year, limit int, sentinels []string) ([]ir.CountryTotal, error) {
	if limit <= 0 {
		return []ir.CountryTotal{}, nil
	}

	args := []any{runID, year}
	exclude := ""
	if len(sentinels) > 0 {
		exclude = "AND country NOT IN (?" + strings.Repeat(", ?", len(sentinels)-1) + ")"
		for _, s := range sentinels {
			args = append(args, s)
		}
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, `
		SELECT country, SUM(COALESCE(number_of_issued_numerical, 0)) AS visa_issued
		FROM records
		WHERE run_id = ? AND year = ? AND country IS NOT NULL `+exclude+`
		GROUP BY country
		ORDER BY visa_issued DESC, MIN(pos) ASC
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query top countries: %w", err)
	}
	return scanCountryTotals(rows)
}
