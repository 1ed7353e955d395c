package aggregate

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/visadata/internal/ir"
)

// chunk describes one partition of the input.
type chunk struct {
	offset int
	rows   []ir.Record
}

// split cuts records into at most n contiguous chunks of near-equal size.
func split(records []ir.Record, n int) []chunk {
	if n < 1 {
		n = 1
	}
	if n > len(records) {
		n = len(records)
	}
	if n == 0 {
		return nil
	}
	size := (len(records) + n - 1) / n
	chunks := make([]chunk, 0, n)
	for off := 0; off < len(records); off += size {
		end := min(off+size, len(records))
		chunks = append(chunks, chunk{offset: off, rows: records[off:end]})
	}
	return chunks
}

// ByContinentYearParallel is ByContinentYear over partitions reduced
// concurrently. The result is identical to the sequential one.
func ByContinentYearParallel(ctx context.Context, records []ir.Record, partitions int) ([]ir.ContinentYearTotal, error) {
	chunks := split(records, partitions)
	partials := make([]continentPartial, len(chunks))

	g, gCtx := errgroup.WithContext(ctx)
	for i, c := range chunks {
		i, c := i, c
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			partials[i] = reduceContinents(c.rows)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(continentPartial)
	for _, p := range partials {
		merged.merge(p)
	}
	return merged.rows(), nil
}

// TopParallel is Top over partitions reduced concurrently. First-occurrence
// indexes are global, so ties resolve exactly as in Top.
func TopParallel(ctx context.Context, records []ir.Record, q TopQuery, partitions int) ([]ir.CountryTotal, error) {
	if q.Limit <= 0 {
		return []ir.CountryTotal{}, nil
	}

	sentinels := sentinelSet(q.Sentinels)
	chunks := split(records, partitions)
	partials := make([]countryPartial, len(chunks))

	g, gCtx := errgroup.WithContext(ctx)
	for i, c := range chunks {
		i, c := i, c
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			partials[i] = reduceCountries(c.rows, c.offset, q, sentinels)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(countryPartial)
	for _, p := range partials {
		merged.merge(p)
	}
	return merged.rows(q.Limit), nil
}
