package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/visadata/internal/ir"
)

// Stats counts stage outcomes over a cleaned batch.
type Stats struct {
	Records       int `json:"records"`
	Matched       int `json:"matched"`        // fuzzy resolver replaced the input
	PassedThrough int `json:"passed_through"` // resolver kept the input
	Overridden    int `json:"overridden"`
	NullContinent int `json:"null_continent"`
}

func (s *Stats) add(res Resolution) {
	s.Records++
	if res.Matched() {
		s.Matched++
	} else {
		s.PassedThrough++
	}
	if res.Overridden {
		s.Overridden++
	}
	if !res.HasContinent {
		s.NullContinent++
	}
}

func (s *Stats) merge(o Stats) {
	s.Records += o.Records
	s.Matched += o.Matched
	s.PassedThrough += o.PassedThrough
	s.Overridden += o.Overridden
	s.NullContinent += o.NullContinent
}

// memo caches resolutions by input string. Country names repeat once per
// year in the source data, so most lookups hit.
type memo struct {
	c     *Context
	cache map[string]Resolution
}

func (c *Context) newMemo() *memo {
	return &memo{c: c, cache: make(map[string]Resolution)}
}

func (m *memo) explain(input string) Resolution {
	if res, ok := m.cache[input]; ok {
		return res
	}
	res := m.c.Explain(input)
	m.cache[input] = res
	if !res.Matched() && !res.Overridden && !res.HasContinent && input != "" {
		m.c.logger.Debug("country left unresolved", "input", input, "candidate", res.Candidate, "score", res.Score)
	}
	return res
}

func (m *memo) cleanInto(dst []ir.Record, raws []ir.RawRecord) Stats {
	var st Stats
	for i, raw := range raws {
		res := m.explain(raw.Country)
		st.add(res)
		dst[i] = ir.Record{
			Year:        raw.Year,
			Country:     res.Country,
			IssuedCount: raw.IssuedCount,
			Continent:   res.Continent,
		}
	}
	return st
}

// Clean applies every stage to each raw record, preserving order.
func (c *Context) Clean(raws []ir.RawRecord) ([]ir.Record, Stats) {
	out := make([]ir.Record, len(raws))
	st := c.newMemo().cleanInto(out, raws)
	return out, st
}

// CleanParallel is Clean with the input split across workers. Output order
// and content are identical to Clean.
func (c *Context) CleanParallel(ctx context.Context, raws []ir.RawRecord, workers int) ([]ir.Record, Stats, error) {
	if workers <= 1 || len(raws) < 2 {
		out, st := c.Clean(raws)
		return out, st, ctx.Err()
	}
	if workers > len(raws) {
		workers = len(raws)
	}

	out := make([]ir.Record, len(raws))
	stats := make([]Stats, workers)
	size := (len(raws) + workers - 1) / workers

	g, gCtx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * size
		if start >= len(raws) {
			break
		}
		end := min(start+size, len(raws))
		w := w
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			stats[w] = c.newMemo().cleanInto(out[start:end], raws[start:end])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	var total Stats
	for _, st := range stats {
		total.merge(st)
	}
	return out, total, nil
}
