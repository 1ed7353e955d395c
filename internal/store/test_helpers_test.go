package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/visadata/internal/ir"
	"github.com/roach88/visadata/internal/pipeline"
)

// createTestStore creates a new store in a temp directory with fixed run IDs.
func createTestStore(t *testing.T, ids ...string) *Store {
	t.Helper()
	if len(ids) == 0 {
		ids = []string{"run-1", "run-2", "run-3"}
	}
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(NewFixedGenerator(ids...)))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func raw(country string, year int, count *int64) ir.RawRecord {
	return ir.RawRecord{Year: year, Country: country, IssuedCount: count}
}

// testRaws covers overrides, pass-through, sentinels, nulls and ties.
func testRaws() []ir.RawRecord {
	return []ir.RawRecord{
		raw("Japan", 2017, ir.Int64(100)),
		raw("Vietnam", 2017, ir.Int64(80)),
		raw("Andra", 2017, ir.Int64(80)),
		raw("Japan", 2017, ir.Int64(50)),
		raw("total", 2017, ir.Int64(310)),
		raw("others", 2017, ir.Int64(7)),
		raw("Kosovo", 2017, ir.Int64(4)),
		raw("", 2017, ir.Int64(9)),
		raw("Peru", 2017, nil),
		raw("Benan", 2016, ir.Int64(12)),
		raw("China", 2016, ir.Int64(30)),
		raw("Court Jiboire", 2017, ir.Int64(2)),
	}
}

// runPipeline cleans and aggregates testRaws with the default context.
func runPipeline(t *testing.T, opts pipeline.RunOptions) *pipeline.Result {
	t.Helper()
	c, err := pipeline.NewDefault()
	if err != nil {
		t.Fatalf("pipeline.NewDefault() failed: %v", err)
	}
	res, err := c.Run(context.Background(), testRaws(), opts)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	return res
}
