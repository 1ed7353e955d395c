package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/roach88/visadata/internal/config"
	"github.com/roach88/visadata/internal/ingest"
	"github.com/roach88/visadata/internal/ir"
	"github.com/roach88/visadata/internal/pipeline"
	"github.com/roach88/visadata/internal/store"
	"github.com/roach88/visadata/internal/testutil"
)

// Harness is the test execution engine.
// It runs scenarios with a deterministic clock and run ID.
type Harness struct {
	base   *config.Config
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithConfig sets the settings scenarios start from. Scenario settings are
// applied on top.
func WithConfig(cfg *config.Config) Option {
	return func(h *Harness) {
		h.base = cfg
	}
}

// WithLogger sets the logger handed to the pipeline and reader.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// New creates a harness. Without options it uses config.Default and
// discards logs.
func New(opts ...Option) *Harness {
	h := &Harness{}
	for _, opt := range opts {
		opt(h)
	}
	if h.base == nil {
		h.base = config.Default()
	}
	if h.logger == nil {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	}
	return h
}

// Run executes a scenario with a default harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(context.Background(), scenario)
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Apply scenario settings over the base config
// 2. Read the input file, then append inline rows
// 3. Clean and aggregate, recording one trace event per distinct country
// 4. Archive the run in the store under the scenario's run ID
// 5. Evaluate assertions
//
// An error means the scenario could not be executed. Assertion failures
// are reported in the result.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	cfg, err := scenario.Settings.apply(h.base)
	if err != nil {
		return nil, err
	}

	opts, err := cfg.PipelineOptions(h.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline options: %w", err)
	}
	pc, err := pipeline.NewDefault(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	raws, err := h.loadRecords(cfg, scenario)
	if err != nil {
		return nil, err
	}

	res, err := pc.Run(ctx, raws, cfg.RunOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to run pipeline: %w", err)
	}

	st, err := store.Open(":memory:", store.WithIDGenerator(testutil.NewFixedRunIDGenerator(scenario.RunID)))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	run, err := st.WriteRun(ctx, scenario.Name, cfg.Workers, res)
	if err != nil {
		return nil, fmt.Errorf("failed to store run: %w", err)
	}

	result := NewResult()
	result.RunID = run.ID
	result.Trace = traceOf(pc, raws)
	result.Cleaned = res.Cleaned
	result.ByContinent = res.ByContinent
	result.TopCountries = res.TopCountries
	result.Stats = res.Stats
	result.Digests = res.Digests

	h.logger.Info("scenario executed",
		"scenario", scenario.Name,
		"run_id", run.ID,
		"rows", len(raws),
		"distinct_countries", len(result.Trace),
	)

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
		RunID: run.ID,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

func (h *Harness) loadRecords(cfg *config.Config, scenario *Scenario) ([]ir.RawRecord, error) {
	var raws []ir.RawRecord
	if scenario.Input != "" {
		in, err := ingest.New(cfg.ReaderOptions(h.logger)...).ReadFile(scenario.Input)
		if err != nil {
			return nil, &InputError{Scenario: scenario.Name, Path: scenario.Input, Err: err}
		}
		raws = append(raws, in.Records...)
	}
	for _, row := range scenario.Rows {
		raws = append(raws, ir.RawRecord{Year: row.Year, Country: row.Country, IssuedCount: row.Count})
	}
	return raws, nil
}

// traceOf explains every distinct input country in order of first
// appearance.
func traceOf(pc *pipeline.Context, raws []ir.RawRecord) []TraceEvent {
	clock := testutil.NewTraceClock()
	trace := []TraceEvent{}
	for _, raw := range raws {
		seq, first := clock.Stamp(raw.Country)
		if !first {
			continue
		}
		trace = append(trace, newTraceEvent(seq, raw.Line, pc.Explain(raw.Country)))
	}
	return trace
}

// apply returns a copy of base with the non-nil settings replaced.
func (s Settings) apply(base *config.Config) (*config.Config, error) {
	cfg := *base
	if s.Threshold != nil {
		if *s.Threshold < 0 || *s.Threshold > 101 {
			return nil, fmt.Errorf("settings: threshold %d out of range [0, 101]", *s.Threshold)
		}
		cfg.Threshold = *s.Threshold
	}
	if s.Year != nil {
		cfg.Year = *s.Year
	}
	if s.Limit != nil {
		if *s.Limit < 1 {
			return nil, fmt.Errorf("settings: limit must be positive, got %d", *s.Limit)
		}
		cfg.Limit = *s.Limit
	}
	if s.Workers != nil {
		cfg.Workers = *s.Workers
	}
	if s.Sentinels != nil {
		cfg.Sentinels = append([]string{}, s.Sentinels...)
	}
	if len(s.Corrections) > 0 {
		merged := make(map[string]string, len(base.Corrections)+len(s.Corrections))
		maps.Copy(merged, base.Corrections)
		maps.Copy(merged, s.Corrections)
		cfg.Corrections = merged
	}
	return &cfg, nil
}
