package pipeline

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/visadata/internal/continent"
	"github.com/roach88/visadata/internal/ir"
	"github.com/roach88/visadata/internal/override"
	"github.com/roach88/visadata/internal/refdata"
	"github.com/roach88/visadata/internal/resolve"
)

// Context carries the read-only stage dependencies. It is safe for
// concurrent use.
type Context struct {
	ref        refdata.Provider
	resolver   *resolve.Resolver
	overrides  *override.Table
	continents *continent.Mapper
	logger     *slog.Logger
}

type settings struct {
	threshold int
	overrides *override.Table
	logger    *slog.Logger
}

// Option configures a Context.
type Option func(*settings)

// WithThreshold sets the fuzzy match threshold (default resolve.DefaultThreshold).
func WithThreshold(threshold int) Option {
	return func(s *settings) { s.threshold = threshold }
}

// WithOverrides replaces the built-in override table.
func WithOverrides(t *override.Table) Option {
	return func(s *settings) { s.overrides = t }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// New builds a Context over ref. It fails if ref is nil or has no names.
func New(ref refdata.Provider, opts ...Option) (*Context, error) {
	if ref == nil {
		return nil, fmt.Errorf("pipeline: reference data unavailable")
	}
	names := ref.Names()
	if len(names) == 0 {
		return nil, fmt.Errorf("pipeline: reference data has no country names")
	}

	s := settings{threshold: resolve.DefaultThreshold}
	for _, opt := range opts {
		opt(&s)
	}
	if s.overrides == nil {
		s.overrides = override.Default()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Context{
		ref:        ref,
		resolver:   resolve.New(names, resolve.WithThreshold(s.threshold)),
		overrides:  s.overrides,
		continents: continent.New(ref),
		logger:     s.logger,
	}, nil
}

// NewDefault builds a Context over the built-in ISO 3166-1 table.
func NewDefault(opts ...Option) (*Context, error) {
	ref, err := refdata.Default()
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return New(ref, opts...)
}

// Threshold returns the fuzzy match threshold in effect.
func (c *Context) Threshold() int {
	return c.resolver.Threshold()
}

// Overrides returns the override table in effect.
func (c *Context) Overrides() *override.Table {
	return c.overrides
}

// Resolution records every stage's decision for one country string.
type Resolution struct {
	Input        string `json:"input"`
	Candidate    string `json:"candidate"` // best canonical match, accepted or not
	Score        int    `json:"score"`
	Resolved     string `json:"resolved"` // fuzzy resolver output
	Overridden   bool   `json:"overridden"`
	Country      string `json:"country"` // after overrides
	Continent    string `json:"continent,omitempty"`
	HasContinent bool   `json:"has_continent"`
}

// Matched reports whether the fuzzy resolver replaced the input.
func (r Resolution) Matched() bool {
	return r.Resolved != r.Input
}

// Explain runs one country string through every stage.
func (c *Context) Explain(input string) Resolution {
	res := Resolution{Input: input, Resolved: input}

	if input != "" {
		m := c.resolver.Best(input)
		res.Candidate = m.Name
		res.Score = m.Score
		if m.Index >= 0 && m.Score >= c.resolver.Threshold() {
			res.Resolved = m.Name
		}
	}

	res.Country = c.overrides.Apply(res.Resolved)
	res.Overridden = res.Country != res.Resolved
	res.Continent, res.HasContinent = c.continents.ContinentOf(res.Country)
	return res
}

// CleanCountry returns the final country and its continent ("" for none).
func (c *Context) CleanCountry(input string) (country, continentName string) {
	res := c.Explain(input)
	return res.Country, res.Continent
}

// CleanRecord applies every stage to one raw record.
func (c *Context) CleanRecord(raw ir.RawRecord) ir.Record {
	country, cont := c.CleanCountry(raw.Country)
	return ir.Record{
		Year:        raw.Year,
		Country:     country,
		IssuedCount: raw.IssuedCount,
		Continent:   cont,
	}
}
