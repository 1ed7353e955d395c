package harness

import (
	"github.com/roach88/visadata/internal/ir"
	"github.com/roach88/visadata/internal/pipeline"
)

// TraceEvent records how one distinct input country was resolved.
// Events are ordered by first appearance in the input.
type TraceEvent struct {
	Seq        int64  `json:"seq"`
	Line       int    `json:"line"` // first input line the country appeared on
	Input      string `json:"input"`
	Candidate  string `json:"candidate"`
	Score      int    `json:"score"`
	Resolved   string `json:"resolved"`
	Overridden bool   `json:"overridden"`
	Country    string `json:"country"`
	Continent  string `json:"continent"` // "" when unclassified
}

func newTraceEvent(seq int64, line int, res pipeline.Resolution) TraceEvent {
	return TraceEvent{
		Seq:        seq,
		Line:       line,
		Input:      res.Input,
		Candidate:  res.Candidate,
		Score:      res.Score,
		Resolved:   res.Resolved,
		Overridden: res.Overridden,
		Country:    res.Country,
		Continent:  res.Continent,
	}
}

// fields exposes the event to subset matching. Continent is nil when unset
// so that "continent: null" in a scenario matches.
func (e TraceEvent) fields() map[string]interface{} {
	var cont interface{}
	if e.Continent != "" {
		cont = e.Continent
	}
	return map[string]interface{}{
		"line":       e.Line,
		"input":      e.Input,
		"candidate":  e.Candidate,
		"score":      e.Score,
		"resolved":   e.Resolved,
		"overridden": e.Overridden,
		"country":    e.Country,
		"continent":  cont,
	}
}

// ToValue converts the event for canonical encoding.
func (e TraceEvent) ToValue() ir.Value {
	return ir.Object{
		"seq":        ir.Int(e.Seq),
		"line":       ir.Int(e.Line),
		"input":      ir.String(e.Input),
		"candidate":  ir.String(e.Candidate),
		"score":      ir.Int(e.Score),
		"resolved":   ir.String(e.Resolved),
		"overridden": ir.Bool(e.Overridden),
		"country":    ir.String(e.Country),
		"continent":  ir.OptionalString(e.Continent),
	}
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all assertions match.
	Pass bool `json:"pass"`

	// RunID is the ID the run was stored under.
	RunID string `json:"run_id"`

	// Trace holds one event per distinct input country.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	Cleaned      []ir.Record             `json:"cleaned"`
	ByContinent  []ir.ContinentYearTotal `json:"by_continent"`
	TopCountries []ir.CountryTotal       `json:"top_countries"`
	Stats        pipeline.Stats          `json:"stats"`
	Digests      pipeline.Digests        `json:"digests"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
