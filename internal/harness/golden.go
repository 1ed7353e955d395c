package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/visadata/internal/ir"
)

// Snapshot encodes the deterministic part of a result as canonical JSON:
// the resolution trace, both aggregate views and the stage counts.
// Digests are left out; store_verify covers them.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	trace := make(ir.Array, len(result.Trace))
	for i, e := range result.Trace {
		trace[i] = e.ToValue()
	}
	continents := make(ir.Array, len(result.ByContinent))
	for i, t := range result.ByContinent {
		continents[i] = t.ToValue()
	}
	countries := make(ir.Array, len(result.TopCountries))
	for i, t := range result.TopCountries {
		countries[i] = t.ToValue()
	}

	st := result.Stats
	snapshot := ir.Object{
		"scenario_name": ir.String(scenarioName),
		"run_id":        ir.String(result.RunID),
		"trace":         trace,
		"by_continent":  continents,
		"top_countries": countries,
		"stats": ir.Object{
			"records":        ir.Int(st.Records),
			"matched":        ir.Int(st.Matched),
			"passed_through": ir.Int(st.PassedThrough),
			"overridden":     ir.Int(st.Overridden),
			"null_continent": ir.Int(st.NullContinent),
		},
	}
	return ir.MarshalCanonical(snapshot)
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
