package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a pipeline test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Settings override the pipeline defaults.
	Settings Settings `yaml:"settings,omitempty"`

	// Input is a CSV or XLSX file read before Rows.
	// Relative paths are resolved against the scenario file location.
	Input string `yaml:"input,omitempty"`

	// Rows are inline input records, appended after Input.
	Rows []Row `yaml:"rows,omitempty"`

	// Assertions validate the trace, views and stored run.
	Assertions []Assertion `yaml:"assertions"`

	// RunID is the fixed ID the run is stored under.
	// If empty, defaults to testutil.DefaultRunID.
	RunID string `yaml:"run_id,omitempty"`
}

// Settings are the scenario-level pipeline settings. Nil fields keep the
// config defaults.
type Settings struct {
	Threshold   *int              `yaml:"threshold,omitempty"`
	Year        *int              `yaml:"year,omitempty"`
	Limit       *int              `yaml:"limit,omitempty"`
	Workers     *int              `yaml:"workers,omitempty"`
	Sentinels   []string          `yaml:"sentinels,omitempty"`
	Corrections map[string]string `yaml:"corrections,omitempty"`
}

// Row is one inline input record. A missing count is null.
type Row struct {
	Year    int    `yaml:"year"`
	Country string `yaml:"country"`
	Count   *int64 `yaml:"count"`
}

// Assertion validates part of the scenario result.
type Assertion struct {
	// Type specifies the assertion type (see the Assert* constants).
	Type string `yaml:"type"`

	// Input is the raw country string (used by resolves).
	Input string `yaml:"input,omitempty"`

	// Expect holds expected field values (used by resolves, final_state).
	// Subset match - only specified fields are validated.
	Expect map[string]interface{} `yaml:"expect,omitempty"`

	// Where filters rows (used by row_count, final_state).
	// A null value matches a null field.
	Where map[string]interface{} `yaml:"where,omitempty"`

	// Table is the stored table name (used by final_state).
	Table string `yaml:"table,omitempty"`

	// Count is the expected number of matching rows (used by row_count).
	Count int `yaml:"count,omitempty"`

	// Countries lists ranked countries (used by top_order, top_excludes).
	Countries []string `yaml:"countries,omitempty"`
}

// Assertion type constants.
const (
	AssertResolves    = "resolves"
	AssertRowCount    = "row_count"
	AssertTopOrder    = "top_order"
	AssertTopExcludes = "top_excludes"
	AssertFinalState  = "final_state"
	AssertStoreVerify = "store_verify"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative Input path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Input != "" && !filepath.IsAbs(scenario.Input) {
		scenario.Input = filepath.Join(filepath.Dir(path), scenario.Input)
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML. Input paths are left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Input == "" && len(s.Rows) == 0 {
		return fmt.Errorf("input or rows is required")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("at least one assertion is required")
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a, i); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion checks that an assertion has required fields for its type.
func validateAssertion(a Assertion, index int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertResolves:
		if a.Input == "" {
			return fmt.Errorf("assertions[%d]: input is required for resolves", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for resolves", index)
		}
	case AssertRowCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for row_count", index)
		}
	case AssertTopOrder, AssertTopExcludes:
		if len(a.Countries) == 0 {
			return fmt.Errorf("assertions[%d]: countries list is required for %s", index, a.Type)
		}
	case AssertFinalState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	case AssertStoreVerify:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
