package harness

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// InputError reports a scenario whose input file could not be read.
type InputError struct {
	Scenario string
	Path     string
	Err      error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("scenario %q: read input %s: %v", e.Scenario, e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// FindScenarios returns the scenario files at path: the file itself, or
// every .yaml/.yml file below a directory, sorted.
func FindScenarios(path string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(p))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// SuiteResult is the outcome of one scenario file.
type SuiteResult struct {
	File     string  `json:"file"`
	Scenario string  `json:"scenario"`
	Result   *Result `json:"result,omitempty"`
	Err      error   `json:"-"`
}

// Passed reports whether the scenario ran and every assertion held.
func (r SuiteResult) Passed() bool {
	return r.Err == nil && r.Result != nil && r.Result.Pass
}

// RunSuite loads and runs each file. A scenario that fails to load or run
// is recorded and the suite continues. filter, when non-empty, keeps only
// scenarios whose name contains it.
func (h *Harness) RunSuite(ctx context.Context, files []string, filter string) []SuiteResult {
	results := make([]SuiteResult, 0, len(files))
	for _, file := range files {
		scenario, err := LoadScenario(file)
		if err != nil {
			results = append(results, SuiteResult{File: file, Err: err})
			continue
		}
		if filter != "" && !strings.Contains(scenario.Name, filter) {
			continue
		}

		res, err := h.Run(ctx, scenario)
		results = append(results, SuiteResult{File: file, Scenario: scenario.Name, Result: res, Err: err})
	}
	return results
}
