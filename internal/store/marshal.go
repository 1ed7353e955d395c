package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/visadata/internal/ir"
	"github.com/roach88/visadata/internal/pipeline"
)

// runParams is the JSON stored in runs.params.
type runParams struct {
	Sentinels []string `json:"sentinels"`
	Workers   int      `json:"workers"`
}

// marshalParams converts run parameters to canonical JSON TEXT.
func marshalParams(p runParams) (string, error) {
	sentinels := make(ir.Array, len(p.Sentinels))
	for i, s := range p.Sentinels {
		sentinels[i] = ir.String(s)
	}
	data, err := ir.MarshalCanonical(ir.Object{
		"sentinels": sentinels,
		"workers":   ir.Int(p.Workers),
	})
	if err != nil {
		return "", fmt.Errorf("marshal params: %w", err)
	}
	return string(data), nil
}

func unmarshalParams(data string) (runParams, error) {
	p := runParams{Sentinels: []string{}}
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return runParams{}, fmt.Errorf("unmarshal params: %w", err)
	}
	return p, nil
}

// marshalStats converts stage statistics to canonical JSON TEXT.
func marshalStats(st pipeline.Stats) (string, error) {
	data, err := ir.MarshalCanonical(ir.Object{
		"matched":        ir.Int(st.Matched),
		"null_continent": ir.Int(st.NullContinent),
		"overridden":     ir.Int(st.Overridden),
		"passed_through": ir.Int(st.PassedThrough),
		"records":        ir.Int(st.Records),
	})
	if err != nil {
		return "", fmt.Errorf("marshal stats: %w", err)
	}
	return string(data), nil
}

func unmarshalStats(data string) (pipeline.Stats, error) {
	var st pipeline.Stats
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return pipeline.Stats{}, fmt.Errorf("unmarshal stats: %w", err)
	}
	return st, nil
}
