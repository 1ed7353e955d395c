package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/visadata/internal/ingest"
	"github.com/roach88/visadata/internal/override"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 85, cfg.Threshold)
	assert.Equal(t, 2017, cfg.Year)
	assert.Equal(t, 10, cfg.Limit)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, []string{"total", "others"}, cfg.Sentinels)
	assert.Equal(t, ingest.DefaultColumns(), cfg.Columns)
	assert.Empty(t, cfg.Corrections)
	assert.Empty(t, cfg.OverridesFile)
	assert.Empty(t, cfg.Sheet)
}

func TestParse(t *testing.T) {
	src := `
threshold: 90
year:      2016
sentinels: ["total"]
columns: country: "Nation"
corrections: {
	"Nipon":         "Japan"
	"Court Jiboire": "Côte d'Ivoire"
}
sheet: "visas"
`
	cfg, err := Parse([]byte(src), "pipeline.cue")
	require.NoError(t, err)

	assert.Equal(t, 90, cfg.Threshold)
	assert.Equal(t, 2016, cfg.Year)
	assert.Equal(t, 10, cfg.Limit)
	assert.Equal(t, []string{"total"}, cfg.Sentinels)
	assert.Equal(t, "Nation", cfg.Columns.Country)
	assert.Equal(t, "year", cfg.Columns.Year)
	assert.Equal(t, map[string]string{"Nipon": "Japan", "Court Jiboire": "Côte d'Ivoire"}, cfg.Corrections)
	assert.Equal(t, "visas", cfg.Sheet)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"threshold above range", "threshold: 200", ErrCodeInvalid},
		{"zero limit", "limit: 0", ErrCodeInvalid},
		{"unknown field", "tresh: 10", ErrCodeInvalid},
		{"wrong type", `year: "2017"`, ErrCodeInvalid},
		{"empty correction", `corrections: {"Nipon": ""}`, ErrCodeInvalid},
		{"syntax", "threshold: :", ErrCodeBuildFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.cue")
			require.Error(t, err)

			le, ok := AsLoadError(err)
			require.True(t, ok, "want *LoadError, got %T", err)
			assert.Equal(t, tt.code, le.Code)
		})
	}
}

func TestParse_ErrorMessage(t *testing.T) {
	_, err := Parse([]byte("year: 2017\nthreshold: 200\n"), "pipeline.cue")
	require.Error(t, err)
	le, ok := AsLoadError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalid, le.Code)
	assert.Contains(t, le.Error(), "E201")
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.cue")
	require.NoError(t, os.WriteFile(path, []byte("workers: 4\noverrides_file: \"extra.yaml\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, filepath.Join(dir, "extra.yaml"), cfg.OverridesFile)
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.cue"), []byte("package visadata\n\nyear: 2015\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.cue"), []byte("package visadata\n\nlimit: 3\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 2015, cfg.Year)
	assert.Equal(t, 3, cfg.Limit)
	assert.Equal(t, dir, cfg.Source)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.cue"))
	le, ok := AsLoadError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNotFound, le.Code)
}

func TestOverrides(t *testing.T) {
	dir := t.TempDir()
	extra := filepath.Join(dir, "extra.yaml")
	require.NoError(t, os.WriteFile(extra, []byte("corrections:\n  Swisse: Switzerland\n"), 0o644))

	cfg := Default()
	cfg.OverridesFile = extra
	cfg.Corrections = map[string]string{"Nipon": "Japan"}

	table, err := cfg.Overrides()
	require.NoError(t, err)
	assert.Equal(t, override.Default().Len()+2, table.Len())
	assert.Equal(t, "Switzerland", table.Apply("Swisse"))
	assert.Equal(t, "Japan", table.Apply("Nipon"))
	assert.Equal(t, "Russia", table.Apply("Andra"))
}

func TestOverrides_Chain(t *testing.T) {
	cfg := Default()
	cfg.Corrections = map[string]string{"Russia": "Rossiya"}

	_, err := cfg.Overrides()
	le, ok := AsLoadError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeOverrides, le.Code)
	assert.Equal(t, "corrections", le.Field)
}

func TestOverrides_MissingFile(t *testing.T) {
	cfg := Default()
	cfg.OverridesFile = filepath.Join(t.TempDir(), "absent.yaml")

	_, err := cfg.Overrides()
	le, ok := AsLoadError(err)
	require.True(t, ok)
	assert.Equal(t, "overrides_file", le.Field)
}

func TestRunOptions(t *testing.T) {
	cfg := Default()
	cfg.Workers = 3

	opts := cfg.RunOptions()
	assert.Equal(t, 2017, opts.Year)
	assert.Equal(t, 10, opts.Limit)
	assert.Equal(t, 3, opts.Workers)
	assert.Equal(t, []string{"total", "others"}, opts.Sentinels)

	opts.Sentinels[0] = "changed"
	assert.Equal(t, "total", cfg.Sentinels[0])
}

func TestPipelineOptions(t *testing.T) {
	cfg := Default()
	opts, err := cfg.PipelineOptions(nil)
	require.NoError(t, err)
	assert.Len(t, opts, 2)

	assert.Len(t, cfg.ReaderOptions(nil), 1)
	cfg.Sheet = "visas"
	assert.Len(t, cfg.ReaderOptions(nil), 2)
}
