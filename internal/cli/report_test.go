package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/visadata/internal/store"
)

func TestReportWritesEveryOutput(t *testing.T) {
	input := writeSample(t)
	outDir := filepath.Join(t.TempDir(), "out")

	stdout, _, err := execute(t, "--format", "json", "report", input, "--out-dir", outDir)
	require.NoError(t, err)

	var result ReportResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, result.RunID, resp.RunID)
	assert.Equal(t, int64(1), result.Seq)
	assert.Equal(t, 8, result.Rows)

	want := []string{
		filepath.Join(outDir, "visas_cleaned.csv"),
		filepath.Join(outDir, "visas_by_continent.csv"),
		filepath.Join(outDir, "visas_top_countries.csv"),
		filepath.Join(outDir, "visas.xlsx"),
		filepath.Join(outDir, DefaultDatabaseName),
	}
	assert.Equal(t, want, result.Files)
	for _, f := range want {
		assert.FileExists(t, f)
	}

	cleaned, err := os.ReadFile(want[0])
	require.NoError(t, err)
	assert.Equal(t, sampleCleanedCSV, string(cleaned))
}

func TestReportArchivesRun(t *testing.T) {
	input := writeSample(t)
	outDir := t.TempDir()
	db := filepath.Join(t.TempDir(), "runs.db")

	stdout, _, err := execute(t, "--format", "json", "report", input, "--out-dir", outDir, "--db", db)
	require.NoError(t, err)

	var result ReportResult
	decodeResponse(t, stdout, &result)
	assert.NoFileExists(t, filepath.Join(outDir, DefaultDatabaseName))

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	run, err := st.GetRun(ctx, result.RunID)
	require.NoError(t, err)
	assert.Equal(t, input, run.Source)
	assert.Equal(t, 8, run.Rows)
	assert.Equal(t, result.Digests, run.Digests)

	v, err := st.Verify(ctx, result.RunID)
	require.NoError(t, err)
	assert.True(t, v.OK(), "mismatches: %v", v.Mismatches)
}

func TestReportText(t *testing.T) {
	input := writeSample(t)
	outDir := t.TempDir()

	stdout, _, err := execute(t, "report", input, "--out-dir", outDir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Report for "+input+" (8 rows)")
	assert.Contains(t, stdout, "wrote "+filepath.Join(outDir, "visas.xlsx"))
	assert.Contains(t, stdout, "(seq 1)")
}

func TestReportRequiresOutDir(t *testing.T) {
	input := writeSample(t)

	_, _, err := execute(t, "report", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestReportBase(t *testing.T) {
	assert.Equal(t, "visas", reportBase("data/visas.csv"))
	assert.Equal(t, "visa.2017", reportBase("visa.2017.xlsx"))
	assert.Equal(t, "visas", reportBase("visas"))
}
