package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/roach88/visadata/internal/export"
)

const sampleCleanedCSV = `year,country,number_of_issued_numerical,continent
2017,Japan,100,Asia
2017,Viet Nam,80,Asia
2017,Russia,80,Europe
2017,total,310,
2017,others,7,
2017,Kosovo,4,
2016,Benin,12,Africa
2016,China,30,Asia
`

func TestCleanText(t *testing.T) {
	input := writeSample(t)

	stdout, _, err := execute(t, "clean", input)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Cleaned 8 rows from "+input)
	assert.Contains(t, stdout, "matched 1, passed through 7, overridden 2, no continent 3")
	assert.Contains(t, stdout, "digest ")
}

func TestCleanJSON(t *testing.T) {
	input := writeSample(t)

	stdout, stderr, err := execute(t, "--format", "json", "clean", input)
	require.NoError(t, err)
	assert.Contains(t, stderr, "input read")

	var result CleanResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.RunID)
	assert.Equal(t, 8, result.Rows)
	assert.Equal(t, 1, result.Stats.Matched)
	assert.Equal(t, 2, result.Stats.Overridden)
	assert.Equal(t, 3, result.Stats.NullContinent)
	assert.Len(t, result.Digest, 64)
	assert.Empty(t, result.Skipped)
}

func TestCleanWritesCSV(t *testing.T) {
	input := writeSample(t)
	out := filepath.Join(t.TempDir(), "cleaned.csv")

	_, _, err := execute(t, "clean", input, "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, sampleCleanedCSV, string(data))
}

func TestCleanWritesWorkbook(t *testing.T) {
	input := writeSample(t)
	out := filepath.Join(t.TempDir(), "cleaned.xlsx")

	_, _, err := execute(t, "clean", input, "--out", out)
	require.NoError(t, err)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetCleaned)
	require.NoError(t, err)
	require.Len(t, rows, 9)
	assert.Equal(t, export.CleanedHeader, rows[0])
	assert.Equal(t, []string{"2017", "Viet Nam", "80", "Asia"}, rows[2])
}

func TestCleanThresholdFlag(t *testing.T) {
	input := writeSample(t)
	out := filepath.Join(t.TempDir(), "cleaned.csv")

	// At 101 nothing matches, so Vietnam keeps its spelling. Overrides
	// still apply to the unresolved inputs.
	_, _, err := execute(t, "clean", input, "--threshold", "101", "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2017,Vietnam,80,Asia\n")
	assert.Contains(t, string(data), "2017,Russia,80,Europe\n")
}

func TestCleanSkipsBadRows(t *testing.T) {
	input := writeFile(t, "bad.csv", "year,country,number_of_issued_numerical\n2017,Japan,10\nsoon,Peru,3\n,,\n")

	stdout, _, err := execute(t, "--format", "json", "clean", input)
	require.NoError(t, err)

	var result CleanResult
	decodeResponse(t, stdout, &result)
	assert.Equal(t, 1, result.Rows)
	assert.Equal(t, 1, result.Dropped)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 3, result.Skipped[0].Line)
}

func TestCleanMissingInput(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "clean", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, stdout, nil)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInput, resp.Error.Code)
}

func TestCleanMissingColumns(t *testing.T) {
	input := writeFile(t, "cols.csv", "year,nation,count\n2017,Japan,1\n")

	stdout, _, err := execute(t, "--format", "json", "clean", input)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, stdout, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeColumns, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "country")
}

func TestCleanFlagOutOfRange(t *testing.T) {
	input := writeSample(t)

	tests := []struct {
		name string
		args []string
	}{
		{"threshold", []string{"--threshold", "102"}},
		{"limit", []string{"--limit", "0"}},
		{"workers", []string{"--workers", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--format", "json", "clean", input}, tt.args...)
			stdout, _, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			resp := decodeResponse(t, stdout, nil)
			require.NotNil(t, resp.Error)
			assert.Equal(t, ErrCodeFlag, resp.Error.Code)
			assert.Contains(t, resp.Error.Message, "--"+tt.name)
		})
	}
}

func TestCleanWithConfig(t *testing.T) {
	input := writeSample(t)
	settings := writeFile(t, "settings.cue", "threshold: 101\ncorrections: {\"Vietnam\": \"Viet Nam\"}\n")
	out := filepath.Join(t.TempDir(), "cleaned.csv")

	_, _, err := execute(t, "--config", settings, "clean", input, "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, sampleCleanedCSV, string(data))
}

func TestCleanInvalidConfig(t *testing.T) {
	input := writeSample(t)
	settings := writeFile(t, "settings.cue", "threshold: 300\n")

	stdout, _, err := execute(t, "--format", "json", "--config", settings, "clean", input)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, stdout, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E201", resp.Error.Code)
}

func TestCleanStoresRun(t *testing.T) {
	input := writeSample(t)
	db := filepath.Join(t.TempDir(), "runs.db")

	stdout, _, err := execute(t, "--format", "json", "clean", input, "--db", db)
	require.NoError(t, err)

	resp := decodeResponse(t, stdout, nil)
	assert.NotEmpty(t, resp.RunID)
	assert.FileExists(t, db)
}

func TestIsWorkbook(t *testing.T) {
	assert.True(t, isWorkbook("out.xlsx"))
	assert.True(t, isWorkbook("OUT.XLSX"))
	assert.True(t, isWorkbook("out.xlsm"))
	assert.False(t, isWorkbook("out.csv"))
	assert.False(t, isWorkbook("out"))
}
