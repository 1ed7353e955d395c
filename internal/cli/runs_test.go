package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/visadata/internal/ir"
	"github.com/roach88/visadata/internal/store"
)

// seedDatabase stores n clean runs of the sample input and returns the
// database path and the run IDs.
func seedDatabase(t *testing.T, n int) (string, []string) {
	t.Helper()
	input := writeSample(t)
	db := filepath.Join(t.TempDir(), "runs.db")

	var ids []string
	for i := 0; i < n; i++ {
		stdout, _, err := execute(t, "--format", "json", "clean", input, "--db", db)
		require.NoError(t, err)
		resp := decodeResponse(t, stdout, nil)
		require.NotEmpty(t, resp.RunID)
		ids = append(ids, resp.RunID)
	}
	return db, ids
}

func TestRunsList(t *testing.T) {
	db, ids := seedDatabase(t, 2)

	stdout, _, err := execute(t, "--format", "json", "runs", "--db", db)
	require.NoError(t, err)

	var result RunsResult
	decodeResponse(t, stdout, &result)
	require.Len(t, result.Runs, 2)
	assert.Equal(t, ids[0], result.Runs[0].ID)
	assert.Equal(t, int64(1), result.Runs[0].Seq)
	assert.Equal(t, ids[1], result.Runs[1].ID)
	assert.Equal(t, int64(2), result.Runs[1].Seq)
	assert.Equal(t, result.Runs[0].Digests, result.Runs[1].Digests)
}

func TestRunsListText(t *testing.T) {
	db, ids := seedDatabase(t, 1)

	stdout, _, err := execute(t, "runs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "SEQ")
	assert.Contains(t, stdout, ids[0])
}

func TestRunsEmptyDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "empty.db")
	st, err := store.Open(db)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	stdout, _, err := execute(t, "runs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No runs found")
}

func TestRunsDetail(t *testing.T) {
	db, ids := seedDatabase(t, 1)

	stdout, _, err := execute(t, "--format", "json", "runs", "--db", db, "--run", ids[0])
	require.NoError(t, err)

	var detail RunDetail
	resp := decodeResponse(t, stdout, &detail)
	assert.Equal(t, ids[0], resp.RunID)
	assert.Equal(t, 2017, detail.Run.Year)
	assert.Equal(t, []string{"total", "others"}, detail.Run.Sentinels)
	assert.Len(t, detail.ByContinent, 4)
	require.Len(t, detail.TopCountries, 4)
	assert.Equal(t, ir.CountryTotal{Country: "Japan", VisaIssued: 100}, detail.TopCountries[0])
}

func TestRunsUnknownRun(t *testing.T) {
	db, _ := seedDatabase(t, 1)

	stdout, _, err := execute(t, "--format", "json", "runs", "--db", db, "--run", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, stdout, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeRunNotFound, resp.Error.Code)
}

func TestRunsMissingDatabase(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.db")

	_, _, err := execute(t, "runs", "--db", missing)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.NoFileExists(t, missing)
}
