package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// sampleCSV resolves as follows with the default settings:
// Vietnam matches Viet Nam, Andra and Benan are overridden, total, others
// and Kosovo have no continent.
const sampleCSV = `year,country,number_of_issued_numerical
2017,Japan,100
2017,Vietnam,80
2017,Andra,80
2017,total,310
2017,others,7
2017,Kosovo,4
2016,Benan,12
2016,China,30
`

// writeSample writes sampleCSV to a temp dir and returns its path.
func writeSample(t *testing.T) string {
	t.Helper()
	return writeFile(t, "visas.csv", sampleCSV)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the root command with args. Logs go to stderr, so stdout
// holds only the command's output.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errBuf.String(), err
}

// decodeResponse parses a JSON response, decoding Data into data when
// non-nil.
func decodeResponse(t *testing.T, stdout string, data any) CLIResponse {
	t.Helper()
	var raw struct {
		CLIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &raw), "stdout: %s", stdout)
	if data != nil {
		require.NotEmpty(t, raw.Data)
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.CLIResponse
}
