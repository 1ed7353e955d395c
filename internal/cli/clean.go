package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/visadata/internal/export"
	"github.com/roach88/visadata/internal/ingest"
	"github.com/roach88/visadata/internal/pipeline"
)

// CleanOptions holds flags for the clean command.
type CleanOptions struct {
	*RootOptions
	PipelineFlags
	Out      string // .csv or .xlsx
	Database string // optional run archive
}

// CleanResult is the clean command's output.
type CleanResult struct {
	Input   string           `json:"input"`
	Rows    int              `json:"rows"`
	Dropped int              `json:"dropped"`
	Skipped []ingest.Skipped `json:"skipped"`
	Stats   pipeline.Stats   `json:"stats"`
	Digest  string           `json:"digest"`
	Out     string           `json:"out,omitempty"`
}

func (r CleanResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cleaned %d rows from %s\n", r.Rows, r.Input)
	fmt.Fprintf(&b, "  matched %d, passed through %d, overridden %d, no continent %d\n",
		r.Stats.Matched, r.Stats.PassedThrough, r.Stats.Overridden, r.Stats.NullContinent)
	if r.Dropped > 0 || len(r.Skipped) > 0 {
		fmt.Fprintf(&b, "  dropped %d empty rows, skipped %d rows\n", r.Dropped, len(r.Skipped))
	}
	for _, s := range r.Skipped {
		fmt.Fprintf(&b, "    line %d: %s (%q)\n", s.Line, s.Reason, s.Value)
	}
	if r.Out != "" {
		fmt.Fprintf(&b, "  wrote %s\n", r.Out)
	}
	fmt.Fprintf(&b, "  digest %s", r.Digest)
	return b.String()
}

// NewCleanCommand creates the clean command.
func NewCleanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CleanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clean <input>",
		Short: "Resolve country names and map continents",
		Long: `Read a CSV or XLSX visa table, resolve every country name against the
ISO 3166-1 list, apply the override table and attach continents.

The cleaned table keeps every row. Unresolved names pass through unchanged
and unclassified countries get an empty continent.

Examples:
  visadata clean visas.csv --out cleaned.csv
  visadata clean visas.xlsx --out cleaned.xlsx --db runs.db
  visadata clean visas.csv --threshold 90 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(opts, args[0], cmd)
		},
	}

	opts.PipelineFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Out, "out", "", "write the cleaned table (.csv or .xlsx)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "store the run in this SQLite database")

	return cmd
}

func runClean(opts *CleanOptions, input string, cmd *cobra.Command) error {
	logger := setupLogging(opts.RootOptions, cmd)
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx, cancel := signalContext(cmd, logger)
	defer cancel()

	run, err := executePipeline(ctx, cmd, opts.RootOptions, &opts.PipelineFlags, input, logger, formatter)
	if err != nil {
		return err
	}

	if opts.Out != "" {
		if err := writeCleaned(opts.Out, run.Result); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("failed to write %s", opts.Out), err)
		}
		logger.Info("cleaned table written", "path", opts.Out, "rows", len(run.Result.Cleaned))
	}

	result := CleanResult{
		Input:   input,
		Rows:    len(run.Result.Cleaned),
		Dropped: run.Input.Dropped,
		Skipped: run.Input.Skipped,
		Stats:   run.Result.Stats,
		Digest:  run.Result.Digests.Cleaned,
		Out:     opts.Out,
	}
	if result.Skipped == nil {
		result.Skipped = []ingest.Skipped{}
	}

	if opts.Database == "" {
		return formatter.Success(result)
	}
	stored, err := persistRun(ctx, opts.Database, input, run, logger, formatter)
	if err != nil {
		return err
	}
	return formatter.SuccessRun(stored.ID, result)
}

// writeCleaned writes the cleaned table as a workbook for .xlsx paths and
// as CSV otherwise.
func writeCleaned(path string, res *pipeline.Result) error {
	if isWorkbook(path) {
		wb := export.Workbook{Cleaned: res.Cleaned}
		return wb.SaveAs(path)
	}
	return export.WriteFile(path, func(w io.Writer) error {
		return export.WriteCleanedCSV(w, res.Cleaned)
	})
}

func isWorkbook(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".xlsx" || ext == ".xlsm"
}
