package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/visadata/internal/export"
	"github.com/roach88/visadata/internal/pipeline"
)

// DefaultDatabaseName is the run archive report writes when --db is unset.
const DefaultDatabaseName = "visadata.db"

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	PipelineFlags
	OutDir   string
	Database string
}

// ReportResult is the report command's output.
type ReportResult struct {
	Input   string           `json:"input"`
	Rows    int              `json:"rows"`
	Stats   pipeline.Stats   `json:"stats"`
	Files   []string         `json:"files"`
	RunID   string           `json:"run_id"`
	Seq     int64            `json:"seq"`
	Digests pipeline.Digests `json:"digests"`
}

func (r ReportResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Report for %s (%d rows)\n", r.Input, r.Rows)
	for _, f := range r.Files {
		fmt.Fprintf(&b, "  wrote %s\n", f)
	}
	fmt.Fprintf(&b, "  run %s (seq %d)\n", r.RunID, r.Seq)
	fmt.Fprintf(&b, "  digest %s", r.Digests.Run)
	return b.String()
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report <input>",
		Short: "Write every output of a run",
		Long: `Clean and aggregate the input, then write the cleaned table, both views as
CSV, a workbook holding all three, and archive the run in SQLite.

For an input named visas.csv the output directory receives:
  visas_cleaned.csv
  visas_by_continent.csv
  visas_top_countries.csv
  visas.xlsx
  visadata.db (unless --db names another database)

Examples:
  visadata report visas.csv --out-dir out
  visadata report visas.xlsx --out-dir out --year 2016 --db runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, args[0], cmd)
		},
	}

	opts.PipelineFlags.register(cmd)
	cmd.Flags().StringVar(&opts.OutDir, "out-dir", "", "directory for the report files (required)")
	_ = cmd.MarkFlagRequired("out-dir")
	cmd.Flags().StringVar(&opts.Database, "db", "", "run archive (default <out-dir>/"+DefaultDatabaseName+")")

	return cmd
}

func runReport(opts *ReportOptions, input string, cmd *cobra.Command) error {
	logger := setupLogging(opts.RootOptions, cmd)
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx, cancel := signalContext(cmd, logger)
	defer cancel()

	run, err := executePipeline(ctx, cmd, opts.RootOptions, &opts.PipelineFlags, input, logger, formatter)
	if err != nil {
		return err
	}

	files, err := writeReport(opts.OutDir, reportBase(input), run.Result)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("failed to write report to %s", opts.OutDir), err)
	}
	logger.Info("report written", "dir", opts.OutDir, "files", len(files))

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = filepath.Join(opts.OutDir, DefaultDatabaseName)
	}
	stored, err := persistRun(ctx, dbPath, input, run, logger, formatter)
	if err != nil {
		return err
	}

	return formatter.SuccessRun(stored.ID, ReportResult{
		Input:   input,
		Rows:    len(run.Result.Cleaned),
		Stats:   run.Result.Stats,
		Files:   append(files, dbPath),
		RunID:   stored.ID,
		Seq:     stored.Seq,
		Digests: run.Result.Digests,
	})
}

// reportBase is the input file name without directory or extension.
func reportBase(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// writeReport writes the three CSV files and the workbook into dir.
func writeReport(dir, base string, res *pipeline.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	csvs := []struct {
		suffix string
		write  func(io.Writer) error
	}{
		{"_cleaned.csv", func(w io.Writer) error { return export.WriteCleanedCSV(w, res.Cleaned) }},
		{"_by_continent.csv", func(w io.Writer) error { return export.WriteContinentsCSV(w, res.ByContinent) }},
		{"_top_countries.csv", func(w io.Writer) error { return export.WriteCountriesCSV(w, res.TopCountries) }},
	}

	files := make([]string, 0, len(csvs)+1)
	for _, c := range csvs {
		path := filepath.Join(dir, base+c.suffix)
		if err := export.WriteFile(path, c.write); err != nil {
			return nil, err
		}
		files = append(files, path)
	}

	book := filepath.Join(dir, base+".xlsx")
	wb := export.Workbook{Cleaned: res.Cleaned, ByContinent: res.ByContinent, TopCountries: res.TopCountries}
	if err := wb.SaveAs(book); err != nil {
		return nil, err
	}
	return append(files, book), nil
}
