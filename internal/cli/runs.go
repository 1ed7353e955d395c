package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/visadata/internal/ir"
	"github.com/roach88/visadata/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - show one run with its views
}

// RunsResult lists archived runs.
type RunsResult struct {
	Runs []store.Run `json:"runs"`
}

func (r RunsResult) String() string {
	if len(r.Runs) == 0 {
		return "No runs found in database."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-4s %-36s %-6s %-6s %-10s %s\n", "SEQ", "ID", "YEAR", "ROWS", "THRESHOLD", "SOURCE")
	for i, run := range r.Runs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-4d %-36s %-6d %-6d %-10d %s", run.Seq, run.ID, run.Year, run.Rows, run.Threshold, run.Source)
	}
	return b.String()
}

// RunDetail is one archived run with its stored views.
type RunDetail struct {
	Run          store.Run               `json:"run"`
	ByContinent  []ir.ContinentYearTotal `json:"by_continent"`
	TopCountries []ir.CountryTotal       `json:"top_countries"`
}

func (d RunDetail) String() string {
	run := d.Run
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s (seq %d)\n", run.ID, run.Seq)
	fmt.Fprintf(&b, "  source     %s\n", run.Source)
	fmt.Fprintf(&b, "  rows       %d\n", run.Rows)
	fmt.Fprintf(&b, "  year       %d, limit %d, threshold %d\n", run.Year, run.Limit, run.Threshold)
	fmt.Fprintf(&b, "  sentinels  %s\n", strings.Join(run.Sentinels, ", "))
	fmt.Fprintf(&b, "  digest     %s\n", run.Digests.Run)
	fmt.Fprintln(&b, "By continent:")
	for _, t := range d.ByContinent {
		fmt.Fprintf(&b, "  %d  %-15s %d\n", t.Year, t.Continent, t.VisaIssued)
	}
	fmt.Fprintf(&b, "Top countries in %d:", run.Year)
	for i, t := range d.TopCountries {
		fmt.Fprintf(&b, "\n  %2d. %-30s %d", i+1, t.Country, t.VisaIssued)
	}
	return b.String()
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List archived runs",
		Long: `List the runs stored in a SQLite archive, or show one run with its
stored aggregate views.

Examples:
  visadata runs --db out/visadata.db
  visadata runs --db out/visadata.db --run 0190f5c2-...
  visadata runs --db out/visadata.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show a single run")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	logger := setupLogging(opts.RootOptions, cmd)
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx, cancel := signalContext(cmd, logger)
	defer cancel()

	st, err := openExisting(opts.Database, logger, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	if opts.RunID == "" {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to list runs", err)
		}
		return formatter.Success(RunsResult{Runs: runs})
	}

	detail, err := readRunDetail(ctx, st, opts.RunID)
	if err != nil {
		return failRun(formatter, opts.RunID, err)
	}
	return formatter.SuccessRun(detail.Run.ID, detail)
}

func readRunDetail(ctx context.Context, st *store.Store, id string) (*RunDetail, error) {
	run, err := st.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	continents, err := st.ReadContinentTotals(ctx, id)
	if err != nil {
		return nil, err
	}
	countries, err := st.ReadCountryTotals(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RunDetail{Run: *run, ByContinent: continents, TopCountries: countries}, nil
}

// openExisting opens a database that must already exist, so a mistyped
// path is reported instead of creating an empty archive.
func openExisting(path string, logger *slog.Logger, formatter *OutputFormatter) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeDatabase, fmt.Sprintf("database not found: %s", path), err)
	}
	logger.Debug("opening database", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	return st, nil
}

// failRun reports a run lookup failure, with E009 for unknown IDs.
func failRun(formatter *OutputFormatter, id string, err error) error {
	if errors.Is(err, store.ErrRunNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeRunNotFound, fmt.Sprintf("run not found: %s", id), err)
	}
	return formatter.Fail(ExitCommandError, ErrCodeDatabase, fmt.Sprintf("failed to read run %s", id), err)
}
