package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/visadata/internal/export"
	"github.com/roach88/visadata/internal/ir"
	"github.com/roach88/visadata/internal/pipeline"
)

// AggregateOptions holds flags for the aggregate command.
type AggregateOptions struct {
	*RootOptions
	PipelineFlags
	Out      string // .xlsx workbook or a directory for two CSV files
	Database string
}

// AggregateResult is the aggregate command's output.
type AggregateResult struct {
	Year         int                     `json:"year"`
	Limit        int                     `json:"limit"`
	ByContinent  []ir.ContinentYearTotal `json:"by_continent"`
	TopCountries []ir.CountryTotal       `json:"top_countries"`
	Digests      pipeline.Digests        `json:"digests"`
	Out          []string                `json:"out,omitempty"`
}

func (r AggregateResult) String() string {
	var b strings.Builder
	fmt.Fprintln(&b, "Visa issued by continent and year:")
	for _, t := range r.ByContinent {
		fmt.Fprintf(&b, "  %d  %-15s %d\n", t.Year, t.Continent, t.VisaIssued)
	}
	fmt.Fprintf(&b, "Top %d countries in %d:\n", r.Limit, r.Year)
	for i, t := range r.TopCountries {
		fmt.Fprintf(&b, "  %2d. %-30s %d\n", i+1, t.Country, t.VisaIssued)
	}
	for _, p := range r.Out {
		fmt.Fprintf(&b, "wrote %s\n", p)
	}
	fmt.Fprintf(&b, "digest %s", r.Digests.Run)
	return b.String()
}

// NewAggregateCommand creates the aggregate command.
func NewAggregateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AggregateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "aggregate <input>",
		Short: "Sum visas by continent and rank countries",
		Long: `Clean the input and compute both views: visas issued per (year, continent)
and the top countries for one year.

Rows without a continent are left out of the continent view. The ranking
excludes sentinel rows such as "total" and "others".

--out takes an .xlsx path for a workbook, or a directory that receives
visa_by_continent.csv and top_countries.csv.

Examples:
  visadata aggregate visas.csv
  visadata aggregate visas.csv --year 2016 --limit 5
  visadata aggregate visas.csv --out views.xlsx --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAggregate(opts, args[0], cmd)
		},
	}

	opts.PipelineFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Out, "out", "", "write the views to an .xlsx workbook or a directory of CSV files")
	cmd.Flags().StringVar(&opts.Database, "db", "", "store the run in this SQLite database")

	return cmd
}

func runAggregate(opts *AggregateOptions, input string, cmd *cobra.Command) error {
	logger := setupLogging(opts.RootOptions, cmd)
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx, cancel := signalContext(cmd, logger)
	defer cancel()

	run, err := executePipeline(ctx, cmd, opts.RootOptions, &opts.PipelineFlags, input, logger, formatter)
	if err != nil {
		return err
	}
	res := run.Result

	result := AggregateResult{
		Year:         res.Year,
		Limit:        res.Limit,
		ByContinent:  res.ByContinent,
		TopCountries: res.TopCountries,
		Digests:      res.Digests,
	}

	if opts.Out != "" {
		written, err := writeViews(opts.Out, res)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("failed to write %s", opts.Out), err)
		}
		result.Out = written
		logger.Info("views written", "paths", written)
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

// Output file names for the aggregate views.
const (
	ContinentsFile = "visa_by_continent.csv"
	CountriesFile  = "top_countries.csv"
)

// writeViews writes both views and returns the paths written.
func writeViews(out string, res *pipeline.Result) ([]string, error) {
	if isWorkbook(out) {
		wb := export.Workbook{ByContinent: res.ByContinent, TopCountries: res.TopCountries}
		if err := wb.SaveAs(out); err != nil {
			return nil, err
		}
		return []string{out}, nil
	}

	if err := os.MkdirAll(out, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	continents := filepath.Join(out, ContinentsFile)
	if err := export.WriteFile(continents, func(w io.Writer) error {
		return export.WriteContinentsCSV(w, res.ByContinent)
	}); err != nil {
		return nil, err
	}
	countries := filepath.Join(out, CountriesFile)
	if err := export.WriteFile(countries, func(w io.Writer) error {
		return export.WriteCountriesCSV(w, res.TopCountries)
	}); err != nil {
		return nil, err
	}
	return []string{continents, countries}, nil
}
