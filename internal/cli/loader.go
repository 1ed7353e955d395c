package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/visadata/internal/config"
	"github.com/roach88/visadata/internal/ingest"
)

// Error codes for CLI responses. Configuration failures carry the codes of
// config.LoadError (E004-E006, E201, E202).
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeInput       = "E002" // Input file unreadable
	ErrCodeColumns     = "E003" // Required columns missing from the input
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeDatabase    = "E008" // Database open/read/write error
	ErrCodeRunNotFound = "E009" // No such stored run
	ErrCodeFlag        = "E010" // Flag value out of range
)

// PipelineFlags are the per-command overrides of the config file. A flag
// only takes effect when it was set on the command line.
type PipelineFlags struct {
	Year      int
	Limit     int
	Threshold int
	Workers   int
	Sentinels []string
	Sheet     string
}

// register adds the pipeline flags to cmd.
func (f *PipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.Year, "year", 0, "ranking year (default from config)")
	cmd.Flags().IntVar(&f.Limit, "limit", 0, "ranking length (default from config)")
	cmd.Flags().IntVar(&f.Threshold, "threshold", 0, "fuzzy match threshold 0-101 (default from config)")
	cmd.Flags().IntVar(&f.Workers, "workers", 0, "parallel workers (default from config)")
	cmd.Flags().StringSliceVar(&f.Sentinels, "sentinel", nil, "country values excluded from the ranking (default from config)")
	cmd.Flags().StringVar(&f.Sheet, "sheet", "", "worksheet to read from an XLSX input")
}

// apply overrides cfg with the flags set on cmd.
func (f *PipelineFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("year") {
		cfg.Year = f.Year
	}
	if changed("limit") {
		if f.Limit < 1 {
			return fmt.Errorf("--limit must be positive, got %d", f.Limit)
		}
		cfg.Limit = f.Limit
	}
	if changed("threshold") {
		if f.Threshold < 0 || f.Threshold > 101 {
			return fmt.Errorf("--threshold must be within [0, 101], got %d", f.Threshold)
		}
		cfg.Threshold = f.Threshold
	}
	if changed("workers") {
		if f.Workers < 1 || f.Workers > 256 {
			return fmt.Errorf("--workers must be within [1, 256], got %d", f.Workers)
		}
		cfg.Workers = f.Workers
	}
	if changed("sentinel") {
		cfg.Sentinels = append([]string{}, f.Sentinels...)
	}
	if changed("sheet") {
		cfg.Sheet = f.Sheet
	}
	return nil
}

// loadConfig returns the schema defaults, or the --config file decoded over
// them.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	if opts.Config == "" {
		return config.Default(), nil
	}
	return config.Load(opts.Config)
}

// resolveConfig loads the config and applies the command's flags. Failures
// are reported through formatter.
func resolveConfig(cmd *cobra.Command, opts *RootOptions, flags *PipelineFlags, formatter *OutputFormatter) (*config.Config, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, failConfig(formatter, err)
	}
	if flags != nil {
		if err := flags.apply(cmd, cfg); err != nil {
			return nil, formatter.Fail(ExitCommandError, ErrCodeFlag, err.Error(), nil)
		}
	}
	return cfg, nil
}

// failConfig reports a configuration error with its LoadError code.
func failConfig(formatter *OutputFormatter, err error) error {
	if le, ok := config.AsLoadError(err); ok {
		pos := map[string]interface{}{}
		if le.Field != "" {
			pos["field"] = le.Field
		}
		if le.Pos.IsValid() {
			pos["file"] = le.Pos.Filename()
			pos["line"] = le.Pos.Line()
			pos["column"] = le.Pos.Column()
		}
		var details interface{}
		if len(pos) > 0 {
			details = pos
		}
		_ = formatter.Error(le.Code, le.Message, details)
		return WrapExitError(ExitCommandError, "invalid configuration", le)
	}
	return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to load configuration", err)
}

// readInput reads a CSV or XLSX input with the configured columns.
func readInput(cfg *config.Config, path string, logger *slog.Logger, formatter *OutputFormatter) (*ingest.Result, error) {
	in, err := ingest.New(cfg.ReaderOptions(logger)...).ReadFile(path)
	if err != nil {
		var colErr *ingest.ColumnError
		if errors.As(err, &colErr) {
			return nil, formatter.Fail(ExitCommandError, ErrCodeColumns, fmt.Sprintf("input %s is missing columns %v", path, colErr.Missing), err)
		}
		return nil, formatter.Fail(ExitCommandError, ErrCodeInput, fmt.Sprintf("failed to read input %s", path), err)
	}
	logger.Info("input read", "path", path, "rows", len(in.Records), "skipped", len(in.Skipped), "dropped", in.Dropped)
	for _, s := range in.Skipped {
		logger.Debug("row skipped", "line", s.Line, "reason", s.Reason, "value", s.Value)
	}
	return in, nil
}
