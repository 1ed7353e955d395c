package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/visadata/internal/config"
)

// ValidationError is one problem found in a settings file.
type ValidationError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool              `json:"valid"`
	Errors      []ValidationError `json:"errors,omitempty"`
	Config      *config.Config    `json:"config,omitempty"`
	Corrections int               `json:"corrections,omitempty"`
}

func (r ValidationResult) String() string {
	cfg := r.Config
	var b strings.Builder
	fmt.Fprintf(&b, "✓ %s is valid\n", cfg.Source)
	fmt.Fprintf(&b, "  threshold  %d\n", cfg.Threshold)
	fmt.Fprintf(&b, "  year       %d, limit %d\n", cfg.Year, cfg.Limit)
	fmt.Fprintf(&b, "  workers    %d\n", cfg.Workers)
	fmt.Fprintf(&b, "  sentinels  %s\n", strings.Join(cfg.Sentinels, ", "))
	fmt.Fprintf(&b, "  columns    %s, %s, %s\n", cfg.Columns.Year, cfg.Columns.Country, cfg.Columns.Count)
	fmt.Fprintf(&b, "  overrides  %d entries", r.Corrections)
	return b.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <settings>",
		Short: "Validate a settings file",
		Long: `Check a CUE settings file or directory against the settings schema and
build its override table, without reading any input.

Exit codes:
  0 - Settings are valid
  1 - Settings rejected by the schema or the override table
  2 - Command error (file not found, CUE syntax error)

Examples:
  visadata validate settings.cue
  visadata validate ./settings --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := config.Load(path)
	if err != nil {
		return reportLoadError(formatter, err)
	}
	formatter.VerboseLog("Loaded settings from %s", path)

	table, err := cfg.Overrides()
	if err != nil {
		return reportLoadError(formatter, err)
	}
	return formatter.Success(ValidationResult{Valid: true, Config: cfg, Corrections: table.Len()})
}

// reportLoadError separates files that could not be read or parsed (exit 2)
// from settings the schema or override table rejected (exit 1).
func reportLoadError(formatter *OutputFormatter, err error) error {
	le, ok := config.AsLoadError(err)
	if !ok {
		return outputValidateError(formatter, ErrCodeGeneric, err.Error(), nil)
	}
	switch le.Code {
	case config.ErrCodeNotFound, config.ErrCodeLoadFailed, config.ErrCodeBuildFailed:
		return outputValidateError(formatter, le.Code, le.Message, positionDetails(le))
	}
	return outputValidationErrors(formatter, []ValidationError{toValidationError(le)})
}

func toValidationError(le *config.LoadError) ValidationError {
	ve := ValidationError{Code: le.Code, Field: le.Field, Message: le.Message}
	if le.Pos.IsValid() {
		ve.File = le.Pos.Filename()
		ve.Line = le.Pos.Line()
		ve.Column = le.Pos.Column()
	}
	return ve
}

// positionDetails returns the CUE position of le for error details, or nil.
func positionDetails(le *config.LoadError) interface{} {
	if !le.Pos.IsValid() {
		return nil
	}
	return map[string]interface{}{
		"file":   le.Pos.Filename(),
		"line":   le.Pos.Line(),
		"column": le.Pos.Column(),
	}
}

// outputValidateError outputs a single command-level error.
func outputValidateError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs schema or override errors.
func outputValidationErrors(formatter *OutputFormatter, errs []ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n", err.File, err.Line, err.Column)
		}
		if err.Field != "" {
			fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
		} else {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
		}
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
