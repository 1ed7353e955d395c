package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/visadata/internal/pipeline"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	PipelineFlags
}

// ResolveResult lists the decision taken for each name.
type ResolveResult struct {
	Threshold   int                   `json:"threshold"`
	Resolutions []pipeline.Resolution `json:"resolutions"`
}

func (r ResolveResult) String() string {
	var b strings.Builder
	for i, res := range r.Resolutions {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%q\n", res.Input)
		if res.Candidate != "" {
			verdict := "rejected"
			if res.Matched() {
				verdict = "accepted"
			}
			fmt.Fprintf(&b, "  candidate  %s (score %d, %s at %d)\n", res.Candidate, res.Score, verdict, r.Threshold)
		}
		if res.Overridden {
			fmt.Fprintf(&b, "  override   %s -> %s\n", res.Resolved, res.Country)
		}
		fmt.Fprintf(&b, "  country    %s\n", res.Country)
		if res.HasContinent {
			fmt.Fprintf(&b, "  continent  %s", res.Continent)
		} else {
			b.WriteString("  continent  (none)")
		}
	}
	return b.String()
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resolve <name>...",
		Short: "Explain how country names are cleaned",
		Long: `Run each name through fuzzy resolution, the override table and the
continent mapper, and show every decision.

Examples:
  visadata resolve Vietnam Andra Kosovo
  visadata resolve "Court Jiboire" --threshold 60
  visadata resolve Benan --config settings.cue --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(opts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Threshold, "threshold", 0, "fuzzy match threshold 0-101 (default from config)")

	return cmd
}

func runResolve(opts *ResolveOptions, names []string, cmd *cobra.Command) error {
	logger := setupLogging(opts.RootOptions, cmd)
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := resolveConfig(cmd, opts.RootOptions, &opts.PipelineFlags, formatter)
	if err != nil {
		return err
	}
	popts, err := cfg.PipelineOptions(logger)
	if err != nil {
		return failConfig(formatter, err)
	}
	pc, err := pipeline.NewDefault(popts...)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to initialize pipeline", err)
	}

	result := ResolveResult{
		Threshold:   pc.Threshold(),
		Resolutions: make([]pipeline.Resolution, 0, len(names)),
	}
	for _, name := range names {
		res := pc.Explain(name)
		logger.Debug("name resolved", "input", name, "candidate", res.Candidate, "score", res.Score, "country", res.Country)
		result.Resolutions = append(result.Resolutions, res)
	}
	return formatter.Success(result)
}
