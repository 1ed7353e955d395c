package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/visadata/internal/config"
	"github.com/roach88/visadata/internal/ingest"
	"github.com/roach88/visadata/internal/pipeline"
	"github.com/roach88/visadata/internal/store"
)

// setupLogging installs a text handler on the command's stderr. --verbose
// lowers the level to debug.
func setupLogging(opts *RootOptions, cmd *cobra.Command) *slog.Logger {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// signalContext returns a context cancelled on SIGINT/SIGTERM or when the
// command's own context is done.
func signalContext(cmd *cobra.Command, logger *slog.Logger) (context.Context, context.CancelFunc) {
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan) // Prevent signal handler leak
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// pipelineRun is one pipeline execution over an input file.
type pipelineRun struct {
	Config *config.Config
	Input  *ingest.Result
	Result *pipeline.Result
}

// executePipeline loads the config, reads input and runs the pipeline.
// Failures are reported through formatter and returned as ExitErrors.
func executePipeline(ctx context.Context, cmd *cobra.Command, opts *RootOptions, flags *PipelineFlags,
	inputPath string, logger *slog.Logger, formatter *OutputFormatter) (*pipelineRun, error) {
	cfg, err := resolveConfig(cmd, opts, flags, formatter)
	if err != nil {
		return nil, err
	}

	popts, err := cfg.PipelineOptions(logger)
	if err != nil {
		return nil, failConfig(formatter, err)
	}
	pc, err := pipeline.NewDefault(popts...)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to initialize pipeline", err)
	}

	in, err := readInput(cfg, inputPath, logger, formatter)
	if err != nil {
		return nil, err
	}

	res, err := pc.Run(ctx, in.Records, cfg.RunOptions())
	if err != nil {
		return nil, formatter.Fail(ExitFailure, ErrCodeGeneric, "pipeline failed", err)
	}
	logger.Debug("run digests",
		"cleaned", res.Digests.Cleaned,
		"continents", res.Digests.Continents,
		"countries", res.Digests.Countries,
		"run", res.Digests.Run,
	)

	return &pipelineRun{Config: cfg, Input: in, Result: res}, nil
}

// persistRun stores a pipeline run in the database at path.
func persistRun(ctx context.Context, path, source string, run *pipelineRun, logger *slog.Logger, formatter *OutputFormatter) (*store.Run, error) {
	logger.Info("opening database", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	stored, err := st.WriteRun(ctx, source, run.Config.Workers, run.Result)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to store run", err)
	}
	logger.Info("run stored", "run_id", stored.ID, "seq", stored.Seq, "rows", stored.Rows)
	return stored, nil
}

// newFormatter builds the formatter for a command.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}
