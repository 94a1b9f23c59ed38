package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"albumpress/internal/batch"
	"albumpress/internal/config"
	"albumpress/internal/deps"
	"albumpress/internal/history"
	"albumpress/internal/logging"
	"albumpress/internal/pipeline"
	"albumpress/internal/preflight"
	"albumpress/internal/runlock"
	"albumpress/internal/services"
	"albumpress/internal/services/command"
	"albumpress/internal/services/exiftool"
	"albumpress/internal/services/ffmpeg"
)

// buildRun turns flags into a validated run. Every error it returns is an
// argument error reported before any file is touched.
func buildRun(cmd *cobra.Command, cfg *config.Config, flags runFlags) (config.Run, error) {
	policy, err := config.ParseDatePolicy(flags.date)
	if err != nil {
		return config.Run{}, fmt.Errorf("--date: %w", err)
	}
	threads := flags.threads
	if !cmd.Flags().Changed("thread") && cfg != nil && cfg.Run.Threads > 0 {
		threads = cfg.Run.Threads
	}

	run := config.Run{
		SourceRoot:     flags.src,
		DestRoot:       flags.dst,
		TranscodeArgs:  flags.argFF,
		MetadataArgs:   flags.argExif,
		Comment:        flags.comment,
		IgnoreExisting: flags.ignore,
		Extensions:     flags.exts,
		Threads:        threads,
		Date:           policy,
		KeepLarger:     flags.keep,
		Verbose:        flags.verbose,
		VeryVerbose:    flags.vVerbose,
	}
	if err := run.Validate(); err != nil {
		return config.Run{}, err
	}
	if err := command.Validate(run.TranscodeArgs); err != nil {
		return config.Run{}, fmt.Errorf("--argff: %w", err)
	}
	if err := command.Validate(run.MetadataArgs); err != nil {
		return config.Run{}, fmt.Errorf("--argexif: %w", err)
	}
	return run, nil
}

func runBatch(cmd *cobra.Command, ctx *commandContext, flags runFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	run, err := buildRun(cmd, cfg, flags)
	if err != nil {
		return err
	}

	statuses := deps.CheckBinaries(deps.ToolRequirements(cfg.Tools.FFmpeg, cfg.Tools.ExifTool, run.NeedsFFmpeg(), run.NeedsExifTool()))
	if missing := deps.Missing(statuses); len(missing) > 0 {
		details := make([]string, 0, len(missing))
		for _, m := range missing {
			details = append(details, fmt.Sprintf("%s (%s)", m.Name, m.Detail))
		}
		return services.Wrap(services.ErrConfiguration, "deps", "check binaries", strings.Join(details, "; "), nil)
	}
	if failed := preflight.Failed(preflight.RunAll(run, cfg.Paths.StateDir)); len(failed) > 0 {
		details := make([]string, 0, len(failed))
		for _, f := range failed {
			details = append(details, f.Name+": "+f.Detail)
		}
		return services.Wrap(services.ErrConfiguration, "preflight", "check directories", strings.Join(details, "; "), nil)
	}

	opts := logging.OptionsFromConfig(cfg, run.Verbose)
	opts.Writer = cmd.OutOrStdout()
	logger, err := logging.New(opts)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	if cfg.Logging.File {
		logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, cfg.Paths.LogDir, "albumpress*.log", cfg.LogFilePath())
	}

	lock, err := runlock.Acquire(cfg.LockDir(), run.DestRoot)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("run lock release failed", logging.Error(err))
		}
	}()

	runID := uuid.NewString()
	startedAt := time.Now()
	store := openHistory(cmd.Context(), cfg, run, runID, startedAt, logger)
	if store != nil {
		defer store.Close()
	}

	proc, err := newPipeline(run, cfg, logger, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runnerOpts := []batch.Option{
		batch.WithLogger(logger),
		batch.WithRunID(runID),
		batch.WithReporter(batch.NewReporter(cmd.ErrOrStderr(), logger)),
	}
	if store != nil {
		runnerOpts = append(runnerOpts, batch.WithRecorder(store))
	}
	stats, runErr := batch.NewRunner(run, proc, runnerOpts...).Run(sigCtx)

	if store != nil {
		if err := store.FinishRun(context.WithoutCancel(sigCtx), runID, stats, time.Now()); err != nil {
			logging.WarnWithContext(logger, "history finish failed", "history_write_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "run totals missing from history"),
			)
		}
	}

	if runErr != nil && !stats.Canceled {
		return runErr
	}
	fmt.Fprint(cmd.OutOrStdout(), renderSummary(run, stats))
	fmt.Fprintln(cmd.OutOrStdout())
	if runErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Interrupted: %d file(s) not started; rerun with --ignore to resume\n", stats.NotStarted)
	}
	return runErr
}

func openHistory(ctx context.Context, cfg *config.Config, run config.Run, runID string, startedAt time.Time, logger *slog.Logger) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(ctx, cfg.HistoryPath())
	if err == nil {
		err = store.StartRun(ctx, runID, run, startedAt)
		if err != nil {
			_ = store.Close()
		}
	}
	if err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
			logging.String("path", cfg.HistoryPath()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run will not appear in `albumpress history`"),
			logging.String(logging.FieldErrorHint, "delete the history database or set history.enabled = false"),
		)
		return nil
	}
	return store
}

func newPipeline(run config.Run, cfg *config.Config, logger *slog.Logger, echo io.Writer) (*pipeline.Pipeline, error) {
	toolOpts := []command.ToolOption{command.WithLogger(logger)}
	if run.VeryVerbose {
		toolOpts = append(toolOpts, command.WithEcho(echo))
	}

	var transcoder pipeline.Transcoder
	if run.NeedsFFmpeg() {
		client, err := ffmpeg.New(cfg.Tools.FFmpeg, toolOpts...)
		if err != nil {
			return nil, err
		}
		transcoder = client
	}
	var metadata pipeline.MetadataTool
	if run.NeedsExifTool() {
		client, err := exiftool.New(cfg.Tools.ExifTool, toolOpts...)
		if err != nil {
			return nil, err
		}
		metadata = client
	}
	return pipeline.New(run, transcoder, metadata, logger), nil
}
