package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"albumpress/internal/history"
	"albumpress/internal/pipeline"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded batch runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, ctx, func(store *history.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Run", "Started", "Source", "Destination", "Files", "Processed", "Ignored", "Keep", "Failed", "State"},
					buildRunRows(runs),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var failedOnly bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show per-file outcomes of a run",
		Long:  "show prints every file a run touched. A unique prefix of the run id is enough.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, ctx, func(store *history.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				outcomes, err := store.RunOutcomes(cmd.Context(), run.ID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run %s\n", run.ID)
				fmt.Fprintf(out, "  Source:      %s\n", run.SourceRoot)
				fmt.Fprintf(out, "  Destination: %s\n", run.DestRoot)
				fmt.Fprintf(out, "  Extensions:  %v\n", run.Extensions)
				fmt.Fprintf(out, "  Started:     %s\n", run.StartedAt.Local().Format(time.DateTime))
				fmt.Fprintf(out, "  State:       %s\n", runState(run))

				rows := buildOutcomeRows(outcomes, failedOnly)
				if len(rows) == 0 {
					fmt.Fprintln(out, "No file outcomes recorded")
					return nil
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Source", "Status", "Stage", "Size", "Output", "Time", "Detail"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Only list failed files")
	return cmd
}

// withHistory opens the journal read-side. A journal that was never created
// is reported as empty rather than created.
func withHistory(cmd *cobra.Command, ctx *commandContext, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	path := cfg.HistoryPath()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(cmd.OutOrStdout(), "No runs recorded (%s does not exist)\n", filepath.Base(path))
		return nil
	}
	store, err := history.Open(context.WithoutCancel(cmd.Context()), path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func buildRunRows(runs []history.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format(time.DateTime),
			run.SourceRoot,
			run.DestRoot,
			count(run.Total),
			count(run.Processed),
			count(run.Ignored),
			count(run.KeptOriginal),
			count(run.Failed),
			runState(run),
		})
	}
	return rows
}

func runState(run history.Run) string {
	switch {
	case run.Canceled:
		return fmt.Sprintf("interrupted (%d not started)", run.NotStarted)
	case !run.Finished():
		return "incomplete"
	case run.Failed > 0:
		return "finished with failures"
	default:
		return "finished"
	}
}

func buildOutcomeRows(outcomes []history.FileOutcome, failedOnly bool) [][]string {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		if failedOnly && o.Status != pipeline.StatusFailed {
			continue
		}
		status := string(o.Status)
		if o.KeptOriginal {
			status += " (kept original)"
		}
		detail := o.ErrorMessage
		if detail == "" && o.ToolWarnings > 0 {
			detail = itoa(o.ToolWarnings) + " tool warning(s)"
		}
		rows = append(rows, []string{
			o.SourcePath,
			status,
			o.Stage,
			formatSize(o.SourceSize),
			formatSize(o.DestSize),
			formatElapsed(o.Duration),
			detail,
		})
	}
	return rows
}
