package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"albumpress/internal/config"
	"albumpress/internal/deps"
	"albumpress/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var src, dst, argFF, argExif, comment string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify tools and directories before a batch",
		Long: `check reports whether ffmpeg and exiftool can be found and, when --src or
--dst are given, whether the directories are usable. Tools a run would not
invoke are reported as optional.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			run := config.Run{TranscodeArgs: argFF, MetadataArgs: argExif, Comment: comment}
			explicit := cmd.Flags().Changed("argff") || cmd.Flags().Changed("argexif") || cmd.Flags().Changed("comment")
			needFF, needExif := run.NeedsFFmpeg(), run.NeedsExifTool()
			if !explicit {
				needFF, needExif = true, true
			}

			statuses := deps.CheckBinaries(deps.ToolRequirements(cfg.Tools.FFmpeg, cfg.Tools.ExifTool, needFF, needExif))
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTitledTable("Tools", []string{"Tool", "Status", "Required", "Detail"}, dependencyRows(statuses), nil))

			var checks []preflight.Result
			if strings.TrimSpace(src) != "" {
				path, err := config.ExpandPath(src)
				if err != nil {
					return fmt.Errorf("--src: %w", err)
				}
				checks = append(checks, preflight.CheckDirectoryAccess("Source directory", path, preflight.AccessRead))
			}
			if strings.TrimSpace(dst) != "" {
				path, err := config.ExpandPath(dst)
				if err != nil {
					return fmt.Errorf("--dst: %w", err)
				}
				checks = append(checks, preflight.CheckCreatable("Destination directory", path))
			}
			checks = append(checks, preflight.CheckCreatable("State directory", cfg.Paths.StateDir))
			fmt.Fprintln(out, renderTitledTable("Directories", []string{"Check", "Status", "Detail"}, preflightRows(checks), nil))

			var problems []string
			for _, m := range deps.Missing(statuses) {
				problems = append(problems, m.Name+" missing")
			}
			for _, f := range preflight.Failed(checks) {
				problems = append(problems, f.Name+" failed")
			}
			if len(problems) > 0 {
				return errors.New("check failed: " + strings.Join(problems, ", "))
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}

	cmd.Flags().StringVar(&src, "src", "", "Source directory to check")
	cmd.Flags().StringVar(&dst, "dst", "", "Destination directory to check")
	cmd.Flags().StringVar(&argFF, "argff", "", "Treat ffmpeg as required")
	cmd.Flags().StringVar(&argExif, "argexif", "", "Treat exiftool as required")
	cmd.Flags().StringVarP(&comment, "comment", "c", "", "Treat exiftool as required for the gate comment")
	return cmd
}

func dependencyRows(statuses []deps.Status) [][]string {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		state := "OK"
		detail := s.Path
		if !s.Available {
			state = "MISSING"
			if s.Optional {
				state = "WARN"
			}
			detail = s.Detail
		}
		rows = append(rows, []string{s.Name, state, yesNo(!s.Optional), detail})
	}
	return rows
}

func preflightRows(results []preflight.Result) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		state := "OK"
		if !r.Passed {
			state = "ERROR"
		}
		rows = append(rows, []string{r.Name, state, r.Detail})
	}
	return rows
}
