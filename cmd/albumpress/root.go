package main

import (
	"github.com/spf13/cobra"
)

type runFlags struct {
	src      string
	dst      string
	argFF    string
	argExif  string
	comment  string
	ignore   bool
	exts     []string
	threads  int
	date     string
	keep     bool
	verbose  bool
	vVerbose bool
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var flags runFlags

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "albumpress --src DIR --dst DIR --ext jpg,png [flags]",
		Short: "Batch-compress a photo and video tree with ffmpeg and exiftool",
		Long: `albumpress walks --src, picks files whose names end with one of --ext and
writes each one to the same relative path under --dst. For every file it can
run an ffmpeg template (--argff), an exiftool template (--argexif), copy the
source timestamps (--date) and keep the original when the output grew (--keep).

Templates use %in% for the source path and %out% for the destination path:

  albumpress --src ~/Pictures --dst /mnt/small --ext jpg,heic -t 4 \
    --argff "-y -i %in% -q:v 4 %out%" \
    --argexif "-tagsfromfile %in% -overwrite_original %out%" \
    -c compressed -i -d copy -k

With neither template the files are copied unchanged.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, ctx, flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Configuration file path")

	f := rootCmd.Flags()
	f.StringVar(&flags.src, "src", "", "Source directory (required)")
	f.StringVar(&flags.dst, "dst", "", "Destination directory (required)")
	f.StringVar(&flags.argFF, "argff", "", "ffmpeg argument template with %in% and %out%")
	f.StringVar(&flags.argExif, "argexif", "", "exiftool argument template with %in% and %out%")
	f.StringVarP(&flags.comment, "comment", "c", "", "Skip sources already tagged with this comment and tag outputs with it")
	f.BoolVarP(&flags.ignore, "ignore", "i", false, "Skip files whose destination already exists")
	f.StringSliceVar(&flags.exts, "ext", nil, "Comma-separated file name suffixes to process (required)")
	f.IntVarP(&flags.threads, "thread", "t", 1, "Number of files processed at once")
	f.StringVarP(&flags.date, "date", "d", "", "Timestamp policy for outputs: copy, min or max")
	f.BoolVarP(&flags.keep, "keep", "k", false, "Keep the original when the output is larger")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Log every tool command line")
	f.BoolVar(&flags.vVerbose, "vvv", false, "Stream tool output (implies --verbose)")

	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newLogsCommand(ctx))

	return rootCmd
}
