package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"mp4fit/internal/model"
	"mp4fit/internal/ui"
	"mp4fit/internal/util"
)

func newTuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tui <inputs...>",
		Short:         "Shrink multiple files with an interactive dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("tui requires a terminal; use 'mp4fit run' instead")}
			}

			targetBytes, _ := cmd.Flags().GetInt64("target-bytes")
			videoBPS, _ := cmd.Flags().GetInt64("video-bitrate")
			audioBPS, _ := cmd.Flags().GetInt64("audio-bitrate")
			outDir, _ := cmd.Flags().GetString("out-dir")
			if targetBytes <= 0 {
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("--target-bytes must be positive, got %d", targetBytes)}
			}
			if audioBPS <= 0 {
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("--audio-bitrate must be positive, got %d", audioBPS)}
			}

			jobs := getPersistentInt(cmd, "jobs", 2)
			if jobs <= 0 {
				jobs = 2
			}

			opts := model.CLIOptions{
				TargetBytes:      targetBytes,
				AudioBPS:         audioBPS,
				VideoBPSOverride: videoBPS,
				OutDir:           filepath.Clean(outDir),
				FFmpegPath:       getPersistentString(cmd, "ffmpeg", viper.GetString("ffmpeg")),
				FFprobePath:      getPersistentString(cmd, "ffprobe", viper.GetString("ffprobe")),
				Verbose:          getPersistentBool(cmd, "verbose", false),
				Jobs:             jobs,
			}

			if err := util.EnsureDir(opts.OutDir); err != nil {
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("failed to create output dir: %v", err)}
			}

			if err := ui.Run(cmd.Context(), args, opts); err != nil {
				return &ExitError{Code: ExitEncodeError, Err: err}
			}
			return nil
		},
	}
	bindShrinkFlags(cmd.Flags())
	cmd.Flags().StringP("out-dir", "o", ".", "Output directory for shrunk files")
	return cmd
}
