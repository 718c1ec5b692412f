package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mp4fit/internal/config"
	"mp4fit/internal/model"
)

// Exit codes. A failed encode exits 1; everything the tool itself gets
// wrong, or cannot find, uses the higher codes.
const (
	ExitOK          = 0
	ExitEncodeError = 1
	ExitCLIError    = 2
	ExitMissingDep  = 3
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mp4fit <input> <output>",
		Short:         "Shrink a video to an approximate target file size",
		Long:          "mp4fit re-encodes a video to approximate a target output size. It probes the clip duration with ffprobe, back-calculates a video bitrate that fits the size budget, and hands the actual transcode to ffmpeg (H.264/AAC, width capped at 640, faststart layout).",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the same behavior as `mp4fit run`.
			return runExecute(cmd, args, runMode{DryRunOnly: false})
		},
	}

	// Persistent flags available to all subcommands
	root.PersistentFlags().BoolP("verbose", "v", false, "Show full subprocess commands/output")
	root.PersistentFlags().String("ffmpeg", "", "Path to ffmpeg binary")
	root.PersistentFlags().String("ffprobe", "", "Path to ffprobe binary")
	root.PersistentFlags().Int("jobs", 2, "Max concurrent jobs in TUI")

	// Also bind run-specific flags on root, so `mp4fit <input> <output>` works.
	bindShrinkFlags(root.Flags())

	// Subcommands
	root.AddCommand(newRunCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newTuiCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

func bindShrinkFlags(fs *pflag.FlagSet) {
	fs.Int64("target-bytes", model.DefaultTargetBytes, "Target output file size in bytes")
	fs.Int64("video-bitrate", 0, "Explicit video bitrate in bits/sec (0 = estimate from duration)")
	fs.Int64("audio-bitrate", model.DefaultAudioBPS, "Audio bitrate in bits/sec")
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	_ = config.Init(root)
	return root.ExecuteContext(ctx)
}

// Helpers. cmd.Flags() covers persistent flags both on the root command and
// on subcommands (where they are merged in from the parent).
func getPersistentString(cmd *cobra.Command, name, def string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil || v == "" {
		return def
	}
	return v
}

func getPersistentBool(cmd *cobra.Command, name string, def bool) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return def
	}
	return v
}

func getPersistentInt(cmd *cobra.Command, name string, def int) int {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return def
	}
	return v
}
