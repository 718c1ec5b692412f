package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mp4fit/internal/encoder"
	"mp4fit/internal/model"
	"mp4fit/internal/pipeline"
	"mp4fit/internal/util/deps"
	"mp4fit/internal/util/format"
)

type runMode struct {
	DryRunOnly bool
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "run <input> <output>",
		Short:         "Probe, estimate a bitrate, and encode",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, args, runMode{DryRunOnly: false})
		},
	}
	// Bind same flags as root for explicit subcommand usage
	bindShrinkFlags(cmd.Flags())
	return cmd
}

// assembleInputs turns flags and positional args into an EncodingRequest
// plus the runtime options. Precedence: flag > env/config > default.
func assembleInputs(cmd *cobra.Command, args []string) (model.EncodingRequest, model.CLIOptions, error) {
	targetBytes, _ := cmd.Flags().GetInt64("target-bytes")
	videoBPS, _ := cmd.Flags().GetInt64("video-bitrate")
	audioBPS, _ := cmd.Flags().GetInt64("audio-bitrate")

	if targetBytes <= 0 {
		return model.EncodingRequest{}, model.CLIOptions{}, fmt.Errorf("--target-bytes must be positive, got %d", targetBytes)
	}
	if audioBPS <= 0 {
		return model.EncodingRequest{}, model.CLIOptions{}, fmt.Errorf("--audio-bitrate must be positive, got %d", audioBPS)
	}
	if videoBPS < 0 {
		return model.EncodingRequest{}, model.CLIOptions{}, fmt.Errorf("--video-bitrate must not be negative, got %d", videoBPS)
	}

	verbose := getPersistentBool(cmd, "verbose", false) || viper.GetBool("verbose")
	ffmpegPath := getPersistentString(cmd, "ffmpeg", viper.GetString("ffmpeg"))
	ffprobePath := getPersistentString(cmd, "ffprobe", viper.GetString("ffprobe"))
	jobs := getPersistentInt(cmd, "jobs", 2)
	if jobs <= 0 {
		jobs = 2
	}

	req := model.EncodingRequest{
		InputPath:        args[0],
		OutputPath:       args[1],
		TargetBytes:      targetBytes,
		AudioBPS:         audioBPS,
		VideoBPSOverride: videoBPS,
	}
	opts := model.CLIOptions{
		TargetBytes:      targetBytes,
		AudioBPS:         audioBPS,
		VideoBPSOverride: videoBPS,
		FFmpegPath:       ffmpegPath,
		FFprobePath:      ffprobePath,
		Verbose:          verbose,
		Jobs:             jobs,
	}
	return req, opts, nil
}

func runExecute(cmd *cobra.Command, args []string, mode runMode) error {
	req, opts, err := assembleInputs(cmd, args)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}

	// ffprobe is best-effort: when it is missing the probe collapses to an
	// unknown duration and the fixed default bitrate applies. ffmpeg is
	// required unless we only plan.
	ffprobePath, _ := deps.FindFFprobe(opts.FFprobePath)

	var ffmpegPath string
	if !mode.DryRunOnly {
		p, ferr := deps.FindFFmpeg(opts.FFmpegPath)
		if ferr != nil {
			return &ExitError{Code: ExitMissingDep, Err: ferr}
		}
		ffmpegPath = p
	}

	svc := pipeline.NewService(
		pipeline.WithFFmpegPath(ffmpegPath),
		pipeline.WithFFprobePath(ffprobePath),
		pipeline.WithOptions(opts),
	)

	pl, perr := svc.Plan(cmd.Context(), req)
	if perr != nil {
		return &ExitError{Code: ExitCLIError, Err: perr}
	}

	if mode.DryRunOnly {
		printPlan(cmd, pl, ffprobePath)
		return nil
	}

	// Resolved parameters go to stderr before the encode starts.
	fmt.Fprintf(os.Stderr, "duration=%.2fs, video_bitrate=%dbps, audio_bitrate=%dbps\n",
		pl.Probe.DurationSec, pl.Res.VideoBPS, pl.Res.AudioBPS)

	res, eerr := svc.Encode(cmd.Context(), pl)
	if eerr != nil {
		var ee *encoder.ExitError
		if errors.As(eerr, &ee) {
			fmt.Fprintln(os.Stderr, ee.Error())
			return &ExitError{Code: ExitEncodeError, Err: nil}
		}
		return &ExitError{Code: ExitEncodeError, Err: eerr}
	}

	if res.Overshot {
		fmt.Fprintf(os.Stderr, "warning: output size (%s) exceeds target (%s) by more than 10%%\n",
			format.HumanizeBytes(res.Output.Bytes), format.HumanizeBytes(req.TargetBytes))
	}

	fmt.Printf("Saved: %s (%s)\n", res.Output.OutputPath, format.HumanizeBytes(res.Output.Bytes))
	return nil
}

// printPlan outputs the computed plan without executing the encode.
func printPlan(cmd *cobra.Command, pl pipeline.Plan, ffprobePath string) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Plan:")
	fmt.Fprintf(w, "- Input:          %s\n", pl.Request.InputPath)
	fmt.Fprintf(w, "- Output:         %s\n", pl.Request.OutputPath)
	if ffprobePath != "" {
		fmt.Fprintf(w, "- FFprobe:        %s\n", ffprobePath)
	}
	if pl.Probe.Known {
		fmt.Fprintf(w, "- Duration:       %.2fs\n", pl.Probe.DurationSec)
	} else {
		fmt.Fprintf(w, "- Duration:       unknown (default bitrate applies)\n")
	}
	fmt.Fprintf(w, "- Target size:    %s\n", format.HumanizeBytes(pl.Request.TargetBytes))
	if pl.Estimated() {
		fmt.Fprintf(w, "- Video bitrate:  %s (estimated)\n", format.HumanizeBitrate(pl.Res.VideoBPS))
	} else {
		fmt.Fprintf(w, "- Video bitrate:  %s (explicit override)\n", format.HumanizeBitrate(pl.Res.VideoBPS))
	}
	fmt.Fprintf(w, "- Audio bitrate:  %s\n", format.HumanizeBitrate(pl.Res.AudioBPS))
	fmt.Fprintf(w, "- Buffer size:    %s\n", format.HumanizeBitrate(pl.Enc.BufsizeBPS))
}
