// Package prober extracts media metadata via ffprobe. The only field this
// tool needs is the container duration.
package prober

import (
	"context"
	"math"
	"strconv"
	"strings"

	"mp4fit/internal/util"
)

// Result is the outcome of a duration probe. Known is false whenever the
// duration could not be determined, for any reason.
type Result struct {
	DurationSec float64
	Known       bool
}

// Options controls prober behavior.
type Options struct {
	FFprobePath string // Path to ffprobe binary.
	Verbose     bool
	Runner      util.CmdRunner // Optional; defaults to the os/exec runner.
}

// Probe reads the media duration in seconds from the file at path.
//
// Every failure mode - missing binary, non-zero exit, empty or "N/A" or
// otherwise unparseable output, non-positive value - collapses uniformly to
// Known=false. Callers treat an unknown duration the same as a zero one;
// it is never a hard failure.
func Probe(ctx context.Context, path string, opts Options) Result {
	runner := opts.Runner
	if runner == nil {
		runner = util.NewDefaultRunner()
	}
	ffprobe := opts.FFprobePath
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}

	res, err := runner.Run(ctx, util.CmdSpec{
		Path: ffprobe,
		Args: []string{
			"-v", "error",
			"-show_entries", "format=duration",
			"-of", "default=noprint_wrappers=1:nokey=1",
			path,
		},
		Verbose:       opts.Verbose,
		CaptureStdout: true,
	})
	if err != nil || res.Code != 0 {
		return Result{}
	}
	return parseDuration(string(res.Stdout))
}

func parseDuration(out string) Result {
	s := strings.TrimSpace(out)
	if s == "" || s == "N/A" {
		return Result{}
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(d, 0) || math.IsNaN(d) || d <= 0 {
		return Result{}
	}
	return Result{DurationSec: d, Known: true}
}
