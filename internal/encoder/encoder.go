// Package encoder invokes ffmpeg to perform the actual transcode.
package encoder

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"mp4fit/internal/model"
	"mp4fit/internal/progress"
	"mp4fit/internal/util"
)

// Options control ffmpeg execution.
type Options struct {
	FFmpegPath string
	Verbose    bool

	// Reporter and JobID feed progress updates to the TUI. When Reporter is
	// nil, ffmpeg runs without -progress and no updates are emitted.
	Reporter progress.Reporter
	JobID    string

	// Runner overrides the subprocess runner (used by tests).
	Runner util.CmdRunner

	// DurationSec lets progress percent be computed; 0 = unknown.
	DurationSec float64
}

// ExitError reports an ffmpeg failure along with the process exit code, if
// the process produced one. Terminated-by-signal runs have no exit code.
type ExitError struct {
	Code    int
	HasCode bool
	Err     error
}

func (e *ExitError) Error() string {
	if e.HasCode {
		return fmt.Sprintf("ffmpeg failed, exit code: %d", e.Code)
	}
	return "ffmpeg failed, exit code unavailable"
}

func (e *ExitError) Unwrap() error { return e.Err }

// Encode runs ffmpeg with the resolved bitrates and returns metadata about
// the resulting file. On failure the returned error wraps an *ExitError;
// any partial output file is left in place, matching ffmpeg's own behavior.
func Encode(ctx context.Context, req model.EncodingRequest, enc model.EncodeOptions, opts Options) (model.OutputVideo, error) {
	if opts.FFmpegPath == "" {
		return model.OutputVideo{}, errors.New("ffmpeg path is required")
	}
	if req.InputPath == "" {
		return model.OutputVideo{}, errors.New("input path is required")
	}
	if req.OutputPath == "" {
		return model.OutputVideo{}, errors.New("output path is required")
	}

	runner := opts.Runner
	if runner == nil {
		runner = util.NewDefaultRunner()
	}

	includeProgress := opts.Reporter != nil
	args := BuildArgs(req, enc, includeProgress)

	spec := util.CmdSpec{
		Path:    opts.FFmpegPath,
		Args:    args,
		Verbose: opts.Verbose,
	}
	if includeProgress {
		ps := &ProgressState{}
		spec.StdoutLine = func(line string) {
			if u, ok := ps.UpdateFromLine(line, opts.JobID, opts.DurationSec); ok {
				opts.Reporter.Update(u)
			}
		}
		spec.StderrLine = func(line string) {
			opts.Reporter.Log(progress.Log{
				JobID:  opts.JobID,
				Stream: progress.StreamStderr,
				Line:   line,
			})
		}
	}

	res, runErr := runner.Run(ctx, spec)
	if runErr != nil {
		return model.OutputVideo{}, &ExitError{
			Code:    res.Code,
			HasCode: res.ExitCodeKnown(),
			Err:     runErr,
		}
	}

	size, err := util.FileSize(req.OutputPath)
	if err != nil {
		return model.OutputVideo{}, fmt.Errorf("stat output: %w", err)
	}

	return model.OutputVideo{
		OutputPath: filepath.Clean(req.OutputPath),
		Bytes:      size,
		VideoBPS:   enc.VideoBPS,
		AudioBPS:   enc.AudioBPS,
	}, nil
}
