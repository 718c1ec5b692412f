// Package pipeline provides planning and orchestration for the mp4fit
// workflow: probe duration, resolve bitrates, encode.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"mp4fit/internal/encoder"
	"mp4fit/internal/model"
	"mp4fit/internal/prober"
	"mp4fit/internal/progress"
	"mp4fit/internal/util"
	"mp4fit/internal/util/bitrate"
	"mp4fit/internal/util/format"
)

// Overshoot tolerance: the output may exceed the target by up to 10%
// before a warning is raised.
const overshootTolerance = 1.10

// Service orchestrates the probe → resolve → encode workflow for one file.
type Service struct {
	ffmpegPath  string
	ffprobePath string
	opts        model.CLIOptions
	runner      util.CmdRunner
	reporter    progress.Reporter
	jobID       string
}

// Option configures a Service.
type Option func(*Service)

// WithFFmpegPath sets the ffmpeg binary path.
func WithFFmpegPath(p string) Option {
	return func(s *Service) {
		s.ffmpegPath = p
	}
}

// WithFFprobePath sets the ffprobe binary path.
func WithFFprobePath(p string) Option {
	return func(s *Service) {
		s.ffprobePath = p
	}
}

// WithOptions sets the CLI options used for planning and execution.
func WithOptions(o model.CLIOptions) Option {
	return func(s *Service) {
		s.opts = o
	}
}

// WithRunner injects a custom command runner (useful for testing).
func WithRunner(r util.CmdRunner) Option {
	return func(s *Service) {
		s.runner = r
	}
}

// WithReporter attaches a progress reporter (used by TUI).
func WithReporter(rp progress.Reporter) Option {
	return func(s *Service) {
		s.reporter = rp
	}
}

// WithJobID sets the job ID associated with reporter events.
func WithJobID(id string) Option {
	return func(s *Service) {
		s.jobID = id
	}
}

// NewService constructs a new Service with the provided options.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, o := range opts {
		o(s)
	}
	if s.runner == nil {
		s.runner = util.NewDefaultRunner()
	}
	return s
}

// Plan is the computed encode plan for one request: the probed duration and
// the bitrates that will be passed to ffmpeg.
type Plan struct {
	Request model.EncodingRequest
	Probe   prober.Result
	Res     model.ResolvedBitrates
	Enc     model.EncodeOptions
}

// Estimated reports whether the video bitrate came from the duration-based
// estimate rather than an explicit override.
func (p Plan) Estimated() bool {
	return p.Request.VideoBPSOverride <= 0
}

// Result returns the outcome of RunJob.
type Result struct {
	Plan           Plan
	Output         *model.OutputVideo
	Overshot       bool
	OvershootRatio float64
}

// Plan probes the input duration and resolves the bitrates for the request.
// Probe failures are not errors: they collapse to an unknown duration, which
// resolves to the fixed default video bitrate.
func (s *Service) Plan(ctx context.Context, req model.EncodingRequest) (Plan, error) {
	if req.InputPath == "" {
		return Plan{}, errors.New("input path is required")
	}
	if req.OutputPath == "" {
		return Plan{}, errors.New("output path is required")
	}
	if req.TargetBytes <= 0 {
		return Plan{}, fmt.Errorf("target size must be positive, got %d", req.TargetBytes)
	}
	if req.AudioBPS <= 0 {
		return Plan{}, fmt.Errorf("audio bitrate must be positive, got %d", req.AudioBPS)
	}

	s.emitStage(progress.StageProbing, "Probing duration")

	pr := prober.Probe(ctx, req.InputPath, prober.Options{
		FFprobePath: s.ffprobePath,
		Verbose:     s.opts.Verbose,
		Runner:      s.runner,
	})

	videoBPS := bitrate.Resolve(pr.DurationSec, req.TargetBytes, req.AudioBPS, req.VideoBPSOverride)

	return Plan{
		Request: req,
		Probe:   pr,
		Res: model.ResolvedBitrates{
			VideoBPS: videoBPS,
			AudioBPS: req.AudioBPS,
		},
		Enc: model.EncodeOptions{
			VideoBPS:   videoBPS,
			AudioBPS:   req.AudioBPS,
			BufsizeBPS: videoBPS / 4,
		},
	}, nil
}

// Encode runs ffmpeg for a previously computed plan and finalizes the
// result (size check, reporter events).
func (s *Service) Encode(ctx context.Context, pl Plan) (Result, error) {
	res := Result{Plan: pl}

	if s.ffmpegPath == "" {
		return res, errors.New("ffmpeg path is required")
	}

	out, err := encoder.Encode(ctx, pl.Request, pl.Enc, encoder.Options{
		FFmpegPath:  s.ffmpegPath,
		Verbose:     s.opts.Verbose,
		Reporter:    s.reporter,
		JobID:       s.jobID,
		Runner:      s.runner,
		DurationSec: pl.Probe.DurationSec,
	})
	if err != nil {
		return res, fmt.Errorf("encode: %w", err)
	}

	s.emitSaved(out)

	res.Output = &out
	res.Overshot, res.OvershootRatio = checkOvershoot(out.Bytes, pl.Request.TargetBytes)
	return res, nil
}

// RunJob executes the full pipeline for a single request. It never prints;
// when a Reporter is present, it emits progress and a final Result.
func (s *Service) RunJob(ctx context.Context, req model.EncodingRequest) (Result, error) {
	pl, err := s.Plan(ctx, req)
	if err != nil {
		return Result{}, err
	}
	return s.Encode(ctx, pl)
}

// checkOvershoot determines whether the output size exceeds the target by >10%.
func checkOvershoot(outBytes, targetBytes int64) (bool, float64) {
	if targetBytes <= 0 {
		return false, 0
	}
	ratio := float64(outBytes) / float64(targetBytes)
	return ratio > overshootTolerance, ratio
}

func (s *Service) emitStage(stage progress.Stage, msg string) {
	if s.reporter == nil {
		return
	}
	s.reporter.Update(progress.Update{
		JobID:   s.jobID,
		Stage:   stage,
		Percent: -1,
		Message: msg,
	})
}

// emitSaved sends a final "saved" update and reporter result for TUI.
func (s *Service) emitSaved(out model.OutputVideo) {
	if s.reporter == nil {
		return
	}
	name := filepath.Base(out.OutputPath)
	size := format.HumanizeBytes(out.Bytes)
	s.reporter.Update(progress.Update{
		JobID:   s.jobID,
		Stage:   progress.StageCompleted,
		Percent: 100,
		Message: fmt.Sprintf("Saved: %s (%s)", name, size),
	})
	s.reporter.Result(progress.Result{
		JobID:      s.jobID,
		OutputPath: out.OutputPath,
		Bytes:      out.Bytes,
		Err:        nil,
	})
}
