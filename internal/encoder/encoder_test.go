package encoder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mp4fit/internal/model"
	"mp4fit/internal/util"
)

type fakeRunner struct {
	lastSpec   util.CmdSpec
	res        util.CmdResult
	err        error
	outputSize int64
}

func (f *fakeRunner) Run(_ context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	f.lastSpec = spec
	if f.err == nil && f.outputSize > 0 {
		outputPath := spec.Args[len(spec.Args)-1]
		if mkErr := os.MkdirAll(filepath.Dir(outputPath), 0o755); mkErr != nil {
			return util.CmdResult{}, mkErr
		}
		if wErr := os.WriteFile(outputPath, make([]byte, f.outputSize), 0o644); wErr != nil {
			return util.CmdResult{}, wErr
		}
	}
	return f.res, f.err
}

func TestEncode_Success(t *testing.T) {
	tmp := t.TempDir()
	out := filepath.Join(tmp, "out.mp4")
	fr := &fakeRunner{outputSize: 2048}

	req := model.EncodingRequest{InputPath: "/in/a.mp4", OutputPath: out}
	enc := model.EncodeOptions{VideoBPS: 649_031, AudioBPS: 64_000, BufsizeBPS: 162_257}

	got, err := Encode(context.Background(), req, enc, Options{
		FFmpegPath: "/bin/ffmpeg",
		Runner:     fr,
	})
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if got.Bytes != 2048 {
		t.Errorf("Bytes = %d, want 2048", got.Bytes)
	}
	if got.VideoBPS != 649_031 || got.AudioBPS != 64_000 {
		t.Errorf("bitrates not propagated: %+v", got)
	}
	if fr.lastSpec.Path != "/bin/ffmpeg" {
		t.Errorf("ran %q, want /bin/ffmpeg", fr.lastSpec.Path)
	}
}

func TestEncode_FailureCarriesExitCode(t *testing.T) {
	fr := &fakeRunner{
		res: util.CmdResult{Code: 187},
		err: errors.New("command failed (exit 187)"),
	}
	_, err := Encode(context.Background(),
		model.EncodingRequest{InputPath: "a", OutputPath: "b"},
		model.EncodeOptions{VideoBPS: 500_000, AudioBPS: 64_000},
		Options{FFmpegPath: "/bin/ffmpeg", Runner: fr},
	)
	var ee *ExitError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *ExitError, got %v", err)
	}
	if !ee.HasCode || ee.Code != 187 {
		t.Errorf("ExitError = %+v, want code 187", ee)
	}
	if ee.Error() != "ffmpeg failed, exit code: 187" {
		t.Errorf("Error() = %q", ee.Error())
	}
}

func TestEncode_FailureWithoutExitCode(t *testing.T) {
	// Terminated by signal: no exit code is available.
	fr := &fakeRunner{
		res: util.CmdResult{Code: -1},
		err: errors.New("command failed (exit code unavailable): signal: killed"),
	}
	_, err := Encode(context.Background(),
		model.EncodingRequest{InputPath: "a", OutputPath: "b"},
		model.EncodeOptions{VideoBPS: 500_000, AudioBPS: 64_000},
		Options{FFmpegPath: "/bin/ffmpeg", Runner: fr},
	)
	var ee *ExitError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *ExitError, got %v", err)
	}
	if ee.HasCode {
		t.Errorf("HasCode = true, want false: %+v", ee)
	}
	if ee.Error() != "ffmpeg failed, exit code unavailable" {
		t.Errorf("Error() = %q", ee.Error())
	}
}

func TestEncode_MissingPaths(t *testing.T) {
	base := model.EncodingRequest{InputPath: "a", OutputPath: "b"}
	enc := model.EncodeOptions{VideoBPS: 500_000, AudioBPS: 64_000}

	if _, err := Encode(context.Background(), base, enc, Options{}); err == nil {
		t.Error("expected error for missing ffmpeg path")
	}
	if _, err := Encode(context.Background(), model.EncodingRequest{OutputPath: "b"}, enc, Options{FFmpegPath: "f"}); err == nil {
		t.Error("expected error for missing input path")
	}
	if _, err := Encode(context.Background(), model.EncodingRequest{InputPath: "a"}, enc, Options{FFmpegPath: "f"}); err == nil {
		t.Error("expected error for missing output path")
	}
}
