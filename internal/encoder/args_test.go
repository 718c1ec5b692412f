package encoder

import (
	"strings"
	"testing"

	"mp4fit/internal/model"
)

func TestBuildArgs(t *testing.T) {
	req := model.EncodingRequest{
		InputPath:  "/in/clip.mp4",
		OutputPath: "/out/clip_small.mp4",
	}
	enc := model.EncodeOptions{
		VideoBPS:   649_031,
		AudioBPS:   64_000,
		BufsizeBPS: 649_031 / 4,
		MaxWidth:   640,
		Preset:     "medium",
		CRF:        32,
	}

	args := BuildArgs(req, enc, false)

	if args[len(args)-1] != "/out/clip_small.mp4" {
		t.Errorf("last arg = %q, want output path", args[len(args)-1])
	}
	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-y",
		"-i /in/clip.mp4",
		"-c:v libx264",
		"-preset medium",
		"-b:v 649k",
		"-maxrate 649k",
		"-bufsize 162k",
		"-vf scale='min(640,iw)':-2",
		"-c:a aac",
		"-b:a 64k",
		"-movflags +faststart",
		"-crf 32",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q:\n%s", want, joined)
		}
	}
	if strings.Contains(joined, "-progress") {
		t.Errorf("unexpected -progress without reporter: %s", joined)
	}
}

func TestBuildArgs_Progress(t *testing.T) {
	args := BuildArgs(model.EncodingRequest{InputPath: "a", OutputPath: "b"}, model.EncodeOptions{
		VideoBPS: 500_000,
		AudioBPS: 64_000,
	}, true)
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-progress pipe:1") || !strings.Contains(joined, "-nostats") {
		t.Errorf("args missing progress flags: %s", joined)
	}
	// Output path stays last even with progress flags appended.
	if args[len(args)-1] != "b" {
		t.Errorf("last arg = %q, want %q", args[len(args)-1], "b")
	}
}

func TestBuildArgs_Defaults(t *testing.T) {
	// Zero-valued policy fields pick up the fixed defaults.
	args := BuildArgs(model.EncodingRequest{InputPath: "a", OutputPath: "b"}, model.EncodeOptions{
		VideoBPS: 500_000,
		AudioBPS: 64_000,
	}, false)
	joined := strings.Join(args, " ")
	for _, want := range []string{"-preset medium", "-crf 32", "scale='min(640,iw)':-2"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing default %q:\n%s", want, joined)
		}
	}
}
