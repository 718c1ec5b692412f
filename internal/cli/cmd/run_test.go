package cmd

import (
	"testing"
)

func TestAssembleInputs_Defaults(t *testing.T) {
	cmd := newRunCmd()
	req, opts, err := assembleInputs(cmd, []string{"in.mp4", "out.mp4"})
	if err != nil {
		t.Fatalf("assembleInputs error: %v", err)
	}
	if req.InputPath != "in.mp4" || req.OutputPath != "out.mp4" {
		t.Errorf("paths = %q, %q", req.InputPath, req.OutputPath)
	}
	if req.TargetBytes != 10*1024*1024 {
		t.Errorf("TargetBytes = %d, want 10485760", req.TargetBytes)
	}
	if req.AudioBPS != 64_000 {
		t.Errorf("AudioBPS = %d, want 64000", req.AudioBPS)
	}
	if req.VideoBPSOverride != 0 {
		t.Errorf("VideoBPSOverride = %d, want 0 (auto)", req.VideoBPSOverride)
	}
	if opts.Jobs <= 0 {
		t.Errorf("Jobs = %d, want positive default", opts.Jobs)
	}
}

func TestAssembleInputs_FlagOverrides(t *testing.T) {
	cmd := newRunCmd()
	if err := cmd.Flags().Set("target-bytes", "5242880"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("video-bitrate", "2000000"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("audio-bitrate", "96000"); err != nil {
		t.Fatal(err)
	}
	req, _, err := assembleInputs(cmd, []string{"a", "b"})
	if err != nil {
		t.Fatalf("assembleInputs error: %v", err)
	}
	if req.TargetBytes != 5_242_880 || req.VideoBPSOverride != 2_000_000 || req.AudioBPS != 96_000 {
		t.Errorf("request = %+v", req)
	}
}

func TestAssembleInputs_Validation(t *testing.T) {
	tests := []struct {
		name  string
		flag  string
		value string
	}{
		{name: "zero target", flag: "target-bytes", value: "0"},
		{name: "negative target", flag: "target-bytes", value: "-1"},
		{name: "zero audio", flag: "audio-bitrate", value: "0"},
		{name: "negative video override", flag: "video-bitrate", value: "-500000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRunCmd()
			if err := cmd.Flags().Set(tt.flag, tt.value); err != nil {
				t.Fatal(err)
			}
			if _, _, err := assembleInputs(cmd, []string{"a", "b"}); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
