package prober

import (
	"context"
	"errors"
	"testing"

	"mp4fit/internal/util"
)

type fakeRunner struct {
	lastSpec util.CmdSpec
	res      util.CmdResult
	err      error
}

func (f *fakeRunner) Run(_ context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	f.lastSpec = spec
	return f.res, f.err
}

func TestProbe_Success(t *testing.T) {
	fr := &fakeRunner{res: util.CmdResult{Stdout: []byte("123.456\n"), Code: 0}}
	got := Probe(context.Background(), "/in/a.mp4", Options{FFprobePath: "/bin/ffprobe", Runner: fr})
	if !got.Known {
		t.Fatalf("expected known duration, got %+v", got)
	}
	if got.DurationSec != 123.456 {
		t.Errorf("DurationSec = %v, want 123.456", got.DurationSec)
	}
	if fr.lastSpec.Path != "/bin/ffprobe" {
		t.Errorf("ran %q, want /bin/ffprobe", fr.lastSpec.Path)
	}
	// The probed file must be the last argument.
	if n := len(fr.lastSpec.Args); n == 0 || fr.lastSpec.Args[n-1] != "/in/a.mp4" {
		t.Errorf("args = %v, want trailing input path", fr.lastSpec.Args)
	}
}

func TestProbe_FailuresCollapseToUnknown(t *testing.T) {
	tests := []struct {
		name string
		res  util.CmdResult
		err  error
	}{
		{name: "runner error", err: errors.New("exec: ffprobe not found")},
		{name: "non-zero exit", res: util.CmdResult{Code: 1, Stderr: []byte("no such file")}},
		{name: "empty output", res: util.CmdResult{Stdout: nil, Code: 0}},
		{name: "N/A output", res: util.CmdResult{Stdout: []byte("N/A\n"), Code: 0}},
		{name: "unparseable output", res: util.CmdResult{Stdout: []byte("three seconds\n"), Code: 0}},
		{name: "zero duration", res: util.CmdResult{Stdout: []byte("0\n"), Code: 0}},
		{name: "negative duration", res: util.CmdResult{Stdout: []byte("-2.5\n"), Code: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fr := &fakeRunner{res: tt.res, err: tt.err}
			got := Probe(context.Background(), "x.mp4", Options{Runner: fr})
			if got.Known || got.DurationSec != 0 {
				t.Errorf("Probe() = %+v, want unknown", got)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in        string
		want      float64
		wantKnown bool
	}{
		{"100\n", 100, true},
		{"  59.94  ", 59.94, true},
		{"", 0, false},
		{"N/A", 0, false},
		{"inf", 0, false}, // ParseFloat accepts inf but it is not a usable duration
	}
	for _, tt := range tests {
		got := parseDuration(tt.in)
		if got.Known != tt.wantKnown || (tt.wantKnown && got.DurationSec != tt.want) {
			t.Errorf("parseDuration(%q) = %+v, want known=%v dur=%v", tt.in, got, tt.wantKnown, tt.want)
		}
	}
}
