package encoder

import (
	"testing"

	"mp4fit/internal/progress"
)

func TestProgressState_UpdateFromLine(t *testing.T) {
	ps := &ProgressState{}

	// Accumulating lines produce no update until the progress marker.
	for _, line := range []string{"out_time_ms=30000000", "speed=2.1x", "total_size=4096"} {
		if _, ok := ps.UpdateFromLine(line, "job-1", 60); ok {
			t.Errorf("line %q should not emit an update", line)
		}
	}

	u, ok := ps.UpdateFromLine("progress=continue", "job-1", 60)
	if !ok {
		t.Fatal("expected update on progress marker")
	}
	if u.Stage != progress.StageEncoding || u.JobID != "job-1" {
		t.Errorf("update = %+v", u)
	}
	// 30s of 60s
	if u.Percent != 50 {
		t.Errorf("Percent = %v, want 50", u.Percent)
	}
	if u.Speed == nil || *u.Speed != "2.1x" {
		t.Errorf("Speed = %v, want 2.1x", u.Speed)
	}
	if u.Bytes == nil || *u.Bytes != 4096 {
		t.Errorf("Bytes = %v, want 4096", u.Bytes)
	}
}

func TestProgressState_UnknownDuration(t *testing.T) {
	ps := &ProgressState{OutTimeMs: 10_000_000}
	u, ok := ps.UpdateFromLine("progress=continue", "j", 0)
	if !ok {
		t.Fatal("expected update")
	}
	if u.Percent >= 0 {
		t.Errorf("Percent = %v, want negative (unknown)", u.Percent)
	}
}

func TestProgressState_PercentCapped(t *testing.T) {
	ps := &ProgressState{OutTimeMs: 90_000_000} // 90s into a "60s" clip
	u, _ := ps.UpdateFromLine("progress=end", "j", 60)
	if u.Percent != 100 {
		t.Errorf("Percent = %v, want capped at 100", u.Percent)
	}
}

func TestProgressState_IgnoresNoise(t *testing.T) {
	ps := &ProgressState{}
	for _, line := range []string{"", "frame 12", "bitrate=N/A"} {
		if _, ok := ps.UpdateFromLine(line, "j", 10); ok {
			t.Errorf("line %q should not emit an update", line)
		}
	}
}
