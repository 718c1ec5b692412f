package format

import "testing"

func TestHumanizeBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{10 * 1024 * 1024, "10.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}
	for _, tt := range tests {
		if got := HumanizeBytes(tt.in); got != tt.want {
			t.Errorf("HumanizeBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHumanizeBitrate(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{500, "500 bps"},
		{64_000, "64 kbps"},
		{649_031, "649 kbps"},
		{1_500_000, "1.5 Mbps"},
		{2_000_000, "2.0 Mbps"},
	}
	for _, tt := range tests {
		if got := HumanizeBitrate(tt.in); got != tt.want {
			t.Errorf("HumanizeBitrate(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
