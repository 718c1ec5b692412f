package media

import "testing"

func TestOutputBasename(t *testing.T) {
	tests := []struct {
		name        string
		inputPath   string
		targetBytes int64
		want        string
	}{
		{
			name:        "plain mp4",
			inputPath:   "/videos/holiday clip.mp4",
			targetBytes: 10 * 1024 * 1024,
			want:        "holiday_clip_10MB",
		},
		{
			name:        "no extension",
			inputPath:   "clip",
			targetBytes: 25 * 1024 * 1024,
			want:        "clip_25MB",
		},
		{
			name:        "sub-megabyte target",
			inputPath:   "tiny.mp4",
			targetBytes: 1000,
			want:        "tiny_fit",
		},
		{
			name:        "hostile characters sanitized",
			inputPath:   `/in/we*ird:name?.mov`,
			targetBytes: 10 * 1024 * 1024,
			want:        "we_ird_name_10MB",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputBasename(tt.inputPath, tt.targetBytes); got != tt.want {
				t.Errorf("OutputBasename(%q, %d) = %q, want %q", tt.inputPath, tt.targetBytes, got, tt.want)
			}
		})
	}
}
