package model

// Default values for an EncodingRequest. These are policy constants matching
// the CLI flag defaults, not derived from media properties.
const (
	DefaultTargetBytes = 10 * 1024 * 1024 // 10 MB
	DefaultAudioBPS    = 64_000
)

// EncodingRequest describes a single shrink job: where the media comes from,
// where the result goes, and the size/bitrate constraints.
type EncodingRequest struct {
	InputPath   string
	OutputPath  string
	TargetBytes int64 // Target output size in bytes; must be positive.
	AudioBPS    int64 // Audio bitrate in bits/second; must be positive.

	// VideoBPSOverride forces the video bitrate instead of estimating it
	// from duration and target size. 0 means "estimate". An override is
	// passed to ffmpeg unchanged, with no feasibility check against the
	// target size.
	VideoBPSOverride int64
}

// ResolvedBitrates holds the bitrates actually handed to the encoder.
type ResolvedBitrates struct {
	VideoBPS int64
	AudioBPS int64
}

// EncodeOptions controls the ffmpeg invocation for one encode.
type EncodeOptions struct {
	VideoBPS   int64  // Target and max video bitrate (bps).
	AudioBPS   int64  // AAC audio bitrate (bps).
	BufsizeBPS int64  // Rate-control buffer size (bps); callers derive this from VideoBPS.
	MaxWidth   int    // Output width cap in pixels; scaled proportionally, even dimensions.
	Preset     string // x264 preset, e.g. "medium".
	CRF        int    // Constant rate factor used alongside the bitrate cap.
}

// OutputVideo captures the result of a completed encode.
type OutputVideo struct {
	OutputPath string
	Bytes      int64
	VideoBPS   int64
	AudioBPS   int64
}

// CLIOptions holds user-configurable runtime options as parsed from flags.
type CLIOptions struct {
	TargetBytes      int64 // Target output size per file, in bytes.
	AudioBPS         int64 // Audio bitrate in bps.
	VideoBPSOverride int64 // 0 = auto-estimate.

	OutDir      string // Output directory for batch (TUI) mode.
	FFmpegPath  string // Optional explicit path to ffmpeg.
	FFprobePath string // Optional explicit path to ffprobe.
	Verbose     bool
	Jobs        int // Max concurrent jobs for TUI
}
