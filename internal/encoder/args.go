package encoder

import (
	"fmt"
	"strconv"

	"mp4fit/internal/model"
)

// Fixed encode policy: H.264/AAC, width capped for small output, high CRF,
// metadata moved to the front for progressive playback.
const (
	defaultPreset   = "medium"
	defaultCRF      = 32
	defaultMaxWidth = 640
)

// BuildArgs constructs the ffmpeg argument list for a size-constrained
// re-encode. Bitrates are formatted in kbps; the scale filter caps the
// output width and keeps dimensions even.
func BuildArgs(req model.EncodingRequest, enc model.EncodeOptions, includeProgress bool) []string {
	args := []string{
		"-y",
		"-i", req.InputPath,
		"-c:v", "libx264",
		"-preset", presetOr(enc.Preset),
		"-b:v", kbpsArg(enc.VideoBPS),
		"-maxrate", kbpsArg(enc.VideoBPS),
		"-bufsize", kbpsArg(enc.BufsizeBPS),
		"-vf", scaleFilter(enc.MaxWidth),
		"-c:a", "aac",
		"-b:a", kbpsArg(enc.AudioBPS),
		"-movflags", "+faststart",
		"-crf", strconv.Itoa(crfOr(enc.CRF)),
	}

	if includeProgress {
		args = append(args, "-progress", "pipe:1", "-nostats")
	}

	args = append(args, req.OutputPath)
	return args
}

// scaleFilter caps the output width at maxWidth without upscaling narrower
// input; -2 keeps the height proportional and even (required by yuv420p).
func scaleFilter(maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = defaultMaxWidth
	}
	return fmt.Sprintf("scale='min(%d,iw)':-2", maxWidth)
}

func kbpsArg(bps int64) string {
	return fmt.Sprintf("%dk", bps/1000)
}

func presetOr(s string) string {
	if s == "" {
		return defaultPreset
	}
	return s
}

func crfOr(v int) int {
	if v == 0 {
		return defaultCRF
	}
	return v
}
