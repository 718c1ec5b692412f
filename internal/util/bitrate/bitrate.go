package bitrate

// Policy constants for single-pass size-constrained encoding. The 15%
// headroom and the clamp bounds compensate for encoder rate-control
// overshoot on small/low-res output; they are fixed, not configurable.
const (
	DefaultVideoBPS int64 = 500_000
	MinVideoBPS     int64 = 200_000
	MaxVideoBPS     int64 = 1_500_000

	sizeHeadroom = 0.85
)

// Estimate calculates the video bitrate (bps) required to land the output
// near targetBytes, given the clip duration and the audio bitrate.
//
// When durationSec is unknown (<= 0), or when the audio stream alone would
// exhaust the headroom-adjusted byte budget, there is no basis for a
// calculation and DefaultVideoBPS is returned. Otherwise the remaining
// budget is spread over the duration and clamped to
// [MinVideoBPS, MaxVideoBPS]. Pure and deterministic.
func Estimate(durationSec float64, targetBytes, audioBPS int64) int64 {
	if durationSec <= 0 {
		return DefaultVideoBPS
	}
	audioBytes := float64(audioBPS) / 8 * durationSec
	reserve := float64(targetBytes)*sizeHeadroom - audioBytes
	if reserve <= 0 {
		return DefaultVideoBPS
	}
	candidate := int64(reserve * 8 / durationSec)
	return Clamp(candidate, MinVideoBPS, MaxVideoBPS)
}

// Resolve returns the video bitrate to encode with. An explicit override
// (> 0) always wins unchanged: it bypasses both the estimate and the clamp,
// and no feasibility check against the target size is performed.
func Resolve(durationSec float64, targetBytes, audioBPS, overrideBPS int64) int64 {
	if overrideBPS > 0 {
		return overrideBPS
	}
	return Estimate(durationSec, targetBytes, audioBPS)
}

// Clamp returns v constrained to [min, max].
func Clamp(v, min, max int64) int64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
