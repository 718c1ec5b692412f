package media

import (
	"fmt"
	"path/filepath"
	"strings"

	"mp4fit/internal/util"
)

// OutputBasename builds a safe output base filename (without extension) for
// batch mode, derived from the input filename and the size target, e.g.
// "holiday_clip_10MB".
func OutputBasename(inputPath string, targetBytes int64) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = util.SanitizeFilename(base)

	mb := targetBytes / (1024 * 1024)
	if mb <= 0 {
		return base + "_fit"
	}
	return fmt.Sprintf("%s_%dMB", base, mb)
}
