package dash

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SelectOGPSource picks the single-file WebM intermediate used for link
// previews: the quarter-resolution rendition if present, otherwise the
// ladder's midpoint rendition. webmPaths is ordered top-to-bottom by
// ladder rank.
func SelectOGPSource(webmPaths []string) (chosen string, remaining []string) {
	for i, p := range webmPaths {
		if strings.HasSuffix(p, "_quarter_resolution.webm") {
			remaining = append(append([]string{}, webmPaths[:i]...), webmPaths[i+1:]...)
			return p, remaining
		}
	}

	if len(webmPaths) == 0 {
		return "", nil
	}

	mid := len(webmPaths) / 2
	remaining = append(append([]string{}, webmPaths[:mid]...), webmPaths[mid+1:]...)
	return webmPaths[mid], remaining
}

// ApplyOGPFallback renames the chosen intermediate into outputDir/video/video.webm
// and deletes every other intermediate WebM file.
func ApplyOGPFallback(webmPaths []string, outputDir string) error {
	chosen, remaining := SelectOGPSource(webmPaths)
	if chosen == "" {
		return fmt.Errorf("no webm intermediate available for OGP fallback")
	}

	dest := filepath.Join(outputDir, "video", "video.webm")
	if err := os.Rename(chosen, dest); err != nil {
		return fmt.Errorf("rename ogp source %s: %w", chosen, err)
	}

	for _, p := range remaining {
		_ = os.Remove(p)
	}
	return nil
}
