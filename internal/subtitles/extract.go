package subtitles

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/contentplatform/mediaworker/internal/domain"
	"github.com/contentplatform/mediaworker/internal/ffmpeg"
)

// Track is one saved subtitle track ready for the captions directory.
type Track struct {
	Name string // base name, no extension
	Path string
}

// ExtractEmbedded remuxes every subtitle stream to its own WebVTT file
// under outputDir, named per TrackName with duplicate disambiguation, and
// drops any zero-byte result.
func ExtractEmbedded(ctx context.Context, exec *ffmpeg.Executor, logger *zap.Logger, inputPath string, streams []domain.SubtitleStream, outputDir string, translationEnabled bool) []Track {
	if len(streams) == 0 {
		return nil
	}

	names := make([]string, len(streams))
	for i, s := range streams {
		names[i] = TrackName(s.Language, s.Title, s.Index, translationEnabled)
	}
	names = DisambiguateNames(names)

	indexes := make([]int, len(streams))
	outputs := make([]string, len(streams))
	for i, s := range streams {
		indexes[i] = s.Index
		outputs[i] = filepath.Join(outputDir, names[i]+".vtt")
	}

	args := ffmpeg.SubtitleExtractArgs(inputPath, indexes, outputs)
	result := exec.Run(ctx, args)
	if !result.Success() {
		logger.Warn("subtitle extraction failed", zap.Error(result.Err), zap.String("stderr", result.Stderr))
		return nil
	}

	var tracks []Track
	for i, out := range outputs {
		info, err := os.Stat(out)
		if err != nil || info.Size() == 0 {
			continue
		}
		tracks = append(tracks, Track{Name: names[i], Path: out})
	}
	return tracks
}

// WriteTrack writes a VTT document to outputDir/name.vtt.
func WriteTrack(outputDir, name, body string) (Track, error) {
	path := filepath.Join(outputDir, name+".vtt")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return Track{}, fmt.Errorf("write track %s: %w", name, err)
	}
	return Track{Name: name, Path: path}, nil
}
