// Package preview is the Preview Generator (C7): the seek-preview sprite
// atlas plus its WebVTT cue index, generated up front for the whole
// duration rather than on demand.
package preview

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/contentplatform/mediaworker/internal/ffmpeg"
)

type SpriteConfig struct {
	IntervalSeconds   float64
	ThumbWidth        int
	ThumbHeight       int
	MaxSpritesPerFile int
	SpritesAcross     int
	Quality           int
	ParallelLimit     int
}

type spriteGroup struct {
	index      int
	startTime  float64
	thumbCount int
}

// GenerateSprites builds the full atlas: one Media Tool invocation per
// sprite file, bounded by a permit semaphore of width cfg.ParallelLimit.
// It returns the output paths in atlas order; a failed group is logged and
// dropped rather than aborting its siblings.
func GenerateSprites(ctx context.Context, exec *ffmpeg.Executor, logger *zap.Logger, inputPath string, duration float64, cfg SpriteConfig, outputDir string) []string {
	if duration <= 0 || cfg.IntervalSeconds <= 0 {
		return nil
	}

	numThumbs := int(math.Ceil(duration / cfg.IntervalSeconds))
	if numThumbs <= 0 {
		return nil
	}

	groups := buildGroups(numThumbs, cfg.MaxSpritesPerFile, cfg.IntervalSeconds)

	sem := make(chan struct{}, maxParallel(cfg.ParallelLimit))
	var wg sync.WaitGroup
	results := make([]string, len(groups))

	for _, g := range groups {
		g := g
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			rows := rowsNeeded(g.thumbCount, cfg.SpritesAcross)
			outputPath := filepath.Join(outputDir, fmt.Sprintf("preview_sprite_%d.avif", g.index))
			args := ffmpeg.SpriteTileArgs(inputPath, g.startTime, cfg.IntervalSeconds, cfg.ThumbWidth, cfg.ThumbHeight, cfg.SpritesAcross, rows, cfg.Quality, outputPath)

			result := exec.Run(ctx, args)
			if !result.Success() {
				logger.Warn("sprite group failed", zap.Int("group", g.index), zap.Error(result.Err), zap.String("stderr", result.Stderr))
				return
			}
			results[g.index] = outputPath
		}()
	}
	wg.Wait()

	survivors := make([]string, 0, len(results))
	for _, r := range results {
		if r != "" {
			survivors = append(survivors, r)
		}
	}
	return survivors
}

func buildGroups(numThumbs, maxPerFile int, interval float64) []spriteGroup {
	if maxPerFile <= 0 {
		maxPerFile = numThumbs
	}
	var groups []spriteGroup
	idx := 0
	for start := 0; start < numThumbs; start += maxPerFile {
		count := maxPerFile
		if start+count > numThumbs {
			count = numThumbs - start
		}
		groups = append(groups, spriteGroup{index: idx, startTime: float64(start) * interval, thumbCount: count})
		idx++
	}
	return groups
}

func rowsNeeded(thumbCount, across int) int {
	if across <= 0 {
		across = 1
	}
	return int(math.Ceil(float64(thumbCount) / float64(across)))
}

func maxParallel(limit int) int {
	if limit <= 0 {
		return 1
	}
	return limit
}
