// Package subtitles is the Subtitle & Chapter Pipeline (C5): embedded
// extraction, STT fallback with silence-aware chunking, optional
// translation, and chapter-to-VTT conversion.
package subtitles

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/contentplatform/mediaworker/internal/domain"
)

// SilenceWindow is one search window dispatched to the Probe Facade during
// windowed silence detection.
type SilenceWindow struct {
	Start float64
	End   float64
}

// BuildSilenceWindows computes the candidate search windows around every
// multiple of targetChunkSecs up to duration, then merges windows that
// overlap or lie within 30s of each other.
func BuildSilenceWindows(duration, targetChunkSecs, maxChunkSecs float64) []SilenceWindow {
	if targetChunkSecs <= 0 || duration <= targetChunkSecs {
		return nil
	}

	var windows []SilenceWindow
	for k := 1; float64(k)*targetChunkSecs < duration; k++ {
		candidate := float64(k) * targetChunkSecs
		start := math.Max(0, candidate-120)
		end := math.Min(duration, candidate+(maxChunkSecs-targetChunkSecs)+60)
		windows = append(windows, SilenceWindow{Start: start, End: end})
	}

	return mergeWindows(windows)
}

func mergeWindows(windows []SilenceWindow) []SilenceWindow {
	if len(windows) == 0 {
		return nil
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].Start < windows[j].Start })

	merged := []SilenceWindow{windows[0]}
	for _, w := range windows[1:] {
		last := &merged[len(merged)-1]
		if w.Start <= last.End+30 {
			if w.End > last.End {
				last.End = w.End
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}

// DetectSilenceFunc is the Probe Facade's windowed silence detector,
// injected so the chunking logic can be tested without a Media Tool.
type DetectSilenceFunc func(ctx context.Context, windowStart, windowEnd float64) []domain.SilenceInterval

// DetectWindowedSilence dispatches each window to detect concurrently,
// bounded by a permit semaphore of width parallelLimit, then concatenates,
// sorts, and merges touching intervals.
func DetectWindowedSilence(ctx context.Context, windows []SilenceWindow, detect DetectSilenceFunc, parallelLimit int) []domain.SilenceInterval {
	if len(windows) == 0 {
		return nil
	}
	if parallelLimit <= 0 {
		parallelLimit = 1
	}

	sem := make(chan struct{}, parallelLimit)
	var wg sync.WaitGroup
	results := make([][]domain.SilenceInterval, len(windows))

	for i, w := range windows {
		i, w := i, w
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = detect(ctx, w.Start, w.End)
		}()
	}
	wg.Wait()

	var all []domain.SilenceInterval
	for _, r := range results {
		all = append(all, r...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Start < all[j].Start })

	return mergeSilences(all)
}

func mergeSilences(intervals []domain.SilenceInterval) []domain.SilenceInterval {
	if len(intervals) == 0 {
		return nil
	}
	merged := []domain.SilenceInterval{intervals[0]}
	for _, iv := range intervals[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End+0.1 {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// ComputeSplitPoints walks forward from 0, at each step picking the
// silence interval within [target-60, min(cur+max, duration)] whose
// midpoint is closest to cur+target; falling back to a hard cut at
// min(cur+max, duration) when no silence qualifies. A tail split leaving
// less than 30s of residual audio is dropped.
func ComputeSplitPoints(duration, targetChunkSecs, maxChunkSecs float64, silences []domain.SilenceInterval) []domain.ChunkBoundary {
	if duration <= 0 {
		return nil
	}
	if targetChunkSecs <= 0 || duration <= targetChunkSecs {
		return []domain.ChunkBoundary{{Start: 0, End: duration}}
	}

	var boundaries []domain.ChunkBoundary
	cur := 0.0

	for cur+targetChunkSecs < duration {
		target := cur + targetChunkSecs
		maxEnd := cur + maxChunkSecs
		searchLow := math.Max(target-60, cur+60)
		searchHigh := math.Min(maxEnd, duration)

		split := pickSplit(silences, searchLow, searchHigh, target)
		if split <= cur {
			split = searchHigh
		}

		if duration-split < 30 {
			break
		}

		boundaries = append(boundaries, domain.ChunkBoundary{Start: cur, End: split})
		cur = split
	}

	boundaries = append(boundaries, domain.ChunkBoundary{Start: cur, End: duration})
	return boundaries
}

func pickSplit(silences []domain.SilenceInterval, low, high, target float64) float64 {
	best := -1.0
	bestDist := math.Inf(1)
	for _, s := range silences {
		mid := (s.Start + s.End) / 2
		if mid < low || mid > high {
			continue
		}
		dist := math.Abs(mid - target)
		if dist < bestDist {
			bestDist = dist
			best = mid
		}
	}
	if best < 0 {
		return high
	}
	return best
}
