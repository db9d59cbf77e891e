// Package planner computes the resolution/bitrate ladder and the per-backend
// encoder parameter set for one source video (C3, the Encoder Planner).
package planner

import (
	"math"

	"github.com/contentplatform/mediaworker/internal/domain"
)

const aspectEpsilon = 0.01

type bitrateBounds struct {
	min int
	max int
}

// LadderConfig mirrors the configuration file's video.quality_steps plus the
// knobs that govern ladder admission.
type LadderConfig struct {
	Steps           []domain.QualityStep
	MinDimension    int
	TwoKPixelThresh int // only admit the top (2160-class) step when source pixel area is >= this
	FPSCap          float64
	Bounds          map[int]struct{ Min, Max int } // bitrate clamp keyed by target height
}

// GenerateLadder computes the ordered ladder for one source video: every
// step preserves aspect within aspectEpsilon, every dimension is even and
// >= MinDimension, and duplicate (w,h) pairs are dropped. Per-step bitrate
// is estimated from the source bitrate scaled by the pixel-area ratio, then
// clamped to the configured bounds for that resolution tier — the same
// estimate-then-clamp shape as an HLS rendition ladder, generalized to an
// arbitrary scale-divisor ladder instead of a fixed set of target heights.
func GenerateLadder(src domain.VideoStream, cfg LadderConfig) domain.EncodingPlan {
	plan := domain.EncodingPlan{HDR: src.HDR()}
	if src.Width == 0 || src.Height == 0 {
		return plan
	}

	aspect := float64(src.Width) / float64(src.Height)
	srcPixels := src.Width * src.Height
	srcBitrate := src.Bitrate
	if srcBitrate <= 0 {
		srcBitrate = estimateSourceBitrate(src.Height)
	}

	seen := make(map[[2]int]bool)

	for i, step := range cfg.Steps {
		isTopStep := i == 0
		if isTopStep && cfg.TwoKPixelThresh > 0 && srcPixels < cfg.TwoKPixelThresh {
			continue
		}

		width := evenSnap(roundTo(float64(src.Width) / step.Divisor))
		height := evenSnap(roundTo(float64(width) / aspect))

		if width < cfg.MinDimension || height < cfg.MinDimension {
			continue
		}
		if width > src.Width || height > src.Height {
			continue
		}

		gotAspect := float64(width) / float64(height)
		if math.Abs(gotAspect-aspect) > aspectEpsilon {
			continue
		}

		key := [2]int{width, height}
		if seen[key] {
			continue
		}
		seen[key] = true

		ratio := float64(width*height) / float64(srcPixels)
		bitrate := clampBitrate(cfg.Bounds, height, int(float64(srcBitrate)*ratio))

		plan.Steps = append(plan.Steps, domain.LadderStep{
			Label:   step.Label,
			Width:   width,
			Height:  height,
			Bitrate: bitrate,
		})
	}

	return plan
}

func clampBitrate(bounds map[int]struct{ Min, Max int }, height, bitrate int) int {
	b, ok := bounds[height]
	if !ok {
		return bitrate
	}
	if bitrate < b.Min {
		return b.Min
	}
	if bitrate > b.Max {
		return b.Max
	}
	return bitrate
}

func estimateSourceBitrate(height int) int {
	switch {
	case height >= 2160:
		return 15_000_000
	case height >= 1080:
		return 5_000_000
	case height >= 720:
		return 2_500_000
	case height >= 480:
		return 1_200_000
	default:
		return 800_000
	}
}

func roundTo(v float64) float64 {
	return math.Round(v)
}

func evenSnap(v float64) int {
	n := int(v)
	if n%2 != 0 {
		n++
	}
	return n
}
