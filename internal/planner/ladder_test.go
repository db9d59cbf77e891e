package planner

import (
	"math"
	"testing"

	"github.com/contentplatform/mediaworker/internal/domain"
)

func steps() []domain.QualityStep {
	return []domain.QualityStep{
		{Label: "2160p", Divisor: 1},
		{Label: "1080p", Divisor: 2},
		{Label: "720p", Divisor: 3},
		{Label: "480p", Divisor: 4},
	}
}

func TestGenerateLadderPreservesAspectAndEvenDimensions(t *testing.T) {
	src := domain.VideoStream{Width: 3840, Height: 2160, Bitrate: 15_000_000}
	cfg := LadderConfig{
		Steps:           steps(),
		MinDimension:    240,
		TwoKPixelThresh: 3840 * 2160,
		Bounds: map[int]struct{ Min, Max int }{
			2160: {8_000_000, 20_000_000},
			1080: {2_000_000, 8_000_000},
			720:  {1_000_000, 4_000_000},
		},
	}

	plan := GenerateLadder(src, cfg)
	if len(plan.Steps) == 0 {
		t.Fatalf("expected at least one ladder step")
	}

	srcAspect := float64(src.Width) / float64(src.Height)
	seen := map[[2]int]bool{}
	for _, s := range plan.Steps {
		if s.Width%2 != 0 || s.Height%2 != 0 {
			t.Fatalf("expected even dimensions, got %dx%d", s.Width, s.Height)
		}
		if s.Width < cfg.MinDimension || s.Height < cfg.MinDimension {
			t.Fatalf("dimension below min: %dx%d", s.Width, s.Height)
		}
		gotAspect := float64(s.Width) / float64(s.Height)
		if math.Abs(gotAspect-srcAspect) > aspectEpsilon {
			t.Fatalf("aspect drift too large: got %f want %f", gotAspect, srcAspect)
		}
		key := [2]int{s.Width, s.Height}
		if seen[key] {
			t.Fatalf("duplicate ladder entry %v", key)
		}
		seen[key] = true
	}
}

func TestGenerateLadderSkipsTopStepBelowThreshold(t *testing.T) {
	src := domain.VideoStream{Width: 1920, Height: 1080, Bitrate: 5_000_000}
	cfg := LadderConfig{
		Steps:           steps(),
		MinDimension:    240,
		TwoKPixelThresh: 3840 * 2160,
	}

	plan := GenerateLadder(src, cfg)
	for _, s := range plan.Steps {
		if s.Label == "2160p" {
			t.Fatalf("did not expect 2160p step below threshold, got %+v", plan.Steps)
		}
	}
}

func TestGenerateLadderHDRDetection(t *testing.T) {
	src := domain.VideoStream{Width: 1920, Height: 1080, ColorTransfer: "smpte2084"}
	plan := GenerateLadder(src, LadderConfig{Steps: steps(), MinDimension: 240})
	if !plan.HDR {
		t.Fatalf("expected HDR true for smpte2084 transfer")
	}
}

func TestAudioBitrateForAppliesBonusOnTopStep(t *testing.T) {
	cfg := EncoderSettings{AudioBitrateBase: 128_000, AudioBitrateBonus2K: 64_000}
	if got := AudioBitrateFor(cfg, true); got != 192_000 {
		t.Fatalf("expected bonus applied, got %d", got)
	}
	if got := AudioBitrateFor(cfg, false); got != 128_000 {
		t.Fatalf("expected base only, got %d", got)
	}
}
