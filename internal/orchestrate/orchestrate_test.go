package orchestrate

import (
	"testing"

	"go.uber.org/zap"

	"github.com/contentplatform/mediaworker/internal/config"
	"github.com/contentplatform/mediaworker/internal/ffmpeg"
	"github.com/contentplatform/mediaworker/internal/probe"
)

func TestLadderConfigCarriesConfiguredBitrateBounds(t *testing.T) {
	cfg := config.Default()
	o := New(cfg, zap.NewNop(), probe.NewProber("ffprobe", "ffmpeg"), ffmpeg.NewExecutor("ffmpeg"), nil, nil, nil)

	lc := o.ladderConfig()
	for height, want := range cfg.Video.BitrateBounds {
		got, ok := lc.Bounds[height]
		if !ok {
			t.Fatalf("expected bound for height %d to be wired through", height)
		}
		if got.Min != want.Min || got.Max != want.Max {
			t.Fatalf("bound for height %d: got %+v, want %+v", height, got, want)
		}
	}
	if len(lc.Bounds) != len(cfg.Video.BitrateBounds) {
		t.Fatalf("expected %d bounds, got %d", len(cfg.Video.BitrateBounds), len(lc.Bounds))
	}
}
