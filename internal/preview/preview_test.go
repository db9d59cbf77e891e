package preview

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/contentplatform/mediaworker/internal/ffmpeg"
)

func TestGenerateSpritesGroupsAndToleratesFailure(t *testing.T) {
	tmp := t.TempDir()
	fake := filepath.Join(tmp, "ffmpeg")
	script := `#!/bin/sh
for a in "$@"; do
  case "$a" in
    */preview_sprite_1.avif) exit 1 ;;
  esac
  out="$a"
done
touch "$out"
`
	if err := os.WriteFile(fake, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}

	exec := ffmpeg.NewExecutor(fake)
	logger := zap.NewNop()
	cfg := SpriteConfig{
		IntervalSeconds:   5,
		ThumbWidth:        160,
		ThumbHeight:       90,
		MaxSpritesPerFile: 2,
		SpritesAcross:     2,
		Quality:           5,
		ParallelLimit:     2,
	}

	outputs := GenerateSprites(context.Background(), exec, logger, "input.mp4", 25.0, cfg, tmp)

	if len(outputs) == 0 {
		t.Fatalf("expected some sprite outputs to survive")
	}
	for _, o := range outputs {
		if filepath.Base(o) == "preview_sprite_1.avif" {
			t.Fatalf("expected failed group 1 to be excluded from survivors")
		}
	}
}

func TestBuildGroupsSplitsByMaxPerFile(t *testing.T) {
	groups := buildGroups(7, 3, 5.0)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[1].startTime != 15.0 {
		t.Fatalf("expected second group start at 15.0, got %v", groups[1].startTime)
	}
	if groups[2].thumbCount != 1 {
		t.Fatalf("expected last group to have the remainder (1), got %d", groups[2].thumbCount)
	}
}
