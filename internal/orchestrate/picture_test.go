package orchestrate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/contentplatform/mediaworker/internal/config"
	"github.com/contentplatform/mediaworker/internal/ffmpeg"
	"github.com/contentplatform/mediaworker/internal/probe"
)

func TestProcessPictureCommitsWhenFullTranscodeSucceeds(t *testing.T) {
	tmp := t.TempDir()
	fake := writeFakeBinary(t, tmp, "ffmpeg", "#!/bin/sh\nexit 0\n")

	o := New(config.Default(), zap.NewNop(), probe.NewProber("ffprobe-unused", fake), ffmpeg.NewExecutor(fake), nil, nil, nil)

	result := o.Process(context.Background(), "picture", "in.png", t.TempDir())
	if !result.Committed {
		t.Fatalf("expected commit when full avif transcode succeeds")
	}
}

func TestProcessPictureDoesNotCommitWhenFullTranscodeFails(t *testing.T) {
	tmp := t.TempDir()
	fake := writeFakeBinary(t, tmp, "ffmpeg", `#!/bin/sh
for a; do last="$a"; done
case "$last" in
  */picture.avif) exit 1 ;;
  *) touch "$last"; exit 0 ;;
esac
`)

	o := New(config.Default(), zap.NewNop(), probe.NewProber("ffprobe-unused", fake), ffmpeg.NewExecutor(fake), nil, nil, nil)

	processingDir := t.TempDir()
	result := o.Process(context.Background(), "picture", "in.png", processingDir)
	if result.Committed {
		t.Fatalf("expected no commit when the mandatory full avif transcode fails")
	}

	// the two best-effort arms still ran regardless of the mandatory arm's outcome
	if _, err := os.Stat(filepath.Join(processingDir, "thumbnail.jpg")); err != nil {
		t.Fatalf("expected thumbnail.jpg arg list reached ffmpeg: %v", err)
	}
}
