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

const fakeFFprobeAudioOnlyScript = `#!/bin/sh
case "$*" in
  *"-show_chapters"*) echo '{"chapters":[]}' ;;
  *) echo '{"streams":[{"index":0,"codec_name":"mp3","codec_type":"audio","channels":2}],"format":{"duration":"180.0"}}' ;;
esac
`

func TestProcessAudioCommitsOnSuccessfulPrimaryTranscode(t *testing.T) {
	tmp := t.TempDir()
	fakeFFprobe := writeFakeBinary(t, tmp, "ffprobe", fakeFFprobeAudioOnlyScript)
	fakeFFmpeg := writeFakeBinary(t, tmp, "ffmpeg", "#!/bin/sh\nexit 0\n")

	o := New(config.Default(), zap.NewNop(), probe.NewProber(fakeFFprobe, fakeFFmpeg), ffmpeg.NewExecutor(fakeFFmpeg), nil, nil, nil)

	result := o.Process(context.Background(), "audio", "in.mp3", t.TempDir())
	if !result.Committed {
		t.Fatalf("expected commit when the primary audio transcode succeeds")
	}
}

func TestProcessAudioDoesNotCommitOnNoAudioStreams(t *testing.T) {
	tmp := t.TempDir()
	fakeFFprobe := writeFakeBinary(t, tmp, "ffprobe", "#!/bin/sh\necho '{}'\n")
	fakeFFmpeg := writeFakeBinary(t, tmp, "ffmpeg", "#!/bin/sh\nexit 0\n")

	o := New(config.Default(), zap.NewNop(), probe.NewProber(fakeFFprobe, fakeFFmpeg), ffmpeg.NewExecutor(fakeFFmpeg), nil, nil, nil)

	result := o.Process(context.Background(), "audio", "in.bin", t.TempDir())
	if result.Committed {
		t.Fatalf("expected no commit for an input with no audio streams")
	}
}

func TestExtractAlbumCoverRunsWhenAttachedPictureStreamPresent(t *testing.T) {
	tmp := t.TempDir()
	fakeFFprobe := writeFakeBinary(t, tmp, "ffprobe", `#!/bin/sh
case "$*" in
  *"-show_chapters"*) echo '{"chapters":[]}' ;;
  *) echo '{"streams":[{"index":0,"codec_name":"mp3","codec_type":"audio","channels":2},{"index":1,"codec_name":"mjpeg","codec_type":"video","width":500,"height":500}],"format":{"duration":"180.0"}}' ;;
esac
`)
	fakeFFmpeg := writeFakeBinary(t, tmp, "ffmpeg", `#!/bin/sh
for a; do last="$a"; done
touch "$last"
exit 0
`)

	processingDir := t.TempDir()
	o := New(config.Default(), zap.NewNop(), probe.NewProber(fakeFFprobe, fakeFFmpeg), ffmpeg.NewExecutor(fakeFFmpeg), nil, nil, nil)

	result := o.Process(context.Background(), "audio", "in.mp3", processingDir)
	if !result.Committed {
		t.Fatalf("expected commit")
	}
	if _, err := os.Stat(filepath.Join(processingDir, "picture.avif")); err != nil {
		t.Fatalf("expected album cover extraction arm to run: %v", err)
	}
}
