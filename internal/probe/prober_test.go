package probe

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write script %s: %v", name, err)
	}
}

func TestProbeParsesStreamsAndDegradesOnFailure(t *testing.T) {
	tmp := t.TempDir()
	writeScript(t, tmp, "ffprobe", fakeFFprobeJSON)
	writeScript(t, tmp, "ffmpeg", "#!/bin/sh\nexit 1\n")

	p := NewProber(filepath.Join(tmp, "ffprobe"), filepath.Join(tmp, "ffmpeg"))

	result := p.Probe(context.Background(), "input.mp4")
	if result.Duration != 120.5 {
		t.Fatalf("expected duration 120.5, got %f", result.Duration)
	}
	if result.Video == nil || result.Video.Width != 1920 {
		t.Fatalf("expected video stream parsed, got %+v", result.Video)
	}
	if len(result.Audios) != 1 || result.Audios[0].Language != "eng" {
		t.Fatalf("expected one eng audio stream, got %+v", result.Audios)
	}
}

func TestProbeDegradesToEmptyOnBadOutput(t *testing.T) {
	tmp := t.TempDir()
	writeScript(t, tmp, "ffprobe", "#!/bin/sh\necho not-json\n")
	writeScript(t, tmp, "ffmpeg", "#!/bin/sh\nexit 1\n")

	p := NewProber(filepath.Join(tmp, "ffprobe"), filepath.Join(tmp, "ffmpeg"))
	result := p.Probe(context.Background(), "input.mp4")
	if result.Video != nil || result.Duration != 0 {
		t.Fatalf("expected empty probe on bad output, got %+v", result)
	}
}

func TestDetectSilenceParsesAndOffsetsTimestamps(t *testing.T) {
	tmp := t.TempDir()
	writeScript(t, tmp, "ffmpeg", fakeFFmpegSilencedetect)
	writeScript(t, tmp, "ffprobe", "#!/bin/sh\nexit 1\n")

	p := NewProber(filepath.Join(tmp, "ffprobe"), filepath.Join(tmp, "ffmpeg"))
	intervals := p.DetectSilence(context.Background(), "input.wav", 100.0, 220.0, -30, 0.5)

	if len(intervals) != 1 {
		t.Fatalf("expected one silence interval, got %v", intervals)
	}
	if intervals[0].Start != 105.0 || intervals[0].End != 108.2 {
		t.Fatalf("expected offset timestamps, got %+v", intervals[0])
	}
}

const fakeFFprobeJSON = `#!/bin/sh
cat <<'EOF'
{
  "streams": [
    {"index": 0, "codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "r_frame_rate": "30/1", "bit_rate": "5000000"},
    {"index": 1, "codec_type": "audio", "codec_name": "aac", "channels": 2, "bit_rate": "128000", "tags": {"language": "eng"}}
  ],
  "format": {"duration": "120.5"}
}
EOF
`

const fakeFFmpegSilencedetect = `#!/bin/sh
>&2 echo "[silencedetect @ 0x0] silence_start: 5.0"
>&2 echo "[silencedetect @ 0x0] silence_end: 8.2 | silence_duration: 3.2"
exit 0
`
