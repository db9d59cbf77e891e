package classify

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFakeFFprobe(t *testing.T, dir, script string) string {
	t.Helper()
	path := filepath.Join(dir, "ffprobe")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffprobe: %v", err)
	}
	return path
}

func writeInput(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func TestDetectPDFByMagicBytes(t *testing.T) {
	tmp := t.TempDir()
	input := writeInput(t, tmp, "doc.pdf", []byte("%PDF-1.7\n..."))
	c := NewClassifier("ffprobe-should-not-be-called")

	if got := c.Detect(context.Background(), input); got != "document_pdf" {
		t.Fatalf("expected document_pdf, got %s", got)
	}
}

func TestDetectNoneWhenNoStreams(t *testing.T) {
	tmp := t.TempDir()
	input := writeInput(t, tmp, "blob.bin", []byte("not a media file"))
	fake := writeFakeFFprobe(t, tmp, "#!/bin/sh\nexit 1\n")
	c := NewClassifier(fake)

	if got := c.Detect(context.Background(), input); got != "none" {
		t.Fatalf("expected none, got %s", got)
	}
}

func TestDetectAudioOnly(t *testing.T) {
	tmp := t.TempDir()
	input := writeInput(t, tmp, "song.mp3", []byte("fake"))
	fake := writeFakeFFprobe(t, tmp, `#!/bin/sh
case "$*" in
  *"-select_streams v:0"*"codec_type"*) exit 1 ;;
  *"-select_streams a:0"*"codec_type"*) echo audio ;;
esac
`)
	c := NewClassifier(fake)

	if got := c.Detect(context.Background(), input); got != "audio" {
		t.Fatalf("expected audio, got %s", got)
	}
}

func TestDetectCoverArtShortDurationIsAudio(t *testing.T) {
	tmp := t.TempDir()
	input := writeInput(t, tmp, "song.m4a", []byte("fake"))
	fake := writeFakeFFprobe(t, tmp, `#!/bin/sh
case "$*" in
  *"v:0"*"codec_type"*) echo video ;;
  *"a:0"*"codec_type"*) echo audio ;;
  *"format=duration"*) echo 0.5 ;;
esac
`)
	c := NewClassifier(fake)

	if got := c.Detect(context.Background(), input); got != "audio" {
		t.Fatalf("expected audio for short cover-art duration, got %s", got)
	}
}

func TestDetectVideoWithManyFrames(t *testing.T) {
	tmp := t.TempDir()
	input := writeInput(t, tmp, "clip.mp4", []byte("fake"))
	fake := writeFakeFFprobe(t, tmp, `#!/bin/sh
case "$*" in
  *"v:0"*"codec_type"*) echo video ;;
  *"a:0"*"codec_type"*) echo audio ;;
  *"format=duration"*) echo 30.0 ;;
  *"nb_frames"*) echo 900 ;;
esac
`)
	c := NewClassifier(fake)

	if got := c.Detect(context.Background(), input); got != "video" {
		t.Fatalf("expected video, got %s", got)
	}
}

func TestDetectPictureWhenSingleFrameNoAudio(t *testing.T) {
	tmp := t.TempDir()
	input := writeInput(t, tmp, "still.png", []byte("fake"))
	fake := writeFakeFFprobe(t, tmp, `#!/bin/sh
case "$*" in
  *"v:0"*"codec_type"*) echo video ;;
  *"a:0"*"codec_type"*) exit 1 ;;
  *"nb_frames"*) echo 1 ;;
esac
`)
	c := NewClassifier(fake)

	if got := c.Detect(context.Background(), input); got != "picture" {
		t.Fatalf("expected picture, got %s", got)
	}
}

func TestDetectPictureFallsBackToShortDuration(t *testing.T) {
	tmp := t.TempDir()
	input := writeInput(t, tmp, "still2.png", []byte("fake"))
	fake := writeFakeFFprobe(t, tmp, `#!/bin/sh
case "$*" in
  *"v:0"*"codec_type"*) echo video ;;
  *"a:0"*"codec_type"*) exit 1 ;;
  *"nb_frames"*) exit 1 ;;
  *"r_frame_rate"*) exit 1 ;;
  *"format=duration"*) echo 0.05 ;;
esac
`)
	c := NewClassifier(fake)

	if got := c.Detect(context.Background(), input); got != "picture" {
		t.Fatalf("expected picture from short-duration fallback, got %s", got)
	}
}
