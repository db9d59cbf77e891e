package ffmpeg

import (
	"strings"
	"testing"

	"github.com/contentplatform/mediaworker/internal/domain"
)

func TestBuildAdaptationSetsSingleAudio(t *testing.T) {
	got := buildAdaptationSets(3, 1)
	want := "id=0,streams=v id=1,streams=3"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestBuildAdaptationSetsMultiAudio(t *testing.T) {
	got := buildAdaptationSets(2, 3)
	want := "id=0,streams=v id=1,streams=2 id=2,streams=3 id=3,streams=4"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestDASHAssembleArgsInjectsLanguageMetadata(t *testing.T) {
	videos := []string{"v1080.webm", "v720.webm"}
	audios := []domain.AudioTrack{
		{Path: "eng.webm", Language: "eng", Title: "English"},
		{Path: "cs.webm", Language: "cs"},
	}

	args := DASHAssembleArgs(videos, audios, 4.0, "/out")
	joined := strings.Join(args, " ")

	if !strings.Contains(joined, "language=eng") || !strings.Contains(joined, "title=English") {
		t.Fatalf("expected eng metadata: %v", args)
	}
	if !strings.Contains(joined, "language=cs") {
		t.Fatalf("expected cs language metadata: %v", args)
	}
	if !strings.Contains(joined, "id=1,streams=2 id=2,streams=3") {
		t.Fatalf("expected per-track adaptation sets for 2 audio tracks: %v", args)
	}
	if args[len(args)-1] != "/out/video.mpd" {
		t.Fatalf("expected manifest output last, got %v", args)
	}
}
