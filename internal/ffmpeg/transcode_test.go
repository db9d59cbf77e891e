package ffmpeg

import (
	"strings"
	"testing"

	"github.com/contentplatform/mediaworker/internal/domain"
)

func TestVideoLadderStepArgsIncludesFilterAndEncoder(t *testing.T) {
	params := domain.EncoderParams{
		DecodeArgs:  []string{"-hwaccel", "cuda"},
		EncodeArgs:  []string{"-c:v", "av1_nvenc", "-b:v", "5000000"},
		FilterGraph: "scale=1920:1080",
	}

	args := VideoLadderStepArgs("in.mp4", params, 30, "out.webm")
	joined := strings.Join(args, " ")

	if !strings.Contains(joined, "-hwaccel cuda") {
		t.Fatalf("expected decode args present: %v", args)
	}
	if !strings.Contains(joined, "scale=1920:1080,fps=fps=30") {
		t.Fatalf("expected fps cap appended to filter: %v", args)
	}
	if args[len(args)-1] != "out.webm" {
		t.Fatalf("expected output path last, got %v", args)
	}
}

func TestVideoLadderStepArgsNoFPSCap(t *testing.T) {
	params := domain.EncoderParams{FilterGraph: "scale=1280:720"}
	args := VideoLadderStepArgs("in.mp4", params, 0, "out.webm")
	joined := strings.Join(args, " ")
	if strings.Contains(joined, "fps=fps=") {
		t.Fatalf("did not expect fps cap: %v", args)
	}
}

func TestPictureTranscodeArgsScalesOnlyWhenTargetSet(t *testing.T) {
	withScale := PictureTranscodeArgs("in.jpg", 24, 1280, 720, "out.avif")
	if !contains(withScale, "force_original_aspect_ratio=decrease") {
		t.Fatalf("expected scale filter: %v", withScale)
	}

	noScale := PictureTranscodeArgs("in.jpg", 24, 0, 0, "out.avif")
	if contains(noScale, "-vf") {
		t.Fatalf("did not expect scale filter: %v", noScale)
	}
}

func contains(args []string, substr string) bool {
	return strings.Contains(strings.Join(args, " "), substr)
}
