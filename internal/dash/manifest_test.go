package dash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/contentplatform/mediaworker/internal/domain"
)

const fakeMPD = `<?xml version="1.0"?>
<MPD>
  <Period>
    <AdaptationSet id="0" contentType="video">
    </AdaptationSet>
    <AdaptationSet id="1" contentType="audio">
    </AdaptationSet>
    <AdaptationSet id="2" contentType="audio">
    </AdaptationSet>
  </Period>
</MPD>
`

func TestPostProcessManifestInsertsLabelsAndRoles(t *testing.T) {
	tracks := []domain.AudioTrack{
		{Language: "eng", Title: "Director's Commentary"},
		{Language: "eng", Title: ""},
	}

	out := PostProcessManifest(fakeMPD, tracks, nil)

	if !strings.Contains(out, "<Label>Director's Commentary</Label>") {
		t.Fatalf("expected commentary label, got:\n%s", out)
	}
	if !strings.Contains(out, `value="commentary"`) {
		t.Fatalf("expected commentary role, got:\n%s", out)
	}
	if !strings.Contains(out, "<Label>eng</Label>") {
		t.Fatalf("expected fallback-to-language label, got:\n%s", out)
	}
}

func TestPostProcessManifestSkipsSingleUntitledTrack(t *testing.T) {
	tracks := []domain.AudioTrack{{Language: "eng", Title: ""}}
	out := PostProcessManifest(fakeMPD, tracks, nil)
	if out != fakeMPD {
		t.Fatalf("expected manifest unchanged for single untitled track")
	}
}

func TestDisambiguateLabelsNumbersDuplicates(t *testing.T) {
	got := disambiguateLabels([]string{"eng", "eng", "eng", "fre"})
	want := []string{"eng", "eng (2)", "eng (3)", "fre"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("label %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestSelectOGPSourcePrefersQuarterResolution(t *testing.T) {
	paths := []string{"output_2160p.webm", "output_1080p.webm", "output_quarter_resolution.webm", "output_480p.webm"}
	chosen, remaining := SelectOGPSource(paths)
	if chosen != "output_quarter_resolution.webm" {
		t.Fatalf("expected quarter_resolution chosen, got %q", chosen)
	}
	if len(remaining) != 3 {
		t.Fatalf("expected 3 remaining, got %d", len(remaining))
	}
}

func TestSelectOGPSourceFallsBackToMidpoint(t *testing.T) {
	paths := []string{"output_2160p.webm", "output_1080p.webm", "output_720p.webm", "output_480p.webm"}
	chosen, remaining := SelectOGPSource(paths)
	if chosen != "output_720p.webm" {
		t.Fatalf("expected midpoint chosen, got %q", chosen)
	}
	if len(remaining) != 3 {
		t.Fatalf("expected 3 remaining, got %d", len(remaining))
	}
}

func TestApplyOGPFallbackRenamesAndDeletesRemainder(t *testing.T) {
	tmp := t.TempDir()
	videoDir := filepath.Join(tmp, "video")
	if err := os.MkdirAll(videoDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	quarter := filepath.Join(tmp, "output_quarter_resolution.webm")
	other := filepath.Join(tmp, "output_1080p.webm")
	for _, p := range []string{quarter, other} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}

	if err := ApplyOGPFallback([]string{other, quarter}, tmp); err != nil {
		t.Fatalf("ApplyOGPFallback: %v", err)
	}

	if _, err := os.Stat(filepath.Join(videoDir, "video.webm")); err != nil {
		t.Fatalf("expected video.webm to exist: %v", err)
	}
	if _, err := os.Stat(other); !os.IsNotExist(err) {
		t.Fatalf("expected remaining intermediate to be deleted")
	}
}
