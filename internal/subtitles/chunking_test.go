package subtitles

import (
	"context"
	"testing"

	"github.com/contentplatform/mediaworker/internal/domain"
)

func TestBuildSilenceWindowsMergesOverlapping(t *testing.T) {
	windows := BuildSilenceWindows(1000, 300, 360)
	if len(windows) == 0 {
		t.Fatalf("expected some windows for a long file")
	}
	for i := 1; i < len(windows); i++ {
		if windows[i].Start < windows[i-1].End {
			t.Fatalf("expected merged windows to be non-overlapping, got %+v", windows)
		}
	}
}

func TestBuildSilenceWindowsEmptyForShortFile(t *testing.T) {
	if got := BuildSilenceWindows(100, 300, 360); got != nil {
		t.Fatalf("expected no windows for file shorter than target chunk, got %v", got)
	}
}

func TestDetectWindowedSilenceMergesAndSorts(t *testing.T) {
	windows := []SilenceWindow{{Start: 0, End: 100}, {Start: 100, End: 200}}
	detect := func(ctx context.Context, start, end float64) []domain.SilenceInterval {
		if start == 0 {
			return []domain.SilenceInterval{{Start: 50, End: 50.05}}
		}
		return []domain.SilenceInterval{{Start: 150, End: 150.1}}
	}

	result := DetectWindowedSilence(context.Background(), windows, detect, 2)
	if len(result) != 2 {
		t.Fatalf("expected 2 distinct silence intervals, got %+v", result)
	}
	if result[0].Start != 50 || result[1].Start != 150 {
		t.Fatalf("expected sorted intervals, got %+v", result)
	}
}

func TestComputeSplitPointsCoversWholeDurationWithoutGaps(t *testing.T) {
	silences := []domain.SilenceInterval{
		{Start: 299, End: 301},
		{Start: 598, End: 602},
	}
	boundaries := ComputeSplitPoints(900, 300, 360, silences)

	if boundaries[0].Start != 0 {
		t.Fatalf("expected first boundary to start at 0, got %+v", boundaries[0])
	}
	if boundaries[len(boundaries)-1].End != 900 {
		t.Fatalf("expected last boundary to end at duration, got %+v", boundaries[len(boundaries)-1])
	}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i].Start != boundaries[i-1].End {
			t.Fatalf("expected contiguous boundaries, got %+v", boundaries)
		}
	}
}

func TestComputeSplitPointsSingleChunkWhenShort(t *testing.T) {
	boundaries := ComputeSplitPoints(120, 300, 360, nil)
	if len(boundaries) != 1 || boundaries[0] != (domain.ChunkBoundary{Start: 0, End: 120}) {
		t.Fatalf("expected single chunk for short file, got %+v", boundaries)
	}
}
