package subtitles

import (
	"github.com/contentplatform/mediaworker/internal/domain"
	"github.com/contentplatform/mediaworker/internal/vtt"
)

// RenderChapters converts chapter markers to a WebVTT document. Chapters
// with an empty title are dropped; the caller should skip writing
// chapters.vtt when the result is empty.
func RenderChapters(chapters []domain.Chapter) string {
	var cues []domain.VTTCue
	for _, c := range chapters {
		if c.Title == "" {
			continue
		}
		cues = append(cues, domain.VTTCue{Start: c.Start, End: c.End, Payload: c.Title})
	}
	if len(cues) == 0 {
		return ""
	}
	return vtt.Render(cues)
}

// CaptionsList renders captions/list.txt: one saved track name per line.
func CaptionsList(names []string) string {
	if len(names) == 0 {
		return ""
	}
	out := ""
	for _, n := range names {
		out += n + "\n"
	}
	return out
}
