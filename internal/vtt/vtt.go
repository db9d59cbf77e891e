// Package vtt formats and parses WebVTT cues and timestamps. The same
// HH:MM:SS.mmm representation backs subtitle cues, chapter cues, and
// preview-sprite index cues, so the round-trip (format then parse yields
// the same value to millisecond precision) is shared here rather than
// duplicated per caller.
package vtt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/contentplatform/mediaworker/internal/domain"
)

// FormatTimestamp renders seconds as WebVTT's HH:MM:SS.mmm.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMillis := int64(math.Round(seconds * 1000))
	ms := totalMillis % 1000
	totalSeconds := totalMillis / 1000
	s := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	m := totalMinutes % 60
	h := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// ParseTimestamp parses WebVTT's HH:MM:SS.mmm (or MM:SS.mmm) back to seconds.
func ParseTimestamp(ts string) (float64, error) {
	ts = strings.TrimSpace(ts)
	mainPart, millisPart, hasMillis := strings.Cut(ts, ".")

	fields := strings.Split(mainPart, ":")
	var h, m, s int64
	var err error
	switch len(fields) {
	case 3:
		h, err = strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse hours in %q: %w", ts, err)
		}
		m, err = strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse minutes in %q: %w", ts, err)
		}
		s, err = strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse seconds in %q: %w", ts, err)
		}
	case 2:
		m, err = strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse minutes in %q: %w", ts, err)
		}
		s, err = strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse seconds in %q: %w", ts, err)
		}
	default:
		return 0, fmt.Errorf("malformed timestamp %q", ts)
	}

	var ms int64
	if hasMillis {
		millisPart = (millisPart + "000")[:3]
		ms, err = strconv.ParseInt(millisPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse milliseconds in %q: %w", ts, err)
		}
	}

	total := float64(h*3600+m*60+s) + float64(ms)/1000
	return total, nil
}

// Render writes a complete WebVTT document from an ordered cue list.
func Render(cues []domain.VTTCue) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, c := range cues {
		fmt.Fprintf(&b, "%s --> %s\n%s\n\n", FormatTimestamp(c.Start), FormatTimestamp(c.End), c.Payload)
	}
	return b.String()
}

// SpritePayload builds the file#xywh=... fragment for one preview cue.
func SpritePayload(file string, col, row, w, h int) string {
	return fmt.Sprintf("%s#xywh=%d,%d,%d,%d", file, col*w, row*h, w, h)
}

// BuildPreviewCues lays out numThumbs cues across sprite files of
// spritesPerFile tiled spritesAcross wide, each thumbW x thumbH, every cue
// interval seconds long, with the final cue's end capped at duration.
func BuildPreviewCues(files []string, numThumbs, spritesPerFile, spritesAcross, thumbW, thumbH int, interval, duration float64) []domain.VTTCue {
	cues := make([]domain.VTTCue, 0, numThumbs)
	for i := 0; i < numThumbs; i++ {
		fileIdx := i / spritesPerFile
		if fileIdx >= len(files) {
			break
		}
		posInFile := i % spritesPerFile
		col := posInFile % spritesAcross
		row := posInFile / spritesAcross

		start := float64(i) * interval
		end := start + interval
		if i == numThumbs-1 && end > duration {
			end = duration
		}

		cues = append(cues, domain.VTTCue{
			Start:   start,
			End:     end,
			Payload: SpritePayload(files[fileIdx], col, row, thumbW, thumbH),
		})
	}
	return cues
}
