package subtitles

import (
	"regexp"
	"strings"

	"github.com/contentplatform/mediaworker/internal/domain"
	"github.com/contentplatform/mediaworker/internal/vtt"
)

var cueTimingRe = regexp.MustCompile(`^\s*([0-9:.]+)\s*-->\s*([0-9:.]+)`)

// ParseCues parses a WebVTT document body into cues using the three-part
// cue grammar: an optional id line, a timing line containing " --> ", one
// or more payload lines, and a blank terminator.
func ParseCues(body string) []domain.VTTCue {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")

	var cues []domain.VTTCue
	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "WEBVTT") {
			i++
			continue
		}

		m := cueTimingRe.FindStringSubmatch(lines[i])
		if m == nil {
			// Optional cue-id line; the timing line follows immediately.
			i++
			if i >= len(lines) {
				break
			}
			m = cueTimingRe.FindStringSubmatch(lines[i])
			if m == nil {
				continue
			}
		}
		i++

		var payload []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			payload = append(payload, lines[i])
			i++
		}

		start, errStart := vtt.ParseTimestamp(m[1])
		end, errEnd := vtt.ParseTimestamp(m[2])
		if errStart != nil || errEnd != nil {
			continue
		}

		cues = append(cues, domain.VTTCue{Start: start, End: end, Payload: strings.Join(payload, "\n")})
	}

	return cues
}

// MergeChunkTranscripts offsets each chunk's cues by its chunk start time
// and concatenates them under a single WEBVTT header, in chunk order.
func MergeChunkTranscripts(chunkBodies []string, boundaries []domain.ChunkBoundary) string {
	var merged []domain.VTTCue
	for i, body := range chunkBodies {
		if i >= len(boundaries) {
			break
		}
		offset := boundaries[i].Start
		for _, c := range ParseCues(body) {
			merged = append(merged, domain.VTTCue{
				Start:   c.Start + offset,
				End:     c.End + offset,
				Payload: c.Payload,
			})
		}
	}
	return vtt.Render(merged)
}
