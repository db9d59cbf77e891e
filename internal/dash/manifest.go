// Package dash post-processes a generated DASH manifest (C6): inject a
// <Label> and an appropriate <Role> into each audio AdaptationSet so
// players can distinguish tracks that share a language or carry no
// metadata at all.
package dash

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/contentplatform/mediaworker/internal/domain"
)

const commentaryKeyword = "commentary"

// PostProcessManifest rewrites mpdContent, inserting a Label and Role
// element immediately after each audio AdaptationSet's opening tag. Tracks
// are matched to AdaptationSets strictly in order. A single untitled audio
// track needs no disambiguation and is passed through unchanged.
func PostProcessManifest(mpdContent string, tracks []domain.AudioTrack, logger *zap.Logger) string {
	if len(tracks) <= 1 && allTitlesEmpty(tracks) {
		return mpdContent
	}

	labels := disambiguateLabels(rawLabels(tracks))

	var result strings.Builder
	result.Grow(len(mpdContent) + 512)

	audioIdx := 0
	for _, line := range strings.Split(mpdContent, "\n") {
		result.WriteString(line)
		result.WriteString("\n")

		if !isAudioAdaptationSetOpenTag(line) {
			continue
		}
		if audioIdx >= len(tracks) {
			continue
		}

		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		childIndent := indent + "  "
		title := tracks[audioIdx].Title
		label := labels[audioIdx]

		fmt.Fprintf(&result, "%s<Label>%s</Label>\n", childIndent, label)

		switch {
		case strings.Contains(strings.ToLower(title), commentaryKeyword):
			fmt.Fprintf(&result, "%s<Role schemeIdUri=\"urn:mpeg:dash:role:2011\" value=\"commentary\"/>\n", childIndent)
		case len(tracks) > 1 && audioIdx == 0:
			fmt.Fprintf(&result, "%s<Role schemeIdUri=\"urn:mpeg:dash:role:2011\" value=\"main\"/>\n", childIndent)
		}

		audioIdx++
	}

	if audioIdx != len(tracks) && logger != nil {
		logger.Warn("dash manifest audio track count mismatch",
			zap.Int("expected", len(tracks)),
			zap.Int("found", audioIdx),
		)
	}

	return result.String()
}

func allTitlesEmpty(tracks []domain.AudioTrack) bool {
	for _, t := range tracks {
		if t.Title != "" {
			return false
		}
	}
	return true
}

func rawLabels(tracks []domain.AudioTrack) []string {
	labels := make([]string, len(tracks))
	for i, t := range tracks {
		switch {
		case t.Title != "":
			labels[i] = t.Title
		case t.Language != "":
			labels[i] = t.Language
		default:
			labels[i] = "Track"
		}
	}
	return labels
}

// disambiguateLabels appends " (2)", " (3)", ... to repeated labels via a
// count-then-number two-pass scheme; unique labels are left untouched.
func disambiguateLabels(raw []string) []string {
	total := make(map[string]int, len(raw))
	for _, l := range raw {
		total[l]++
	}

	seen := make(map[string]int, len(raw))
	labels := make([]string, len(raw))
	for i, l := range raw {
		if total[l] <= 1 {
			labels[i] = l
			continue
		}
		seen[l]++
		if seen[l] == 1 {
			labels[i] = l
		} else {
			labels[i] = fmt.Sprintf("%s (%d)", l, seen[l])
		}
	}
	return labels
}

func isAudioAdaptationSetOpenTag(line string) bool {
	return strings.Contains(line, "<AdaptationSet") && strings.Contains(line, `contentType="audio"`)
}
