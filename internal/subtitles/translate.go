package subtitles

import (
	"context"
	"fmt"
	"strings"

	"github.com/contentplatform/mediaworker/internal/domain"
	"github.com/contentplatform/mediaworker/internal/vtt"
)

const (
	translationTemperature = 0.1
	translationNPredict    = 256
)

var listMarkerPrefixes = []string{"1.", "1)", "-", "*"}

// TranslateCues translates every cue's payload independently via the LLM
// Service. A failed or empty response preserves the original cue text
// rather than failing the whole track.
func TranslateCues(ctx context.Context, llm domain.LLMClient, cues []domain.VTTCue, targetLanguage string) []domain.VTTCue {
	out := make([]domain.VTTCue, len(cues))
	for i, c := range cues {
		translated := translateOne(ctx, llm, c.Payload, targetLanguage)
		out[i] = domain.VTTCue{Start: c.Start, End: c.End, Payload: translated}
	}
	return out
}

func translateOne(ctx context.Context, llm domain.LLMClient, text, targetLanguage string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	prompt := fmt.Sprintf("### Instruction:\nTranslate the following subtitle line to %s. Reply with only the translation.\n### Input:\n%s\n### Response:\n", targetLanguage, text)

	resp, err := llm.Complete(ctx, prompt, translationNPredict, translationTemperature, []string{"###", "\n\n"}, true)
	if err != nil {
		return text
	}

	extracted := extractTranslation(resp)
	if extracted == "" {
		return text
	}
	return extracted
}

// extractTranslation strips a preamble line ending in a colon, then takes
// the first remaining non-empty line, trimming list markers like "1.",
// "1)", "-", or "*".
func extractTranslation(resp string) string {
	lines := strings.Split(strings.TrimSpace(resp), "\n")
	if len(lines) == 0 {
		return ""
	}

	if strings.HasSuffix(strings.TrimSpace(lines[0]), ":") && len(lines) > 1 {
		lines = lines[1:]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, prefix := range listMarkerPrefixes {
			if strings.HasPrefix(line, prefix) {
				line = strings.TrimSpace(strings.TrimPrefix(line, prefix))
			}
		}
		return line
	}
	return ""
}

// RenderTranslated renders a translated cue set back to a WebVTT document.
func RenderTranslated(cues []domain.VTTCue) string {
	return vtt.Render(cues)
}
