package subtitles

import (
	"context"
	"errors"
	"testing"

	"github.com/contentplatform/mediaworker/internal/domain"
)

type fakeLLM struct {
	response string
	err      error
}

func (f fakeLLM) Complete(ctx context.Context, prompt string, nPredict int, temperature float64, stop []string, cachePrompt bool) (string, error) {
	return f.response, f.err
}

func TestTranslateCuesUsesLLMResponse(t *testing.T) {
	llm := fakeLLM{response: "Preamble:\n1. Ahoj tam.\n"}
	cues := []domain.VTTCue{{Start: 0, End: 1, Payload: "Hello there."}}

	out := TranslateCues(context.Background(), llm, cues, "Czech")
	if out[0].Payload != "Ahoj tam." {
		t.Fatalf("expected extracted translation, got %q", out[0].Payload)
	}
}

func TestTranslateCuesFallsBackToOriginalOnError(t *testing.T) {
	llm := fakeLLM{err: errors.New("service unavailable")}
	cues := []domain.VTTCue{{Start: 0, End: 1, Payload: "Hello there."}}

	out := TranslateCues(context.Background(), llm, cues, "Czech")
	if out[0].Payload != "Hello there." {
		t.Fatalf("expected original text preserved on failure, got %q", out[0].Payload)
	}
}

func TestTranslateCuesPreservesEmptyPayload(t *testing.T) {
	llm := fakeLLM{response: "should not be used"}
	cues := []domain.VTTCue{{Start: 0, End: 1, Payload: "  "}}

	out := TranslateCues(context.Background(), llm, cues, "Czech")
	if out[0].Payload != "  " {
		t.Fatalf("expected empty payload preserved, got %q", out[0].Payload)
	}
}
