package domain

import "context"

// STTClient is the speech-to-text collaborator. Transcribe posts one audio
// chunk and returns its body verbatim (a VTT document when format is "vtt",
// or a JSON document when format is "verbose_json" — callers decode as
// needed). A non-2xx response or a transport error is always returned as an
// error; callers decide whether that is fatal for the chunk.
type STTClient interface {
	Transcribe(ctx context.Context, audioPath, model, responseFormat string, temperature float64) (string, error)
}

// LLMClient is the translation collaborator. Complete posts one prompt and
// returns the generated content field.
type LLMClient interface {
	Complete(ctx context.Context, prompt string, nPredict int, temperature float64, stop []string, cachePrompt bool) (string, error)
}

// PDFEngine is the opaque PDF library collaborator: open a document, learn
// its page count, render a page to an image file, and extract a page's text.
type PDFEngine interface {
	Open(path string) (PDFDocument, error)
}

type PDFDocument interface {
	PageCount() int
	RenderPagePNG(page int, targetWidth int) (string, error)
	PageText(page int) (string, error)
	Close() error
}
