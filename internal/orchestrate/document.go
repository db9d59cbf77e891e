package orchestrate

import (
	"context"

	"go.uber.org/zap"

	"github.com/contentplatform/mediaworker/internal/pdfpipeline"
)

// processDocument renders the first-page thumbnail and, independently,
// extracts per-page markdown text. Thumbnail failure is fatal for the
// concept; text extraction failure is logged only (pdfpipeline.Process
// already implements that split internally).
func (o *Orchestrator) processDocument(ctx context.Context, inputPath, processingDir string) Result {
	_, err := pdfpipeline.Process(ctx, o.pdf, o.exec, o.logger, inputPath, processingDir, o.pdfConfig())
	if err != nil {
		o.logger.Warn("pdf pipeline failed", zap.Error(err))
		return Result{PDF: true}
	}
	return Result{Committed: true, PDF: true}
}
