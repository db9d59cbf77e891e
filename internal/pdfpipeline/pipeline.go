package pdfpipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/contentplatform/mediaworker/internal/domain"
	"github.com/contentplatform/mediaworker/internal/ffmpeg"
)

const pageSeparator = "\n\n---\n\n"

type Config struct {
	RenderWidth  int
	ThumbnailCRF int
	JPGQuality   int
}

type Result struct {
	ThumbnailAVIFPath string
	ThumbnailJPGPath  string
	MarkdownPath      string
}

// Process renders page 0 of path to thumbnail.avif/thumbnail.jpg and writes
// text.md from every page's extracted text. Thumbnail failure is fatal;
// text extraction failure is logged and produces no text.md.
func Process(ctx context.Context, engine domain.PDFEngine, exec *ffmpeg.Executor, logger *zap.Logger, path, outputDir string, cfg Config) (Result, error) {
	doc, err := engine.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	if doc.PageCount() < 1 {
		return Result{}, fmt.Errorf("pdf has no pages")
	}

	result, err := renderThumbnails(ctx, doc, exec, outputDir, cfg)
	if err != nil {
		return Result{}, err
	}

	mdPath, err := extractMarkdown(doc, outputDir)
	if err != nil {
		logger.Warn("pdf text extraction failed", zap.Error(err))
	} else {
		result.MarkdownPath = mdPath
	}

	return result, nil
}

func renderThumbnails(ctx context.Context, doc domain.PDFDocument, exec *ffmpeg.Executor, outputDir string, cfg Config) (Result, error) {
	pngPath, err := doc.RenderPagePNG(0, cfg.RenderWidth)
	if err != nil {
		return Result{}, fmt.Errorf("render page 0: %w", err)
	}
	defer os.Remove(pngPath)

	avifPath := outputDir + "/thumbnail.avif"
	avifArgs := ffmpeg.PictureTranscodeArgs(pngPath, cfg.ThumbnailCRF, 0, 0, avifPath)
	if res := exec.Run(ctx, avifArgs); !res.Success() {
		return Result{}, fmt.Errorf("encode pdf thumbnail avif: %s", res.Stderr)
	}

	jpgPath := outputDir + "/thumbnail.jpg"
	jpgArgs := ffmpeg.PictureJPEGArgs(pngPath, cfg.JPGQuality, cfg.RenderWidth, cfg.RenderWidth*3, jpgPath)
	if res := exec.Run(ctx, jpgArgs); !res.Success() {
		return Result{}, fmt.Errorf("encode pdf thumbnail jpg: %s", res.Stderr)
	}

	return Result{ThumbnailAVIFPath: avifPath, ThumbnailJPGPath: jpgPath}, nil
}

func extractMarkdown(doc domain.PDFDocument, outputDir string) (string, error) {
	pages := make([]string, 0, doc.PageCount())
	for i := 0; i < doc.PageCount(); i++ {
		text, err := doc.PageText(i)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, text)
	}

	if len(pages) == 0 {
		return "", fmt.Errorf("no extractable text in any page")
	}

	mdPath := outputDir + "/text.md"
	content := strings.Join(pages, pageSeparator)
	if err := os.WriteFile(mdPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write text.md: %w", err)
	}

	return mdPath, nil
}
