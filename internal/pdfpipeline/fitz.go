// Package pdfpipeline is the PDF Pipeline (C9): load via the PDF Engine,
// render page 0 to a thumbnail, extract per-page text to markdown.
package pdfpipeline

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/gen2brain/go-fitz"

	"github.com/contentplatform/mediaworker/internal/domain"
)

const basePointsDPI = 72.0

// FitzEngine adapts github.com/gen2brain/go-fitz to the PDFEngine contract.
type FitzEngine struct{}

func (FitzEngine) Open(path string) (domain.PDFDocument, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &fitzDocument{doc: doc}, nil
}

type fitzDocument struct {
	doc *fitz.Document
}

func (d *fitzDocument) PageCount() int {
	return d.doc.NumPage()
}

// RenderPagePNG renders page to an RGB bitmap at targetWidth, capping
// device-pixel height at 3*targetWidth by shrinking the render DPI rather
// than cropping, then writes a temporary PNG and returns its path.
func (d *fitzDocument) RenderPagePNG(page int, targetWidth int) (string, error) {
	bound, err := d.doc.Bounds(page)
	if err != nil {
		return "", fmt.Errorf("page %d bounds: %w", page, err)
	}

	dpi := renderDPI(bound, targetWidth)

	img, err := d.doc.ImageDPI(page, dpi)
	if err != nil {
		return "", fmt.Errorf("render page %d: %w", page, err)
	}

	f, err := os.CreateTemp("", "pdf-render-*.png")
	if err != nil {
		return "", fmt.Errorf("create temp png: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("encode temp png: %w", err)
	}

	return f.Name(), nil
}

func (d *fitzDocument) PageText(page int) (string, error) {
	text, err := d.doc.Text(page)
	if err != nil {
		return "", fmt.Errorf("page %d text: %w", page, err)
	}
	return text, nil
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}

// renderDPI picks the DPI that renders bound at targetWidth pixels wide,
// then shrinks it if the resulting height would exceed 3*targetWidth.
func renderDPI(bound image.Rectangle, targetWidth int) float64 {
	widthPoints := float64(bound.Dx())
	heightPoints := float64(bound.Dy())
	if widthPoints <= 0 {
		return basePointsDPI
	}

	dpi := basePointsDPI * float64(targetWidth) / widthPoints

	maxHeight := float64(3 * targetWidth)
	projectedHeight := heightPoints * dpi / basePointsDPI
	if projectedHeight > maxHeight && heightPoints > 0 {
		dpi = basePointsDPI * maxHeight / heightPoints
	}

	return dpi
}
