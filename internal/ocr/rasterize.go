package ocr

import (
	"bytes"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"

	// Registered decoders for direct image uploads.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// DefaultRasterDPI renders pages at 2x the PDF base resolution of 72 DPI.
// The fixed upscale improves recognition accuracy on small print.
const DefaultRasterDPI = 144

// MuPDFRasterizer renders PDF pages to images via MuPDF.
type MuPDFRasterizer struct {
	dpi float64
}

// NewMuPDFRasterizer creates a rasterizer at the given DPI; non-positive
// values use DefaultRasterDPI.
func NewMuPDFRasterizer(dpi float64) *MuPDFRasterizer {
	if dpi <= 0 {
		dpi = DefaultRasterDPI
	}
	return &MuPDFRasterizer{dpi: dpi}
}

// PageCount returns the number of pages in the document.
func (r *MuPDFRasterizer) PageCount(data []byte) (int, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return 0, fmt.Errorf("failed to open document for rasterization: %w", err)
	}
	defer func() { _ = doc.Close() }()
	return doc.NumPage(), nil
}

// RasterizePage renders one zero-based page. The document is opened per call:
// fitz documents are not safe for concurrent page rendering, and callers
// rasterize pages from parallel workers.
func (r *MuPDFRasterizer) RasterizePage(data []byte, page int) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open document for rasterization: %w", err)
	}
	defer func() { _ = doc.Close() }()

	img, err := doc.ImageDPI(page, r.dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize page %d: %w", page+1, err)
	}
	return img, nil
}

// ImageBlobRasterizer treats the blob itself as a single page image, for
// direct image uploads that skip the rasterization step.
type ImageBlobRasterizer struct{}

// PageCount always reports one page for an image blob.
func (ImageBlobRasterizer) PageCount(data []byte) (int, error) {
	return 1, nil
}

// RasterizePage decodes the blob as an image; only page 0 exists.
func (ImageBlobRasterizer) RasterizePage(data []byte, page int) (image.Image, error) {
	if page != 0 {
		return nil, fmt.Errorf("image blob has a single page, requested page %d", page+1)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
