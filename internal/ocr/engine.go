// Package ocr provides optical character recognition for low-yield pages.
// The Engine and Rasterizer interfaces are transport-agnostic so recognizers
// can be backed by native libraries or remote services without leaking
// provider concerns into the pipeline.
package ocr

import (
	"context"
	"image"
)

// Engine recognizes text in a rasterized page image.
type Engine interface {
	// Recognize returns the recognized text and a confidence percentage
	// in [0,100] for a single page image.
	Recognize(ctx context.Context, img image.Image) (text string, confidence float64, err error)
}

// Rasterizer renders document pages to images for recognition.
type Rasterizer interface {
	// PageCount returns the number of pages in the document.
	PageCount(data []byte) (int, error)
	// RasterizePage renders a zero-based page to an image at the
	// rasterizer's configured scale.
	RasterizePage(data []byte, page int) (image.Image, error)
}

// ProgressFunc receives incremental page progress (1-based page, total).
// It is called from page workers and must not block.
type ProgressFunc func(page, total int)
