package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine recognizes page images with a local Tesseract install.
type TesseractEngine struct {
	languages []string
}

// NewTesseractEngine creates a Tesseract-backed engine. With no languages
// given, Tesseract's default ("eng") is used.
func NewTesseractEngine(languages ...string) *TesseractEngine {
	return &TesseractEngine{languages: languages}
}

// Recognize runs OCR on a single page image. A fresh client is created per
// call: gosseract clients are not safe for concurrent use, and page workers
// run in parallel.
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image) (string, float64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	if len(e.languages) > 0 {
		if err := client.SetLanguage(e.languages...); err != nil {
			return "", 0, fmt.Errorf("failed to set OCR languages: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", 0, fmt.Errorf("failed to encode page image: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", 0, fmt.Errorf("failed to load page image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("recognition failed: %w", err)
	}

	return text, meanConfidence(client), nil
}

// meanConfidence averages Tesseract's per-line confidences. Returns 0 when
// no lines were recognized.
func meanConfidence(client *gosseract.Client) float64 {
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil || len(boxes) == 0 {
		return 0
	}

	sum := 0.0
	for _, box := range boxes {
		sum += box.Confidence
	}
	return sum / float64(len(boxes))
}
