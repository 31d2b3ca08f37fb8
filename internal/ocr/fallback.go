package ocr

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/syllabus-parser/internal/types"
)

// DefaultParallelism bounds concurrent page recognition. Pages are
// independent; results are merged by page index.
const DefaultParallelism = 4

// FallbackEngine runs OCR over flagged pages and merges the outcome against
// the primary extraction, keeping whichever yields more text.
type FallbackEngine struct {
	engine      Engine
	rasterizer  Rasterizer
	parallelism int
	onProgress  ProgressFunc
}

// NewFallbackEngine wires a recognizer and rasterizer into a fallback engine.
func NewFallbackEngine(engine Engine, rasterizer Rasterizer, parallelism int, onProgress ProgressFunc) *FallbackEngine {
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}
	return &FallbackEngine{
		engine:      engine,
		rasterizer:  rasterizer,
		parallelism: parallelism,
		onProgress:  onProgress,
	}
}

type pageResult struct {
	text       string
	confidence float64
}

// Run recognizes the flagged pages (all pages when pages is nil) and returns
// the merged extraction. A page whose rasterization or recognition fails
// contributes an empty string and a warning rather than aborting the
// document. Cancellation of ctx stops outstanding page work.
func (f *FallbackEngine) Run(ctx context.Context, blob types.DocumentBlob, primary *types.ExtractedText, pages []int) (*types.ExtractedText, []string, error) {
	targets := pages
	if len(targets) == 0 {
		count, err := f.rasterizer.PageCount(blob.Data)
		if err != nil {
			return nil, nil, err
		}
		targets = make([]int, count)
		for i := range targets {
			targets[i] = i
		}
	}

	results := make([]pageResult, len(targets))
	warnings := make([]string, 0)
	var warnMu sync.Mutex
	var completed atomic.Int32

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(f.parallelism)

	for i, page := range targets {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			text, confidence, err := f.recognizePage(gCtx, blob.Data, page)
			if err != nil {
				if gCtx.Err() != nil {
					return gCtx.Err()
				}
				warnMu.Lock()
				warnings = append(warnings, fmt.Sprintf("OCR failed for page %d: %v", page+1, err))
				warnMu.Unlock()
				text, confidence = "", 0
			}
			results[i] = pageResult{text: text, confidence: confidence}

			if f.onProgress != nil {
				f.onProgress(int(completed.Add(1)), len(targets))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, warnings, err
	}

	return f.merge(primary, targets, results), warnings, nil
}

func (f *FallbackEngine) recognizePage(ctx context.Context, data []byte, page int) (string, float64, error) {
	img, err := f.rasterizer.RasterizePage(data, page)
	if err != nil {
		return "", 0, err
	}
	return f.engine.Recognize(ctx, img)
}

// merge keeps whichever of {primary, OCR} has the greater total character
// count. The comparison is on totals, so re-running yields the same choice.
func (f *FallbackEngine) merge(primary *types.ExtractedText, targets []int, results []pageResult) *types.ExtractedText {
	texts := make([]string, 0, len(results))
	yields := make([]int, 0, len(results))
	ocrTotal := 0
	confSum, confPages := 0.0, 0

	for _, res := range results {
		trimmed := strings.TrimSpace(res.text)
		texts = append(texts, trimmed)
		yields = append(yields, len(trimmed))
		ocrTotal += len(trimmed)
		if trimmed != "" {
			confSum += res.confidence
			confPages++
		}
	}

	if ocrTotal <= primary.TotalYield() {
		return primary
	}

	method := types.SourceMerged
	if len(targets) == primary.PageCount {
		method = types.SourceOCR
	}

	merged := &types.ExtractedText{
		Text:         strings.Join(texts, "\n"),
		Format:       primary.Format,
		PageCount:    primary.PageCount,
		PerPageYield: yields,
		SourceMethod: method,
	}
	if confPages > 0 {
		confidence := confSum / float64(confPages)
		merged.Confidence = &confidence
	}
	return merged
}
