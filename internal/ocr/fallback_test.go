package ocr

import (
	"context"
	"errors"
	"image"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/syllabus-parser/internal/types"
)

// fakeRasterizer returns blank images and a fixed page count.
type fakeRasterizer struct {
	pages    int
	failPage int // zero-based page whose rasterization fails; -1 for none
}

func (f *fakeRasterizer) PageCount(data []byte) (int, error) {
	return f.pages, nil
}

func (f *fakeRasterizer) RasterizePage(data []byte, page int) (image.Image, error) {
	if page == f.failPage {
		return nil, errors.New("render error")
	}
	return image.NewGray(image.Rect(0, 0, 8, 8)), nil
}

// fakeEngine returns canned text in call order.
type fakeEngine struct {
	mu      sync.Mutex
	calls   int
	perPage []string
	failAll bool
}

func (f *fakeEngine) Recognize(ctx context.Context, img image.Image) (string, float64, error) {
	if f.failAll {
		return "", 0, errors.New("ocr backend unavailable")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	text := f.perPage[f.calls%len(f.perPage)]
	f.calls++
	return text, 90, nil
}

func primaryExtraction(pageTexts ...string) *types.ExtractedText {
	yields := make([]int, len(pageTexts))
	for i, t := range pageTexts {
		yields[i] = len(t)
	}
	return &types.ExtractedText{
		Text:         strings.Join(pageTexts, "\n"),
		Format:       types.FormatPDF,
		PageCount:    len(pageTexts),
		PerPageYield: yields,
		SourceMethod: types.SourcePrimary,
	}
}

func TestRunKeepsPrimaryWhenOCRYieldsLess(t *testing.T) {
	primary := primaryExtraction("a long page of extracted syllabus text that is clearly fine", "x")
	engine := &fakeEngine{perPage: []string{"tiny"}}
	fallback := NewFallbackEngine(engine, &fakeRasterizer{pages: 2, failPage: -1}, 1, nil)

	merged, warnings, err := fallback.Run(context.Background(), types.DocumentBlob{}, primary, []int{1})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Same(t, primary, merged, "primary must be kept untouched when OCR yield is not greater")
	assert.Equal(t, types.SourcePrimary, merged.SourceMethod)
}

func TestRunReplacesWhenOCRYieldsMore(t *testing.T) {
	primary := primaryExtraction("ab", "cd")
	engine := &fakeEngine{perPage: []string{"Recognized syllabus content from the scanned page, much longer than primary."}}
	fallback := NewFallbackEngine(engine, &fakeRasterizer{pages: 2, failPage: -1}, 1, nil)

	merged, warnings, err := fallback.Run(context.Background(), types.DocumentBlob{}, primary, nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.NotSame(t, primary, merged)
	assert.Equal(t, types.SourceOCR, merged.SourceMethod, "full-document OCR replacement is marked ocr")
	assert.Greater(t, merged.TotalYield(), primary.TotalYield())
	require.NotNil(t, merged.Confidence)
	assert.InDelta(t, 90, *merged.Confidence, 0.001)
}

func TestRunSubsetReplacementMarkedMerged(t *testing.T) {
	primary := primaryExtraction("ab", "cd", "ef")
	engine := &fakeEngine{perPage: []string{"A properly recognized page with plenty of characters to win the comparison."}}
	fallback := NewFallbackEngine(engine, &fakeRasterizer{pages: 3, failPage: -1}, 2, nil)

	merged, _, err := fallback.Run(context.Background(), types.DocumentBlob{}, primary, []int{0, 2})
	require.NoError(t, err)
	assert.Equal(t, types.SourceMerged, merged.SourceMethod)
	assert.Len(t, merged.PerPageYield, 2)
}

func TestRunPageFailureContributesEmptyString(t *testing.T) {
	primary := primaryExtraction("", "")
	engine := &fakeEngine{perPage: []string{"Recognized text from the page that worked, long enough to replace primary."}}
	fallback := NewFallbackEngine(engine, &fakeRasterizer{pages: 2, failPage: 0}, 1, nil)

	merged, warnings, err := fallback.Run(context.Background(), types.DocumentBlob{}, primary, nil)
	require.NoError(t, err, "a failed page must not abort the document")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "page 1")
	assert.Equal(t, 0, merged.PerPageYield[0])
	assert.Greater(t, merged.PerPageYield[1], 0)
}

func TestRunAllPagesFailKeepsPrimary(t *testing.T) {
	primary := primaryExtraction("some primary text")
	engine := &fakeEngine{failAll: true, perPage: []string{""}}
	fallback := NewFallbackEngine(engine, &fakeRasterizer{pages: 1, failPage: -1}, 1, nil)

	merged, warnings, err := fallback.Run(context.Background(), types.DocumentBlob{}, primary, nil)
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
	assert.Same(t, primary, merged)
}

func TestRunReportsProgress(t *testing.T) {
	primary := primaryExtraction("", "", "")
	engine := &fakeEngine{perPage: []string{"recognized"}}

	var mu sync.Mutex
	var seen []int
	progress := func(page, total int) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 3, total)
		seen = append(seen, page)
	}

	fallback := NewFallbackEngine(engine, &fakeRasterizer{pages: 3, failPage: -1}, 2, progress)
	_, _, err := fallback.Run(context.Background(), types.DocumentBlob{}, primary, nil)
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{1, 2, 3}, seen)
}

func TestRunCancellationPropagates(t *testing.T) {
	primary := primaryExtraction("", "")
	engine := &fakeEngine{perPage: []string{"recognized"}}
	fallback := NewFallbackEngine(engine, &fakeRasterizer{pages: 2, failPage: -1}, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := fallback.Run(ctx, types.DocumentBlob{}, primary, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
