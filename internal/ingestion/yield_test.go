package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/syllabus-parser/internal/types"
)

func extractedWithYields(yields []int) *types.ExtractedText {
	return &types.ExtractedText{
		Format:       types.FormatPDF,
		PageCount:    len(yields),
		PerPageYield: yields,
		SourceMethod: types.SourcePrimary,
	}
}

func TestEvaluateYield(t *testing.T) {
	tests := []struct {
		name         string
		yields       []int
		wantPages    []int
		wantDocument bool
	}{
		{
			name:         "All pages above threshold",
			yields:       []int{400, 350, 600},
			wantPages:    nil,
			wantDocument: false,
		},
		{
			name:         "Sparse pages flagged individually",
			yields:       []int{20, 400, 15},
			wantPages:    []int{0, 2},
			wantDocument: false,
		},
		{
			name:         "Single sparse title page does not flag document",
			yields:       []int{10, 900},
			wantPages:    []int{0},
			wantDocument: false,
		},
		{
			name:         "Scanned document flags everything",
			yields:       []int{5, 8, 3},
			wantPages:    []int{0, 1, 2},
			wantDocument: true,
		},
		{
			name:         "Exactly at per-page threshold is not low yield",
			yields:       []int{50, 50, 50},
			wantPages:    nil,
			wantDocument: false,
		},
		{
			name:         "Empty single page",
			yields:       []int{0},
			wantPages:    []int{0},
			wantDocument: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := EvaluateYield(extractedWithYields(tt.yields), DefaultPerPageThreshold, DefaultDocumentThreshold)
			assert.Equal(t, tt.wantPages, report.LowYieldPages)
			assert.Equal(t, tt.wantDocument, report.DocumentLowYield)
		})
	}
}

func TestEvaluateYieldCustomThresholds(t *testing.T) {
	report := EvaluateYield(extractedWithYields([]int{80, 120}), 100, 300)
	assert.Equal(t, []int{0}, report.LowYieldPages)
	assert.True(t, report.DocumentLowYield)
	assert.True(t, report.NeedsOCR())
}

func TestEvaluateYieldZeroThresholdsUseDefaults(t *testing.T) {
	report := EvaluateYield(extractedWithYields([]int{40, 200}), 0, 0)
	assert.Equal(t, []int{0}, report.LowYieldPages)
	assert.False(t, report.DocumentLowYield)
}
