package ingestion

import "github.com/jonathan/syllabus-parser/internal/types"

// Default yield thresholds. A page below PerPageThreshold characters is
// likely scanned or handwritten; a document below DocumentThreshold in
// aggregate is treated as low yield even if no single page was flagged.
const (
	DefaultPerPageThreshold  = 50
	DefaultDocumentThreshold = 100
)

// YieldReport is the result of the two-level low-yield check.
type YieldReport struct {
	LowYieldPages    []int // zero-based page indexes below the per-page threshold
	DocumentLowYield bool
}

// NeedsOCR reports whether any page or the whole document was flagged.
func (r YieldReport) NeedsOCR() bool {
	return r.DocumentLowYield || len(r.LowYieldPages) > 0
}

// EvaluateYield flags low-yield pages and documents. The two-level check
// avoids triggering OCR for a mostly-text document with one sparse title
// page: a sparse page is flagged individually, and the document flag only
// trips when the aggregate count is below the larger document threshold.
// Pure function; thresholds of zero or below fall back to defaults.
func EvaluateYield(extracted *types.ExtractedText, perPageThreshold, documentThreshold int) YieldReport {
	if perPageThreshold <= 0 {
		perPageThreshold = DefaultPerPageThreshold
	}
	if documentThreshold <= 0 {
		documentThreshold = DefaultDocumentThreshold
	}

	report := YieldReport{}
	for i, count := range extracted.PerPageYield {
		if count < perPageThreshold {
			report.LowYieldPages = append(report.LowYieldPages, i)
		}
	}
	report.DocumentLowYield = extracted.TotalYield() < documentThreshold

	return report
}
