// Package types defines the shared data structures passed between pipeline stages.
package types

// Format identifies the detected document format of an upload.
type Format string

// Supported document formats
const (
	FormatPDF   Format = "pdf"
	FormatDOCX  Format = "docx"
	FormatTXT   Format = "txt"
	FormatImage Format = "image"
)

// DocumentBlob is an uploaded document as received at the input boundary.
// The pipeline treats it as immutable; it is owned by the caller.
type DocumentBlob struct {
	Data     []byte
	MimeType string
	Filename string
}

// SourceMethod records which extraction path produced the final text.
type SourceMethod string

// Extraction source methods
const (
	SourcePrimary SourceMethod = "primary"
	SourceOCR     SourceMethod = "ocr"
	SourceMerged  SourceMethod = "merged"
)

// ExtractedText is the output of text extraction for a document.
// PerPageYield holds the extracted character count for each page in order;
// single-body formats (txt, docx) report a single pseudo-page.
type ExtractedText struct {
	Text         string       `json:"text"`
	Format       Format       `json:"format"`
	PageCount    int          `json:"page_count"`
	PerPageYield []int        `json:"per_page_yield"`
	Confidence   *float64     `json:"confidence,omitempty"` // OCR engine confidence, 0-100, when OCR ran
	SourceMethod SourceMethod `json:"source_method"`
}

// TotalYield returns the aggregate extracted character count across pages.
func (e *ExtractedText) TotalYield() int {
	total := 0
	for _, n := range e.PerPageYield {
		total += n
	}
	return total
}
