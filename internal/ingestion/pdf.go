package ingestion

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/syllabus-parser/internal/types"
)

// extractPDF iterates pages and joins each page's positioned text runs with
// spaces, accumulating per-page character counts. Encrypted or corrupt files
// fail whole; a partial ExtractedText is never returned.
func extractPDF(data []byte) (*types.ExtractedText, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionFailedError{
			Format:  "pdf",
			Message: "failed to open document (corrupt or encrypted)",
			Cause:   err,
		}
	}

	pageCount := reader.NumPage()
	if pageCount == 0 {
		return nil, &ExtractionFailedError{Format: "pdf", Message: "document has no pages"}
	}

	var sb strings.Builder
	perPageYield := make([]int, 0, pageCount)

	for i := 1; i <= pageCount; i++ {
		pageText := extractPDFPage(reader, i)
		perPageYield = append(perPageYield, len(pageText))
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(pageText)
	}

	return &types.ExtractedText{
		Text:         sb.String(),
		Format:       types.FormatPDF,
		PageCount:    pageCount,
		PerPageYield: perPageYield,
		SourceMethod: types.SourcePrimary,
	}, nil
}

// extractPDFPage collects the text runs of a single page. A page that cannot
// be read yields an empty string rather than failing the document; the yield
// evaluator will flag it for OCR.
func extractPDFPage(reader *pdf.Reader, pageNum int) string {
	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}

	content := page.Content()
	runs := make([]string, 0, len(content.Text))
	for _, run := range content.Text {
		if run.S == "" {
			continue
		}
		runs = append(runs, run.S)
	}

	return strings.TrimSpace(strings.Join(runs, " "))
}
