package ingestion

import (
	"fmt"

	"github.com/jonathan/syllabus-parser/internal/types"
)

// ExtractText runs the format-appropriate extraction strategy for a blob.
// Image blobs carry no embedded text layer and return an empty ExtractedText
// with a zero-yield page per the blob; the OCR engine handles them.
func ExtractText(blob types.DocumentBlob, format types.Format) (*types.ExtractedText, error) {
	switch format {
	case types.FormatPDF:
		return extractPDF(blob.Data)
	case types.FormatDOCX:
		return extractDOCX(blob.Data)
	case types.FormatTXT:
		return extractPlainText(blob.Data)
	case types.FormatImage:
		// No primary extraction path; a single empty page routes the whole
		// document to OCR via the yield check.
		return &types.ExtractedText{
			Text:         "",
			Format:       types.FormatImage,
			PageCount:    1,
			PerPageYield: []int{0},
			SourceMethod: types.SourcePrimary,
		}, nil
	default:
		return nil, &ExtractionFailedError{
			Format:  string(format),
			Message: fmt.Sprintf("no extraction strategy for format %q", format),
		}
	}
}
