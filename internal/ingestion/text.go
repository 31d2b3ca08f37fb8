package ingestion

import (
	"unicode/utf8"

	"github.com/jonathan/syllabus-parser/internal/types"
)

// extractPlainText decodes the blob bytes as text verbatim. The output text
// round-trips the input exactly; no cleaning or normalization is applied.
func extractPlainText(data []byte) (*types.ExtractedText, error) {
	if !utf8.Valid(data) {
		return nil, &ExtractionFailedError{
			Format:  "txt",
			Message: "content is not valid UTF-8 text",
		}
	}

	text := string(data)
	return &types.ExtractedText{
		Text:         text,
		Format:       types.FormatTXT,
		PageCount:    1,
		PerPageYield: []int{len(text)},
		SourceMethod: types.SourcePrimary,
	}, nil
}
