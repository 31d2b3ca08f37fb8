package ingestion

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/jonathan/syllabus-parser/internal/types"
)

// extractDOCX decompresses the word-processing document and concatenates its
// paragraph text. DOCX has no page boundaries before layout, so the whole
// body is reported as a single pseudo-page.
func extractDOCX(data []byte) (*types.ExtractedText, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionFailedError{
			Format:  "docx",
			Message: "failed to open document (corrupt or not a docx archive)",
			Cause:   err,
		}
	}

	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		stringer, ok := item.(fmt.Stringer)
		if !ok {
			continue
		}
		text := strings.TrimSpace(stringer.String())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	}

	text := strings.Join(paragraphs, "\n")
	return &types.ExtractedText{
		Text:         text,
		Format:       types.FormatDOCX,
		PageCount:    1,
		PerPageYield: []int{len(text)},
		SourceMethod: types.SourcePrimary,
	}, nil
}
