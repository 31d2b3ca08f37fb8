// Package ingestion classifies uploaded documents and extracts their text.
package ingestion

import (
	"path/filepath"
	"strings"

	"github.com/jonathan/syllabus-parser/internal/types"
)

// mimeFormats maps known declared MIME types to document formats.
var mimeFormats = map[string]types.Format{
	"application/pdf": types.FormatPDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": types.FormatDOCX,
	"application/msword": types.FormatDOCX,
	"text/plain":         types.FormatTXT,
	"text/markdown":      types.FormatTXT,
}

// extFormats maps filename extensions to document formats, used when the
// declared MIME type is missing or unknown.
var extFormats = map[string]types.Format{
	".pdf":  types.FormatPDF,
	".docx": types.FormatDOCX,
	".doc":  types.FormatDOCX,
	".txt":  types.FormatTXT,
	".md":   types.FormatTXT,
	".png":  types.FormatImage,
	".jpg":  types.FormatImage,
	".jpeg": types.FormatImage,
	".gif":  types.FormatImage,
	".bmp":  types.FormatImage,
	".tif":  types.FormatImage,
	".tiff": types.FormatImage,
	".webp": types.FormatImage,
}

// DetectFormat classifies a blob into one of the supported formats.
// The declared MIME type is preferred; the filename extension is the
// fallback signal. The declared type is untrusted input and may be empty.
func DetectFormat(mimeType, filename string) (types.Format, error) {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	// Strip parameters like "; charset=utf-8"
	if idx := strings.Index(mt, ";"); idx >= 0 {
		mt = strings.TrimSpace(mt[:idx])
	}

	if format, ok := mimeFormats[mt]; ok {
		return format, nil
	}
	if strings.HasPrefix(mt, "image/") {
		return types.FormatImage, nil
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if format, ok := extFormats[ext]; ok {
		return format, nil
	}

	return "", &UnsupportedFormatError{MimeType: mimeType, Filename: filename}
}
