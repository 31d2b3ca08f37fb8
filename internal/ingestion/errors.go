package ingestion

import "fmt"

// UnsupportedFormatError indicates the upload matched no known format by
// MIME type or filename extension. Fatal for the document; no retry.
type UnsupportedFormatError struct {
	MimeType string
	Filename string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: mime type %q, filename %q", e.MimeType, e.Filename)
}

// ExtractionFailedError indicates the source was unreadable, corrupt, or
// encrypted. The underlying cause is preserved; no partial text is returned.
type ExtractionFailedError struct {
	Format  string
	Message string
	Cause   error
}

func (e *ExtractionFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s extraction failed: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s extraction failed: %s", e.Format, e.Message)
}

func (e *ExtractionFailedError) Unwrap() error {
	return e.Cause
}
