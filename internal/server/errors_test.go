package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/syllabus-parser/internal/ingestion"
	"github.com/jonathan/syllabus-parser/internal/selection"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "unsupported format",
			err:  &ingestion.UnsupportedFormatError{MimeType: "application/zip"},
			want: http.StatusUnsupportedMediaType,
		},
		{
			name: "extraction failed",
			err:  &ingestion.ExtractionFailedError{Format: "pdf", Message: "corrupt"},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "wrapped extraction failure",
			err:  fmt.Errorf("parse: %w", &ingestion.ExtractionFailedError{Format: "docx", Message: "truncated"}),
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "backends exhausted",
			err:  &selection.ExhaustedError{Capability: "general"},
			want: http.StatusBadGateway,
		},
		{
			name: "deadline exceeded",
			err:  context.DeadlineExceeded,
			want: http.StatusGatewayTimeout,
		},
		{
			name: "client cancelled",
			err:  context.Canceled,
			want: 499,
		},
		{
			name: "unknown error",
			err:  errors.New("boom"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
