package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonathan/syllabus-parser/internal/ingestion"
	"github.com/jonathan/syllabus-parser/internal/selection"
)

// HTTPStatus maps a pipeline failure to a response status. Unsupported
// uploads are the client's fault; an unreadable document is a valid request
// the server cannot process; every backend failing is an upstream problem.
func HTTPStatus(err error) int {
	var unsupported *ingestion.UnsupportedFormatError
	var extraction *ingestion.ExtractionFailedError
	var exhausted *selection.ExhaustedError

	switch {
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &extraction):
		return http.StatusUnprocessableEntity
	case errors.As(err, &exhausted):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return 499 // client closed request
	default:
		return http.StatusInternalServerError
	}
}
