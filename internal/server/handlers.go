package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/syllabus-parser/internal/pipeline"
	"github.com/jonathan/syllabus-parser/internal/types"
)

// handleParse accepts a multipart upload and runs the parsing pipeline on it.
// The document goes in the "file" field; an optional "source" field overrides
// the recorded origin. Failures still return the result body so clients see
// the accumulated errors alongside the status code.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		if tooLarge(err) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "uploaded file exceeds the size limit")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "request must be multipart/form-data with a \"file\" field")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "missing \"file\" field")
		return
	}
	defer file.Close() //nolint:errcheck // read-only handle

	data, err := io.ReadAll(file)
	if err != nil {
		if tooLarge(err) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "uploaded file exceeds the size limit")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	blob := types.DocumentBlob{
		Data:     data,
		MimeType: header.Header.Get("Content-Type"),
		Filename: header.Filename,
	}

	result, err := s.parser.Parse(r.Context(), blob, pipeline.Options{
		Source: r.FormValue("source"),
	})
	if err != nil {
		if result == nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		s.jsonResponse(w, HTTPStatus(err), result)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

func tooLarge(err error) bool {
	var maxBytes *http.MaxBytesError
	return errors.As(err, &maxBytes)
}

// modelsResponse lists the currently known backends.
type modelsResponse struct {
	Models      any        `json:"models"`
	LastRefresh *time.Time `json:"last_refresh,omitempty"`
}

// handleModels returns the current catalog snapshot.
func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	resp := modelsResponse{Models: s.env.Catalog.Snapshot()}
	if last := s.env.Catalog.LastRefresh(); !last.IsZero() {
		resp.LastRefresh = &last
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleListRuns returns recent parse runs from the database.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.env.Database == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	runs, err := s.env.Database.ListRuns(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

// handleGetRun returns a single parse run with its stored result, if any.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.env.Database == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}

	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid run id")
		return
	}

	run, err := s.env.Database.GetRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to fetch run")
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "run not found")
		return
	}

	resp := map[string]any{"run": run}
	if result, err := s.env.Database.GetResult(r.Context(), runID); err == nil && result != nil {
		resp["result"] = result
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
