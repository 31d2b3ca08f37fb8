package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/syllabus-parser/internal/catalog"
	"github.com/jonathan/syllabus-parser/internal/ingestion"
	"github.com/jonathan/syllabus-parser/internal/pipeline"
	"github.com/jonathan/syllabus-parser/internal/selection"
	"github.com/jonathan/syllabus-parser/internal/server/ratelimit"
	"github.com/jonathan/syllabus-parser/internal/types"
)

type fakeParser struct {
	result *types.ParsingResult
	err    error

	gotBlob types.DocumentBlob
	gotOpts pipeline.Options
}

func (f *fakeParser) Parse(_ context.Context, blob types.DocumentBlob, opts pipeline.Options) (*types.ParsingResult, error) {
	f.gotBlob = blob
	f.gotOpts = opts
	return f.result, f.err
}

func newTestServer(parser Parser) *Server {
	return &Server{
		env: &pipeline.Env{
			Catalog: catalog.New(nil, catalog.GeminiDescriptors(), 0),
		},
		parser:      parser,
		rateLimiter: ratelimit.NewLimiter(&ratelimit.Config{Enabled: false}),
		maxUpload:   DefaultMaxUploadBytes,
	}
}

// multipartUpload builds a multipart body with a single file part.
func multipartUpload(t *testing.T, filename, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func TestHandleParseSuccess(t *testing.T) {
	parser := &fakeParser{result: &types.ParsingResult{
		Success:    true,
		Data:       types.NullRecord(),
		Confidence: 0.6,
	}}
	s := newTestServer(parser)

	body, contentType := multipartUpload(t, "syllabus.txt", "text/plain", "CS 348 Intro to Databases")
	req := httptest.NewRequest(http.MethodPost, "/parse", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	s.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result types.ParsingResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.True(t, result.Success)

	assert.Equal(t, "syllabus.txt", parser.gotBlob.Filename)
	assert.Equal(t, "text/plain", parser.gotBlob.MimeType)
	assert.Equal(t, "CS 348 Intro to Databases", string(parser.gotBlob.Data))
	assert.Empty(t, parser.gotOpts.Source, "source defaults to the filename inside the pipeline")
}

func TestHandleParseUnsupportedFormat(t *testing.T) {
	parser := &fakeParser{
		result: &types.ParsingResult{Success: false, Errors: []string{"unsupported format"}},
		err:    &ingestion.UnsupportedFormatError{MimeType: "application/zip", Filename: "syllabus.zip"},
	}
	s := newTestServer(parser)

	body, contentType := multipartUpload(t, "syllabus.zip", "application/zip", "PK")
	req := httptest.NewRequest(http.MethodPost, "/parse", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	s.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	var result types.ParsingResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Errors, "failure responses carry the accumulated errors")
}

func TestHandleParseBackendsExhausted(t *testing.T) {
	parser := &fakeParser{
		result: &types.ParsingResult{Success: false, Errors: []string{"all backends failed"}},
		err:    &selection.ExhaustedError{Capability: "general"},
	}
	s := newTestServer(parser)

	body, contentType := multipartUpload(t, "syllabus.txt", "text/plain", "text")
	req := httptest.NewRequest(http.MethodPost, "/parse", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	s.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleParseMissingFileField(t *testing.T) {
	s := newTestServer(&fakeParser{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("source", "upload"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/parse", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	s.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "file")
}

func TestHandleParseNotMultipart(t *testing.T) {
	s := newTestServer(&fakeParser{})

	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader("raw bytes"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()

	s.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleParseUploadTooLarge(t *testing.T) {
	s := newTestServer(&fakeParser{})
	s.maxUpload = 64

	body, contentType := multipartUpload(t, "big.txt", "text/plain", strings.Repeat("x", 4096))
	req := httptest.NewRequest(http.MethodPost, "/parse", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	s.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleModels(t *testing.T) {
	s := newTestServer(&fakeParser{})

	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	rec := httptest.NewRecorder()

	s.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Models []catalog.ModelDescriptor `json:"models"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Models)
}

func TestHandleRunsWithoutDatabase(t *testing.T) {
	s := newTestServer(&fakeParser{})

	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	rec := httptest.NewRecorder()

	s.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "persistence")
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&fakeParser{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	s.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(&fakeParser{})
	handler := s.withRateLimit(s.withCORS(s.routes()))

	req := httptest.NewRequest(http.MethodOptions, "/parse", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
