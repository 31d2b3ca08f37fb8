// Package pipeline provides the high-level orchestration for parsing an
// uploaded document into a structured syllabus record.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/syllabus-parser/internal/db"
	"github.com/jonathan/syllabus-parser/internal/ingestion"
	"github.com/jonathan/syllabus-parser/internal/observability"
	"github.com/jonathan/syllabus-parser/internal/ocr"
	"github.com/jonathan/syllabus-parser/internal/parsing"
	"github.com/jonathan/syllabus-parser/internal/pipeline/steps"
	"github.com/jonathan/syllabus-parser/internal/redaction"
	"github.com/jonathan/syllabus-parser/internal/schemas"
	"github.com/jonathan/syllabus-parser/internal/selection"
	"github.com/jonathan/syllabus-parser/internal/training"
	"github.com/jonathan/syllabus-parser/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step       string `json:"step"`
	Category   string `json:"category"`
	Message    string `json:"message"`
	Page       int    `json:"page,omitempty"`
	TotalPages int    `json:"total_pages,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs. It must not
// block; OCR page events arrive from parallel workers.
type ProgressCallback func(event ProgressEvent)

// Normalizer drives structured extraction over document text. Satisfied by
// *parsing.Normalizer.
type Normalizer interface {
	ExtractRecord(ctx context.Context, documentText string) (*types.ParsedRecord, *selection.ProviderResult, []string, error)
}

// Pipeline wires the stages of document parsing together. OCREngine may be
// nil, which disables the OCR fallback path. Database may be nil, which
// disables persistence.
type Pipeline struct {
	Normalizer Normalizer
	OCREngine  ocr.Engine
	Redactor   *redaction.Engine
	Builder    *training.Builder
	Database   *db.DB
	Printer    *observability.Printer

	PerPageThreshold  int
	DocumentThreshold int
	ReviewThreshold   float64
	OCRParallelism    int
	Verbose           bool

	// rasterizerFor is overridable in tests; nil uses the format default.
	rasterizerFor func(format types.Format) ocr.Rasterizer
}

// Options holds per-call settings for Parse.
type Options struct {
	Source     string // caller-supplied origin; defaults to the blob filename
	OnProgress ProgressCallback
}

// New creates a Pipeline with a redaction engine and training builder wired
// in. The normalizer and OCR engine are caller-provided; database is
// optional.
func New(normalizer Normalizer, ocrEngine ocr.Engine, database *db.DB, printer *observability.Printer) *Pipeline {
	redactor := redaction.NewEngine()
	return &Pipeline{
		Normalizer: normalizer,
		OCREngine:  ocrEngine,
		Redactor:   redactor,
		Builder:    training.NewBuilder(redactor),
		Database:   database,
		Printer:    printer,
	}
}

// Parse runs the full pipeline over an uploaded blob. It always returns a
// non-nil result: fatal conditions (unsupported format, unreadable source,
// every backend exhausted) produce a result with Success=false and the typed
// error alongside, so transport layers can map failure classes to status
// codes. Recoverable conditions degrade into warnings on a successful
// result.
func (p *Pipeline) Parse(ctx context.Context, blob types.DocumentBlob, opts Options) (*types.ParsingResult, error) {
	source := opts.Source
	if source == "" {
		source = blob.Filename
	}

	result := &types.ParsingResult{
		Metadata: types.ResultMetadata{
			ParsedAt: time.Now().UTC(),
			Source:   source,
		},
	}
	emit := func(step, message string) {
		if opts.OnProgress != nil {
			opts.OnProgress(ProgressEvent{
				Step:     step,
				Category: steps.Category(step),
				Message:  message,
			})
		}
	}

	// Step 1: classify the upload
	format, err := ingestion.DetectFormat(blob.MimeType, blob.Filename)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result, err
	}
	result.Metadata.Format = format
	emit(steps.StepDetectFormat, fmt.Sprintf("Detected format: %s", format))

	// Step 2: primary text extraction
	extracted, err := ingestion.ExtractText(blob, format)
	if err != nil {
		result.Errors = append(result.Errors,
			err.Error(),
			"try re-exporting the document as PDF or plain text")
		return result, err
	}
	emit(steps.StepExtractText, fmt.Sprintf("Extracted %d characters from %d pages",
		extracted.TotalYield(), extracted.PageCount))

	// Step 3: low-yield check, OCR fallback when flagged
	report := ingestion.EvaluateYield(extracted, p.PerPageThreshold, p.DocumentThreshold)
	emit(steps.StepEvaluateYield, fmt.Sprintf("Low-yield pages: %d, document low yield: %v",
		len(report.LowYieldPages), report.DocumentLowYield))

	if report.NeedsOCR() {
		extracted = p.runOCR(ctx, blob, format, extracted, report, result, opts.OnProgress)
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
	}
	if p.Verbose && p.Printer != nil {
		p.Printer.PrintExtraction(extracted)
	}

	var runID uuid.UUID
	if p.Database != nil {
		runID, err = p.Database.CreateRun(ctx, source, string(format))
		if err != nil {
			fmt.Printf("Warning: Failed to create database run: %v\n", err)
		}
	}

	// Step 4: structured extraction through the backend fallback chain
	record, provider, warnings, err := p.Normalizer.ExtractRecord(ctx, extracted.Text)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		p.failRun(ctx, runID)
		return result, err
	}
	result.Warnings = append(result.Warnings, warnings...)
	result.Metadata.Provider = provider.ModelID
	emit(steps.StepNormalizeRecord, fmt.Sprintf("Structured extraction via %s (%d attempts)",
		provider.ModelID, provider.Attempts))

	if data, merr := json.Marshal(record); merr == nil {
		if verr := schemas.ValidateParsedRecord(string(data)); verr != nil {
			result.Warnings = append(result.Warnings, "parsed record deviates from the schema")
		}
	}

	// Step 5: confidence scoring
	confidence := parsing.Score(record, p.ReviewThreshold)
	result.Success = true
	result.Data = record
	result.Confidence = confidence.Score
	result.RequiresReview = confidence.RequiresReview
	result.ExtractedFields = confidence.ExtractedFields
	result.MissingFields = confidence.MissingFields
	emit(steps.StepScoreConfidence, fmt.Sprintf("Confidence %.2f, requires review: %v",
		confidence.Score, confidence.RequiresReview))

	if p.Verbose && p.Printer != nil {
		p.Printer.PrintParsedRecord(record)
		p.Printer.PrintConfidenceReport(&confidence)
	}

	// Steps 6-7: redacted training sample
	emit(steps.StepRedactRecord, "Redacting record for training sample")
	sample, err := p.Builder.Build(record, extracted.Text)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("failed to build training sample: %v", err))
	} else {
		emit(steps.StepBuildSample, "Built redacted training sample")
		if p.Database != nil && runID != uuid.Nil {
			if err := p.Database.SaveTrainingSample(ctx, runID, sample); err != nil {
				fmt.Printf("Warning: Failed to save training sample: %v\n", err)
			}
		}
	}

	if p.Database != nil && runID != uuid.Nil {
		if err := p.Database.SaveResult(ctx, runID, result); err != nil {
			fmt.Printf("Warning: Failed to save result: %v\n", err)
		}
		if err := p.Database.CompleteRun(ctx, runID, db.RunStatusCompleted, result.Confidence, result.Metadata.Provider); err != nil {
			fmt.Printf("Warning: Failed to complete database run: %v\n", err)
		}
	}

	if p.Verbose && p.Printer != nil {
		p.Printer.PrintResult(result)
	}

	return result, nil
}

// runOCR recognizes the flagged pages and returns the merged extraction.
// OCR trouble never fails the request: a setup failure keeps the primary
// text with a warning, and per-page failures surface as warnings from the
// fallback engine. Context cancellation is the one exception and is left for
// the caller to observe.
func (p *Pipeline) runOCR(ctx context.Context, blob types.DocumentBlob, format types.Format,
	primary *types.ExtractedText, report ingestion.YieldReport,
	result *types.ParsingResult, onProgress ProgressCallback) *types.ExtractedText {

	if p.OCREngine == nil {
		result.Warnings = append(result.Warnings, "document flagged low yield but OCR is not configured")
		return primary
	}

	rasterizer := p.rasterizer(format)
	if rasterizer == nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("document flagged low yield but %s cannot be rasterized for OCR", format))
		return primary
	}

	// Whole-document flags and image uploads recognize every page; otherwise
	// only the sparse pages.
	var pages []int
	if !report.DocumentLowYield && format != types.FormatImage {
		pages = report.LowYieldPages
	}

	var progress ocr.ProgressFunc
	if onProgress != nil {
		progress = func(page, total int) {
			onProgress(ProgressEvent{
				Step:       steps.StepOCRFallback,
				Category:   steps.CategoryOCR,
				Message:    fmt.Sprintf("OCR page %d of %d", page, total),
				Page:       page,
				TotalPages: total,
			})
		}
	}

	engine := ocr.NewFallbackEngine(p.OCREngine, rasterizer, p.OCRParallelism, progress)
	merged, warnings, err := engine.Run(ctx, blob, primary, pages)
	result.Warnings = append(result.Warnings, warnings...)
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("OCR fallback failed: %v", err))
		}
		return primary
	}
	return merged
}

func (p *Pipeline) rasterizer(format types.Format) ocr.Rasterizer {
	if p.rasterizerFor != nil {
		return p.rasterizerFor(format)
	}
	switch format {
	case types.FormatPDF:
		return ocr.NewMuPDFRasterizer(0)
	case types.FormatImage:
		return ocr.ImageBlobRasterizer{}
	default:
		return nil
	}
}

// failRun marks a persisted run as failed, best effort.
func (p *Pipeline) failRun(ctx context.Context, runID uuid.UUID) {
	if p.Database == nil || runID == uuid.Nil {
		return
	}
	if err := p.Database.CompleteRun(ctx, runID, db.RunStatusFailed, 0, ""); err != nil {
		fmt.Printf("Warning: Failed to mark run failed: %v\n", err)
	}
}
