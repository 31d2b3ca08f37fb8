package types

import "time"

// ConfidenceReport summarizes how completely a ParsedRecord was populated.
// Derived deterministically from the record; no model involvement.
type ConfidenceReport struct {
	Score           float64  `json:"confidence"`
	RequiresReview  bool     `json:"requiresReview"`
	ExtractedFields []string `json:"extractedFields"`
	MissingFields   []string `json:"missingFields"`
}

// ResultMetadata describes where and when a ParsingResult was produced.
type ResultMetadata struct {
	ParsedAt time.Time `json:"parsedAt"`
	Source   string    `json:"source"` // filename or caller-supplied origin
	Format   Format    `json:"format"`
	Provider string    `json:"provider,omitempty"` // model id that produced the record
}

// ParsingResult is the sole output of the parse operation. Callers need
// know nothing about the extraction method or provider chosen.
type ParsingResult struct {
	Success         bool           `json:"success"`
	Data            *ParsedRecord  `json:"data,omitempty"`
	Confidence      float64        `json:"confidence"`
	RequiresReview  bool           `json:"requiresReview"`
	ExtractedFields []string       `json:"extractedFields"`
	MissingFields   []string       `json:"missingFields"`
	Errors          []string       `json:"errors,omitempty"`
	Warnings        []string       `json:"warnings,omitempty"`
	Metadata        ResultMetadata `json:"metadata"`
}
