// Package parsing turns raw model output into a schema-conforming
// ParsedRecord and scores how completely the record was populated.
package parsing

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jonathan/syllabus-parser/internal/catalog"
	"github.com/jonathan/syllabus-parser/internal/llm"
	"github.com/jonathan/syllabus-parser/internal/prompts"
	"github.com/jonathan/syllabus-parser/internal/selection"
	"github.com/jonathan/syllabus-parser/internal/types"
)

// Generator issues one structured-extraction call through the backend
// fallback chain. Satisfied by *selection.Orchestrator.
type Generator interface {
	Generate(ctx context.Context, req selection.Request) (*selection.ProviderResult, error)
}

// Normalizer builds the extraction prompt, calls the generator, and decodes
// the response defensively. Malformed model output degrades to a null record
// with a warning; it never surfaces as an error.
type Normalizer struct {
	generator  Generator
	preference []string
	budget     time.Duration // total wall-clock budget across all attempts
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithPreference sets the ordered model-id preference list passed through to
// backend selection.
func WithPreference(ids []string) NormalizerOption {
	return func(n *Normalizer) { n.preference = ids }
}

// WithBudget sets the total deadline for the extraction call, covering every
// fallback attempt. Zero means no hard deadline.
func WithBudget(d time.Duration) NormalizerOption {
	return func(n *Normalizer) { n.budget = d }
}

// NewNormalizer creates a Normalizer backed by the given generator.
func NewNormalizer(g Generator, opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{generator: g}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ExtractRecord runs structured extraction over the document text. The
// returned record is always non-nil on success: if the model response cannot
// be decoded, the fully-null record is returned together with a warning.
// Errors are reserved for the generator itself failing (all backends
// exhausted, caller cancellation).
func (n *Normalizer) ExtractRecord(ctx context.Context, documentText string) (*types.ParsedRecord, *selection.ProviderResult, []string, error) {
	template, err := prompts.Get("parsing.json", "extract-syllabus")
	if err != nil {
		return nil, nil, nil, err
	}
	prompt := prompts.Format(template, map[string]string{"DocumentText": documentText})

	req := selection.Request{
		Prompt:     prompt,
		Capability: catalog.CapabilityGeneral,
		Preference: n.preference,
	}
	if n.budget > 0 {
		req.Deadline = time.Now().Add(n.budget)
	}

	result, err := n.generator.Generate(ctx, req)
	if err != nil {
		return nil, nil, nil, err
	}

	record, ok := Decode(result.Text)
	var warnings []string
	if !ok {
		warnings = append(warnings, "model response was not valid JSON; substituting empty record")
	}
	return record, result, warnings, nil
}

// Decode parses a raw model response into a ParsedRecord. It strips markdown
// code fences, trims any prose surrounding the outermost JSON object, and
// tolerates missing keys. When no usable JSON object can be recovered the
// fully-null record is returned with ok=false. Decode never panics and never
// returns a nil record.
func Decode(response string) (record *types.ParsedRecord, ok bool) {
	cleaned := llm.CleanJSONBlock(response)
	cleaned = sliceOuterObject(cleaned)
	if cleaned == "" {
		return types.NullRecord(), false
	}

	record = types.NullRecord()
	if err := json.Unmarshal([]byte(cleaned), record); err != nil {
		return types.NullRecord(), false
	}
	return record, true
}

// sliceOuterObject returns the substring from the first '{' through the last
// '}', the usual shape when a model wraps JSON in prose. Empty when no such
// pair exists.
func sliceOuterObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}
