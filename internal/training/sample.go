// Package training assembles bounded, redacted training samples from parsed
// records and their source text. Every string that enters a sample passes
// through the redaction engine first.
package training

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/syllabus-parser/internal/redaction"
	"github.com/jonathan/syllabus-parser/internal/types"
)

const (
	// DefaultPreviewLines is how many leading source lines form the preview.
	DefaultPreviewLines = 5
	// DefaultKeywordCap bounds the keyword-matched snippet list.
	DefaultKeywordCap = 15
	// DefaultSnippetMaxLen truncates each snippet, in runes.
	DefaultSnippetMaxLen = 200
)

// keywords mark lines worth keeping as training context. Matched
// case-insensitively as substrings.
var keywords = []string{
	"assignment", "exam", "grade", "grading", "quiz", "midterm", "final",
	"policy", "schedule", "due", "reading", "attendance", "office hours",
	"syllabus", "late", "credit",
}

// Builder produces TrainingSamples. All record fields and snippets are
// scrubbed by the redaction engine before assembly.
type Builder struct {
	engine        *redaction.Engine
	previewLines  int
	keywordCap    int
	snippetMaxLen int
	now           func() time.Time
}

// NewBuilder creates a Builder with default bounds.
func NewBuilder(engine *redaction.Engine) *Builder {
	return &Builder{
		engine:        engine,
		previewLines:  DefaultPreviewLines,
		keywordCap:    DefaultKeywordCap,
		snippetMaxLen: DefaultSnippetMaxLen,
		now:           time.Now,
	}
}

// Build assembles a sample from a parsed record and the extracted source
// text. Snippet counts and lengths are capped so samples stay bounded
// regardless of document size.
func (b *Builder) Build(record *types.ParsedRecord, sourceText string) (*types.TrainingSample, error) {
	if record == nil {
		record = types.NullRecord()
	}

	scrubbed, err := b.engine.RedactRecord(record)
	if err != nil {
		return nil, fmt.Errorf("failed to redact record: %w", err)
	}
	fields, err := json.Marshal(scrubbed)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize redacted record: %w", err)
	}

	lines := splitLines(sourceText)

	return &types.TrainingSample{
		Version:   types.TrainingSampleVersion,
		CreatedAt: b.now().UTC(),
		Fields:    fields,
		Snippets: types.TrainingSnippets{
			Preview:        b.preview(lines),
			KeywordSamples: b.keywordSamples(lines),
		},
	}, nil
}

// preview keeps the first non-blank lines of the document.
func (b *Builder) preview(lines []string) []string {
	out := make([]string, 0, b.previewLines)
	for _, line := range lines {
		if line == "" {
			continue
		}
		out = append(out, b.engine.Redact(truncate(line, b.snippetMaxLen)))
		if len(out) == b.previewLines {
			break
		}
	}
	return out
}

// keywordSamples keeps distinct lines mentioning a domain keyword, up to the
// cap.
func (b *Builder) keywordSamples(lines []string) []string {
	out := make([]string, 0, b.keywordCap)
	seen := make(map[string]bool)
	for _, line := range lines {
		if line == "" || seen[line] {
			continue
		}
		lower := strings.ToLower(line)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				seen[line] = true
				out = append(out, b.engine.Redact(truncate(line, b.snippetMaxLen)))
				break
			}
		}
		if len(out) == b.keywordCap {
			break
		}
	}
	return out
}

func splitLines(s string) []string {
	raw := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
