// Package redaction scrubs personally identifying substrings from text and
// parsed records before anything is persisted into a training sample.
// Replacement is irreversible: matches become fixed placeholder tokens.
package redaction

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/jonathan/syllabus-parser/internal/types"
)

// Rule pairs a pattern with its replacement token.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// The rule set is fixed and ordered. Email and URL rules run before the
// generic address heuristic so a URL path or an email local part is never
// partially consumed by the number-plus-words address pattern.
var defaultRules = []Rule{
	{
		Name:        "email",
		Pattern:     regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
		Replacement: "[REDACTED_EMAIL]",
	},
	{
		Name:        "url",
		Pattern:     regexp.MustCompile(`(?:https?://|www\.)[^\s<>"']+`),
		Replacement: "[REDACTED_URL]",
	},
	{
		Name:        "phone",
		Pattern:     regexp.MustCompile(`(?:\+?1[\s.\-])?(?:\(\d{3}\)|\b\d{3})[\s.\-]?\d{3}[\s.\-]?\d{4}\b`),
		Replacement: "[REDACTED_PHONE]",
	},
	{
		Name:        "identifier",
		Pattern:     regexp.MustCompile(`(?i)\b(?:student\s*id|employee\s*id|id)\s*[:#]\s*[A-Za-z0-9\-]{4,}`),
		Replacement: "[REDACTED_ID]",
	},
	{
		// Conservative heuristic: leading number plus capitalized words
		// ending in a street suffix. Best-effort, not a compliance guarantee.
		Name:        "address",
		Pattern:     regexp.MustCompile(`\b\d{1,5}\s+(?:[A-Z][A-Za-z]+\s+){1,3}(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Place|Pl|Way)\b\.?`),
		Replacement: "[REDACTED_ADDRESS]",
	},
}

// Engine applies the ordered rule set to strings and records.
type Engine struct {
	rules []Rule
}

// NewEngine creates an Engine with the default rule set.
func NewEngine() *Engine {
	return &Engine{rules: defaultRules}
}

// Redact applies every rule in order and returns the scrubbed string.
func (e *Engine) Redact(s string) string {
	for _, rule := range e.rules {
		s = rule.Pattern.ReplaceAllString(s, rule.Replacement)
	}
	return s
}

// RedactRecord scrubs every string value of a parsed record by round-tripping
// it through its JSON form. The input record is not mutated. Replacement
// tokens contain no JSON metacharacters, so the scrubbed form always decodes
// back into a valid record.
func (e *Engine) RedactRecord(record *types.ParsedRecord) (*types.ParsedRecord, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize record for redaction: %w", err)
	}

	scrubbed := e.Redact(string(data))

	out := &types.ParsedRecord{}
	if err := json.Unmarshal([]byte(scrubbed), out); err != nil {
		return nil, fmt.Errorf("failed to decode redacted record: %w", err)
	}
	return out, nil
}
