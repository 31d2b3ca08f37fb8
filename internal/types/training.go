package types

import (
	"encoding/json"
	"time"
)

// TrainingSampleVersion is the current training sample format version.
const TrainingSampleVersion = 1

// TrainingSnippets holds the bounded source-text excerpts kept with a sample.
type TrainingSnippets struct {
	Preview        []string `json:"preview"`
	KeywordSamples []string `json:"keywordSamples"`
}

// TrainingSample is a compact, redacted artifact pairing a structured record
// subset with representative source snippets for offline reuse. Samples are
// only constructed by the training package, which redacts every field before
// assembly; no un-redacted sample can exist.
type TrainingSample struct {
	Version   int              `json:"version"`
	CreatedAt time.Time        `json:"createdAt"`
	Fields    json.RawMessage  `json:"fields"`
	Snippets  TrainingSnippets `json:"snippets"`
}
