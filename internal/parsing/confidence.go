package parsing

import "github.com/jonathan/syllabus-parser/internal/types"

// DefaultReviewThreshold marks records for human review when fewer than half
// of the schema fields were populated.
const DefaultReviewThreshold = 0.5

// Score derives a ConfidenceReport from a parsed record: the fraction of
// schema leaves that were populated, always in [0, 1], plus the field names
// on each side of the line. A nil record scores zero with every field
// missing. threshold values outside (0, 1] fall back to
// DefaultReviewThreshold.
func Score(record *types.ParsedRecord, threshold float64) types.ConfidenceReport {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultReviewThreshold
	}
	if record == nil {
		record = types.NullRecord()
	}

	leaves := record.Leaves()
	extracted := make([]string, 0, len(leaves))
	missing := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		if leaf.Present {
			extracted = append(extracted, leaf.Name)
		} else {
			missing = append(missing, leaf.Name)
		}
	}

	score := 0.0
	if len(leaves) > 0 {
		score = float64(len(extracted)) / float64(len(leaves))
	}

	return types.ConfidenceReport{
		Score:           score,
		RequiresReview:  score < threshold,
		ExtractedFields: extracted,
		MissingFields:   missing,
	}
}
