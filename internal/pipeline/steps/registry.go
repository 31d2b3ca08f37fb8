// Package steps defines the stages of the document parsing pipeline and
// their dependency ordering.
package steps

import "fmt"

// Step categories, used to group progress events.
const (
	CategoryIngestion  = "ingestion"
	CategoryOCR        = "ocr"
	CategoryExtraction = "extraction"
	CategoryScoring    = "scoring"
	CategoryTraining   = "training"
)

// Pipeline step names.
const (
	StepDetectFormat    = "detect_format"
	StepExtractText     = "extract_text"
	StepEvaluateYield   = "evaluate_yield"
	StepOCRFallback     = "ocr_fallback"
	StepNormalizeRecord = "normalize_record"
	StepScoreConfidence = "score_confidence"
	StepRedactRecord    = "redact_record"
	StepBuildSample     = "build_sample"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
	Optional     bool // skipped without failing the run when inapplicable
}

// Registry holds all step definitions
var Registry = map[string]StepDefinition{
	StepDetectFormat: {
		Name:         StepDetectFormat,
		Category:     CategoryIngestion,
		Dependencies: []string{},
	},
	StepExtractText: {
		Name:         StepExtractText,
		Category:     CategoryIngestion,
		Dependencies: []string{StepDetectFormat},
	},
	StepEvaluateYield: {
		Name:         StepEvaluateYield,
		Category:     CategoryIngestion,
		Dependencies: []string{StepExtractText},
	},
	StepOCRFallback: {
		Name:         StepOCRFallback,
		Category:     CategoryOCR,
		Dependencies: []string{StepEvaluateYield},
		Optional:     true,
	},
	StepNormalizeRecord: {
		Name:         StepNormalizeRecord,
		Category:     CategoryExtraction,
		Dependencies: []string{StepExtractText},
	},
	StepScoreConfidence: {
		Name:         StepScoreConfidence,
		Category:     CategoryScoring,
		Dependencies: []string{StepNormalizeRecord},
	},
	StepRedactRecord: {
		Name:         StepRedactRecord,
		Category:     CategoryTraining,
		Dependencies: []string{StepNormalizeRecord},
	},
	StepBuildSample: {
		Name:         StepBuildSample,
		Category:     CategoryTraining,
		Dependencies: []string{StepRedactRecord, StepScoreConfidence},
	},
}

// Ordered returns the step names in execution order.
func Ordered() []string {
	return []string{
		StepDetectFormat,
		StepExtractText,
		StepEvaluateYield,
		StepOCRFallback,
		StepNormalizeRecord,
		StepScoreConfidence,
		StepRedactRecord,
		StepBuildSample,
	}
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s missing dependencies: %v", e.Step, e.MissingDependencies)
}

// ValidateDependencies checks that every required dependency of a step has
// completed.
func ValidateDependencies(stepName string, completed map[string]bool) error {
	def, ok := Registry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if !completed[dep] {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}
	return nil
}

// Category returns the category of a step, or the empty string for an
// unknown step.
func Category(stepName string) string {
	return Registry[stepName].Category
}
