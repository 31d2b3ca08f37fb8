package llm

import "github.com/jonathan/syllabus-parser/internal/catalog"

// GenerationParams are the sampling controls passed with each completion.
// They are precomputed per performance tier, not per individual call, so
// behavior is reproducible across fallback attempts at the same tier.
type GenerationParams struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// tierParams holds the fixed per-tier generation parameters. Temperature is
// kept low across tiers for consistent structured output.
var tierParams = map[catalog.Tier]GenerationParams{
	catalog.TierHigh:   {Temperature: 0.1, TopP: 0.95, MaxTokens: 8192},
	catalog.TierMedium: {Temperature: 0.1, TopP: 0.9, MaxTokens: 4096},
	catalog.TierLow:    {Temperature: 0.1, TopP: 0.9, MaxTokens: 2048},
}

// ParamsForTier returns the generation parameters for a performance tier.
// Unknown tiers get the medium-tier parameters.
func ParamsForTier(tier catalog.Tier) GenerationParams {
	if params, ok := tierParams[tier]; ok {
		return params
	}
	return tierParams[catalog.TierMedium]
}
