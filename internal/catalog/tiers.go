package catalog

import "strings"

// ProviderOllama is the provider name for probed local backends.
const ProviderOllama = "ollama"

// modelClass is one classification rule for a discovered model name.
type modelClass struct {
	substrings []string
	tier       Tier
	capability Capability
	cost       int
}

// localModelClasses classifies discovered local model names, first match
// wins. Names that match nothing fall through to a low-tier general entry.
var localModelClasses = []modelClass{
	{[]string{"llava", "vision", "moondream"}, TierMedium, CapabilityVision, 3},
	{[]string{"embed", "minilm", "bge-"}, TierLow, CapabilityEmbedding, 1},
	{[]string{"coder", "codellama", "starcoder", "codegemma"}, TierMedium, CapabilityCoding, 3},
	{[]string{"70b", "72b", "90b", "405b"}, TierHigh, CapabilityGeneral, 6},
	{[]string{"llama3", "mistral", "mixtral", "qwen", "gemma2", "gemma3"}, TierMedium, CapabilityGeneral, 3},
	{[]string{"phi", "tinyllama", "gemma:2b", "1b", "3b"}, TierLow, CapabilityGeneral, 1},
}

// DescribeLocalModel maps a discovered backend identifier to a descriptor.
func DescribeLocalModel(name string) ModelDescriptor {
	lower := strings.ToLower(name)
	for _, class := range localModelClasses {
		for _, sub := range class.substrings {
			if strings.Contains(lower, sub) {
				return ModelDescriptor{
					ID:                 name,
					Provider:           ProviderOllama,
					PerformanceTier:    class.tier,
					Capability:         class.capability,
					ApproxResourceCost: class.cost,
					Local:              true,
				}
			}
		}
	}
	return ModelDescriptor{
		ID:                 name,
		Provider:           ProviderOllama,
		PerformanceTier:    TierLow,
		Capability:         CapabilityGeneral,
		ApproxResourceCost: 1,
		Local:              true,
	}
}

// fallbackLocalDescriptors is the hard-coded minimal list used when the
// discovery probe has never succeeded.
func fallbackLocalDescriptors() []ModelDescriptor {
	return []ModelDescriptor{
		DescribeLocalModel("llama3.1:8b"),
	}
}

// GeminiDescriptors returns the static remote backends for a Gemini API key.
func GeminiDescriptors() []ModelDescriptor {
	return []ModelDescriptor{
		{ID: "gemini-2.5-pro", Provider: "gemini", PerformanceTier: TierHigh, Capability: CapabilityGeneral, ApproxResourceCost: 8},
		{ID: "gemini-2.5-flash", Provider: "gemini", PerformanceTier: TierMedium, Capability: CapabilityGeneral, ApproxResourceCost: 3},
		{ID: "gemini-2.5-flash-lite", Provider: "gemini", PerformanceTier: TierLow, Capability: CapabilityGeneral, ApproxResourceCost: 1},
	}
}

// OpenAIDescriptors returns the static remote backends for an OpenAI key.
func OpenAIDescriptors() []ModelDescriptor {
	return []ModelDescriptor{
		{ID: "gpt-4o", Provider: "openai", PerformanceTier: TierHigh, Capability: CapabilityGeneral, ApproxResourceCost: 8},
		{ID: "gpt-4o-mini", Provider: "openai", PerformanceTier: TierMedium, Capability: CapabilityGeneral, ApproxResourceCost: 2},
	}
}
