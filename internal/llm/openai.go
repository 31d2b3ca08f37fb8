package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIClient implements Client for the OpenAI API.
type OpenAIClient struct {
	apiKey string
}

// NewOpenAIClient creates an OpenAI-backed client.
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	return &OpenAIClient{apiKey: apiKey}, nil
}

// GenerateJSON generates a JSON completion with the given model.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, model, prompt string, params GenerationParams) (string, error) {
	if model == "" {
		return "", fmt.Errorf("model id is required")
	}

	backend, err := openai.New(openai.WithToken(c.apiKey), openai.WithModel(model))
	if err != nil {
		return "", fmt.Errorf("failed to create openai model: %w", err)
	}

	text, err := llms.GenerateFromSinglePrompt(ctx, backend, prompt,
		llms.WithTemperature(params.Temperature),
		llms.WithTopP(params.TopP),
		llms.WithMaxTokens(params.MaxTokens),
		llms.WithJSONMode(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return CleanJSONBlock(text), nil
}

// Provider returns the provider name.
func (c *OpenAIClient) Provider() string {
	return "openai"
}

// Close is a no-op; the client holds no connections between calls.
func (c *OpenAIClient) Close() error {
	return nil
}
