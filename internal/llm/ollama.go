package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaClient implements Client for a local Ollama server.
type OllamaClient struct {
	serverURL string
}

// NewOllamaClient creates a client for the Ollama server at serverURL.
func NewOllamaClient(serverURL string) *OllamaClient {
	return &OllamaClient{serverURL: serverURL}
}

// GenerateJSON generates a JSON completion with the given local model. The
// underlying langchaingo model is bound to a model name at construction, so
// one is built per call with the catalog-selected id.
func (c *OllamaClient) GenerateJSON(ctx context.Context, model, prompt string, params GenerationParams) (string, error) {
	if model == "" {
		return "", fmt.Errorf("model id is required")
	}

	opts := []ollama.Option{ollama.WithModel(model)}
	if c.serverURL != "" {
		opts = append(opts, ollama.WithServerURL(c.serverURL))
	}

	backend, err := ollama.New(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create ollama model: %w", err)
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
func (c *OllamaClient) Provider() string {
	return "ollama"
}

// Close is a no-op; the client holds no connections between calls.
func (c *OllamaClient) Close() error {
	return nil
}
