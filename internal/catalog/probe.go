package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultOllamaURL is the conventional local discovery endpoint.
const DefaultOllamaURL = "http://localhost:11434"

// OllamaProbe discovers local backends from an Ollama-compatible tags
// endpoint. Unavailability is expected and reported as an error the catalog
// treats as stale-but-usable.
type OllamaProbe struct {
	baseURL string
	client  *http.Client
}

// NewOllamaProbe creates a probe for the given base URL (empty for default).
func NewOllamaProbe(baseURL string) *OllamaProbe {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	return &OllamaProbe{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// tagsResponse is the discovery endpoint payload.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListModels fetches the available backend identifiers.
func (p *OllamaProbe) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build discovery request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("discovery endpoint unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discovery endpoint returned status %d", resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("failed to decode discovery response: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names, nil
}

// BaseURL returns the probe's endpoint base, used to configure the matching
// completion client.
func (p *OllamaProbe) BaseURL() string {
	return p.baseURL
}
