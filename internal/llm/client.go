// Package llm provides client abstractions over text-completion backends.
package llm

import "context"

// Client is an abstraction over one completion provider. A single client
// serves every model the provider hosts; the orchestrator passes the model
// id chosen from the catalog.
type Client interface {
	// GenerateJSON generates a JSON-oriented completion with the given
	// model and generation parameters.
	GenerateJSON(ctx context.Context, model, prompt string, params GenerationParams) (string, error)
	// Provider returns the provider name this client serves.
	Provider() string
	// Close releases any resources held by the client.
	Close() error
}

// Registry maps provider names to their clients.
type Registry map[string]Client

// Close closes every registered client.
func (r Registry) Close() {
	for _, client := range r {
		_ = client.Close()
	}
}
