// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config represents the runtime configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via CLI flags.
type Config struct {
	// Providers
	GeminiAPIKey string   `json:"gemini_api_key,omitempty"`                            // Gemini API key
	OpenAIAPIKey string   `json:"openai_api_key,omitempty"`                            // OpenAI API key
	OllamaURL    string   `json:"ollama_url,omitempty" validate:"omitempty,url"`       // Ollama server URL
	Preference   []string `json:"preference,omitempty" validate:"omitempty,dive,min=1"` // Ordered model-id preference list

	// Timing
	AttemptTimeoutSeconds  int `json:"attempt_timeout_seconds,omitempty" validate:"gte=0"`  // Per-backend attempt cap
	ParseBudgetSeconds     int `json:"parse_budget_seconds,omitempty" validate:"gte=0"`     // Total extraction deadline
	RefreshIntervalSeconds int `json:"refresh_interval_seconds,omitempty" validate:"gte=0"` // Catalog probe interval

	// Extraction
	PerPageYieldThreshold  int     `json:"per_page_yield_threshold,omitempty" validate:"gte=0"`  // Chars per page below which OCR triggers
	DocumentYieldThreshold int     `json:"document_yield_threshold,omitempty" validate:"gte=0"`  // Whole-document char floor
	OCRParallelism         int     `json:"ocr_parallelism,omitempty" validate:"gte=0"`           // Concurrent OCR pages
	ReviewThreshold        float64 `json:"review_threshold,omitempty" validate:"gte=0,lte=1"`    // Confidence below this needs review
	MaxUploadBytes         int64   `json:"max_upload_bytes,omitempty" validate:"gte=0"`          // Upload size cap

	// Infrastructure
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	ListenAddr  string `json:"listen_addr,omitempty"`  // HTTP server bind address
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

var validate = validator.New()

// Validate checks that the configuration has valid values. Required fields
// are not checked here; those are enforced by CLI flag validation after
// merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			return fmt.Errorf("config error: field %q fails %q constraint", first.Field(), first.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.OpenAIAPIKey == "" {
		result.OpenAIAPIKey = defaults.OpenAIAPIKey
	}
	if result.OllamaURL == "" {
		result.OllamaURL = defaults.OllamaURL
	}
	if len(result.Preference) == 0 {
		result.Preference = defaults.Preference
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}

	if result.AttemptTimeoutSeconds == 0 {
		result.AttemptTimeoutSeconds = defaults.AttemptTimeoutSeconds
	}
	if result.ParseBudgetSeconds == 0 {
		result.ParseBudgetSeconds = defaults.ParseBudgetSeconds
	}
	if result.RefreshIntervalSeconds == 0 {
		result.RefreshIntervalSeconds = defaults.RefreshIntervalSeconds
	}
	if result.PerPageYieldThreshold == 0 {
		result.PerPageYieldThreshold = defaults.PerPageYieldThreshold
	}
	if result.DocumentYieldThreshold == 0 {
		result.DocumentYieldThreshold = defaults.DocumentYieldThreshold
	}
	if result.OCRParallelism == 0 {
		result.OCRParallelism = defaults.OCRParallelism
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.ReviewThreshold == 0 {
		result.ReviewThreshold = defaults.ReviewThreshold
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
