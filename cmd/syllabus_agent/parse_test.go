package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMergedConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OLLAMA_URL", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := loadMergedConfig(parseCmd, "")
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.AttemptTimeoutSeconds)
	assert.Equal(t, 120, cfg.ParseBudgetSeconds)
	assert.Equal(t, 0.5, cfg.ReviewThreshold)
	assert.Equal(t, ":8080", cfg.ListenAddr)
}

func TestLoadMergedConfigEnvFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-gemini-key")
	t.Setenv("OLLAMA_URL", "http://localhost:11434")

	cfg, err := loadMergedConfig(parseCmd, "")
	require.NoError(t, err)

	assert.Equal(t, "env-gemini-key", cfg.GeminiAPIKey)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaURL)
}

func TestLoadMergedConfigFromFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"ollama_url": "http://models.internal:11434",
		"parse_budget_seconds": 60,
		"review_threshold": 0.7
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := loadMergedConfig(parseCmd, path)
	require.NoError(t, err)

	assert.Equal(t, "http://models.internal:11434", cfg.OllamaURL)
	assert.Equal(t, 60, cfg.ParseBudgetSeconds)
	assert.Equal(t, 0.7, cfg.ReviewThreshold)
	assert.Equal(t, 20, cfg.AttemptTimeoutSeconds, "file leaves unset fields to defaults")
}

func TestLoadMergedConfigInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"review_threshold": 1.5}`), 0644))

	_, err := loadMergedConfig(parseCmd, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ReviewThreshold")
}
