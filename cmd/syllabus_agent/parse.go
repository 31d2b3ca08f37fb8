package main

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/syllabus-parser/internal/config"
	"github.com/jonathan/syllabus-parser/internal/pipeline"
	"github.com/jonathan/syllabus-parser/internal/server"
	"github.com/jonathan/syllabus-parser/internal/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a syllabus document into a structured course record",
	Long: `Parse a syllabus document (PDF, DOCX, plain text, or scanned image) into structured JSON.

Low-yield documents fall back to OCR automatically. Extraction runs through the configured model backends in tier order until one succeeds.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runParse,
}

var (
	parseConfigPath  string
	parseInputFile   string
	parseOutputFile  string
	parseGeminiKey   string
	parseOpenAIKey   string
	parseOllamaURL   string
	parseDatabaseURL string
	parseVerbose     bool
)

// addProviderFlags registers the backend and persistence flags shared by the
// parse and serve commands.
func addProviderFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&parseGeminiKey, "gemini-api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")
	cmd.Flags().StringVar(&parseOpenAIKey, "openai-api-key", "", "OpenAI API key (optional, defaults to OPENAI_API_KEY env var)")
	cmd.Flags().StringVar(&parseOllamaURL, "ollama-url", "", "Ollama server URL (optional, defaults to OLLAMA_URL env var)")
	cmd.Flags().StringVar(&parseDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
}

func init() {
	parseCmd.Flags().StringVar(&parseConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	parseCmd.Flags().StringVarP(&parseInputFile, "in", "i", "", "Path to the syllabus document (required)")
	parseCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Path to write the result JSON (default: stdout)")
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print detailed debug information")
	addProviderFlags(parseCmd)

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadMergedConfig(cmd, parseConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = parseVerbose
	}

	if parseInputFile == "" {
		return fmt.Errorf("--in is required")
	}

	data, err := os.ReadFile(parseInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	blob := types.DocumentBlob{
		Data:     data,
		MimeType: mime.TypeByExtension(filepath.Ext(parseInputFile)),
		Filename: filepath.Base(parseInputFile),
	}

	env, err := pipeline.Bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	opts := pipeline.Options{Source: parseInputFile}
	if cfg.Verbose {
		opts.OnProgress = func(e pipeline.ProgressEvent) {
			if e.TotalPages > 0 {
				_, _ = fmt.Fprintf(os.Stderr, "[%s] %s\n", e.Category, e.Message)
				return
			}
			_, _ = fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", e.Category, e.Step, e.Message)
		}
	}

	result, parseErr := env.Pipeline.Parse(ctx, blob, opts)

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if parseOutputFile != "" {
		if err := os.WriteFile(parseOutputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", parseOutputFile)
	} else {
		_, _ = fmt.Fprintf(os.Stdout, "%s\n", jsonBytes)
	}

	if parseErr != nil {
		return fmt.Errorf("parse failed: %w", parseErr)
	}
	if result.RequiresReview {
		_, _ = fmt.Fprintf(os.Stderr, "Confidence %.2f is below the review threshold; manual review recommended\n", result.Confidence)
	}
	return nil
}

// loadMergedConfig loads the optional config file, applies CLI and
// environment overrides, and fills remaining gaps with defaults.
func loadMergedConfig(cmd *cobra.Command, path string) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("gemini-api-key") {
		cfg.GeminiAPIKey = parseGeminiKey
	}
	if cmd.Flags().Changed("openai-api-key") {
		cfg.OpenAIAPIKey = parseOpenAIKey
	}
	if cmd.Flags().Changed("ollama-url") {
		cfg.OllamaURL = parseOllamaURL
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = parseDatabaseURL
	}

	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.OpenAIAPIKey == "" {
		cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.OllamaURL == "" {
		cfg.OllamaURL = os.Getenv("OLLAMA_URL")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		AttemptTimeoutSeconds: 20,
		ParseBudgetSeconds:    120,
		ReviewThreshold:       0.5,
		MaxUploadBytes:        server.DefaultMaxUploadBytes,
		ListenAddr:            ":8080",
	})

	return cfg, nil
}
