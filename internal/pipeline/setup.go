package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/syllabus-parser/internal/catalog"
	"github.com/jonathan/syllabus-parser/internal/config"
	"github.com/jonathan/syllabus-parser/internal/db"
	"github.com/jonathan/syllabus-parser/internal/llm"
	"github.com/jonathan/syllabus-parser/internal/observability"
	"github.com/jonathan/syllabus-parser/internal/ocr"
	"github.com/jonathan/syllabus-parser/internal/parsing"
	"github.com/jonathan/syllabus-parser/internal/selection"
)

// Env bundles the wired runtime: the pipeline plus the long-lived pieces the
// caller manages (catalog refresh, client connections, database pool).
type Env struct {
	Pipeline *Pipeline
	Catalog  *catalog.Catalog
	Clients  llm.Registry
	Database *db.DB
}

// Bootstrap wires a Pipeline from configuration: provider clients for every
// configured backend, the model catalog with local discovery when an Ollama
// URL is set, the selection orchestrator, OCR, and optional persistence.
// At least one provider must be configured.
func Bootstrap(ctx context.Context, cfg config.Config) (*Env, error) {
	clients := llm.Registry{}
	var static []catalog.ModelDescriptor
	var probe catalog.Probe

	if cfg.OllamaURL != "" {
		client := llm.NewOllamaClient(cfg.OllamaURL)
		clients[client.Provider()] = client
		probe = catalog.NewOllamaProbe(cfg.OllamaURL)
	}
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			clients.Close()
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		clients[client.Provider()] = client
		static = append(static, catalog.GeminiDescriptors()...)
	}
	if cfg.OpenAIAPIKey != "" {
		client, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey)
		if err != nil {
			clients.Close()
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		clients[client.Provider()] = client
		static = append(static, catalog.OpenAIDescriptors()...)
	}
	if len(clients) == 0 {
		return nil, fmt.Errorf("no model backends configured: set ollama_url, gemini_api_key, or openai_api_key")
	}

	cat := catalog.New(probe, static, time.Duration(cfg.RefreshIntervalSeconds)*time.Second)
	if probe != nil {
		if err := cat.Refresh(ctx); err != nil {
			fmt.Printf("Warning: Local model discovery failed: %v\n", err)
		}
	}

	orch := selection.NewOrchestrator(cat, clients,
		time.Duration(cfg.AttemptTimeoutSeconds)*time.Second)

	var normalizerOpts []parsing.NormalizerOption
	if len(cfg.Preference) > 0 {
		normalizerOpts = append(normalizerOpts, parsing.WithPreference(cfg.Preference))
	}
	if cfg.ParseBudgetSeconds > 0 {
		normalizerOpts = append(normalizerOpts,
			parsing.WithBudget(time.Duration(cfg.ParseBudgetSeconds)*time.Second))
	}
	normalizer := parsing.NewNormalizer(orch, normalizerOpts...)

	var database *db.DB
	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Database unavailable, runs will not be persisted: %v\n", err)
			database = nil
		}
	}

	p := New(normalizer, ocr.NewTesseractEngine(), database, observability.NewPrinter(os.Stdout))
	p.PerPageThreshold = cfg.PerPageYieldThreshold
	p.DocumentThreshold = cfg.DocumentYieldThreshold
	p.ReviewThreshold = cfg.ReviewThreshold
	p.OCRParallelism = cfg.OCRParallelism
	p.Verbose = cfg.Verbose

	return &Env{
		Pipeline: p,
		Catalog:  cat,
		Clients:  clients,
		Database: database,
	}, nil
}

// Close releases client connections and the database pool.
func (e *Env) Close() {
	e.Clients.Close()
	if e.Database != nil {
		e.Database.Close()
	}
}
