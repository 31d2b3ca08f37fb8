package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/syllabus-parser/internal/observability"
	"github.com/jonathan/syllabus-parser/internal/pipeline"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the available model backends",
	Long:  `List the model backends currently available for extraction: statically configured remote providers plus any locally discovered Ollama models, ordered by performance tier.`,
	RunE:  runModels,
}

var modelsConfigPath string

func init() {
	modelsCmd.Flags().StringVar(&modelsConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	addProviderFlags(modelsCmd)

	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, _ []string) error {
	cfg, err := loadMergedConfig(cmd, modelsConfigPath)
	if err != nil {
		return err
	}
	// Listing backends never needs persistence.
	cfg.DatabaseURL = ""

	env, err := pipeline.Bootstrap(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	observability.NewPrinter(os.Stdout).PrintCatalog(env.Catalog.Snapshot())
	return nil
}
