// Package main provides the entry point for the syllabus parser CLI and
// HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "syllabus_agent",
	Short: "Syllabus document parser",
	Long:  "Syllabus parser ingests course documents (PDF, DOCX, plain text, scanned images), recovers sparse text through OCR, and extracts a structured course record through a tiered model backend chain.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
