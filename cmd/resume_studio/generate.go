package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/aiclient"
	"github.com/jonathan/resume-studio/internal/types"
)

var (
	generateInput   string
	generateAIURL   string
	generateTimeout time.Duration
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run one-shot AI resume generation from a document file",
	Long: `Reads a resume document from a JSON file, sends it to the AI service
and prints the generated document to stdout. Useful for smoke-testing the AI
service without starting the server.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateInput, "input", "i", "", "Path to resume document JSON file (required)")
	generateCmd.Flags().StringVar(&generateAIURL, "ai-url", "", "AI service base URL (defaults to RESUME_AI_URL env var)")
	generateCmd.Flags().DurationVar(&generateTimeout, "timeout", 2*time.Minute, "Request timeout")
	_ = generateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	baseURL := generateAIURL
	if baseURL == "" {
		baseURL = os.Getenv("RESUME_AI_URL")
	}
	if baseURL == "" {
		return fmt.Errorf("AI service URL is required (--ai-url or RESUME_AI_URL)")
	}

	data, err := os.ReadFile(generateInput)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
	defer cancel()

	client := aiclient.New(baseURL)
	generated, err := client.Generate(ctx, doc)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	out, err := json.MarshalIndent(generated, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
