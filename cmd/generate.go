package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"storycast/internal/app"
	"storycast/pkg/config"
	"storycast/pkg/prompts"
)

var (
	genPrompt   string
	genBackend  string
	genModel    string
	genEndpoint string
	genKey      string
	genOut      string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a script document from a video idea",
	Long: `Generate classifies the idea into a video format, elicits that format's
fields turn by turn, and prints the resulting script document as JSON.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genPrompt, "prompt", "p", "", "Video idea to generate a script for")
	generateCmd.Flags().StringVarP(&genBackend, "backend", "b", "groq", "Backend: groq, gemini, ollama, anthropic")
	generateCmd.Flags().StringVarP(&genModel, "model", "m", "", "Override the backend's default model")
	generateCmd.Flags().StringVarP(&genEndpoint, "endpoint", "e", "", "Override the backend's endpoint")
	generateCmd.Flags().StringVarP(&genKey, "key", "k", "", "API key (falls back to the backend's environment variable)")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "Write the document to a file instead of stdout")
	_ = generateCmd.MarkFlagRequired("prompt")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	catalog, err := prompts.Load()
	if err != nil {
		return fmt.Errorf("load prompt catalog: %w", err)
	}

	svc := app.NewService(cfg, catalog, slog.Default())

	doc, err := svc.Generate(cmd.Context(), app.Request{
		Backend:  genBackend,
		APIKey:   genKey,
		Model:    genModel,
		Endpoint: genEndpoint,
	}, genPrompt)
	if err != nil {
		return err
	}

	if genOut != "" {
		if err := os.WriteFile(genOut, []byte(doc+"\n"), 0644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		slog.Info("Script document written", "path", genOut)
		return nil
	}

	fmt.Println(doc)
	return nil
}
