package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"storycast/internal/app"
	"storycast/pkg/config"
	"storycast/pkg/prompts"
)

var (
	modelsBackend  string
	modelsEndpoint string
	modelsKey      string
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models a backend offers",
	RunE:  runModels,
}

func init() {
	modelsCmd.Flags().StringVarP(&modelsBackend, "backend", "b", "groq", "Backend: groq, gemini, ollama, anthropic")
	modelsCmd.Flags().StringVarP(&modelsEndpoint, "endpoint", "e", "", "Override the backend's endpoint")
	modelsCmd.Flags().StringVarP(&modelsKey, "key", "k", "", "API key (falls back to the backend's environment variable)")
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	svc := app.NewService(cfg, prompts.Default(), slog.Default())

	models, err := svc.ListModels(cmd.Context(), app.Request{
		Backend:  modelsBackend,
		APIKey:   modelsKey,
		Endpoint: modelsEndpoint,
	})
	if err != nil {
		return err
	}

	for _, m := range models {
		fmt.Println(m)
	}
	return nil
}
