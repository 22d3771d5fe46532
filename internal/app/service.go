// Package app wires configuration, the prompt catalog and the selected
// backend into the generation engine for the CLI layer.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"storycast/internal/anthropic"
	"storycast/internal/gemini"
	"storycast/internal/groq"
	"storycast/internal/llm"
	"storycast/internal/ollama"
	"storycast/internal/script"
	"storycast/pkg/config"
	"storycast/pkg/prompts"
)

// BackendNames lists the selectable backends.
var BackendNames = []string{"groq", "gemini", "ollama", "anthropic"}

type Service struct {
	cfg    *config.Config
	engine *script.Engine
	log    *slog.Logger
}

func NewService(cfg *config.Config, catalog *prompts.Catalog, log *slog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		engine: script.NewEngine(log, catalog),
		log:    log,
	}
}

// Request selects a backend and optionally overrides its configured
// credential, model, or endpoint for one call.
type Request struct {
	Backend  string
	APIKey   string
	Model    string
	Endpoint string
}

// Generate runs the full flow for one video idea and returns the
// serialized script document.
func (s *Service) Generate(ctx context.Context, req Request, prompt string) (string, error) {
	backend, err := s.buildBackend(ctx, req)
	if err != nil {
		return "", err
	}
	return s.engine.Generate(ctx, backend, s.cfg.Content.SystemPrompt, prompt)
}

// ListModels enumerates the models the selected backend offers.
func (s *Service) ListModels(ctx context.Context, req Request) ([]string, error) {
	backend, err := s.buildBackend(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.engine.ListModels(ctx, backend)
}

// buildBackend resolves credentials and defaults for the selected
// backend. A missing API key fails before any network I/O, uniformly for
// every backend that needs one.
func (s *Service) buildBackend(ctx context.Context, req Request) (llm.Backend, error) {
	switch req.Backend {
	case "groq":
		key := firstNonEmpty(req.APIKey, s.cfg.GroqAPIKey)
		if key == "" {
			return nil, fmt.Errorf("missing Groq API key (set GROQ_API_KEY)")
		}
		return groq.NewClient(key, groq.Options{
			Model:  firstNonEmpty(req.Model, s.cfg.Groq.Model),
			Models: s.cfg.Groq.Models,
		})

	case "gemini":
		key := firstNonEmpty(req.APIKey, s.cfg.GeminiAPIKey)
		if key == "" {
			return nil, fmt.Errorf("missing Gemini API key (set GEMINI_API_KEY)")
		}
		return gemini.NewClient(ctx, key, gemini.Options{
			Model:  firstNonEmpty(req.Model, s.cfg.Gemini.Model),
			Models: s.cfg.Gemini.Models,
		})

	case "ollama":
		return ollama.NewClient(ollama.Options{
			Endpoint: firstNonEmpty(req.Endpoint, s.cfg.Ollama.Endpoint),
			Model:    firstNonEmpty(req.Model, s.cfg.Ollama.Model),
		}), nil

	case "anthropic":
		key := firstNonEmpty(req.APIKey, s.cfg.AnthropicAPIKey)
		if key == "" {
			return nil, fmt.Errorf("missing Anthropic API key (set ANTHROPIC_API_KEY)")
		}
		return anthropic.NewClient(key, anthropic.Options{
			Model:   firstNonEmpty(req.Model, s.cfg.Anthropic.Model),
			Models:  s.cfg.Anthropic.Models,
			BaseURL: req.Endpoint,
		}), nil

	default:
		return nil, fmt.Errorf("unknown backend %q (choose one of %v)", req.Backend, BackendNames)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
