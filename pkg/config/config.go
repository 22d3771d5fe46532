package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath = "config.yaml"

	defaultGroqModel      = "llama-3.3-70b-versatile"
	defaultGeminiModel    = "gemini-2.0-flash"
	defaultAnthropicModel = "claude-sonnet-4-20250514"
	defaultOllamaModel    = "llama3.2"
	defaultOllamaEndpoint = "http://localhost:11434"

	defaultSystemPrompt = "You are a scriptwriter for short-form vertical videos. " +
		"You write punchy, high-retention content and you answer every question " +
		"about the video being planned concisely, in the format requested."
)

// Backend holds the per-provider configuration record: default model,
// endpoint where the provider has one, and the static model list for
// providers without a live model query.
type Backend struct {
	Model    string   `yaml:"model"`
	Endpoint string   `yaml:"endpoint"`
	Models   []string `yaml:"models"`
}

type Config struct {
	GroqAPIKey      string
	GeminiAPIKey    string
	AnthropicAPIKey string

	Groq      Backend       `yaml:"groq"`
	Gemini    Backend       `yaml:"gemini"`
	Anthropic Backend       `yaml:"anthropic"`
	Ollama    Backend       `yaml:"ollama"`
	Content   ContentConfig `yaml:"content"`
}

type ContentConfig struct {
	SystemPrompt string `yaml:"system_prompt"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
	}

	loadYAMLConfig(cfg)
	applyDefaults(cfg)

	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		cfg.Ollama.Endpoint = host
	}

	return cfg
}

func loadYAMLConfig(cfg *Config) {
	data, err := os.ReadFile(defaultConfigPath)
	if err != nil {
		slog.Debug("No config.yaml found, using defaults")
		return
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		slog.Error("Failed to parse config.yaml", "error", err)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Groq.Model == "" {
		cfg.Groq.Model = defaultGroqModel
	}
	if len(cfg.Groq.Models) == 0 {
		cfg.Groq.Models = []string{
			"llama-3.3-70b-versatile",
			"llama-3.1-8b-instant",
			"mixtral-8x7b-32768",
			"gemma2-9b-it",
		}
	}

	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = defaultGeminiModel
	}
	if len(cfg.Gemini.Models) == 0 {
		cfg.Gemini.Models = []string{
			"gemini-2.0-flash",
			"gemini-2.0-flash-lite",
			"gemini-1.5-pro",
		}
	}

	if cfg.Anthropic.Model == "" {
		cfg.Anthropic.Model = defaultAnthropicModel
	}
	if len(cfg.Anthropic.Models) == 0 {
		cfg.Anthropic.Models = []string{
			"claude-sonnet-4-20250514",
			"claude-3-5-haiku-20241022",
		}
	}

	if cfg.Ollama.Model == "" {
		cfg.Ollama.Model = defaultOllamaModel
	}
	if cfg.Ollama.Endpoint == "" {
		cfg.Ollama.Endpoint = defaultOllamaEndpoint
	}

	if cfg.Content.SystemPrompt == "" {
		cfg.Content.SystemPrompt = defaultSystemPrompt
	}
}
