package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"storycast/internal/ollama"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for Storycast",
	Long:  `Configure backend API keys and write them to a .env file.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("🎬 Storycast Setup"))

	if _, err := os.Stat(".env"); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	var backends []string
	if err := huh.NewMultiSelect[string]().
		Title("Which backends do you want to configure?").
		Options(
			huh.NewOption("Groq (hosted, fast)", "groq").Selected(true),
			huh.NewOption("Gemini (hosted, streaming session)", "gemini"),
			huh.NewOption("Anthropic (hosted)", "anthropic"),
			huh.NewOption("Ollama (local, no key needed)", "ollama"),
		).
		Value(&backends).
		Run(); err != nil {
		return err
	}

	env := make(map[string]string)

	for _, b := range backends {
		switch b {
		case "groq":
			if err := askKey(env, "GROQ_API_KEY", "Groq API Key", "https://console.groq.com/keys"); err != nil {
				return err
			}
		case "gemini":
			if err := askKey(env, "GEMINI_API_KEY", "Gemini API Key", "https://aistudio.google.com/apikey"); err != nil {
				return err
			}
		case "anthropic":
			if err := askKey(env, "ANTHROPIC_API_KEY", "Anthropic API Key", "https://console.anthropic.com/settings/keys"); err != nil {
				return err
			}
		case "ollama":
			if err := configureOllama(env); err != nil {
				return err
			}
		}
	}

	return writeEnvFile(env)
}

func askKey(env map[string]string, envVar, title, hint string) error {
	var key string
	if err := huh.NewInput().
		Title(title).
		Description(hint).
		EchoMode(huh.EchoModePassword).
		Value(&key).
		Run(); err != nil {
		return err
	}

	key = strings.TrimSpace(key)
	if key != "" {
		env[envVar] = key
	}
	return nil
}

func configureOllama(env map[string]string) error {
	var host string
	if err := huh.NewInput().
		Title("Ollama host").
		Placeholder("http://localhost:11434").
		Value(&host).
		Run(); err != nil {
		return err
	}

	host = strings.TrimSpace(host)
	if host == "" {
		host = "http://localhost:11434"
	}
	env["OLLAMA_HOST"] = host

	var models []string
	var checkErr error
	_ = spinner.New().
		Title("Checking Ollama server").
		Action(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			client := ollama.NewClient(ollama.Options{Endpoint: host})
			models, checkErr = client.ListModels(ctx)
		}).
		Run()

	if checkErr != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("Could not reach Ollama at %s: %v", host, checkErr)))
		return nil
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Ollama reachable, %d models installed", len(models))))
	return nil
}

func writeEnvFile(env map[string]string) error {
	f, err := os.Create(".env")
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	order := []string{
		"GROQ_API_KEY",
		"GEMINI_API_KEY",
		"ANTHROPIC_API_KEY",
		"OLLAMA_HOST",
	}

	for _, key := range order {
		if val, ok := env[key]; ok && val != "" {
			_, _ = fmt.Fprintf(f, "%s=%s\n", key, val)
		}
	}

	fmt.Println(successStyle.Render("✓ Created .env file"))
	fmt.Println()
	fmt.Println(infoStyle.Render(`Try it out:
  storycast generate -b groq -p "weird facts about octopuses"`))
	return nil
}
