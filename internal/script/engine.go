package script

import (
	"context"
	"fmt"
	"log/slog"

	"storycast/internal/llm"
	"storycast/pkg/prompts"
)

// Engine composes classification and elicitation into the single generate
// entry point. One call runs its turns strictly sequentially on one
// private history; the injected logger is the call's progress sink.
type Engine struct {
	log     *slog.Logger
	catalog *prompts.Catalog
}

func NewEngine(log *slog.Logger, catalog *prompts.Catalog) *Engine {
	return &Engine{log: log, catalog: catalog}
}

// Generate produces the serialized script document for a video idea. The
// system prompt and the idea seed the history, the first turn classifies
// the video format, and the remaining turns fill that format's fields in
// catalog order.
func (e *Engine) Generate(ctx context.Context, backend llm.Backend, systemPrompt, userPrompt string) (string, error) {
	history := llm.NewHistory()
	history.Append(llm.RoleUser, systemPrompt)
	history.Append(llm.RoleUser, userPrompt)

	e.log.Info("Classifying video format")
	answer, err := e.classify(ctx, backend, history)
	if err != nil {
		return "", fmt.Errorf("classification turn: %w", err)
	}

	variant := ResolveVariant(e.log, answer)
	e.log.Info("Video format resolved", "type", variant)

	fields, ok := e.catalog.Fields(variant.String())
	if !ok {
		return "", fmt.Errorf("no field prompts for variant %s", variant)
	}

	doc := NewDocument(variant)
	if err := NewElicitor(e.log, backend).Fill(ctx, history, doc, fields); err != nil {
		return "", err
	}

	out, err := doc.Serialize()
	if err != nil {
		return "", err
	}

	e.log.Info("Script document complete", "type", variant, "fields", len(doc.FieldNames()))
	return out, nil
}

// ListModels enumerates the models the backend offers. No conversation
// state is involved.
func (e *Engine) ListModels(ctx context.Context, backend llm.Backend) ([]string, error) {
	return backend.ListModels(ctx)
}

func (e *Engine) classify(ctx context.Context, backend llm.Backend, history *llm.History) (string, error) {
	names := make([]string, 0, len(Variants()))
	for _, v := range Variants() {
		names = append(names, string(v))
	}

	prompt, err := e.catalog.RenderClassification(names)
	if err != nil {
		return "", fmt.Errorf("render classification prompt: %w", err)
	}

	// Backends with structured output wrap the answer in a JSON object
	// with a "type" key; unwrap before matching.
	if st, ok := backend.(llm.StructuredTurner); ok {
		raw, err := st.RunTurnStructured(ctx, history, prompt)
		if err != nil {
			return "", err
		}
		return unwrapType(raw), nil
	}

	return backend.RunTurn(ctx, history, prompt)
}
