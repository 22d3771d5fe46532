package script

import (
	"context"
	"fmt"
	"log/slog"

	"storycast/internal/llm"
	"storycast/pkg/prompts"
)

// Elicitor drives the field-by-field turn loop for a resolved variant.
type Elicitor struct {
	log     *slog.Logger
	backend llm.Backend
}

func NewElicitor(log *slog.Logger, backend llm.Backend) *Elicitor {
	return &Elicitor{log: log, backend: backend}
}

// Fill runs one turn per field prompt, in catalog order, and stores each
// result in the document. A turn error is fatal; a parse failure only
// degrades that field to raw text and the loop continues.
func (e *Elicitor) Fill(ctx context.Context, history *llm.History, doc *Document, fields []prompts.FieldPrompt) error {
	for _, f := range fields {
		e.log.Info("Requesting field", "field", f.Name, "prompt", f.Prompt)

		text, err := e.backend.RunTurn(ctx, history, f.Prompt)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}

		value, ok := Parse(text, f.Name)
		if !ok {
			e.log.Warn("Field response is not valid JSON, keeping raw text", "field", f.Name)
		}
		doc.Set(f.Name, value)

		e.log.Info("Field resolved", "field", f.Name, "value", value)
	}
	return nil
}
