// Package gemini implements the session backend: one chat session per
// generation call, seeded from the history, with the provider keeping
// conversation state. Each turn streams chunks that are drained and
// concatenated before the turn completes.
package gemini

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"google.golang.org/genai"

	"storycast/internal/llm"
)

var _ llm.Backend = (*Client)(nil)

type Client struct {
	client *genai.Client
	model  string
	models []string
	chat   *genai.Chat
}

type Options struct {
	Model  string
	Models []string
}

func NewClient(ctx context.Context, apiKey string, opts Options) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{
		client: client,
		model:  opts.Model,
		models: opts.Models,
	}, nil
}

// RunTurn sends only the new prompt; the session holds the history. The
// session is created on the first turn, seeded with whatever the history
// contains at that point, and retained for the rest of the call. The
// chunk stream is finite and consumed to exhaustion.
func (c *Client) RunTurn(ctx context.Context, history *llm.History, prompt string) (string, error) {
	if c.chat == nil {
		chat, err := c.client.Chats.Create(ctx, c.model, nil, toContents(history.Messages()))
		if err != nil {
			return "", fmt.Errorf("create chat session: %w", err)
		}
		c.chat = chat
	}

	var sb strings.Builder
	for chunk, err := range c.chat.SendMessageStream(ctx, genai.Part{Text: prompt}) {
		if err != nil {
			return "", fmt.Errorf("stream message: %w", err)
		}
		sb.WriteString(chunkText(chunk))
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response")
	}
	return sb.String(), nil
}

func (c *Client) ListModels(context.Context) ([]string, error) {
	return slices.Clone(c.models), nil
}

func toContents(msgs []llm.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		var role genai.Role = genai.RoleUser
		if m.Role == llm.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromParts([]*genai.Part{{Text: m.Content}}, role))
	}
	return contents
}

func chunkText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}
