// Package groq implements the batch backend: every turn resends the full
// conversation history as one chat-completion request.
package groq

import (
	"context"
	"fmt"
	"slices"

	"github.com/conneroisu/groq-go"

	"storycast/internal/llm"
)

var (
	_ llm.Backend          = (*Client)(nil)
	_ llm.StructuredTurner = (*Client)(nil)
)

type Client struct {
	client *groq.Client
	model  groq.ChatModel
	models []string
}

type Options struct {
	Model   string
	Models  []string
	BaseURL string
}

func NewClient(apiKey string, opts Options) (*Client, error) {
	var client *groq.Client
	var err error
	if opts.BaseURL != "" {
		client, err = groq.NewClient(apiKey, groq.WithBaseURL(opts.BaseURL))
	} else {
		client, err = groq.NewClient(apiKey)
	}
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}

	return &Client{
		client: client,
		model:  groq.ChatModel(opts.Model),
		models: opts.Models,
	}, nil
}

// RunTurn sends the full history plus the new prompt and appends both the
// prompt and the assistant reply to history.
func (c *Client) RunTurn(ctx context.Context, history *llm.History, prompt string) (string, error) {
	return c.turn(ctx, history, prompt, false)
}

// RunTurnStructured is RunTurn constrained to a JSON object response.
func (c *Client) RunTurnStructured(ctx context.Context, history *llm.History, prompt string) (string, error) {
	return c.turn(ctx, history, prompt, true)
}

func (c *Client) ListModels(context.Context) ([]string, error) {
	return slices.Clone(c.models), nil
}

func (c *Client) turn(ctx context.Context, history *llm.History, prompt string, jsonMode bool) (string, error) {
	msgs := make([]groq.ChatCompletionMessage, 0, history.Len()+1)
	for _, m := range history.Messages() {
		role := groq.RoleUser
		if m.Role == llm.RoleAssistant {
			role = groq.RoleAssistant
		}
		msgs = append(msgs, groq.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	msgs = append(msgs, groq.ChatCompletionMessage{Role: groq.RoleUser, Content: prompt})

	req := groq.ChatCompletionRequest{
		Model:    c.model,
		Messages: msgs,
	}
	if jsonMode {
		req.ResponseFormat = &groq.ChatResponseFormat{Type: "json_object"}
	}

	resp, err := c.client.ChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty response")
	}

	history.Append(llm.RoleUser, prompt)
	history.Append(llm.RoleAssistant, content)

	return content, nil
}
