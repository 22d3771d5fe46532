// Package anthropic implements the raw HTTP backend: the full history is
// serialized into a messages request per turn, posted directly, and the
// first content block of the reply is the turn text.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"time"

	"storycast/internal/llm"
)

const (
	defaultBaseURL   = "https://api.anthropic.com/v1/messages"
	apiVersion       = "2023-06-01"
	defaultMaxTokens = 1024
	defaultTimeout   = 60 * time.Second
)

var _ llm.Backend = (*Client)(nil)

type Client struct {
	apiKey     string
	httpClient *http.Client
	model      string
	models     []string
	baseURL    string
}

type Options struct {
	Model   string
	Models  []string
	BaseURL string
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type response struct {
	Content []contentBlock `json:"content"`
	Error   *apiError      `json:"error,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewClient(apiKey string, opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		model:      opts.Model,
		models:     opts.Models,
		baseURL:    baseURL,
	}
}

// RunTurn serializes the full history plus the new prompt into one
// messages request. Any non-2xx status is fatal for the call. The prompt
// and the reply are appended to history on success.
func (c *Client) RunTurn(ctx context.Context, history *llm.History, prompt string) (string, error) {
	msgs := make([]message, 0, history.Len()+1)
	for _, m := range history.Messages() {
		msgs = append(msgs, message{Role: string(m.Role), Content: m.Content})
	}
	msgs = append(msgs, message{Role: string(llm.RoleUser), Content: prompt})

	data, err := json.Marshal(request{
		Model:     c.model,
		MaxTokens: defaultMaxTokens,
		Messages:  msgs,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	body, err := c.doRequest(ctx, data)
	if err != nil {
		return "", err
	}

	text, err := parseResponse(body)
	if err != nil {
		return "", err
	}

	history.Append(llm.RoleUser, prompt)
	history.Append(llm.RoleAssistant, text)

	return text, nil
}

func (c *Client) ListModels(context.Context) ([]string, error) {
	return slices.Clone(c.models), nil
}

func (c *Client) doRequest(ctx context.Context, data []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("api error: %s: %s", resp.Status, bytes.TrimSpace(body))
	}

	return body, nil
}

func parseResponse(data []byte) (string, error) {
	var resp response
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("anthropic error: %s", resp.Error.Message)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no response content")
	}

	text := resp.Content[0].Text
	if text == "" {
		return "", fmt.Errorf("empty response")
	}

	return text, nil
}
