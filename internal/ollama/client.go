// Package ollama implements the stateless streaming backend: the full
// history is resent on every turn to a local chat endpoint, and the
// response arrives as a finite sequence of NDJSON chunks that are drained
// and concatenated before the turn completes.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"storycast/internal/llm"
	"storycast/pkg/httputil"
)

const (
	chatPath = "/api/chat"
	tagsPath = "/api/tags"

	// Local inference can be slow on first load.
	defaultTimeout = 2 * time.Minute
)

var _ llm.Backend = (*Client)(nil)

type Client struct {
	httpClient *http.Client
	listClient *httputil.RetryClient
	endpoint   string
	model      string
}

type Options struct {
	Endpoint string
	Model    string
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatChunk struct {
	Message message `json:"message"`
	Done    bool    `json:"done"`
	Error   string  `json:"error,omitempty"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

func NewClient(opts Options) *Client {
	httpClient := &http.Client{Timeout: defaultTimeout}
	return &Client{
		httpClient: httpClient,
		listClient: httputil.NewRetryClient(httpClient),
		endpoint:   opts.Endpoint,
		model:      opts.Model,
	}
}

// RunTurn posts the full history plus the new prompt, drains the chunk
// stream, and appends both the prompt and the concatenated reply to
// history.
func (c *Client) RunTurn(ctx context.Context, history *llm.History, prompt string) (string, error) {
	msgs := make([]message, 0, history.Len()+1)
	for _, m := range history.Messages() {
		msgs = append(msgs, message{Role: string(m.Role), Content: m.Content})
	}
	msgs = append(msgs, message{Role: string(llm.RoleUser), Content: prompt})

	data, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: msgs,
		Stream:   true,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+chatPath, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat request failed: %s: %s", resp.Status, bytes.TrimSpace(body))
	}

	content, err := drainChunks(resp.Body)
	if err != nil {
		return "", err
	}
	if content == "" {
		return "", fmt.Errorf("empty response")
	}

	history.Append(llm.RoleUser, prompt)
	history.Append(llm.RoleAssistant, content)

	return content, nil
}

// ListModels queries the server's tag list live.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+tagsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.listClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list models failed: %s", resp.Status)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("parse model list: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func drainChunks(r io.Reader) (string, error) {
	var content bytes.Buffer
	dec := json.NewDecoder(r)
	for {
		var chunk chatChunk
		if err := dec.Decode(&chunk); err == io.EOF {
			break
		} else if err != nil {
			return "", fmt.Errorf("decode chunk: %w", err)
		}
		if chunk.Error != "" {
			return "", fmt.Errorf("ollama error: %s", chunk.Error)
		}
		content.WriteString(chunk.Message.Content)
		if chunk.Done {
			break
		}
	}
	return content.String(), nil
}
