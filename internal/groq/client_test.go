package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storycast/internal/llm"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

func chatResponse(content string) map[string]any {
	return map[string]any{
		"id":      "test-id",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "llama-3.3-70b-versatile",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
	}
}

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient("test-api-key", Options{
		Model:   "llama-3.3-70b-versatile",
		Models:  []string{"llama-3.3-70b-versatile", "llama-3.1-8b-instant"},
		BaseURL: serverURL + "/",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestRunTurnResendsFullHistory(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(chatResponse("the reply"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	h := llm.NewHistory()
	h.Append(llm.RoleUser, "system prompt")
	h.Append(llm.RoleUser, "the idea")
	h.Append(llm.RoleAssistant, "TopicVideo")

	reply, err := client.RunTurn(context.Background(), h, "next question")
	if err != nil {
		t.Fatalf("RunTurn() error = %v", err)
	}
	if reply != "the reply" {
		t.Errorf("reply = %q", reply)
	}

	if len(got.Messages) != 4 {
		t.Fatalf("sent %d messages, want 4 (history + prompt)", len(got.Messages))
	}
	if got.Messages[3].Content != "next question" || got.Messages[3].Role != "user" {
		t.Errorf("last message = %+v", got.Messages[3])
	}
	if got.Messages[2].Role != "assistant" {
		t.Errorf("assistant role not preserved: %+v", got.Messages[2])
	}
	if got.ResponseFormat != nil {
		t.Error("plain turn sent a response_format constraint")
	}

	// Adapter appends prompt and reply itself.
	if h.Len() != 5 {
		t.Errorf("history length = %d, want 5", h.Len())
	}
	msgs := h.Messages()
	if msgs[4].Role != llm.RoleAssistant || msgs[4].Content != "the reply" {
		t.Errorf("assistant reply not appended: %+v", msgs[4])
	}
}

func TestRunTurnStructuredSetsJSONMode(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(chatResponse(`{"type": "QuizVideo"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	h := llm.NewHistory()
	h.Append(llm.RoleUser, "idea")

	reply, err := client.RunTurnStructured(context.Background(), h, "pick a format")
	if err != nil {
		t.Fatalf("RunTurnStructured() error = %v", err)
	}
	if reply != `{"type": "QuizVideo"}` {
		t.Errorf("reply = %q", reply)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v, want json_object", got.ResponseFormat)
	}
}

func TestRunTurnErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     map[string]any
		wantHist int
	}{
		{"serverError", http.StatusInternalServerError, nil, 1},
		{"emptyChoices", http.StatusOK, map[string]any{"choices": []any{}}, 1},
		{"emptyContent", http.StatusOK, chatResponse(""), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.body != nil {
					_ = json.NewEncoder(w).Encode(tt.body)
				}
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)

			h := llm.NewHistory()
			h.Append(llm.RoleUser, "idea")

			if _, err := client.RunTurn(context.Background(), h, "prompt"); err == nil {
				t.Fatal("expected error")
			}
			// Failed turns must not grow history.
			if h.Len() != tt.wantHist {
				t.Errorf("history length = %d, want %d", h.Len(), tt.wantHist)
			}
		})
	}
}

func TestListModels(t *testing.T) {
	client := newTestClient(t, "http://localhost:0")
	models, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(models) != 2 || models[0] != "llama-3.3-70b-versatile" {
		t.Errorf("models = %v", models)
	}
}
