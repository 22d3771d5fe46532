package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storycast/internal/llm"
)

func TestRunTurn(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         any
		wantErr      bool
		wantText     string
		wantErrPart  string
		wantHistSize int
	}{
		{
			name:   "successfulTurn",
			status: http.StatusOK,
			body: response{Content: []contentBlock{
				{Type: "text", Text: "TopicVideo"},
			}},
			wantText:     "TopicVideo",
			wantHistSize: 4,
		},
		{
			name:         "apiErrorField",
			status:       http.StatusOK,
			body:         response{Error: &apiError{Type: "invalid_request_error", Message: "bad model"}},
			wantErr:      true,
			wantErrPart:  "bad model",
			wantHistSize: 2,
		},
		{
			name:         "noContent",
			status:       http.StatusOK,
			body:         response{Content: []contentBlock{}},
			wantErr:      true,
			wantErrPart:  "no response content",
			wantHistSize: 2,
		},
		{
			name:         "unauthorized",
			status:       http.StatusUnauthorized,
			body:         map[string]any{"type": "error"},
			wantErr:      true,
			wantErrPart:  "401",
			wantHistSize: 2,
		},
		{
			name:         "serverError",
			status:       http.StatusInternalServerError,
			body:         map[string]any{"type": "error"},
			wantErr:      true,
			wantErrPart:  "500",
			wantHistSize: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotReq request
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("x-api-key") != "test-key" {
					t.Error("missing x-api-key header")
				}
				if r.Header.Get("anthropic-version") != apiVersion {
					t.Error("missing anthropic-version header")
				}
				if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
					t.Errorf("decode request: %v", err)
				}

				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(tt.body)
			}))
			defer server.Close()

			client := NewClient("test-key", Options{
				Model:   "claude-sonnet-4-20250514",
				BaseURL: server.URL,
			})

			h := llm.NewHistory()
			h.Append(llm.RoleUser, "system")
			h.Append(llm.RoleUser, "idea")

			got, err := client.RunTurn(context.Background(), h, "pick a format")

			if (err != nil) != tt.wantErr {
				t.Fatalf("RunTurn() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.wantErrPart) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErrPart)
			}
			if !tt.wantErr && got != tt.wantText {
				t.Errorf("RunTurn() = %q, want %q", got, tt.wantText)
			}

			if h.Len() != tt.wantHistSize {
				t.Errorf("history length = %d, want %d", h.Len(), tt.wantHistSize)
			}

			if gotReq.Model != "claude-sonnet-4-20250514" {
				t.Errorf("request model = %q", gotReq.Model)
			}
			if len(gotReq.Messages) != 3 {
				t.Errorf("sent %d messages, want full history + prompt", len(gotReq.Messages))
			}
			if gotReq.MaxTokens == 0 {
				t.Error("max_tokens not set")
			}
		})
	}
}

func TestListModels(t *testing.T) {
	client := NewClient("key", Options{
		Models: []string{"claude-sonnet-4-20250514", "claude-3-5-haiku-20241022"},
	})

	models, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(models) != 2 {
		t.Errorf("models = %v", models)
	}
}
