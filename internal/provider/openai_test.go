package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestOpenAI(t *testing.T, serverURL, model string) *OpenAIProvider {
	t.Helper()
	p, err := NewOpenAI(serverURL, model, "test-key", 5*time.Second)
	if err != nil {
		t.Fatalf("NewOpenAI(%q, %q): %v", serverURL, model, err)
	}
	return p
}

func TestNewOpenAI(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		model   string
		key     string
		wantErr string
	}{
		{name: "valid", host: "https://api.openai.com/v1", model: "gpt-4o-mini", key: "sk-test"},
		{name: "empty host", host: "", model: "gpt-4o-mini", key: "sk-test", wantErr: "host cannot be empty"},
		{name: "invalid host", host: "://broken", model: "gpt-4o-mini", key: "sk-test", wantErr: "parsing openai host URL"},
		{name: "empty model", host: "https://api.openai.com/v1", model: "", key: "sk-test", wantErr: "model cannot be empty"},
		{name: "empty key", host: "https://api.openai.com/v1", model: "gpt-4o-mini", key: "", wantErr: "OPENAI_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewOpenAI(tt.host, tt.model, tt.key, time.Second)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("NewOpenAI() unexpected error: %v", err)
				}
				if p == nil {
					t.Fatal("NewOpenAI() returned nil provider")
				}
				return
			}
			if err == nil {
				t.Fatalf("NewOpenAI() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestOpenAIName(t *testing.T) {
	p, _ := NewOpenAI("https://api.openai.com/v1", "gpt-4o-mini", "test-key", time.Second)

	if got := p.Name(); got != "openai" {
		t.Errorf("Name() = %q, want %q", got, "openai")
	}
}

func TestOpenAIAvailable(t *testing.T) {
	tests := []struct {
		name    string
		model   string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name:  "model found",
			model: "gpt-4o-mini",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/models" {
					t.Errorf("path = %q, want %q", r.URL.Path, "/models")
				}
				if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
					t.Errorf("Authorization header = %q, want %q", got, "Bearer test-key")
				}
				resp := map[string]any{
					"object": "list",
					"data": []map[string]string{
						{"id": "gpt-4o-mini"},
						{"id": "gpt-4.1"},
					},
				}
				_ = json.NewEncoder(w).Encode(resp)
			},
		},
		{
			name:  "model missing",
			model: "missing-model",
			handler: func(w http.ResponseWriter, r *http.Request) {
				resp := map[string]any{
					"data": []map[string]string{{"id": "gpt-4o-mini"}},
				}
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantErr: "not found",
		},
		{
			name:  "server error",
			model: "gpt-4o-mini",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
			},
			wantErr: "status 401: bad key",
		},
		{
			name:  "invalid JSON",
			model: "gpt-4o-mini",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not-json"))
			},
			wantErr: "availability check failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			p := newTestOpenAI(t, srv.URL, tt.model)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			err := p.Available(ctx)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Available() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Available() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Available() error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestOpenAIChat(t *testing.T) {
	var gotModel string
	var gotMessages []map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/chat/completions")
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization header = %q, want %q", got, "Bearer test-key")
		}
		var req struct {
			Model    string           `json:"model"`
			Messages []map[string]any `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotModel = req.Model
		gotMessages = req.Messages

		resp := map[string]any{
			"choices": []map[string]any{
				{
					"message": map[string]string{
						"role":    "assistant",
						"content": "  The command was not found.\n",
					},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]int{
				"prompt_tokens":     9,
				"completion_tokens": 4,
				"total_tokens":      13,
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p := newTestOpenAI(t, srv.URL, "default-model")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := p.Chat(ctx, ChatRequest{
		Messages: []Message{
			{Role: "system", Content: "sys"},
			{Role: "user", Content: "hello"},
		},
		Model: "override-model",
	})
	if err != nil {
		t.Fatalf("Chat() unexpected error: %v", err)
	}

	if gotModel != "override-model" {
		t.Errorf("request model = %q, want %q", gotModel, "override-model")
	}
	if len(gotMessages) != 2 {
		t.Fatalf("messages len = %d, want %d", len(gotMessages), 2)
	}
	if gotMessages[0]["role"] != "system" || gotMessages[1]["content"] != "hello" {
		t.Errorf("messages = %v", gotMessages)
	}

	if got.Text != "The command was not found." {
		t.Errorf("Text = %q, want trimmed content", got.Text)
	}
	if got.FinishReason != "stop" {
		t.Errorf("FinishReason = %q, want %q", got.FinishReason, "stop")
	}
	wantUsage := Usage{InputTokens: 9, OutputTokens: 4, TotalTokens: 13}
	if got.Usage != wantUsage {
		t.Errorf("Usage = %+v, want %+v", got.Usage, wantUsage)
	}
}

func TestOpenAIChatUsesDefaultModel(t *testing.T) {
	var gotModel string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotModel, _ = req["model"].(string)

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "ok"}},
			},
			"usage": map[string]int{"prompt_tokens": 2, "completion_tokens": 1},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p := newTestOpenAI(t, srv.URL, "default-model")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := p.Chat(ctx, ChatRequest{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("Chat() unexpected error: %v", err)
	}
	if gotModel != "default-model" {
		t.Errorf("request model = %q, want %q", gotModel, "default-model")
	}
	if got.Usage.TotalTokens != 3 {
		t.Errorf("TotalTokens = %d, want computed 3", got.Usage.TotalTokens)
	}
}

func TestOpenAIChatErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "rate limited", http.StatusTooManyRequests)
			},
			wantErr: "openai chat failed",
		},
		{
			name: "invalid JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not-json"))
			},
			wantErr: "openai chat failed",
		},
		{
			name: "empty choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
			},
			wantErr: "empty response from model",
		},
		{
			name: "empty content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				resp := map[string]any{
					"choices": []map[string]any{
						{"message": map[string]string{"content": "   "}},
					},
				}
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantErr: "empty response from model",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			p := newTestOpenAI(t, srv.URL, "gpt-4o-mini")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_, err := p.Chat(ctx, ChatRequest{
				Messages: []Message{{Role: "user", Content: "hello"}},
			})
			if err == nil {
				t.Fatalf("Chat() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Chat() error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}
