package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIProvider_Complete(t *testing.T) {
	requests := make(chan openaiRequest, 1)
	auth := make(chan string, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		auth <- r.Header.Get("Authorization")

		var req openaiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		requests <- req

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"요약입니다"}}]}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider(ProviderConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: server.URL})

	got, err := p.Complete(context.Background(), "system rules", "user payload")
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if got != "요약입니다" {
		t.Errorf("Complete() = %q, want %q", got, "요약입니다")
	}

	if a := <-auth; a != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want %q", a, "Bearer sk-test")
	}

	req := <-requests
	if req.Model != "gpt-4o-mini" {
		t.Errorf("model = %q, want %q", req.Model, "gpt-4o-mini")
	}
	if len(req.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(req.Messages))
	}
	if req.Messages[0].Role != "system" || req.Messages[0].Content != "system rules" {
		t.Errorf("messages[0] = %+v, want system rules", req.Messages[0])
	}
	if req.Messages[1].Role != "user" || req.Messages[1].Content != "user payload" {
		t.Errorf("messages[1] = %+v, want user payload", req.Messages[1])
	}
}

func TestOpenAIProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "api error body",
			status:  http.StatusUnauthorized,
			body:    `{"error":{"message":"Incorrect API key provided"}}`,
			wantMsg: "Incorrect API key provided",
		},
		{
			name:    "non-json body",
			status:  http.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			wantMsg: "parsing response (status 502)",
		},
		{
			name:    "unexpected status without error",
			status:  http.StatusServiceUnavailable,
			body:    `{}`,
			wantMsg: "unexpected status code: 503",
		},
		{
			name:    "no choices",
			status:  http.StatusOK,
			body:    `{"choices":[]}`,
			wantMsg: "no choices returned",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p := NewOpenAIProvider(ProviderConfig{APIKey: "k", Model: "m", BaseURL: server.URL})
			_, err := p.Complete(context.Background(), "s", "u")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}
