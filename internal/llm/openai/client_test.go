package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"quickai-backend/internal/llm"
)

func TestCompleteSendsPromptAndBudget(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "  generated text  "}},
			},
		})
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient("key", "gemini-2.0-flash", srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	out, err := client.Complete(context.Background(), llm.CompletionInput{
		Prompt:      "write about go",
		MaxTokens:   800,
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "generated text" {
		t.Fatalf("expected trimmed content, got %q", out)
	}
	if gotReq.Model != "gemini-2.0-flash" {
		t.Fatalf("expected model in request, got %q", gotReq.Model)
	}
	if gotReq.MaxTokens != 800 {
		t.Fatalf("expected max_tokens 800, got %d", gotReq.MaxTokens)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Fatalf("expected one user message, got %+v", gotReq.Messages)
	}
}

func TestCompleteSurfacesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "quota exceeded", "type": "rate_limit"},
		})
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient("key", "gemini-2.0-flash", srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Complete(context.Background(), llm.CompletionInput{Prompt: "x"})
	if err == nil {
		t.Fatal("expected provider error")
	}
}

func TestNewClientValidatesConfig(t *testing.T) {
	if _, err := NewClient("", "model", ""); err == nil {
		t.Fatal("expected error without api key")
	}
	if _, err := NewClient("key", "", ""); err == nil {
		t.Fatal("expected error without model")
	}
}
