package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/atelier-cloud/brandgen/internal/domain"
)

type chatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

func chatServer(t *testing.T, contents []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		resp := chatResponse{ID: "chatcmpl-test", Object: "chat.completion", Model: "test-model"}
		for i, c := range contents {
			choice := chatChoice{Index: i, FinishReason: "stop"}
			choice.Message.Role = "assistant"
			choice.Message.Content = c
			resp.Choices = append(resp.Choices, choice)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestGenerator_Generate(t *testing.T) {
	server := chatServer(t, []string{"First variant.", "  Second variant.  ", ""})
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	variants, err := gen.Generate(context.Background(), "write copy", 3)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	// Empty choices are dropped; fewer than requested is not an error.
	if len(variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(variants))
	}
	if variants[1] != "Second variant." {
		t.Errorf("expected trimmed content, got %q", variants[1])
	}
}

func TestGenerator_ZeroCount(t *testing.T) {
	gen := NewGenerator(&GeneratorConfig{APIKey: "test-key", Model: "test-model", Logger: zap.NewNop()})

	variants, err := gen.Generate(context.Background(), "write copy", 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if variants != nil {
		t.Errorf("expected no variants for count 0, got %v", variants)
	}
}

func TestGenerator_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"model overloaded"}}`))
	}))
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	_, err := gen.Generate(context.Background(), "write copy", 2)
	if !errors.Is(err, domain.ErrGenerationProviderError) {
		t.Fatalf("expected generation provider error, got %v", err)
	}
}
