package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/naiseuue444/lawpal-ai-contracts-india/config"
)

func extractConfig(url string) *config.LLMConfig {
	return &config.LLMConfig{
		APIURL:         url,
		VisionAPIURL:   url,
		APIKey:         "test-key",
		Model:          "test-model",
		VisionModel:    "test-model",
		Temperature:    0.3,
		MaxTokens:      2000,
		TimeoutSeconds: 5,
	}
}

func completionBody(content string) []byte {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return b
}

func TestExtractSuccess(t *testing.T) {
	extracted := strings.Repeat("EMPLOYMENT AGREEMENT between the parties. ", 10)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("Expected Authorization header")
		}

		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Bad request body: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Errorf("Expected system + user messages, got %d", len(req.Messages))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(completionBody(extracted))
	}))
	defer server.Close()

	svc := NewExtractService(extractConfig(server.URL))
	result := svc.Extract(context.Background(), "data:application/pdf;base64,JVBERi0xLjQ=")

	if result.Degraded {
		t.Fatalf("Expected genuine extraction, got degraded: %s", result.Reason)
	}
	if result.Value != extracted {
		t.Errorf("Unexpected extracted text: %q", result.Value)
	}
}

func TestExtractFallbackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewExtractService(extractConfig(server.URL))
	result := svc.Extract(context.Background(), "JVBERi0xLjQ=")

	if !result.Degraded {
		t.Fatal("Expected degraded result on server error")
	}
	if result.Value != FallbackContractText() {
		t.Error("Expected the fixed fallback text verbatim")
	}
	if result.Reason == "" {
		t.Error("Expected a reason on degraded results")
	}
}

func TestExtractFallbackOnTransportError(t *testing.T) {
	// Point at a closed server to force a connection error.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	svc := NewExtractService(extractConfig(server.URL))
	result := svc.Extract(context.Background(), "JVBERi0xLjQ=")

	if !result.Degraded {
		t.Fatal("Expected degraded result on transport error")
	}
	if result.Value != FallbackContractText() {
		t.Error("Expected the fixed fallback text verbatim")
	}
}

func TestExtractFallbackOnShortOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(completionBody("too short"))
	}))
	defer server.Close()

	svc := NewExtractService(extractConfig(server.URL))
	result := svc.Extract(context.Background(), "JVBERi0xLjQ=")

	if !result.Degraded {
		t.Fatal("Expected degraded result for short output")
	}
	if result.Value != FallbackContractText() {
		t.Error("Expected the fixed fallback text verbatim")
	}
	if !strings.Contains(result.Reason, "too short") {
		t.Errorf("Expected short-output reason, got %q", result.Reason)
	}
}

func TestExtractFallbackWithoutAPIKey(t *testing.T) {
	cfg := extractConfig("http://unused.invalid")
	cfg.APIKey = ""

	svc := NewExtractService(cfg)
	result := svc.Extract(context.Background(), "JVBERi0xLjQ=")

	if !result.Degraded {
		t.Fatal("Expected degraded result without API key")
	}
	if result.Value != FallbackContractText() {
		t.Error("Expected the fixed fallback text verbatim")
	}
}

func TestExtractDeterministicFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewExtractService(extractConfig(server.URL))
	first := svc.Extract(context.Background(), "AAAA")
	second := svc.Extract(context.Background(), "BBBB")

	if first.Value != second.Value {
		t.Error("Fallback text must be identical across calls")
	}
}

func TestStripDataURI(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"with prefix", "data:application/pdf;base64,SGVsbG8=", "SGVsbG8="},
		{"without prefix", "SGVsbG8=", "SGVsbG8="},
		{"comma but no data prefix", "SGVs,bG8=", "SGVs,bG8="},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripDataURI(tt.input); got != tt.expected {
				t.Errorf("stripDataURI(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
