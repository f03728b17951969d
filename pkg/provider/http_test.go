package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"meridian-hq/minos/pkg/law"
	"meridian-hq/minos/pkg/trace"
)

// chatServer returns an httptest server answering chat completions with the
// given message content.
func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want bearer test-key", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q, want test-model", req.Model)
		}

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func testHTTPConfig(baseURL string) HTTPConfig {
	return HTTPConfig{
		Name:    "test",
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: 5 * time.Second,
	}
}

func TestHTTPClient_Evaluate(t *testing.T) {
	server := chatServer(t, `{"violation": true, "article_id": "GCP.4", "severity": "HIGH", "reasoning": "speculative claim"}`)
	defer server.Close()

	client := NewHTTPClient(testHTTPConfig(server.URL), nil)
	laws := []law.Law{{ID: "GCP.4", Tier: law.TierDomain, Text: "Claims must be evidence-based.", Severity: law.SeverityHigh}}

	critique, err := client.Evaluate(context.Background(), "a hunch-based draft", laws)
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if !critique.Violation || critique.ArticleID != "GCP.4" || critique.Severity != law.SeverityHigh {
		t.Errorf("critique = %+v, want GCP.4/HIGH violation", critique)
	}
}

func TestHTTPClient_EvaluateCompliant(t *testing.T) {
	server := chatServer(t, `{"violation": false, "reasoning": "compliant"}`)
	defer server.Close()

	client := NewHTTPClient(testHTTPConfig(server.URL), nil)
	critique, err := client.Evaluate(context.Background(), "fine draft", nil)
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if critique.Violation || critique.ArticleID != "" || critique.Severity != 0 {
		t.Errorf("critique = %+v, want clean non-violation", critique)
	}
}

func TestHTTPClient_EvaluateParseError(t *testing.T) {
	server := chatServer(t, "this is not json")
	defer server.Close()

	client := NewHTTPClient(testHTTPConfig(server.URL), nil)
	_, err := client.Evaluate(context.Background(), "draft", nil)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Evaluate() error = %v, want *ParseError", err)
	}
}

func TestHTTPClient_EvaluateBadSeverity(t *testing.T) {
	server := chatServer(t, `{"violation": true, "article_id": "GCP.4", "severity": "EXTREME", "reasoning": "x"}`)
	defer server.Close()

	client := NewHTTPClient(testHTTPConfig(server.URL), nil)
	_, err := client.Evaluate(context.Background(), "draft", nil)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Evaluate() error = %v, want *ParseError", err)
	}
}

func TestHTTPClient_Generate(t *testing.T) {
	server := chatServer(t, "  Based on current data, the claim is withdrawn.\n")
	defer server.Close()

	client := NewHTTPClient(testHTTPConfig(server.URL), nil)
	critique := trace.Critique{Violation: true, ArticleID: "GCP.4", Severity: law.SeverityHigh, Reasoning: "speculative"}
	cited := &law.Law{ID: "GCP.4", Text: "Claims must be evidence-based."}

	revised, err := client.Generate(context.Background(), "a hunch-based draft", critique, cited)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if revised != "Based on current data, the claim is withdrawn." {
		t.Errorf("Generate() = %q, want trimmed completion", revised)
	}
}

func TestHTTPClient_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited", "type": "rate_limit"}}`))
	}))
	defer server.Close()

	client := NewHTTPClient(testHTTPConfig(server.URL), nil)
	_, err := client.Evaluate(context.Background(), "draft", nil)

	var providerErr *Error
	if !errors.As(err, &providerErr) {
		t.Fatalf("Evaluate() error = %v, want *Error", err)
	}
	if providerErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", providerErr.StatusCode)
	}
	if providerErr.Message != "rate limited" {
		t.Errorf("message = %q, want upstream error message", providerErr.Message)
	}
}

func TestHTTPClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server notices the client disconnect.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	cfg := testHTTPConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	client := NewHTTPClient(cfg, nil)

	_, err := client.Evaluate(context.Background(), "draft", nil)

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("Evaluate() error = %v, want *TimeoutError", err)
	}
	if timeoutErr.Operation != "evaluate" {
		t.Errorf("operation = %q, want evaluate", timeoutErr.Operation)
	}
}

func TestHTTPClient_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := NewHTTPClient(testHTTPConfig(server.URL), nil)
	_, err := client.Evaluate(context.Background(), "draft", nil)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Evaluate() error = %v, want *ParseError", err)
	}
}
