package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"meridian-hq/minos/pkg/law"
	"meridian-hq/minos/pkg/trace"
)

// HTTPConfig contains configuration for an HTTP-backed capability.
type HTTPConfig struct {
	// Name identifies the provider in logs and errors.
	Name string `yaml:"name"`

	// BaseURL is the API base URL (e.g. "https://api.openai.com/v1").
	BaseURL string `yaml:"base_url"`

	// APIKey is the bearer token sent with each request.
	APIKey string `yaml:"api_key"`

	// Model is the model identifier used for both evaluation and
	// generation calls.
	Model string `yaml:"model"`

	// Timeout bounds a single capability call.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// MaxIdleConns controls connection pooling.
	// Default: 10
	MaxIdleConns int `yaml:"max_idle_conns"`
}

// HTTPClient is a Capability backed by an OpenAI-compatible chat completions
// endpoint. Evaluation requests ask for a JSON object and decode it into a
// critique; generation requests return the raw completion text.
type HTTPClient struct {
	config HTTPConfig
	client *http.Client
	logger *slog.Logger
}

// chat completions wire types, provider-agnostic subset.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// critiqueWire is the JSON shape the evaluator model is instructed to emit.
type critiqueWire struct {
	Violation bool   `json:"violation"`
	ArticleID string `json:"article_id"`
	Severity  string `json:"severity"`
	Reasoning string `json:"reasoning"`
}

// NewHTTPClient creates an HTTP-backed capability with connection pooling.
func NewHTTPClient(config HTTPConfig, logger *slog.Logger) *HTTPClient {
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	if config.MaxIdleConns <= 0 {
		config.MaxIdleConns = 10
	}
	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConns,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPClient{
		config: config,
		client: &http.Client{Transport: transport},
		logger: logger.With("component", "provider.http", "provider", config.Name),
	}
}

// Evaluate judges the draft against the laws via a structured completion.
func (c *HTTPClient) Evaluate(ctx context.Context, draft string, laws []law.Law) (*trace.Critique, error) {
	req := chatRequest{
		Model:       c.config.Model,
		Temperature: 0,
		ResponseFormat: &responseFormat{
			Type: "json_object",
		},
		Messages: []chatMessage{
			{Role: "system", Content: evaluateSystemPrompt},
			{Role: "user", Content: evaluateUserPrompt(draft, laws)},
		},
	}

	content, err := c.complete(ctx, "evaluate", req)
	if err != nil {
		return nil, err
	}

	var wire critiqueWire
	if err := json.Unmarshal([]byte(content), &wire); err != nil {
		return nil, &ParseError{
			Provider:    c.config.Name,
			RawResponse: truncate(content, 500),
			Cause:       err,
		}
	}

	critique := &trace.Critique{
		Violation: wire.Violation,
		Reasoning: wire.Reasoning,
	}
	if wire.Violation {
		critique.ArticleID = wire.ArticleID
		severity, err := law.ParseSeverity(wire.Severity)
		if err != nil {
			return nil, &ParseError{
				Provider:    c.config.Name,
				RawResponse: truncate(content, 500),
				Cause:       err,
			}
		}
		critique.Severity = severity
	}
	return critique, nil
}

// Generate rewrites the draft under the critique via a free-form completion.
func (c *HTTPClient) Generate(ctx context.Context, draft string, critique trace.Critique, cited *law.Law) (string, error) {
	req := chatRequest{
		Model:       c.config.Model,
		Temperature: 0,
		Messages: []chatMessage{
			{Role: "system", Content: generateSystemPrompt},
			{Role: "user", Content: generateUserPrompt(draft, critique, cited)},
		},
	}

	content, err := c.complete(ctx, "generate", req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// complete executes one chat completion call and returns the message content.
func (c *HTTPClient) complete(ctx context.Context, operation string, req chatRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || (ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded)) {
			return "", &TimeoutError{
				Provider:  c.config.Name,
				Operation: operation,
				Timeout:   c.config.Timeout,
			}
		}
		return "", &Error{
			Provider:  c.config.Name,
			Operation: operation,
			Message:   "request failed",
			Cause:     err,
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{
			Provider:  c.config.Name,
			Operation: operation,
			Message:   "read response",
			Cause:     err,
		}
	}

	c.logger.Debug("capability call completed",
		"operation", operation,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode != http.StatusOK {
		var parsed chatResponse
		message := truncate(string(raw), 200)
		if json.Unmarshal(raw, &parsed) == nil && parsed.Error != nil {
			message = parsed.Error.Message
		}
		return "", &Error{
			Provider:   c.config.Name,
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &ParseError{
			Provider:    c.config.Name,
			RawResponse: truncate(string(raw), 500),
			Cause:       err,
		}
	}
	if len(parsed.Choices) == 0 {
		return "", &ParseError{
			Provider:    c.config.Name,
			RawResponse: truncate(string(raw), 500),
			Cause:       fmt.Errorf("response contains no choices"),
		}
	}
	return parsed.Choices[0].Message.Content, nil
}

// truncate shortens s for inclusion in errors and logs.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
