// Package anthropic implements the reasoning provider client against the
// Anthropic Messages REST API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.anthropic.com/v1"

	apiVersion       = "2023-06-01"
	defaultMaxTokens = 2000
)

// Client sends prompts to the Anthropic Messages API. Calls are not retried
// here: a failed or malformed reasoning response fails the whole prediction
// request and the caller decides whether to retry it.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

type ClientOption func(*Client)

// WithBaseURL sets a custom base URL (used by tests).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithMaxTokens overrides the response token cap.
func WithMaxTokens(n int) ClientOption {
	return func(c *Client) {
		c.maxTokens = n
	}
}

// NewClient creates a reasoning client for the given model.
func NewClient(apiKey, model string, logger *zap.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		model:      model,
		maxTokens:  defaultMaxTokens,
		httpClient: &http.Client{Timeout: 90 * time.Second},
		logger:     logger.Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Complete sends a single user prompt and returns the raw text response.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal messages request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("messages API request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("messages API status %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	var parsed messagesResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode messages response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("messages API returned empty content")
	}

	c.logger.Debugw("Reasoning call complete",
		"model", c.model,
		"input_tokens", parsed.Usage.InputTokens,
		"output_tokens", parsed.Usage.OutputTokens)

	return parsed.Content[0].Text, nil
}

// Model returns the provider model identifier, recorded as provenance on
// every prediction it produces.
func (c *Client) Model() string {
	return c.model
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
