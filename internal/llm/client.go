// Package llm provides the OpenRouter-backed generation client used by the
// ingestion pipeline and the diagnostic chat service.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
)

const defaultModel = "google/gemini-2.5-flash-preview-09-2025"

// Generator is the capability the orchestrator and chat service depend on.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client handles communication with the OpenRouter chat completions API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	retry      RetryConfig
}

// Config holds client configuration.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
	BackoffBase time.Duration
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents the API request structure.
type Request struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// Response represents the API response structure.
type Response struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
	Error   *APIErr  `json:"error,omitempty"`
}

// Choice represents a single completion choice.
type Choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// APIErr represents an error payload from the API.
type APIErr struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// NewClient creates a new generation client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	retry := RetryConfig{MaxRetries: cfg.MaxRetries, BackoffBase: cfg.BackoffBase}
	if retry.MaxRetries <= 0 {
		retry.MaxRetries = defaultMaxRetries
	}
	if retry.BackoffBase <= 0 {
		retry.BackoffBase = defaultBackoffBase
	}

	return &Client{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		retry:      retry,
	}, nil
}

// Generate sends the prompt and returns the completion text. Rate-limit
// responses are retried with backoff; other failures propagate immediately.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(Request{
		Model:    c.model,
		Messages: []Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", domain.APIError("marshal request", err)
	}

	return c.retryWithBackoff(ctx, func() (string, error) {
		return c.send(ctx, body)
	})
}

func (c *Client) send(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", domain.APIError("build request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Title", "BoilerBrain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.APIError("send request", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.APIError("read response", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", domain.RateLimitedError(fmt.Sprintf("HTTP 429: %s", string(respBody)), nil)
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("API returned status %d: %s", resp.StatusCode, string(respBody))
		if IsQuotaMessage(string(respBody)) {
			return "", domain.RateLimitedError(msg, nil)
		}
		return "", domain.APIError(msg, nil)
	}

	var parsed Response
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", domain.APIError("unmarshal response", err)
	}

	if parsed.Error != nil {
		if IsQuotaMessage(parsed.Error.Message) {
			return "", domain.RateLimitedError(parsed.Error.Message, nil)
		}
		return "", domain.APIError(parsed.Error.Message, nil)
	}

	if len(parsed.Choices) == 0 {
		return "", domain.APIError("empty choices in response", nil)
	}

	return parsed.Choices[0].Message.Content, nil
}
