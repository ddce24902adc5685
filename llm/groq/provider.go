// Package groq provides the Groq chat-completions client. Groq exposes
// an OpenAI-compatible API, so the request and response shapes follow
// that wire format.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultBaseURL is the Groq OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "llama3-8b-8192"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	defaultMaxTokens   = 1500
	defaultTemperature = 0.7
	defaultTopP        = 0.9
)

// HTTPClient is the subset of http.Client the provider needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config contains configuration for the Groq provider.
type Config struct {
	APIKey  string        // Required
	BaseURL string        // Optional, default DefaultBaseURL
	Model   string        // Optional, default DefaultModel
	Timeout time.Duration // Optional, default DefaultTimeout
}

// Provider implements chat completions against the Groq API.
type Provider struct {
	apiKey  string
	baseURL string
	model   string
	client  HTTPClient

	mu      sync.RWMutex
	healthy bool
}

// NewProvider creates a Groq provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Provider{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
		healthy: true,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return "groq" }

// IsHealthy reports the last observed health state.
func (p *Provider) IsHealthy() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.healthy
}

func (p *Provider) setHealthy(healthy bool) {
	p.mu.Lock()
	p.healthy = healthy
	p.mu.Unlock()
}

// Complete sends one chat completion and returns the trimmed content of
// the first choice.
func (p *Provider) Complete(ctx context.Context, systemPrompt, contextText, userText string) (string, error) {
	userContent := userText
	if contextText != "" {
		userContent = contextText + "\n\n" + userText
	}

	apiReq := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
		TopP:        defaultTopP,
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.setHealthy(false)
		return "", fmt.Errorf("groq API error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			p.setHealthy(false)
		}
		return "", fmt.Errorf("groq API error (status %d): %s", resp.StatusCode, data)
	}
	p.setHealthy(true)

	var apiResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("groq API returned no choices")
	}
	return strings.TrimSpace(apiResp.Choices[0].Message.Content), nil
}

// HealthCheck verifies the API is reachable with the configured key.
func (p *Provider) HealthCheck(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.setHealthy(false)
		return fmt.Errorf("groq health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		p.setHealthy(false)
		return fmt.Errorf("groq health check failed: status %d", resp.StatusCode)
	}
	p.setHealthy(true)
	return nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float64       `json:"top_p"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
