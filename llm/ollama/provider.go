// Package ollama provides a client for a self-hosted Ollama instance.
// No API key is involved; the instance is expected to be reachable on
// the local network.
package ollama

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
	// DefaultBaseURL is the default local Ollama endpoint.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "llama3.2:3b"

	// DefaultTimeout is the default HTTP timeout. Local generation is
	// slower than hosted APIs.
	DefaultTimeout = 45 * time.Second

	defaultTemperature = 0.7
	defaultNumPredict  = 800
)

// HTTPClient is the subset of http.Client the provider needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config contains configuration for the Ollama provider.
type Config struct {
	BaseURL string        // Optional, default DefaultBaseURL
	Model   string        // Optional, default DefaultModel
	Timeout time.Duration // Optional, default DefaultTimeout
}

// Provider implements generation against a local Ollama server.
type Provider struct {
	baseURL string
	model   string
	client  HTTPClient

	mu      sync.RWMutex
	healthy bool
}

// NewProvider creates an Ollama provider.
func NewProvider(cfg Config) (*Provider, error) {
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
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
		healthy: true,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return "ollama" }

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

// Complete generates one non-streaming completion.
func (p *Provider) Complete(ctx context.Context, systemPrompt, contextText, userText string) (string, error) {
	prompt := systemPrompt + "\n\n" + contextText + "\n\nUser situation: " + userText

	body, err := json.Marshal(generateRequest{
		Model:  p.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: defaultTemperature,
			NumPredict:  defaultNumPredict,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/api/generate", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.setHealthy(false)
		return "", fmt.Errorf("ollama API error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		p.setHealthy(false)
		return "", fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, data)
	}
	p.setHealthy(true)

	var apiResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return strings.TrimSpace(apiResp.Response), nil
}

// HealthCheck verifies the local server is up.
func (p *Provider) HealthCheck(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.setHealthy(false)
		return fmt.Errorf("ollama health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		p.setHealthy(false)
		return fmt.Errorf("ollama health check failed: status %d", resp.StatusCode)
	}
	p.setHealthy(true)
	return nil
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
}
