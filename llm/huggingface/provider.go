// Package huggingface provides a client for the Hugging Face hosted
// inference API. The API is text-in/text-out: the system prompt,
// context, and user text are concatenated into one prompt and the
// generated continuation is returned.
package huggingface

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
	// DefaultBaseURL is the hosted inference endpoint.
	DefaultBaseURL = "https://api-inference.huggingface.co"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "microsoft/DialoGPT-large"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// maxPromptLength bounds the prompt sent to the inference API.
	maxPromptLength = 1000
)

// HTTPClient is the subset of http.Client the provider needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config contains configuration for the Hugging Face provider.
type Config struct {
	APIKey  string        // Required
	BaseURL string        // Optional, default DefaultBaseURL
	Model   string        // Optional, default DefaultModel
	Timeout time.Duration // Optional, default DefaultTimeout
}

// Provider implements text generation against the inference API.
type Provider struct {
	apiKey  string
	baseURL string
	model   string
	client  HTTPClient

	mu      sync.RWMutex
	healthy bool
}

// NewProvider creates a Hugging Face provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("huggingface API key is required")
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
func (p *Provider) Name() string { return "huggingface" }

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

// Complete generates a continuation for the concatenated prompt. The
// echoed prompt prefix is stripped from the generated text.
func (p *Provider) Complete(ctx context.Context, systemPrompt, contextText, userText string) (string, error) {
	prompt := systemPrompt + "\n\n" + contextText + "\n\nUser situation: " + userText
	if len(prompt) > maxPromptLength {
		prompt = prompt[:maxPromptLength]
	}

	body, err := json.Marshal(inferenceRequest{Inputs: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/models/"+p.model, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.setHealthy(false)
		return "", fmt.Errorf("huggingface API error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			p.setHealthy(false)
		}
		return "", fmt.Errorf("huggingface API error (status %d): %s", resp.StatusCode, data)
	}
	p.setHealthy(true)

	var apiResp []inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(apiResp) == 0 {
		return "", fmt.Errorf("huggingface API returned no generations")
	}

	generated := strings.Replace(apiResp[0].GeneratedText, prompt, "", 1)
	return strings.TrimSpace(generated), nil
}

// HealthCheck verifies the configured model is reachable.
func (p *Provider) HealthCheck(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.baseURL+"/models/"+p.model, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.setHealthy(false)
		return fmt.Errorf("huggingface health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		p.setHealthy(false)
		return fmt.Errorf("huggingface health check failed: status %d", resp.StatusCode)
	}
	p.setHealthy(true)
	return nil
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

type inferenceResponse struct {
	GeneratedText string `json:"generated_text"`
}
