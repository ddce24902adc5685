// Copyright 2025 DBAssist
// SPDX-License-Identifier: Apache-2.0

// Package llm defines the provider interface the gateway calls after
// input validation, and a factory over the closed set of supported
// providers. Provider selection happens once at configuration time;
// there is no runtime re-dispatch on provider names.
package llm

import (
	"context"
	"fmt"
	"time"

	"dbassist/platform/llm/groq"
	"dbassist/platform/llm/huggingface"
	"dbassist/platform/llm/ollama"
)

// Provider is an LLM client. Complete is the only call the gateway makes
// on the request path; it receives the vetted system prompt, the
// assembled context, and the already-validated user text.
type Provider interface {
	Name() string
	Complete(ctx context.Context, systemPrompt, contextText, userText string) (string, error)
	HealthCheck(ctx context.Context) error
}

// Config selects and configures one provider.
type Config struct {
	Provider string        `yaml:"provider"`
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// New builds the configured provider. Unknown provider names are a
// configuration error, not a fallback.
func New(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "groq":
		return groq.NewProvider(groq.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})
	case "huggingface":
		return huggingface.NewProvider(huggingface.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})
	case "ollama":
		return ollama.NewProvider(ollama.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}
