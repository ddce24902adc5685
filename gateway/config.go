// Copyright 2025 DBAssist
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dbassist/platform/llm"
)

// Config is the service configuration, loaded from YAML with
// environment overrides for secrets.
type Config struct {
	Port         string `yaml:"port"`
	SystemPrompt string `yaml:"system_prompt"`
	DefaultTier  string `yaml:"default_tier"`

	// TopicDefaultAllow controls whether messages that match neither the
	// database allow-list nor the off-topic list pass.
	TopicDefaultAllow bool `yaml:"topic_default_allow"`

	// VectorScreening enables retrieval-input screening on the input
	// pipeline.
	VectorScreening bool `yaml:"vector_screening"`

	JWTSecret string `yaml:"jwt_secret"`

	Redis RedisConfig `yaml:"redis"`
	Audit AuditConfig `yaml:"audit"`
	LLM   llm.Config  `yaml:"llm"`
}

// RedisConfig configures the distributed consumption store. An empty
// Addr selects the in-memory store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// AuditConfig configures the PostgreSQL event sink. An empty
// DatabaseURL disables it; events then go to the log sink only.
type AuditConfig struct {
	DatabaseURL  string `yaml:"database_url"`
	QueueSize    int    `yaml:"queue_size"`
	Workers      int    `yaml:"workers"`
	FallbackPath string `yaml:"fallback_path"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Port:              "8080",
		DefaultTier:       "free",
		TopicDefaultAllow: true,
		Audit: AuditConfig{
			QueueSize:    1000,
			Workers:      2,
			FallbackPath: "audit-fallback.log",
		},
	}
}

// LoadConfig reads a YAML config file and applies environment
// overrides. Secrets prefer the environment over the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Audit.DatabaseURL = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
}
