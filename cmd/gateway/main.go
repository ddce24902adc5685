// Copyright 2025 DBAssist
// SPDX-License-Identifier: Apache-2.0

// Package main is the entry point for the DBAssist gateway service.
//
// The gateway validates both sides of every conversation turn:
// - Rate limits, token budgets, and concurrency caps on input
// - Prompt injection, sensitive data, and topic scope checks on input
// - Integrity, agency, redaction, and reliability checks on output
//
// Usage:
//
//	./gateway
//
// Environment Variables:
//
//	PORT - HTTP server port (default: 8080)
//	CONFIG_PATH - Path to the YAML configuration file
//	DATABASE_URL - PostgreSQL connection string for audit persistence
//	REDIS_ADDR - Redis address for distributed rate limiting
//	JWT_SECRET - Secret for JWT token validation
//	LLM_PROVIDER - LLM backend: groq, huggingface, or ollama
//	LLM_API_KEY - API key for the selected provider
package main

import (
	"log"

	"dbassist/platform/gateway"
)

func main() {
	if err := gateway.Run(); err != nil {
		log.Fatalf("gateway: %v", err)
	}
}
