// Copyright 2025 DBAssist
// SPDX-License-Identifier: Apache-2.0

/*
Package gateway provides the DBAssist security gateway - the input and
output validation layer that sits between users and the LLM powering
the database assistant.

# Overview

Every conversation turn passes through the gateway twice. User input is
validated before it reaches the model, and the model's response is
validated before it reaches the user:

	User → input pipeline → LLM → output pipeline → User

The input pipeline runs, in order:

  - Consumption guard: rate limits, token budgets, concurrency caps,
    and per-IP throttling (in-memory or Redis-backed)
  - Prompt injection detection (role manipulation, instruction
    override, encoding tricks, system prompt extraction)
  - Sensitive data screening (credentials, connection strings, PII)
  - Topic scope check (keeps the assistant on database ground)
  - Retrieval screening for vector-store bound text (optional)

The first denial wins: later validators do not run, and the caller gets
that validator's reason. Consumption is recorded even when a later
validator rejects the message, so repeated probing still burns quota.

The output pipeline runs:

  - Integrity check (system prompt leakage, injection echo,
    instruction-like response content)
  - Agency limiter (downgrades or blocks responses that promise
    autonomous action, flags destructive SQL)
  - Sensitive data redaction
  - Misinformation scoring with reliability enhancement

A blocked response is replaced wholesale with a "Security Alert"
message; the raw model output is never partially exposed.

# Usage

	log := logger.New("gateway")
	gw, err := gateway.New(log,
		gateway.WithProvider(provider),
		gateway.WithSystemPrompt(prompt),
	)
	if err != nil {
		// a system prompt that fails hygiene checks is refused outright
	}

	answer, err := gw.Chat(ctx, userID, clientIP, message)

Or run the full HTTP service:

	gateway.Run()

# Events

Every validator reports security events through an events.Sink. The
default sink writes structured log lines; production deployments add
the audit.Queue sink for durable PostgreSQL persistence with JSONL
fallback.

# Metrics

Prometheus metrics are exposed at /metrics:

  - dbassist_gateway_input_checks_total - input validations by outcome
  - dbassist_gateway_output_checks_total - output validations by outcome
  - dbassist_gateway_blocked_total - blocks by pipeline stage
  - dbassist_gateway_check_duration_milliseconds - validation latency

# Thread Safety

A Gateway is safe for concurrent use. Validators are stateless after
construction; the consumption guard synchronizes its own counters.
*/
package gateway
