// Copyright 2025 DBAssist
// SPDX-License-Identifier: Apache-2.0

/*
Package logger provides structured JSON logging for the gateway and its
validators.

# Overview

Log entries are written to stdout as single-line JSON so they can be shipped
to CloudWatch, ELK, or any other aggregation system without extra parsing.

Each entry includes:
  - Timestamp (RFC3339Nano format)
  - Log level (DEBUG, INFO, WARN, ERROR)
  - Component name (gateway, consumption, vector, etc.)
  - Instance ID and container name (for distributed tracing)
  - User ID (the gateway subject being rate limited / audited)
  - Request ID (for request correlation)
  - Custom fields

# Usage

Create a logger for your component:

	log := logger.New("gateway")

Log messages with user and request context:

	log.Warn("user-123", "req-456", "Request blocked", map[string]interface{}{
	    "validator": "injection",
	})

# Environment Variables

  - INSTANCE_ID: Deployment instance identifier
  - HOSTNAME: Container hostname (auto-detected)

# Thread Safety

Logger instances are safe for concurrent use from multiple goroutines.
*/
package logger
