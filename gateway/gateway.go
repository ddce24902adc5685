// Copyright 2025 DBAssist
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"fmt"
	"time"

	"dbassist/platform/gateway/agency"
	"dbassist/platform/gateway/consumption"
	"dbassist/platform/gateway/events"
	"dbassist/platform/gateway/injection"
	"dbassist/platform/gateway/integrity"
	"dbassist/platform/gateway/misinfo"
	"dbassist/platform/gateway/patterns"
	"dbassist/platform/gateway/sensitive"
	"dbassist/platform/gateway/topic"
	"dbassist/platform/gateway/vector"
	"dbassist/platform/llm"
	"dbassist/platform/shared/logger"
)

// Fixed output denials. A flagged model response is discarded entirely;
// partial disclosure of a response that failed validation is itself a
// leak risk.
const (
	outputDenial       = "Security Alert: Response blocked by security validation"
	outputDenialPrefix = "Security Alert: "
	misinfoDenial      = "Security Alert: Response withheld due to reliability concerns"

	responseFooter = "\n\n*Response validated for security compliance*"
)

// TierSource resolves a user's subscription tier. Looked up per request
// so tier upgrades take effect without a restart.
type TierSource interface {
	Tier(userID string) consumption.Tier
}

// TierSourceFunc adapts a function to the TierSource interface.
type TierSourceFunc func(userID string) consumption.Tier

// Tier calls f(userID).
func (f TierSourceFunc) Tier(userID string) consumption.Tier { return f(userID) }

// InputVerdict is the outcome of the input-side pipeline.
type InputVerdict struct {
	Allowed bool   `json:"allowed"`
	Message string `json:"message,omitempty"`
	Tokens  int    `json:"tokens"`
}

// Gateway runs every inbound message and every model response through a
// fixed pipeline of validators sharing one pattern registry. The first
// failing validator short-circuits its side of the pipeline; consumption
// counters are committed before later validators run, so a rejected
// attempt still consumed quota.
type Gateway struct {
	registry  *patterns.Registry
	log       *logger.Logger
	sink      events.Sink
	estimator consumption.TokenEstimator

	guard     *consumption.Guard
	injection *injection.Detector
	sensitive *sensitive.Screen
	topic     *topic.Checker
	vector    *vector.Validator
	integrity *integrity.Validator
	agency    *agency.Validator
	misinfo   *misinfo.Validator

	tiers           TierSource
	provider        llm.Provider
	systemPrompt    string
	vectorScreening bool

	consumptionStore consumption.Store
	topicOpts        []topic.CheckerOption
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithEventSink sets the sink receiving security events from every
// validator. Defaults to the structured-log sink.
func WithEventSink(sink events.Sink) Option {
	return func(g *Gateway) { g.sink = sink }
}

// WithConsumptionStore sets the backing store for rate and concurrency
// state. Defaults to in-memory; use the Redis store for multi-process
// deployments.
func WithConsumptionStore(store consumption.Store) Option {
	return func(g *Gateway) { g.consumptionStore = store }
}

// WithTierSource sets the per-user tier lookup.
func WithTierSource(src TierSource) Option {
	return func(g *Gateway) { g.tiers = src }
}

// WithProvider sets the LLM collaborator used by Chat.
func WithProvider(p llm.Provider) Option {
	return func(g *Gateway) { g.provider = p }
}

// WithSystemPrompt sets the system prompt forwarded to the provider. The
// prompt is vetted for embedded credentials at construction.
func WithSystemPrompt(prompt string) Option {
	return func(g *Gateway) { g.systemPrompt = prompt }
}

// WithVectorScreening enables the retrieval-input screen on the input
// pipeline for deployments that feed user text into embedding search.
func WithVectorScreening(enabled bool) Option {
	return func(g *Gateway) { g.vectorScreening = enabled }
}

// WithTopicOptions forwards options to the topic checker.
func WithTopicOptions(opts ...topic.CheckerOption) Option {
	return func(g *Gateway) { g.topicOpts = opts }
}

// New builds a Gateway and its validators over a shared registry. It
// fails if the configured system prompt leaks credentials or
// architecture detail.
func New(log *logger.Logger, opts ...Option) (*Gateway, error) {
	if log == nil {
		log = logger.New("security-gateway")
	}

	g := &Gateway{
		registry:  patterns.NewRegistry(),
		log:       log,
		estimator: consumption.NewWordCountEstimator(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.sink == nil {
		g.sink = events.NewLogSink(log)
	}

	guardOpts := []consumption.GuardOption{consumption.WithEventSink(g.sink)}
	if g.consumptionStore != nil {
		guardOpts = append(guardOpts, consumption.WithStore(g.consumptionStore))
	}
	g.guard = consumption.NewGuard(g.registry, log, guardOpts...)
	g.injection = injection.NewDetector(g.registry, log, g.sink)
	g.sensitive = sensitive.NewScreen(g.registry, log, g.sink)
	g.topic = topic.NewChecker(log, g.sink, g.topicOpts...)
	g.vector = vector.NewValidator(g.registry, log, g.sink)
	g.integrity = integrity.NewValidator(g.registry, log, g.sink)
	g.agency = agency.NewValidator(g.registry, log, g.sink)
	g.misinfo = misinfo.NewValidator(g.registry, log, g.sink)

	if g.systemPrompt != "" {
		if res := g.sensitive.CheckHygiene("system", g.systemPrompt); !res.Valid {
			return nil, fmt.Errorf("system prompt failed hygiene check: %s", res.Message)
		}
	}
	return g, nil
}

// ValidateInput runs the input-side pipeline: consumption, injection,
// sensitive data, topic scope, and (when enabled) retrieval screening.
// The first denial wins and carries that validator's reason only.
func (g *Gateway) ValidateInput(ctx context.Context, text, userID, clientIP string) InputVerdict {
	start := time.Now()
	defer func() {
		promCheckDuration.WithLabelValues("input").Observe(float64(time.Since(start).Milliseconds()))
	}()

	if g.tiers != nil {
		g.guard.AdjustLimits(g.tiers.Tier(userID))
	}

	res, err := g.guard.CheckRequest(ctx, userID, clientIP, text)
	if err != nil {
		// A broken consumption store must not take the assistant down
		// with it; the remaining validators still run.
		g.log.Error(userID, "", fmt.Sprintf("Consumption check error: %v", err), nil)
		res = consumption.Result{Allowed: true, Tokens: g.estimator.Estimate(text)}
	}
	if !res.Allowed {
		return g.denyInput("consumption", res.Reason, res.Tokens)
	}

	if ir := g.injection.Check(userID, text); !ir.Valid {
		return g.denyInput("injection", ir.Message, res.Tokens)
	}
	if sr := g.sensitive.Check(userID, text); !sr.Valid {
		return g.denyInput("sensitive", sr.Message, res.Tokens)
	}
	if tr := g.topic.Check(userID, text); !tr.Valid {
		return g.denyInput("topic", tr.Message, res.Tokens)
	}
	if g.vectorScreening {
		if vr := g.vector.CheckInput(userID, text); !vr.Valid {
			return g.denyInput("vector", vr.Message, res.Tokens)
		}
	}

	promInputChecks.WithLabelValues("allowed").Inc()
	return InputVerdict{Allowed: true, Tokens: res.Tokens}
}

func (g *Gateway) denyInput(stage, message string, tokens int) InputVerdict {
	promInputChecks.WithLabelValues("blocked").Inc()
	promBlocked.WithLabelValues(stage).Inc()
	return InputVerdict{Message: message, Tokens: tokens}
}

// ValidateOutput runs the output-side pipeline and always returns a
// string: the sanitized response, or a denial starting with
// "Security Alert".
func (g *Gateway) ValidateOutput(text string) string {
	return g.validateOutput(text, "")
}

func (g *Gateway) validateOutput(text, userInput string) string {
	start := time.Now()
	defer func() {
		promCheckDuration.WithLabelValues("output").Observe(float64(time.Since(start).Milliseconds()))
	}()

	if res := g.integrity.Check(text, userInput); !res.Valid {
		return g.denyOutput("integrity")
	}

	ag := g.agency.Check(text)
	if !ag.Allowed {
		promOutputChecks.WithLabelValues("blocked").Inc()
		promBlocked.WithLabelValues("agency").Inc()
		return outputDenialPrefix + ag.Reason
	}
	out := g.sensitive.Redact(ag.Text)

	m := g.misinfo.Validate(out)
	if !m.IsValid {
		promOutputChecks.WithLabelValues("blocked").Inc()
		promBlocked.WithLabelValues("misinfo").Inc()
		return misinfoDenial
	}
	if m.RiskScore > 0 || m.NeedsFactCheck {
		out = misinfo.EnhanceReliability(out)
	}

	promOutputChecks.WithLabelValues("allowed").Inc()
	return out + responseFooter
}

func (g *Gateway) denyOutput(stage string) string {
	promOutputChecks.WithLabelValues("blocked").Inc()
	promBlocked.WithLabelValues(stage).Inc()
	return outputDenial
}

// Chat brackets one full turn: input validation, the provider call, and
// output validation. The concurrency slot is released on every path,
// including provider failure.
func (g *Gateway) Chat(ctx context.Context, userID, clientIP, message string) (string, error) {
	if g.provider == nil {
		return "", fmt.Errorf("no LLM provider configured")
	}

	verdict := g.ValidateInput(ctx, message, userID, clientIP)
	if !verdict.Allowed {
		return verdict.Message, nil
	}

	requestID, err := g.guard.StartRequest(ctx, userID, verdict.Tokens)
	if err != nil {
		return "", fmt.Errorf("failed to admit request: %w", err)
	}

	var raw string
	var callErr error
	func() {
		defer func() {
			outputTokens := 0
			if callErr == nil {
				outputTokens = g.estimator.Estimate(raw)
			}
			g.guard.EndRequest(ctx, requestID, outputTokens)
		}()
		raw, callErr = g.provider.Complete(ctx, g.systemPrompt, "", message)
	}()
	if callErr != nil {
		return "", fmt.Errorf("provider %s: %w", g.provider.Name(), callErr)
	}

	return g.validateOutput(raw, message), nil
}

// Usage returns the user's consumption snapshot and current limits.
func (g *Gateway) Usage(ctx context.Context, userID string) (consumption.Usage, consumption.Limits, error) {
	return g.guard.UsageStats(ctx, userID)
}

// State reports gateway-wide load for health checks.
func (g *Gateway) State(ctx context.Context) consumption.SystemState {
	return g.guard.State(ctx)
}

// AdjustLimits swaps the active limits preset. Exposed for callers that
// resolve tiers outside the TierSource path, such as JWT claims.
func (g *Gateway) AdjustLimits(tier consumption.Tier) {
	g.guard.AdjustLimits(tier)
}

// SecurityHeaders returns the headers every HTTP response carries.
func SecurityHeaders() map[string]string {
	return map[string]string{
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "DENY",
		"X-XSS-Protection":          "1; mode=block",
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
		"Content-Security-Policy":   "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'",
		"Referrer-Policy":           "strict-origin-when-cross-origin",
	}
}
