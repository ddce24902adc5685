package consumption

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"dbassist/platform/gateway/events"
	"dbassist/platform/gateway/patterns"
	"dbassist/platform/shared/logger"
)

// Thresholds for system-wide load states, measured in total in-flight
// requests across all users.
const (
	throttleThreshold  = 50
	overloadThreshold  = 100
	emergencyThreshold = 200
)

// longRequestWarning is how long a request may stay in flight before a
// warning event is recorded.
const longRequestWarning = 30 * time.Second

// Result is the outcome of a consumption check.
type Result struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Tokens  int    `json:"tokens"`
}

// SystemState is a snapshot of gateway-wide load used for circuit
// breaking upstream of per-user limits.
type SystemState struct {
	Active      int    `json:"active_requests"`
	Throttled   bool   `json:"throttled"`
	Overloaded  bool   `json:"overloaded"`
	Emergency   bool   `json:"emergency"`
	Description string `json:"description"`
}

type inflight struct {
	userID    string
	startedAt time.Time
	warnTimer *time.Timer
}

// Guard enforces request-rate, token, concurrency, and input-size limits
// for a single limits preset, and flags consumption-abuse patterns in
// message text. Limits are swapped wholesale on tier change.
type Guard struct {
	mu        sync.RWMutex
	limits    Limits
	store     Store
	estimator TokenEstimator
	registry  *patterns.Registry
	log       *logger.Logger
	sink      events.Sink

	inflightMu sync.Mutex
	inflights  map[string]*inflight
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithLimits sets the initial limits preset.
func WithLimits(limits Limits) GuardOption {
	return func(g *Guard) { g.limits = limits }
}

// WithStore sets the backing store. Defaults to an in-memory store.
func WithStore(store Store) GuardOption {
	return func(g *Guard) { g.store = store }
}

// WithEstimator sets the token estimator.
func WithEstimator(est TokenEstimator) GuardOption {
	return func(g *Guard) { g.estimator = est }
}

// WithEventSink sets the sink that receives consumption events.
func WithEventSink(sink events.Sink) GuardOption {
	return func(g *Guard) { g.sink = sink }
}

// NewGuard builds a Guard with free-tier limits, an in-memory store, and
// a word-count token estimator unless options say otherwise.
func NewGuard(registry *patterns.Registry, log *logger.Logger, opts ...GuardOption) *Guard {
	g := &Guard{
		limits:    DefaultLimits(),
		store:     NewMemoryStore(),
		estimator: NewWordCountEstimator(),
		registry:  registry,
		log:       log,
		sink:      events.NopSink{},
		inflights: make(map[string]*inflight),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Limits returns the current limits preset.
func (g *Guard) Limits() Limits {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.limits
}

// AdjustLimits replaces the whole limits preset with the given tier's.
func (g *Guard) AdjustLimits(tier Tier) {
	g.mu.Lock()
	g.limits = TierLimits(tier)
	g.mu.Unlock()
	g.log.Info("", "", fmt.Sprintf("Consumption limits adjusted to %s tier", tier), nil)
}

// CheckRequest runs every consumption check for a message in order:
// concurrency, input length, request windows, token budgets, suspicious
// repetition, and abuse patterns. Request-window timestamps are recorded
// before the token check, so a request denied for token budget still
// counts against the rate windows.
func (g *Guard) CheckRequest(ctx context.Context, userID, clientIP, message string) (Result, error) {
	limits := g.Limits()
	now := time.Now()
	tokens := g.estimator.Estimate(message)

	active, err := g.store.ActiveRequests(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read active requests: %w", err)
	}
	if active >= limits.MaxConcurrentRequests {
		g.deny(userID, events.TypeConcurrencyLimit,
			fmt.Sprintf("concurrent request limit reached: %d", active))
		return Result{Reason: fmt.Sprintf("too many concurrent requests: maximum %d", limits.MaxConcurrentRequests), Tokens: tokens}, nil
	}

	if len(message) > limits.MaxInputLength {
		g.deny(userID, events.TypeConsumptionAbuse,
			fmt.Sprintf("input length %d exceeds maximum %d", len(message), limits.MaxInputLength))
		return Result{Reason: fmt.Sprintf("input too long: maximum %d characters", limits.MaxInputLength), Tokens: tokens}, nil
	}

	allowed, reason, err := g.store.RecordRequest(ctx, userID, clientIP, now, limits)
	if err != nil {
		return Result{}, fmt.Errorf("failed to record request: %w", err)
	}
	if !allowed {
		g.deny(userID, events.TypeRateLimit, reason)
		return Result{Reason: reason, Tokens: tokens}, nil
	}

	if tokens > limits.TokensPerRequest {
		g.deny(userID, events.TypeTokenBudget,
			fmt.Sprintf("estimated %d tokens exceeds per-request limit %d", tokens, limits.TokensPerRequest))
		return Result{Reason: fmt.Sprintf("message too large: maximum %d tokens per request", limits.TokensPerRequest), Tokens: tokens}, nil
	}
	allowed, reason, err = g.store.CheckTokens(ctx, userID, tokens, now, limits)
	if err != nil {
		return Result{}, fmt.Errorf("failed to check token budget: %w", err)
	}
	if !allowed {
		g.deny(userID, events.TypeTokenBudget, reason)
		return Result{Reason: reason, Tokens: tokens}, nil
	}

	if word, share, ok := dominantWord(message); ok {
		g.deny(userID, events.TypeConsumptionAbuse,
			fmt.Sprintf("suspicious repetition: %q is %.0f%% of message", word, share*100))
		return Result{Reason: "suspicious message pattern detected", Tokens: tokens}, nil
	}

	for _, cat := range []patterns.Category{patterns.CategoryConsumptionAbuse, patterns.CategoryModelTheft} {
		if p := g.registry.MatchFirst(cat, message); p != nil {
			g.deny(userID, events.TypeModelTheft,
				fmt.Sprintf("pattern %s matched in message", p.Name))
			return Result{Reason: "request blocked by usage policy", Tokens: tokens}, nil
		}
	}

	return Result{Allowed: true, Tokens: tokens}, nil
}

// dominantWord reports a word that makes up more than 20% of a message
// longer than 50 words. Flooding a prompt with one repeated token is the
// cheapest way to burn budget or distort completions.
func dominantWord(message string) (string, float64, bool) {
	words := strings.Fields(strings.ToLower(message))
	if len(words) <= 50 {
		return "", 0, false
	}
	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[w]++
	}
	for w, n := range counts {
		share := float64(n) / float64(len(words))
		if share > 0.2 {
			return w, share, true
		}
	}
	return "", 0, false
}

// StartRequest marks a request as in flight and charges its input tokens.
// It returns a request ID that must be passed to EndRequest. Requests
// still in flight after 30 seconds get a warning event.
func (g *Guard) StartRequest(ctx context.Context, userID string, tokens int) (string, error) {
	if _, err := g.store.BeginRequest(ctx, userID); err != nil {
		return "", fmt.Errorf("failed to begin request: %w", err)
	}
	if err := g.store.CommitTokens(ctx, userID, tokens, time.Now()); err != nil {
		g.log.Error(userID, "", fmt.Sprintf("Failed to commit tokens: %v", err), nil)
	}

	requestID := uuid.New().String()
	fl := &inflight{userID: userID, startedAt: time.Now()}
	fl.warnTimer = time.AfterFunc(longRequestWarning, func() {
		g.log.Warn(userID, requestID, fmt.Sprintf("Request still in flight after %s", longRequestWarning), nil)
		g.sink.Record(events.New(events.TypeLongRequest, userID,
			fmt.Sprintf("request %s exceeded %s", requestID, longRequestWarning)))
	})

	g.inflightMu.Lock()
	g.inflights[requestID] = fl
	g.inflightMu.Unlock()
	return requestID, nil
}

// EndRequest releases the in-flight slot for requestID and charges any
// output tokens. Unknown request IDs are ignored; the store floors active
// counts at zero regardless.
func (g *Guard) EndRequest(ctx context.Context, requestID string, outputTokens int) {
	g.inflightMu.Lock()
	fl, ok := g.inflights[requestID]
	if ok {
		delete(g.inflights, requestID)
	}
	g.inflightMu.Unlock()
	if !ok {
		return
	}

	fl.warnTimer.Stop()
	if err := g.store.FinishRequest(ctx, fl.userID); err != nil {
		g.log.Error(fl.userID, requestID, fmt.Sprintf("Failed to finish request: %v", err), nil)
	}
	if outputTokens > 0 {
		if err := g.store.CommitTokens(ctx, fl.userID, outputTokens, time.Now()); err != nil {
			g.log.Error(fl.userID, requestID, fmt.Sprintf("Failed to commit output tokens: %v", err), nil)
		}
	}
	g.log.InfoWithDuration(fl.userID, requestID, "Request completed",
		float64(time.Since(fl.startedAt).Milliseconds()), nil)
}

// UsageStats returns the user's consumption snapshot plus the limits it
// is measured against.
func (g *Guard) UsageStats(ctx context.Context, userID string) (Usage, Limits, error) {
	usage, err := g.store.Usage(ctx, userID, time.Now())
	if err != nil {
		return Usage{}, Limits{}, fmt.Errorf("failed to read usage: %w", err)
	}
	return usage, g.Limits(), nil
}

// State returns the gateway-wide load snapshot.
func (g *Guard) State(ctx context.Context) SystemState {
	active, err := g.store.TotalActive(ctx)
	if err != nil {
		active = 0
	}
	st := SystemState{Active: active, Description: "normal"}
	if active > throttleThreshold {
		st.Throttled = true
		st.Description = "throttled"
	}
	if active > overloadThreshold {
		st.Overloaded = true
		st.Description = "overloaded"
	}
	if active > emergencyThreshold {
		st.Emergency = true
		st.Description = "emergency"
	}
	return st
}

func (g *Guard) deny(userID string, typ events.Type, detail string) {
	g.log.Warn(userID, "", fmt.Sprintf("Consumption check failed: %s", detail), nil)
	g.sink.Record(events.New(typ, userID, detail))
}
