package topic

import (
	"fmt"
	"strings"

	"dbassist/platform/gateway/events"
	"dbassist/platform/gateway/patterns"
	"dbassist/platform/shared/logger"
)

const scopeDenial = "Scope: Please limit requests to database-related topics only"

// shortMessageLimit is the length under which a message is treated as
// conversational filler ("yes", "thanks", "the second one") and passed
// through without topic checks.
const shortMessageLimit = 20

// Result is the outcome of a scope check.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// Checker keeps conversations on database topics. A message passes if it
// mentions an allowed topic or is short enough to be conversational;
// otherwise it is checked against off-topic indicators. Whether an
// unclassifiable message passes is controlled by DefaultAllow.
type Checker struct {
	allowed   []string
	offTopic  []string
	defaultOK bool
	log       *logger.Logger
	sink      events.Sink
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithDefaultAllow sets whether messages matching neither list pass.
// The permissive default suits a conversational assistant; strict
// deployments set it to false.
func WithDefaultAllow(allow bool) CheckerOption {
	return func(c *Checker) { c.defaultOK = allow }
}

// WithAllowedTopics replaces the allowed-topic keyword list.
func WithAllowedTopics(topics []string) CheckerOption {
	return func(c *Checker) { c.allowed = topics }
}

// NewChecker builds a Checker with the built-in keyword lists and a
// permissive default.
func NewChecker(log *logger.Logger, sink events.Sink, opts ...CheckerOption) *Checker {
	c := &Checker{
		allowed:   patterns.AllowedTopics(),
		offTopic:  patterns.OffTopicIndicators(),
		defaultOK: true,
		log:       log,
		sink:      sink,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check reports whether message is in scope.
func (c *Checker) Check(userID, message string) Result {
	lower := strings.ToLower(message)

	for _, topic := range c.allowed {
		if strings.Contains(lower, topic) {
			return Result{Valid: true}
		}
	}

	if len(strings.TrimSpace(message)) < shortMessageLimit {
		return Result{Valid: true}
	}

	for _, indicator := range c.offTopic {
		if strings.Contains(lower, indicator) {
			c.log.Warn(userID, "", fmt.Sprintf("Off-topic message: indicator %q", indicator), nil)
			c.sink.Record(events.New(events.TypeOffTopic, userID,
				fmt.Sprintf("indicator %q matched: %s", indicator, events.Snippet(message, 120))))
			return Result{Message: scopeDenial}
		}
	}

	if c.defaultOK {
		return Result{Valid: true}
	}
	c.sink.Record(events.New(events.TypeOffTopic, userID,
		fmt.Sprintf("no allowed topic in message: %s", events.Snippet(message, 120))))
	return Result{Message: scopeDenial}
}
