package sensitive

import (
	"fmt"

	"dbassist/platform/gateway/events"
	"dbassist/platform/gateway/patterns"
	"dbassist/platform/shared/logger"
)

// Result is the outcome of a sensitive-data check.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	Label   string `json:"-"`
}

// Screen detects credentials and PII in user input and redacts the same
// literals from model output.
type Screen struct {
	registry *patterns.Registry
	log      *logger.Logger
	sink     events.Sink
}

// NewScreen builds a Screen over the shared pattern registry.
func NewScreen(registry *patterns.Registry, log *logger.Logger, sink events.Sink) *Screen {
	return &Screen{registry: registry, log: log, sink: sink}
}

// Check rejects input containing sensitive data. Unlike injection
// denials, the message names the detected kind: the user must know what
// to remove before resending.
func (s *Screen) Check(userID, message string) Result {
	p := s.registry.MatchFirst(patterns.CategorySensitive, message)
	if p == nil {
		return Result{Valid: true}
	}
	s.log.Warn(userID, "", fmt.Sprintf("Sensitive data in input: %s", p.Label), nil)
	s.sink.Record(events.New(events.TypeSensitiveData, userID,
		fmt.Sprintf("pattern %s detected in input", p.Name)))
	return Result{
		Message: fmt.Sprintf("IDP Policy: %s detected. Remove sensitive information", p.Label),
		Label:   p.Label,
	}
}

// Redact replaces every sensitive match in output with a labeled
// placeholder. Each pattern makes a single pass, so text assembled from
// placeholder fragments could in principle survive one round; callers
// that need a guarantee should redact until the text stops changing.
func (s *Screen) Redact(text string) string {
	for _, p := range s.registry.Category(patterns.CategoryOutputSensitive) {
		text = p.Regex.ReplaceAllString(text, fmt.Sprintf("[%s REDACTED]", p.Label))
	}
	return text
}

// CheckHygiene flags prompt text that carries meta-instructions or
// role confusion likely to degrade or subvert completions.
func (s *Screen) CheckHygiene(userID, prompt string) Result {
	p := s.registry.MatchFirst(patterns.CategoryPromptHygiene, prompt)
	if p == nil {
		return Result{Valid: true}
	}
	s.log.Warn(userID, "", fmt.Sprintf("Prompt hygiene issue: %s", p.Name), nil)
	s.sink.Record(events.New(events.TypePromptHygiene, userID,
		fmt.Sprintf("pattern %s detected in prompt", p.Name)))
	return Result{Message: "Prompt contains disallowed control phrasing"}
}
