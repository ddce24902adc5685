package injection

import (
	"fmt"

	"dbassist/platform/gateway/events"
	"dbassist/platform/gateway/patterns"
	"dbassist/platform/shared/logger"
)

// Denial messages shown to users. These stay generic: the matched
// pattern name goes to logs and the event sink only, never back to the
// user probing the defenses.
const (
	injectionDenial  = "Security Alert: Prompt injection attempt detected"
	extractionDenial = "Security: System information requests not allowed"
)

// Result is the outcome of an injection check.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// Detector screens user messages for prompt-injection and system-prompt
// extraction attempts.
type Detector struct {
	registry *patterns.Registry
	log      *logger.Logger
	sink     events.Sink
}

// NewDetector builds a Detector over the shared pattern registry.
func NewDetector(registry *patterns.Registry, log *logger.Logger, sink events.Sink) *Detector {
	return &Detector{registry: registry, log: log, sink: sink}
}

// Check screens message for injection and extraction attempts. Injection
// is checked first; a message matching both categories reports as
// injection.
func (d *Detector) Check(userID, message string) Result {
	if p := d.registry.MatchFirst(patterns.CategoryInjection, message); p != nil {
		d.flag(events.TypePromptInjection, userID, p, message)
		return Result{Message: injectionDenial}
	}
	if p := d.registry.MatchFirst(patterns.CategoryPromptExtraction, message); p != nil {
		d.flag(events.TypePromptExtraction, userID, p, message)
		return Result{Message: extractionDenial}
	}
	return Result{Valid: true}
}

func (d *Detector) flag(typ events.Type, userID string, p *patterns.Pattern, message string) {
	detail := fmt.Sprintf("pattern %s matched: %s", p.Name, events.Snippet(message, 120))
	d.log.Warn(userID, "", fmt.Sprintf("Injection check failed: pattern %s", p.Name), nil)
	d.sink.Record(events.New(typ, userID, detail))
}
