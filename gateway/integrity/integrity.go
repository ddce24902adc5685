package integrity

import (
	"fmt"

	"dbassist/platform/gateway/events"
	"dbassist/platform/gateway/patterns"
	"dbassist/platform/shared/logger"
)

// Model-response length bounds. Outside these a response is treated as a
// quality anomaly: truncated, runaway, or empty generations.
const (
	MinOutputLength = 50
	MaxOutputLength = 5000
)

// Result is the outcome of an output-integrity check.
type Result struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Validator gates model output twice: a supply-chain/quality gate over
// the generated content itself, and a handling gate over how the text
// would behave when rendered or executed downstream.
type Validator struct {
	registry *patterns.Registry
	log      *logger.Logger
	sink     events.Sink
	monitor  *Monitor
}

// NewValidator builds a Validator with a fresh quality monitor.
func NewValidator(registry *patterns.Registry, log *logger.Logger, sink events.Sink) *Validator {
	return &Validator{
		registry: registry,
		log:      log,
		sink:     sink,
		monitor:  NewMonitor(),
	}
}

// Monitor returns the response-quality monitor fed by CheckSupplyChain.
func (v *Validator) Monitor() *Monitor {
	return v.monitor
}

// CheckSupplyChain rejects model output carrying executable code,
// poisoned blanket advice, or a length outside the expected envelope.
func (v *Validator) CheckSupplyChain(text string) Result {
	if p := v.registry.MatchFirst(patterns.CategoryMaliciousCode, text); p != nil {
		v.flag(events.TypeSupplyChain, p.Name)
		return Result{Reason: "Response contains executable code patterns"}
	}
	if p := v.registry.MatchFirst(patterns.CategoryPoisoningIndicator, text); p != nil {
		v.flag(events.TypeDataPoisoning, p.Name)
		return Result{Reason: "Response contains poisoning indicators"}
	}
	if len(text) < MinOutputLength || len(text) > MaxOutputLength {
		v.flag(events.TypeQualityAnomaly, fmt.Sprintf("length %d", len(text)))
		return Result{Reason: "Response length outside expected bounds"}
	}
	return Result{Valid: true}
}

// CheckHandling rejects model output that would be dangerous to render
// or relay: XSS markup, internal-address URLs, or privilege-escalation
// SQL.
func (v *Validator) CheckHandling(text string) Result {
	if p := v.registry.MatchFirst(patterns.CategoryXSS, text); p != nil {
		v.flag(events.TypeOutputXSS, p.Name)
		return Result{Reason: "Response contains markup injection patterns"}
	}
	if p := v.registry.MatchFirst(patterns.CategorySSRF, text); p != nil {
		v.flag(events.TypeOutputSSRF, p.Name)
		return Result{Reason: "Response contains internal network references"}
	}
	if p := v.registry.MatchFirst(patterns.CategoryPrivilegeEscalation, text); p != nil {
		v.flag(events.TypeOutputPrivilege, p.Name)
		return Result{Reason: "Response contains privilege escalation statements"}
	}
	return Result{Valid: true}
}

// Check runs both gates and feeds the quality monitor. userInput is only
// used for the monitor's behavior trail.
func (v *Validator) Check(text, userInput string) Result {
	if res := v.CheckSupplyChain(text); !res.Valid {
		v.monitor.Record(text, userInput)
		return res
	}
	if res := v.CheckHandling(text); !res.Valid {
		v.monitor.Record(text, userInput)
		return res
	}
	v.monitor.Record(text, userInput)
	return Result{Valid: true}
}

func (v *Validator) flag(typ events.Type, detail string) {
	v.log.Warn("model", "", fmt.Sprintf("Output integrity check failed: %s (%s)", typ, detail), nil)
	v.sink.Record(events.New(typ, "model", detail))
}
