package events

import (
	"time"

	"dbassist/platform/shared/logger"
)

// Type tags a security event with its attack class or violation category.
type Type string

const (
	TypePromptInjection     Type = "PROMPT_INJECTION"
	TypePromptExtraction    Type = "PROMPT_EXTRACTION"
	TypeSensitiveData       Type = "SENSITIVE_DATA"
	TypeRateLimit           Type = "RATE_LIMIT"
	TypeConcurrencyLimit    Type = "CONCURRENCY_LIMIT"
	TypeTokenBudget         Type = "TOKEN_BUDGET"
	TypeConsumptionAbuse    Type = "CONSUMPTION_ABUSE"
	TypeModelTheft          Type = "MODEL_THEFT"
	TypeOffTopic            Type = "OFF_TOPIC"
	TypeEmbeddingPoisoning  Type = "EMBEDDING_POISONING"
	TypeMaliciousRetrieval  Type = "MALICIOUS_RETRIEVAL"
	TypeVectorAnomaly       Type = "VECTOR_ANOMALY"
	TypeContextContamination Type = "CONTEXT_CONTAMINATION"
	TypeLowContextDiversity Type = "LOW_CONTEXT_DIVERSITY"
	TypeClusteringAttack    Type = "VECTOR_CLUSTERING_ATTACK"
	TypeUnapprovedModel     Type = "UNAPPROVED_EMBEDDING_MODEL"
	TypeSupplyChain         Type = "SUPPLY_CHAIN_COMPROMISE"
	TypeDataPoisoning       Type = "TRAINING_DATA_POISONING"
	TypeOutputXSS           Type = "OUTPUT_XSS_RISK"
	TypeOutputSSRF          Type = "OUTPUT_SSRF_RISK"
	TypeOutputPrivilege     Type = "OUTPUT_PRIVILEGE_RISK"
	TypeQualityAnomaly      Type = "QUALITY_ANOMALY"
	TypeExcessiveAgency     Type = "EXCESSIVE_AGENCY"
	TypeMisinformationRisk  Type = "MISINFORMATION_RISK"
	TypeLongRequest         Type = "LONG_REQUEST"
	TypePromptHygiene       Type = "PROMPT_HYGIENE"
)

// Event is one append-only security record. Events feed audit and
// monitoring only; they are never read back to alter a decision within the
// same request.
type Event struct {
	Type      Type      `json:"type"`
	Source    string    `json:"source"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
}

// Sink receives security events. Implementations must be non-blocking and
// best-effort: a failing sink never prevents the gateway from returning its
// allow/deny decision.
type Sink interface {
	Record(ev Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ev Event)

// Record calls f(ev).
func (f SinkFunc) Record(ev Event) { f(ev) }

// New builds an event with the current timestamp.
func New(t Type, source, detail string) Event {
	return Event{Type: t, Source: source, Detail: detail, Timestamp: time.Now()}
}

// LogSink writes events as structured warnings. It is the default sink and
// is always safe to use.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a sink backed by the structured logger.
func NewLogSink(log *logger.Logger) *LogSink {
	if log == nil {
		log = logger.New("security-events")
	}
	return &LogSink{log: log}
}

// Record writes the event as a WARN entry.
func (s *LogSink) Record(ev Event) {
	s.log.Warn(ev.Source, "", "SECURITY_EVENT", map[string]interface{}{
		"event_type": string(ev.Type),
		"detail":     ev.Detail,
		"timestamp":  ev.Timestamp.UTC().Format(time.RFC3339Nano),
	})
}

// MultiSink fans an event out to several sinks.
type MultiSink []Sink

// Record delivers the event to every sink.
func (m MultiSink) Record(ev Event) {
	for _, s := range m {
		s.Record(ev)
	}
}

// NopSink discards every event. Used in tests and benchmarks.
type NopSink struct{}

// Record discards the event.
func (NopSink) Record(Event) {}

// Snippet truncates detail text for safe logging. Event details carry only
// a bounded prefix of the offending text, never the full payload.
func Snippet(text string, max int) string {
	if max <= 0 {
		max = 100
	}
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
