package patterns

import (
	"regexp"
)

// Side indicates which direction of the pipeline a pattern category applies
// to. Input-side categories are never evaluated against model output and
// vice versa, even where the same literal regex appears on both sides.
type Side string

const (
	// SideInput marks categories evaluated against inbound user text.
	SideInput Side = "input"

	// SideOutput marks categories evaluated against model responses.
	SideOutput Side = "output"
)

// Category identifies a group of related detection patterns.
type Category string

const (
	// CategoryInjection covers instruction-override phrasing in user input.
	CategoryInjection Category = "injection"

	// CategoryPromptExtraction covers system-prompt disclosure requests.
	CategoryPromptExtraction Category = "prompt_extraction"

	// CategorySensitive covers credentials, tokens, and PII in user input.
	CategorySensitive Category = "sensitive"

	// CategoryConsumptionAbuse covers bulk/stress/benchmark phrasing that
	// signals resource exhaustion attempts.
	CategoryConsumptionAbuse Category = "consumption_abuse"

	// CategoryModelTheft covers model extraction phrasing.
	CategoryModelTheft Category = "model_theft"

	// CategoryEmbeddingPoisoning covers adversarial embedding phrasing.
	CategoryEmbeddingPoisoning Category = "embedding_poisoning"

	// CategoryMaliciousRetrieval covers retrieval-filter bypass phrasing.
	CategoryMaliciousRetrieval Category = "malicious_retrieval"

	// CategoryContamination covers script/eval/storage-access content in
	// text bound for embedding or retrieved as RAG context.
	CategoryContamination Category = "contamination"

	// CategoryPromptHygiene covers secrets and architecture detail that
	// must never appear in a configured system prompt.
	CategoryPromptHygiene Category = "prompt_hygiene"

	// CategoryOutputSensitive covers the sensitive-data bank evaluated
	// against model output for redaction. Deliberately duplicates the
	// literal patterns of CategorySensitive.
	CategoryOutputSensitive Category = "output_sensitive"

	// CategoryMaliciousCode covers executable-code markers in output.
	CategoryMaliciousCode Category = "malicious_code"

	// CategoryPoisoningIndicator covers bias/poisoning phrasing in output.
	CategoryPoisoningIndicator Category = "poisoning_indicator"

	// CategoryXSS covers script-injection markup in output.
	CategoryXSS Category = "xss"

	// CategorySSRF covers internal-address URLs in output.
	CategorySSRF Category = "ssrf"

	// CategoryPrivilegeEscalation covers privilege-granting SQL in output.
	CategoryPrivilegeEscalation Category = "privilege_escalation"

	// CategoryAgencyEscalation covers explicit destructive SQL signatures.
	CategoryAgencyEscalation Category = "agency_escalation"

	// CategoryHallucination covers absolute/infallible claims in output.
	CategoryHallucination Category = "hallucination"

	// CategoryOverconfidence covers guarantee phrasing in output.
	CategoryOverconfidence Category = "overconfidence"

	// CategoryBiasLanguage covers dismissive/absolutist comparisons.
	CategoryBiasLanguage Category = "bias_language"

	// CategoryUncertainty covers hedging language. Scored positively.
	CategoryUncertainty Category = "uncertainty"

	// CategoryFactCheck covers claims that require external verification.
	CategoryFactCheck Category = "fact_check"

	// CategoryFalseClaim covers known-false database claims.
	CategoryFalseClaim Category = "false_claim"
)

// Pattern is a single compiled detection pattern.
type Pattern struct {
	// Name is a stable identifier used in internal logs. It is never
	// included in user-facing denial messages.
	Name string

	// Category groups the pattern with its pipeline stage.
	Category Category

	// Side records which pipeline direction the pattern belongs to.
	Side Side

	// Label is the human-readable name surfaced to users for sensitive-data
	// findings ("Credit Card", "API Key"). Empty for other categories.
	Label string

	// Regex is the compiled expression.
	Regex *regexp.Regexp

	// Description explains what the pattern detects.
	Description string

	// Severity indicates the risk level (1-10).
	Severity int
}

// Registry holds every pattern table, keyed by category. It is built once at
// startup and read-only afterwards, so it is shared across validators
// without locking.
type Registry struct {
	byCategory map[Category][]*Pattern
}

// NewRegistry builds the registry with the built-in pattern tables.
func NewRegistry() *Registry {
	r := &Registry{byCategory: make(map[Category][]*Pattern)}
	for _, p := range inputPatterns() {
		r.byCategory[p.Category] = append(r.byCategory[p.Category], p)
	}
	for _, p := range outputPatterns() {
		r.byCategory[p.Category] = append(r.byCategory[p.Category], p)
	}
	return r
}

// Category returns the patterns registered under the given category.
func (r *Registry) Category(c Category) []*Pattern {
	return r.byCategory[c]
}

// MatchFirst returns the first pattern in the category that matches text,
// or nil if none match.
func (r *Registry) MatchFirst(c Category, text string) *Pattern {
	for _, p := range r.byCategory[c] {
		if p.Regex.MatchString(text) {
			return p
		}
	}
	return nil
}

// MatchAny reports whether any pattern in the category matches text.
func (r *Registry) MatchAny(c Category, text string) bool {
	return r.MatchFirst(c, text) != nil
}

// MatchCount returns the total number of matches across all patterns in the
// category. Used by score-based validators.
func (r *Registry) MatchCount(c Category, text string) int {
	count := 0
	for _, p := range r.byCategory[c] {
		count += len(p.Regex.FindAllStringIndex(text, -1))
	}
	return count
}

// Categories returns every registered category.
func (r *Registry) Categories() []Category {
	out := make([]Category, 0, len(r.byCategory))
	for c := range r.byCategory {
		out = append(out, c)
	}
	return out
}
