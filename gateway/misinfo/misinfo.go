package misinfo

import (
	"fmt"
	"strings"

	"dbassist/platform/gateway/events"
	"dbassist/platform/gateway/patterns"
	"dbassist/platform/shared/logger"
)

// RiskThreshold is the combined risk score at or above which a response
// is rejected.
const RiskThreshold = 0.7

// Score weights. Hallucination, overconfidence and bias raise the risk;
// hedging language lowers it.
const (
	hallucinationWeight  = 0.4
	overconfidenceWeight = 0.3
	biasWeight           = 0.2
	uncertaintyCredit    = 0.1
)

// Normalization windows: indicator counts are scaled against text
// length so a long answer with one absolute claim scores lower than a
// one-liner made of nothing else.
const (
	hallucinationWindow  = 100 // words
	overconfidenceWindow = 50
	biasWindow           = 100
	uncertaintyWindow    = 50
)

// eventThreshold is the risk score above which a response is reported
// to the event sink even when it passes validation.
const eventThreshold = 0.5

// Result carries the per-category scores and the combined verdict for
// one response.
type Result struct {
	IsValid        bool     `json:"is_valid"`
	RiskScore      float64  `json:"risk_score"`
	Hallucination  float64  `json:"hallucination_score"`
	Overconfidence float64  `json:"overconfidence_score"`
	Bias           float64  `json:"bias_score"`
	Uncertainty    float64  `json:"uncertainty_score"`
	NeedsFactCheck bool     `json:"needs_fact_check"`
	ClaimsValid    bool     `json:"claims_valid"`
	FalseClaims    []string `json:"false_claims,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}

// Validator scores model output for hallucination, overconfidence and
// bias indicators and rejects responses whose combined risk crosses
// RiskThreshold. Hedging language earns credit: an answer that says
// "typically" and "verify in your environment" is safer to surface than
// one that promises.
type Validator struct {
	registry *patterns.Registry
	log      *logger.Logger
	sink     events.Sink
}

// NewValidator builds a Validator over the shared pattern registry.
func NewValidator(registry *patterns.Registry, log *logger.Logger, sink events.Sink) *Validator {
	return &Validator{registry: registry, log: log, sink: sink}
}

// Validate scores text and returns the combined verdict. The risk score
// is 0.4*hallucination + 0.3*overconfidence + 0.2*bias - 0.1*uncertainty,
// clamped to [0, 1]; the response is valid while risk stays below
// RiskThreshold. Fact-check and known-false-claim flags are reported
// independently of the score.
func (v *Validator) Validate(text string) Result {
	words := len(strings.Fields(text))

	res := Result{
		Hallucination:  v.score(patterns.CategoryHallucination, text, words, hallucinationWindow),
		Overconfidence: v.score(patterns.CategoryOverconfidence, text, words, overconfidenceWindow),
		Bias:           v.score(patterns.CategoryBiasLanguage, text, words, biasWindow),
		Uncertainty:    v.score(patterns.CategoryUncertainty, text, words, uncertaintyWindow),
	}

	risk := hallucinationWeight*res.Hallucination +
		overconfidenceWeight*res.Overconfidence +
		biasWeight*res.Bias -
		uncertaintyCredit*res.Uncertainty
	if risk < 0 {
		risk = 0
	}
	if risk > 1 {
		risk = 1
	}
	res.RiskScore = risk
	res.IsValid = risk < RiskThreshold

	res.NeedsFactCheck = v.registry.MatchAny(patterns.CategoryFactCheck, text)
	for _, p := range v.registry.Category(patterns.CategoryFalseClaim) {
		if p.Regex.MatchString(text) {
			res.FalseClaims = append(res.FalseClaims, p.Name)
		}
	}
	res.ClaimsValid = len(res.FalseClaims) == 0

	if !res.IsValid {
		res.Warnings = append(res.Warnings, "High misinformation risk detected")
	}
	if res.Hallucination > 0.3 {
		res.Warnings = append(res.Warnings, "Potential hallucination patterns detected")
	}
	if res.Overconfidence > 0.3 {
		res.Warnings = append(res.Warnings, "Overconfident claims detected")
	}
	if !res.ClaimsValid {
		res.Warnings = append(res.Warnings, "Response contains known false database claims")
	}

	if risk > eventThreshold || !res.ClaimsValid {
		v.log.Warn("", "", fmt.Sprintf("Misinformation risk %.2f", risk), map[string]interface{}{
			"risk_score":       risk,
			"hallucination":    res.Hallucination,
			"overconfidence":   res.Overconfidence,
			"bias":             res.Bias,
			"uncertainty":      res.Uncertainty,
			"false_claims":     len(res.FalseClaims),
			"needs_fact_check": res.NeedsFactCheck,
		})
		detail := fmt.Sprintf("risk %.2f: %s", risk, events.Snippet(text, 160))
		v.sink.Record(events.New(events.TypeMisinformationRisk, "output", detail))
	}

	return res
}

func (v *Validator) score(c patterns.Category, text string, words, window int) float64 {
	count := v.registry.MatchCount(c, text)
	denom := float64(words) / float64(window)
	if denom < 1 {
		denom = 1
	}
	s := float64(count) / denom
	if s > 1 {
		s = 1
	}
	return s
}
