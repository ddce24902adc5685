package misinfo

import (
	"strings"
	"testing"

	"dbassist/platform/gateway/events"
	"dbassist/platform/gateway/patterns"
	"dbassist/platform/shared/logger"
)

func newTestValidator(sink events.Sink) *Validator {
	if sink == nil {
		sink = events.NopSink{}
	}
	return NewValidator(patterns.NewRegistry(), logger.New("misinfo-test"), sink)
}

func TestValidate_RejectsAbsoluteGuarantee(t *testing.T) {
	v := newTestValidator(nil)

	res := v.Validate("This will 100% guarantee the fix and never fail")
	if res.IsValid {
		t.Fatalf("absolute guarantee accepted, risk %.2f", res.RiskScore)
	}
	if res.RiskScore < RiskThreshold {
		t.Errorf("risk %.2f below threshold %.2f", res.RiskScore, RiskThreshold)
	}
	if res.Hallucination == 0 {
		t.Error("hallucination score should be nonzero")
	}
	if res.Overconfidence == 0 {
		t.Error("overconfidence score should be nonzero")
	}
}

func TestValidate_AcceptsHedgedAdvice(t *testing.T) {
	v := newTestValidator(nil)

	res := v.Validate("This typically improves performance in most cases; please verify in your environment")
	if !res.IsValid {
		t.Fatalf("hedged advice rejected, risk %.2f", res.RiskScore)
	}
	if res.RiskScore != 0 {
		t.Errorf("risk = %.2f, want 0 (uncertainty credit clamps at zero)", res.RiskScore)
	}
	if res.Uncertainty == 0 {
		t.Error("uncertainty score should be nonzero")
	}
}

func TestValidate_CleanResponseScoresZero(t *testing.T) {
	v := newTestValidator(nil)

	res := v.Validate("Add an index on orders(customer_id) and re-run EXPLAIN to compare plans.")
	if !res.IsValid {
		t.Fatalf("clean response rejected, risk %.2f", res.RiskScore)
	}
	if res.RiskScore != 0 || res.Hallucination != 0 || res.Overconfidence != 0 || res.Bias != 0 {
		t.Errorf("unexpected nonzero scores: %+v", res)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestValidate_LengthNormalization(t *testing.T) {
	v := newTestValidator(nil)

	// One overconfident phrase buried in a long answer should score far
	// lower than the same phrase standing alone.
	phrase := "This is the only solution."
	long := phrase + " " + strings.Repeat("Review the execution plan and compare buffer reads before and after the change. ", 40)

	short := v.Validate(phrase)
	buried := v.Validate(long)

	if buried.Overconfidence >= short.Overconfidence {
		t.Errorf("long text overconfidence %.2f should be below short text %.2f",
			buried.Overconfidence, short.Overconfidence)
	}
}

func TestValidate_Warnings(t *testing.T) {
	v := newTestValidator(nil)

	res := v.Validate("It always works and never fails.")
	if res.IsValid {
		t.Fatalf("expected rejection, risk %.2f", res.RiskScore)
	}
	want := []string{
		"High misinformation risk detected",
		"Potential hallucination patterns detected",
		"Overconfident claims detected",
	}
	for _, w := range want {
		found := false
		for _, got := range res.Warnings {
			if got == w {
				found = true
			}
		}
		if !found {
			t.Errorf("missing warning %q in %v", w, res.Warnings)
		}
	}
}

func TestValidate_FactCheckFlag(t *testing.T) {
	v := newTestValidator(nil)

	res := v.Validate("Studies show that partial indexes reduce bloat.")
	if !res.NeedsFactCheck {
		t.Error("claim citing studies should need fact-checking")
	}
	if !res.IsValid {
		t.Errorf("fact-check flag should not reject on its own, risk %.2f", res.RiskScore)
	}

	res = v.Validate("Partial indexes can reduce bloat for sparse predicates.")
	if res.NeedsFactCheck {
		t.Error("plain advice flagged for fact-checking")
	}
}

func TestValidate_KnownFalseClaims(t *testing.T) {
	v := newTestValidator(nil)

	res := v.Validate("PostgreSQL supports unlimited connections, so pooling is optional.")
	if res.ClaimsValid {
		t.Error("known false claim not flagged")
	}
	if len(res.FalseClaims) != 1 || res.FalseClaims[0] != "false_unlimited_connections" {
		t.Errorf("false claims = %v", res.FalseClaims)
	}

	found := false
	for _, w := range res.Warnings {
		if w == "Response contains known false database claims" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing false-claim warning in %v", res.Warnings)
	}
}

func TestValidate_RecordsEventOnHighRisk(t *testing.T) {
	var got []events.Event
	v := newTestValidator(events.SinkFunc(func(ev events.Event) { got = append(got, ev) }))

	v.Validate("Rebuild statistics nightly and watch for plan regressions.")
	if len(got) != 0 {
		t.Fatalf("clean response recorded %d events", len(got))
	}

	v.Validate("This will 100% guarantee the fix and never fail")
	if len(got) != 1 {
		t.Fatalf("recorded %d events, want 1", len(got))
	}
	if got[0].Type != events.TypeMisinformationRisk {
		t.Errorf("event type = %q", got[0].Type)
	}
	if !strings.Contains(got[0].Detail, "100% guarantee") {
		t.Errorf("event detail should carry a snippet, got %q", got[0].Detail)
	}
}

func TestEnhanceReliability_HedgesAbsolutes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"will fix", "This will fix the issue.", "should help fix"},
		{"guaranteed to", "Reindexing is guaranteed to work here.", "likely to"},
		{"always works", "This setting always works.", "typically works"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := EnhanceReliability(tt.in)
			if !strings.Contains(out, tt.want) {
				t.Errorf("EnhanceReliability(%q) = %q, want substring %q", tt.in, out, tt.want)
			}
		})
	}
}

func TestEnhanceReliability_AppendsVerificationDisclaimer(t *testing.T) {
	out := EnhanceReliability("Restart the connection pooler.")
	if !strings.Contains(out, "**Verification Required**") {
		t.Errorf("missing verification disclaimer: %q", out)
	}

	// A response that already talks about testing keeps its shape.
	in := "Consider testing this change; it may resolve the contention."
	if out := EnhanceReliability(in); out != in {
		t.Errorf("response with verification guidance was modified: %q", out)
	}
}

func TestEnhanceReliability_AppendsPerformanceNote(t *testing.T) {
	out := EnhanceReliability("Add an index to speed up the query; verify the plan first.")
	if !strings.Contains(out, "Database performance depends on specific data patterns") {
		t.Errorf("missing performance note: %q", out)
	}
}

func TestEnhanceReliability_Idempotent(t *testing.T) {
	once := EnhanceReliability("This will fix the slow query.")
	twice := EnhanceReliability(once)
	if once != twice {
		t.Errorf("second pass changed output:\nonce:  %q\ntwice: %q", once, twice)
	}
}
