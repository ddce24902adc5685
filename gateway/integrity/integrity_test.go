package integrity

import (
	"strings"
	"testing"

	"dbassist/platform/gateway/events"
	"dbassist/platform/gateway/patterns"
	"dbassist/platform/shared/logger"
)

// cleanResponse is long enough for the length gate and free of every
// flagged pattern.
const cleanResponse = "To improve query performance on the orders table, create an index " +
	"on the customer_id column and monitor the query plan with EXPLAIN afterwards."

func newTestValidator(sink events.Sink) *Validator {
	if sink == nil {
		sink = events.NopSink{}
	}
	return NewValidator(patterns.NewRegistry(), logger.New("integrity-test"), sink)
}

func TestCheckSupplyChain(t *testing.T) {
	v := newTestValidator(nil)

	tests := []struct {
		name       string
		text       string
		wantOK     bool
		wantReason string
	}{
		{
			name:   "clean response",
			text:   cleanResponse,
			wantOK: true,
		},
		{
			name:       "script block",
			text:       strings.Repeat("padding ", 10) + "<script>fetch('/steal')</script>",
			wantReason: "Response contains executable code patterns",
		},
		{
			name:       "eval call",
			text:       strings.Repeat("padding ", 10) + "then run eval(userInput) to apply it",
			wantReason: "Response contains executable code patterns",
		},
		{
			name:       "os import",
			text:       strings.Repeat("padding ", 10) + "first import os and remove the files",
			wantReason: "Response contains executable code patterns",
		},
		{
			name:       "poisoned advice",
			text:       strings.Repeat("padding ", 10) + "you should never use indexes on any table",
			wantReason: "Response contains poisoning indicators",
		},
		{
			name:       "absolute claim",
			text:       strings.Repeat("padding ", 10) + "this change is guaranteed to fix the problem",
			wantReason: "Response contains poisoning indicators",
		},
		{
			name:       "too short",
			text:       "ok",
			wantReason: "Response length outside expected bounds",
		},
		{
			name:       "too long",
			text:       strings.Repeat("a", MaxOutputLength+1),
			wantReason: "Response length outside expected bounds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.CheckSupplyChain(tt.text)
			if res.Valid != tt.wantOK {
				t.Fatalf("Valid = %v, want %v (reason %q)", res.Valid, tt.wantOK, res.Reason)
			}
			if !tt.wantOK && res.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", res.Reason, tt.wantReason)
			}
		})
	}
}

func TestCheckHandling(t *testing.T) {
	v := newTestValidator(nil)

	tests := []struct {
		name       string
		text       string
		wantOK     bool
		wantReason string
	}{
		{
			name:   "clean response",
			text:   cleanResponse,
			wantOK: true,
		},
		{
			name:       "event handler",
			text:       `try <img src=x onerror=alert(1)> in the report`,
			wantReason: "Response contains markup injection patterns",
		},
		{
			name:       "iframe",
			text:       `embed <iframe src="https://example.com"> for the dashboard`,
			wantReason: "Response contains markup injection patterns",
		},
		{
			name:       "localhost url",
			text:       "fetch the config from http://localhost:8080/admin first",
			wantReason: "Response contains internal network references",
		},
		{
			name:       "private address",
			text:       "the primary is reachable at http://192.168.1.10:5432",
			wantReason: "Response contains internal network references",
		},
		{
			name:       "grant all",
			text:       "run GRANT ALL ON orders TO app_user to fix the permission error",
			wantReason: "Response contains privilege escalation statements",
		},
		{
			name:       "drop database",
			text:       "you could DROP DATABASE staging and recreate it",
			wantReason: "Response contains privilege escalation statements",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.CheckHandling(tt.text)
			if res.Valid != tt.wantOK {
				t.Fatalf("Valid = %v, want %v (reason %q)", res.Valid, tt.wantOK, res.Reason)
			}
			if !tt.wantOK && res.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", res.Reason, tt.wantReason)
			}
		})
	}
}

func TestCheck_RecordsEvents(t *testing.T) {
	var got []events.Event
	v := newTestValidator(events.SinkFunc(func(ev events.Event) { got = append(got, ev) }))

	v.Check(strings.Repeat("padding ", 10)+"<script>x()</script>", "user question")
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].Type != events.TypeSupplyChain {
		t.Errorf("event type = %s, want %s", got[0].Type, events.TypeSupplyChain)
	}
}

func TestCheck_FeedsMonitor(t *testing.T) {
	v := newTestValidator(nil)

	v.Check(cleanResponse, "how do I speed up this query")
	if v.Monitor().HealthStatus().Status == "unknown" {
		t.Error("monitor should have recorded the response")
	}
}
