package topic

import (
	"testing"

	"dbassist/platform/gateway/events"
	"dbassist/platform/shared/logger"
)

func newTestChecker(opts ...CheckerOption) *Checker {
	return NewChecker(logger.New("topic-test"), events.NopSink{}, opts...)
}

func TestCheck_AllowsDatabaseTopics(t *testing.T) {
	c := newTestChecker()

	tests := []string{
		"how do I tune query performance on this workload",
		"my postgresql replication is lagging behind the primary",
		"what backup strategy do you recommend for a 2TB schema",
		"should I add an index to speed up these lookups",
		"SQL keyword anywhere makes a long sentence in scope even when it rambles",
	}

	for _, message := range tests {
		if res := c.Check("user-1", message); !res.Valid {
			t.Errorf("message %q should be in scope, got %q", message, res.Message)
		}
	}
}

func TestCheck_AllowsShortConversationalReplies(t *testing.T) {
	c := newTestChecker(WithDefaultAllow(false))

	tests := []string{"yes", "thanks!", "the second one", "ok try that"}
	for _, message := range tests {
		if res := c.Check("user-1", message); !res.Valid {
			t.Errorf("short reply %q should pass, got %q", message, res.Message)
		}
	}
}

func TestCheck_RejectsOffTopicIndicators(t *testing.T) {
	c := newTestChecker()

	tests := []string{
		"what will the weather be like tomorrow in berlin",
		"can you give me some investment ideas for my savings",
		"write a story about a dragon who learns to code",
		"tell me a good recipe for carbonara tonight please",
	}

	for _, message := range tests {
		res := c.Check("user-1", message)
		if res.Valid {
			t.Errorf("message %q should be rejected", message)
		}
		if res.Message != "Scope: Please limit requests to database-related topics only" {
			t.Errorf("unexpected denial message: %q", res.Message)
		}
	}
}

func TestCheck_AllowedTopicWinsOverIndicator(t *testing.T) {
	c := newTestChecker()

	// Mentions both an off-topic indicator and an allowed topic; the
	// allow list is consulted first.
	res := c.Check("user-1", "ignore the weather metaphor, why is my database index slow")
	if !res.Valid {
		t.Errorf("message mentioning an allowed topic should pass, got %q", res.Message)
	}
}

func TestCheck_DefaultAllow(t *testing.T) {
	// Neither allowed topics nor off-topic indicators, and long enough
	// to skip the conversational pass-through.
	message := "please summarize everything we talked about during the meeting"

	if res := newTestChecker().Check("user-1", message); !res.Valid {
		t.Errorf("permissive checker should pass unclassified message, got %q", res.Message)
	}

	strict := newTestChecker(WithDefaultAllow(false))
	if res := strict.Check("user-1", message); res.Valid {
		t.Error("strict checker should reject unclassified message")
	}
}

func TestCheck_CustomAllowList(t *testing.T) {
	c := newTestChecker(WithDefaultAllow(false), WithAllowedTopics([]string{"kafka"}))

	if res := c.Check("user-1", "how many kafka partitions should this topic have today"); !res.Valid {
		t.Errorf("custom allowed topic should pass, got %q", res.Message)
	}
	if res := c.Check("user-1", "how should I configure my new espresso machine at home"); res.Valid {
		t.Error("message outside the custom allow list should be rejected")
	}
}
