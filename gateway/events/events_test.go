package events

import (
	"testing"
)

func TestNew(t *testing.T) {
	ev := New(TypePromptInjection, "user-1", "detail text")
	if ev.Type != TypePromptInjection {
		t.Errorf("Type = %q, want %q", ev.Type, TypePromptInjection)
	}
	if ev.Source != "user-1" {
		t.Errorf("Source = %q, want user-1", ev.Source)
	}
	if ev.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestSnippet(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{"short text unchanged", "hello", 100, "hello"},
		{"long text truncated", "abcdefghij", 4, "abcd..."},
		{"zero max uses default", "hi", 0, "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Snippet(tt.text, tt.max); got != tt.want {
				t.Errorf("Snippet(%q, %d) = %q, want %q", tt.text, tt.max, got, tt.want)
			}
		})
	}
}

func TestMultiSink(t *testing.T) {
	var a, b int
	sink := MultiSink{
		SinkFunc(func(Event) { a++ }),
		SinkFunc(func(Event) { b++ }),
	}

	sink.Record(New(TypeRateLimit, "u", "d"))
	if a != 1 || b != 1 {
		t.Errorf("fan-out counts = (%d, %d), want (1, 1)", a, b)
	}
}
