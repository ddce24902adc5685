package llm

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantName string
		wantErr  bool
	}{
		{"groq", Config{Provider: "groq", APIKey: "k"}, "groq", false},
		{"huggingface", Config{Provider: "huggingface", APIKey: "k"}, "huggingface", false},
		{"ollama", Config{Provider: "ollama"}, "ollama", false},
		{"groq without key", Config{Provider: "groq"}, "", true},
		{"unknown", Config{Provider: "openai"}, "", true},
		{"empty", Config{}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.wantName)
			}
		})
	}
}
