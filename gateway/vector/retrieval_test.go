package vector

import (
	"strings"
	"testing"
)

// variedDocs returns documents whose lengths differ enough to pass the
// diversity check.
func variedDocs(contents ...string) []Document {
	docs := make([]Document, len(contents))
	for i, c := range contents {
		docs[i] = Document{ID: "doc", Content: c}
	}
	return docs
}

func TestCheckRetrieval_Valid(t *testing.T) {
	v := newTestValidator()

	docs := variedDocs(
		"short note",
		strings.Repeat("medium length content about indexes ", 6),
		strings.Repeat("much longer reference material on postgres vacuum behavior ", 20),
	)
	res := v.CheckRetrieval(docs)
	if !res.Valid {
		t.Fatalf("varied document set rejected: %s", res.Reason)
	}
	if res.Diversity < DiversityThreshold {
		t.Errorf("Diversity = %g, want >= %g", res.Diversity, DiversityThreshold)
	}
}

func TestCheckRetrieval_TooManyDocuments(t *testing.T) {
	v := newTestValidator()

	docs := make([]Document, MaxRetrievedDocuments+1)
	for i := range docs {
		docs[i] = Document{Content: "content"}
	}
	res := v.CheckRetrieval(docs)
	if res.Valid {
		t.Fatal("oversized document set should be rejected")
	}
	if !strings.HasPrefix(res.Reason, "Too many documents retrieved") {
		t.Errorf("unexpected reason: %q", res.Reason)
	}
}

func TestCheckRetrieval_ContextTooLong(t *testing.T) {
	v := newTestValidator()

	docs := variedDocs(strings.Repeat("a", 5000), strings.Repeat("b", 4000))
	res := v.CheckRetrieval(docs)
	if res.Valid {
		t.Fatal("overlong context should be rejected")
	}
	if !strings.HasPrefix(res.Reason, "Context too long") {
		t.Errorf("unexpected reason: %q", res.Reason)
	}
}

func TestCheckRetrieval_LowDiversity(t *testing.T) {
	v := newTestValidator()

	// Identical lengths give a zero diversity score.
	docs := variedDocs(
		strings.Repeat("a", 200),
		strings.Repeat("b", 200),
		strings.Repeat("c", 200),
	)
	res := v.CheckRetrieval(docs)
	if res.Valid {
		t.Fatal("uniform document set should be rejected")
	}
	if !strings.HasPrefix(res.Reason, "Low context diversity detected") {
		t.Errorf("unexpected reason: %q", res.Reason)
	}
}

func TestCheckRetrieval_SingleDocumentIsDiverse(t *testing.T) {
	v := newTestValidator()

	res := v.CheckRetrieval(variedDocs("a single clean document about schema design"))
	if !res.Valid {
		t.Fatalf("single document rejected: %s", res.Reason)
	}
	if res.Diversity != 1.0 {
		t.Errorf("Diversity = %g, want 1.0", res.Diversity)
	}
}

func TestCheckRetrieval_ContaminatedDocuments(t *testing.T) {
	v := newTestValidator()

	docs := variedDocs(
		"clean short document",
		strings.Repeat("clean content about replication topologies ", 8)+"<script>exfiltrate()</script>",
		strings.Repeat("long clean reference content on durability guarantees and checkpoints ", 18),
	)
	res := v.CheckRetrieval(docs)
	if res.Valid {
		t.Fatal("contaminated set should be rejected")
	}
	if res.Reason != "Contaminated documents detected at indices: [1]" {
		t.Errorf("unexpected reason: %q", res.Reason)
	}
}

func TestCheckRetrieval_SensitiveContent(t *testing.T) {
	v := newTestValidator()

	docs := variedDocs(
		"clean short document",
		strings.Repeat("filler content about partitioning strategies ", 8)+"password: hunter2",
		strings.Repeat("long clean reference content on logical replication slots and lag ", 18),
	)
	res := v.CheckRetrieval(docs)
	if res.Valid {
		t.Fatal("set with sensitive content should be rejected")
	}
	if res.Reason != "Sensitive information in retrieved context: Password" {
		t.Errorf("unexpected reason: %q", res.Reason)
	}
}

func TestSanitize(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"script block",
			"before <script>alert(1)</script> after",
			"before [SANITIZED] after",
		},
		{
			"javascript uri",
			"click javascript:doEvil() now",
			"click [SANITIZED]doEvil() now",
		},
		{
			"sensitive data",
			"stored owner email was dba@example.com yesterday",
			"stored owner email was [Email REDACTED] yesterday",
		},
		{
			"clean text unchanged",
			"normal retrieved content about tablespaces",
			"normal retrieved content about tablespaces",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitize_TruncatesAndIsIdempotent(t *testing.T) {
	v := newTestValidator()

	long := strings.Repeat("x", MaxContextLength+500)
	once := v.Sanitize(long)
	if !strings.HasSuffix(once, "... [TRUNCATED FOR SECURITY]") {
		t.Fatal("overlong context should be truncated with a marker")
	}
	if len(once) != MaxContextLength+len("... [TRUNCATED FOR SECURITY]") {
		t.Errorf("unexpected truncated length %d", len(once))
	}

	if twice := v.Sanitize(once); twice != once {
		t.Error("sanitizing sanitized context should be a no-op")
	}
}

func TestCheckModel(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name     string
		model    string
		provider string
		endpoint string
		want     bool
	}{
		{"approved openai", "text-embedding-ada-002", "openai", "https://api.openai.com/v1/embeddings", true},
		{"approved huggingface", "sentence-transformers/all-MiniLM-L6-v2", "huggingface", "https://api-inference.huggingface.co/models", true},
		{"approved cohere", "embed-english-v2.0", "cohere", "https://api.cohere.ai/v1/embed", true},
		{"unknown model", "my-custom-model", "openai", "https://api.openai.com/v1/embeddings", false},
		{"provider mismatch", "text-embedding-ada-002", "cohere", "https://api.cohere.ai/v1/embed", false},
		{"untrusted endpoint", "text-embedding-ada-002", "openai", "https://evil.example.com/v1/embeddings", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.CheckModel(tt.model, tt.provider, tt.endpoint); got != tt.want {
				t.Errorf("CheckModel(%s, %s, %s) = %v, want %v", tt.model, tt.provider, tt.endpoint, got, tt.want)
			}
		})
	}
}

func TestSecurityConfig(t *testing.T) {
	v := newTestValidator()

	cfg := v.SecurityConfig()
	if cfg.MaxContextLength != 8000 || cfg.MaxRetrievedDocuments != 10 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if len(cfg.ApprovedModels) != 3 {
		t.Errorf("ApprovedModels count = %d, want 3", len(cfg.ApprovedModels))
	}
}
