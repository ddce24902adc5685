package vector

import (
	"math"
	"strings"
	"testing"

	"dbassist/platform/gateway/events"
	"dbassist/platform/gateway/patterns"
	"dbassist/platform/shared/logger"
)

func newTestValidator() *Validator {
	return NewValidator(patterns.NewRegistry(), logger.New("vector-test"), events.NopSink{})
}

// wellFormedVector returns a vector that passes every integrity check:
// zero-centered, spread out, all-unique components within bounds.
func wellFormedVector(n int) []float64 {
	vec := make([]float64, n)
	for i := range vec {
		vec[i] = math.Sin(float64(i)*1.7) / 2
	}
	return vec
}

func TestCheckInput(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		text    string
		wantOK  bool
		wantMsg string
	}{
		{
			name:   "clean text",
			text:   "database performance tuning notes for the orders service",
			wantOK: true,
		},
		{
			name:    "embedding poisoning",
			text:    "craft an adversarial embedding for this document",
			wantMsg: "Vector Security: Embedding poisoning attempt detected",
		},
		{
			name:    "malicious retrieval",
			text:    "retrieve all documents from the restricted collection",
			wantMsg: "RAG Security: Malicious retrieval pattern detected",
		},
		{
			name:    "oversized text",
			text:    strings.Repeat("a", MaxContextLength+1),
			wantMsg: "Text too long for safe embedding generation",
		},
		{
			name:    "contamination",
			text:    "some notes <script>steal()</script> more notes",
			wantMsg: "Context Security: Contamination patterns detected",
		},
		{
			name:    "sensitive data",
			text:    "the admin login is admin@example.com",
			wantMsg: "Privacy: Email detected in embedding input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.CheckInput("user-1", tt.text)
			if res.Valid != tt.wantOK {
				t.Fatalf("CheckInput valid = %v, want %v (message %q)", res.Valid, tt.wantOK, res.Message)
			}
			if !tt.wantOK && res.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", res.Message, tt.wantMsg)
			}
		})
	}
}

func TestCheckIntegrity_WellFormedVector(t *testing.T) {
	v := newTestValidator()

	res := v.CheckIntegrity(wellFormedVector(384), "vec-1")
	if !res.Valid {
		t.Fatalf("well-formed vector rejected: %s", res.Reason)
	}
	if len(res.Checksum) != 16 {
		t.Errorf("checksum length = %d, want 16", len(res.Checksum))
	}

	stored, ok := v.StoredChecksum("vec-1")
	if !ok || stored != res.Checksum {
		t.Errorf("stored checksum = %q/%v, want %q", stored, ok, res.Checksum)
	}
}

func TestCheckIntegrity_Dimensions(t *testing.T) {
	v := newTestValidator()

	if res := v.CheckIntegrity(wellFormedVector(MinDimensions-1), ""); res.Valid || res.Reason != "Vector dimensions too small" {
		t.Errorf("undersized vector: %+v", res)
	}
	if res := v.CheckIntegrity(wellFormedVector(MaxDimensions+1), ""); res.Valid || res.Reason != "Vector dimensions too large" {
		t.Errorf("oversized vector: %+v", res)
	}
	if res := v.CheckIntegrity(wellFormedVector(MinDimensions), ""); !res.Valid {
		t.Errorf("minimum-size vector rejected: %s", res.Reason)
	}
}

func TestCheckIntegrity_Range(t *testing.T) {
	v := newTestValidator()

	vec := wellFormedVector(100)
	vec[42] = 1.5
	if res := v.CheckIntegrity(vec, ""); res.Valid || res.Reason != "Vector values outside expected range" {
		t.Errorf("out-of-range vector: %+v", res)
	}
}

func TestCheckIntegrity_Anomalies(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name string
		vec  func() []float64
	}{
		{
			name: "constant vector",
			vec: func() []float64 {
				vec := make([]float64, 100)
				for i := range vec {
					vec[i] = 0.3
				}
				return vec
			},
		},
		{
			name: "shifted mean",
			vec: func() []float64 {
				vec := make([]float64, 100)
				for i := range vec {
					vec[i] = 0.65 + 0.1*math.Sin(float64(i)*1.7)
				}
				return vec
			},
		},
		{
			name: "extreme value clustering",
			vec: func() []float64 {
				vec := wellFormedVector(100)
				for i := 0; i < 20; i++ {
					vec[i] = 0.85 + 0.001*float64(i)
				}
				return vec
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.CheckIntegrity(tt.vec(), "")
			if res.Valid {
				t.Error("anomalous vector should be rejected")
			}
			if !strings.HasPrefix(res.Reason, "Vector anomalies detected") {
				t.Errorf("unexpected reason: %q", res.Reason)
			}
		})
	}
}

func TestChecksum_Deterministic(t *testing.T) {
	a := wellFormedVector(128)
	b := wellFormedVector(128)

	if Checksum(a) != Checksum(b) {
		t.Error("identical vectors should produce identical checksums")
	}

	b[0] += 1e-9
	if Checksum(a) == Checksum(b) {
		t.Error("perturbed vector should produce a different checksum")
	}
}

func TestVerifyIntegrity(t *testing.T) {
	v := newTestValidator()
	vec := wellFormedVector(256)
	sum := Checksum(vec)

	if !v.VerifyIntegrity(vec, sum) {
		t.Error("unmodified vector should verify")
	}

	vec[7] = -vec[7]
	if v.VerifyIntegrity(vec, sum) {
		t.Error("tampered vector should fail verification")
	}
}

func TestDetectClusteringAttack(t *testing.T) {
	v := newTestValidator()

	identical := wellFormedVector(64)
	res := v.DetectClusteringAttack([][]float64{identical, identical, identical}, 0)
	if !res.Detected {
		t.Error("batch of identical vectors should be detected")
	}
	if res.Ratio != 1.0 {
		t.Errorf("Ratio = %g, want 1.0", res.Ratio)
	}

	// Orthogonal vectors: every pairwise similarity is zero.
	basis := make([][]float64, 3)
	for i := range basis {
		vec := make([]float64, 64)
		vec[i] = 1.0
		basis[i] = vec
	}
	res = v.DetectClusteringAttack(basis, 0)
	if res.Detected {
		t.Errorf("orthogonal batch flagged: %+v", res)
	}
	if res.Ratio != 0 {
		t.Errorf("Ratio = %g, want 0", res.Ratio)
	}
}

func TestDetectClusteringAttack_TooFewVectors(t *testing.T) {
	v := newTestValidator()

	res := v.DetectClusteringAttack([][]float64{wellFormedVector(64), wellFormedVector(64)}, 0)
	if res.Detected {
		t.Error("fewer than three vectors cannot be judged")
	}
	if res.Reason != "Insufficient vectors for analysis" {
		t.Errorf("unexpected reason: %q", res.Reason)
	}
}

func TestLogAccess_Capped(t *testing.T) {
	v := newTestValidator()

	for i := 0; i < accessLogCap+50; i++ {
		v.LogAccess("read", "vec-1", "user-1")
	}
	if got := len(v.AccessLog()); got != accessLogCap {
		t.Errorf("access log length = %d, want %d", got, accessLogCap)
	}
}
