package vector

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sync"
	"time"

	"dbassist/platform/gateway/events"
	"dbassist/platform/gateway/patterns"
	"dbassist/platform/shared/logger"
)

// Embedding vector bounds shared by every approved model.
const (
	MinDimensions = 50
	MaxDimensions = 4096
	MinComponent  = -1.0
	MaxComponent  = 1.0
)

// Statistical anomaly thresholds. A legitimate embedding is roughly
// zero-centered, spread out, and mostly unique-valued.
const (
	maxAbsMean       = 0.5
	minStdDev        = 0.01
	maxStdDev        = 1.0
	minUniqueShare   = 0.8
	maxExtremeShare  = 0.1
	extremeComponent = 0.8
)

// accessLogCap bounds the in-memory vector access trail.
const accessLogCap = 1000

// Result is the outcome of an embedding-input check.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// IntegrityResult is the outcome of a vector integrity check.
type IntegrityResult struct {
	Valid    bool   `json:"valid"`
	Reason   string `json:"reason,omitempty"`
	Checksum string `json:"checksum,omitempty"`
}

// AccessRecord is one entry of the vector access trail.
type AccessRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation"`
	VectorID  string    `json:"vector_id"`
	UserID    string    `json:"user_id"`
}

// Validator guards the embedding and retrieval side of a RAG pipeline:
// text entering embedding generation, raw vectors, retrieved context,
// and the models allowed to produce embeddings.
type Validator struct {
	registry *patterns.Registry
	log      *logger.Logger
	sink     events.Sink

	mu        sync.Mutex
	checksums map[string]string
	accessLog []AccessRecord
}

// NewValidator builds a Validator over the shared pattern registry.
func NewValidator(registry *patterns.Registry, log *logger.Logger, sink events.Sink) *Validator {
	return &Validator{
		registry:  registry,
		log:       log,
		sink:      sink,
		checksums: make(map[string]string),
	}
}

// CheckInput screens text before it is sent for embedding generation.
func (v *Validator) CheckInput(source, text string) Result {
	if p := v.registry.MatchFirst(patterns.CategoryEmbeddingPoisoning, text); p != nil {
		v.flag(events.TypeEmbeddingPoisoning, source, p.Name, text)
		return Result{Message: "Vector Security: Embedding poisoning attempt detected"}
	}
	if p := v.registry.MatchFirst(patterns.CategoryMaliciousRetrieval, text); p != nil {
		v.flag(events.TypeMaliciousRetrieval, source, p.Name, text)
		return Result{Message: "RAG Security: Malicious retrieval pattern detected"}
	}
	if len(text) > MaxContextLength {
		return Result{Message: "Text too long for safe embedding generation"}
	}
	if p := v.registry.MatchFirst(patterns.CategoryContamination, text); p != nil {
		v.flag(events.TypeContextContamination, source, p.Name, text)
		return Result{Message: "Context Security: Contamination patterns detected"}
	}
	if p := v.registry.MatchFirst(patterns.CategorySensitive, text); p != nil {
		return Result{Message: fmt.Sprintf("Privacy: %s detected in embedding input", p.Label)}
	}
	return Result{Valid: true}
}

// CheckIntegrity validates a raw embedding vector: dimension bounds,
// component range, and statistical anomalies. Valid vectors get a
// checksum, remembered under id for later verification when id is
// non-empty.
func (v *Validator) CheckIntegrity(vec []float64, id string) IntegrityResult {
	if len(vec) < MinDimensions {
		return IntegrityResult{Reason: "Vector dimensions too small"}
	}
	if len(vec) > MaxDimensions {
		return IntegrityResult{Reason: "Vector dimensions too large"}
	}
	for _, x := range vec {
		if x < MinComponent || x > MaxComponent {
			return IntegrityResult{Reason: "Vector values outside expected range"}
		}
	}

	if details := detectAnomalies(vec); len(details) > 0 {
		reason := fmt.Sprintf("Vector anomalies detected: %v", details)
		v.log.Warn("system", "", reason, nil)
		v.sink.Record(events.New(events.TypeVectorAnomaly, "system", fmt.Sprintf("%v", details)))
		return IntegrityResult{Reason: reason}
	}

	sum := Checksum(vec)
	if id != "" {
		v.mu.Lock()
		v.checksums[id] = sum
		v.mu.Unlock()
	}
	return IntegrityResult{Valid: true, Checksum: sum}
}

// Checksum returns the integrity checksum of a vector: SHA-256 over the
// little-endian float64 encoding, truncated to 16 hex characters.
func Checksum(vec []float64) string {
	buf := make([]byte, 8*len(vec))
	for i, x := range vec {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(x))
	}
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])[:16]
}

// VerifyIntegrity reports whether vec still hashes to expected.
func (v *Validator) VerifyIntegrity(vec []float64, expected string) bool {
	return Checksum(vec) == expected
}

// StoredChecksum returns the checksum remembered for a vector ID.
func (v *Validator) StoredChecksum(id string) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	sum, ok := v.checksums[id]
	return sum, ok
}

// detectAnomalies returns human-readable descriptions of statistical
// anomalies in a vector, empty when the vector looks legitimate.
func detectAnomalies(vec []float64) []string {
	var details []string

	mean := 0.0
	for _, x := range vec {
		mean += x
	}
	mean /= float64(len(vec))

	variance := 0.0
	for _, x := range vec {
		variance += (x - mean) * (x - mean)
	}
	std := math.Sqrt(variance / float64(len(vec)))

	if math.Abs(mean) > maxAbsMean {
		details = append(details, fmt.Sprintf("Unusual mean: %g", mean))
	}
	if std < minStdDev || std > maxStdDev {
		details = append(details, fmt.Sprintf("Unusual std: %g", std))
	}

	unique := make(map[float64]struct{}, len(vec))
	for _, x := range vec {
		unique[x] = struct{}{}
	}
	if float64(len(unique)) < float64(len(vec))*minUniqueShare {
		details = append(details, fmt.Sprintf("Low uniqueness: %d/%d", len(unique), len(vec)))
	}

	extreme := 0
	for _, x := range vec {
		if x < -extremeComponent || x > extremeComponent {
			extreme++
		}
	}
	if float64(extreme) > float64(len(vec))*maxExtremeShare {
		details = append(details, fmt.Sprintf("Too many extreme values: %d", extreme))
	}

	return details
}

// LogAccess appends to the vector access trail, keeping only the most
// recent entries.
func (v *Validator) LogAccess(operation, vectorID, userID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.accessLog = append(v.accessLog, AccessRecord{
		Timestamp: time.Now(),
		Operation: operation,
		VectorID:  vectorID,
		UserID:    userID,
	})
	if len(v.accessLog) > accessLogCap {
		v.accessLog = v.accessLog[len(v.accessLog)-accessLogCap:]
	}
}

// AccessLog returns a copy of the vector access trail.
func (v *Validator) AccessLog() []AccessRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]AccessRecord, len(v.accessLog))
	copy(out, v.accessLog)
	return out
}

func (v *Validator) flag(typ events.Type, source, patternName, text string) {
	v.log.Warn(source, "", fmt.Sprintf("Vector check failed: pattern %s", patternName), nil)
	v.sink.Record(events.New(typ, source,
		fmt.Sprintf("pattern %s matched: %s", patternName, events.Snippet(text, 100))))
}
