package vector

import (
	"fmt"
	"math"
	"strings"

	"dbassist/platform/gateway/events"
	"dbassist/platform/gateway/patterns"
)

// Retrieved-context bounds for RAG prompts.
const (
	MaxContextLength      = 8000
	MaxRetrievedDocuments = 10
	DiversityThreshold    = 0.3
	ClusteringThreshold   = 0.8
)

const truncationMarker = "... [TRUNCATED FOR SECURITY]"

// Document is one retrieved document entering a RAG prompt.
type Document struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// RetrievalResult is the outcome of a retrieved-context check.
type RetrievalResult struct {
	Valid     bool    `json:"valid"`
	Reason    string  `json:"reason,omitempty"`
	Diversity float64 `json:"diversity_score"`
}

// ClusteringResult is the outcome of a clustering-attack check.
type ClusteringResult struct {
	Detected bool    `json:"attack_detected"`
	Ratio    float64 `json:"clustering_ratio"`
	Reason   string  `json:"reason,omitempty"`
}

// CheckRetrieval validates a retrieved document set before it is
// assembled into a prompt: document count, total length, diversity,
// contamination, and sensitive content.
func (v *Validator) CheckRetrieval(docs []Document) RetrievalResult {
	if len(docs) > MaxRetrievedDocuments {
		return RetrievalResult{Reason: fmt.Sprintf("Too many documents retrieved: %d > %d", len(docs), MaxRetrievedDocuments)}
	}

	total := 0
	for _, doc := range docs {
		total += len(doc.Content)
	}
	if total > MaxContextLength {
		return RetrievalResult{Reason: fmt.Sprintf("Context too long: %d > %d", total, MaxContextLength)}
	}

	diversity := contextDiversity(docs)
	if diversity < DiversityThreshold {
		v.log.Warn("system", "", fmt.Sprintf("Low context diversity: %g", diversity), nil)
		v.sink.Record(events.New(events.TypeLowContextDiversity, "system",
			fmt.Sprintf("diversity %g below threshold %g", diversity, DiversityThreshold)))
		return RetrievalResult{Reason: fmt.Sprintf("Low context diversity detected: %g", diversity), Diversity: diversity}
	}

	var contaminated []int
	for i, doc := range docs {
		if v.registry.MatchAny(patterns.CategoryContamination, doc.Content) {
			contaminated = append(contaminated, i)
		}
	}
	if len(contaminated) > 0 {
		return RetrievalResult{Reason: fmt.Sprintf("Contaminated documents detected at indices: %v", contaminated), Diversity: diversity}
	}

	for _, doc := range docs {
		if p := v.registry.MatchFirst(patterns.CategorySensitive, doc.Content); p != nil {
			return RetrievalResult{Reason: fmt.Sprintf("Sensitive information in retrieved context: %s", p.Label), Diversity: diversity}
		}
	}

	return RetrievalResult{Valid: true, Diversity: diversity}
}

// contextDiversity scores document-set diversity on content-length
// variation. A set of near-identical lengths is the cheap signature of a
// stuffed retrieval index. Fewer than two documents cannot cluster.
func contextDiversity(docs []Document) float64 {
	if len(docs) < 2 {
		return 1.0
	}

	mean := 0.0
	for _, doc := range docs {
		mean += float64(len(doc.Content))
	}
	mean /= float64(len(docs))

	variance := 0.0
	for _, doc := range docs {
		d := float64(len(doc.Content)) - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(len(docs)))

	return math.Min(1.0, std/(mean+1))
}

// Sanitize cleans retrieved context before prompt assembly: contamination
// patterns become [SANITIZED], sensitive matches become labeled
// placeholders, and overlong context is truncated with a marker.
// Sanitizing already-sanitized text is a no-op.
func (v *Validator) Sanitize(context string) string {
	sanitized := context
	for _, p := range v.registry.Category(patterns.CategoryContamination) {
		sanitized = p.Regex.ReplaceAllString(sanitized, "[SANITIZED]")
	}
	for _, p := range v.registry.Category(patterns.CategorySensitive) {
		sanitized = p.Regex.ReplaceAllString(sanitized, fmt.Sprintf("[%s REDACTED]", p.Label))
	}
	if len(sanitized) > MaxContextLength && !strings.HasSuffix(sanitized, truncationMarker) {
		sanitized = sanitized[:MaxContextLength] + truncationMarker
	}
	return sanitized
}

// DetectClusteringAttack checks a vector batch for coordinated
// similarity: when more than half of all pairs exceed the cosine
// threshold the batch is treated as an attack. Threshold zero means the
// default. Fewer than three vectors cannot be judged.
func (v *Validator) DetectClusteringAttack(vectors [][]float64, threshold float64) ClusteringResult {
	if len(vectors) < 3 {
		return ClusteringResult{Reason: "Insufficient vectors for analysis"}
	}
	if threshold == 0 {
		threshold = ClusteringThreshold
	}

	highPairs, totalPairs := 0, 0
	for i := 0; i < len(vectors); i++ {
		for j := i + 1; j < len(vectors); j++ {
			totalPairs++
			if cosineSimilarity(vectors[i], vectors[j]) > threshold {
				highPairs++
			}
		}
	}

	ratio := float64(highPairs) / float64(totalPairs)
	if ratio > 0.5 {
		v.log.Warn("system", "", fmt.Sprintf("Vector clustering attack: ratio %g", ratio), nil)
		v.sink.Record(events.New(events.TypeClusteringAttack, "system",
			fmt.Sprintf("clustering ratio %g", ratio)))
		return ClusteringResult{
			Detected: true,
			Ratio:    ratio,
			Reason:   fmt.Sprintf("High clustering detected: %.2f%% of vector pairs are highly similar", ratio*100),
		}
	}
	return ClusteringResult{Ratio: ratio}
}

func cosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
