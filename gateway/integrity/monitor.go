package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// dbKeywords is the relevance vocabulary for quality scoring. A healthy
// database-assistant response mentions at least some of these.
var dbKeywords = []string{"database", "sql", "query", "table", "index", "performance"}

// actionableWords marks responses that give the user something to do.
var actionableWords = []string{"create", "optimize", "check", "monitor"}

// poisonedAdvice is blanket advice no sane model emits; its appearance
// in multiple recent responses points at training-data poisoning.
var poisonedAdvice = []string{
	"always delete all",
	"never use indexes",
	"drop all tables",
	"grant all privileges to public",
	"disable all security",
}

// behaviorWindow is how many recent responses anomaly detection looks at.
const behaviorWindow = 10

// QualityReport scores one model response.
type QualityReport struct {
	Score      float64  `json:"quality_score"`
	Acceptable bool     `json:"is_acceptable"`
	Issues     []string `json:"issues,omitempty"`
}

type behaviorEntry struct {
	at          time.Time
	inputHash   string
	length      int
	relevance   float64
	score       float64
	hasPoisoned bool
}

// Monitor keeps a rolling trail of response-quality metrics and detects
// drift that single-response gates cannot see: sustained quality drops,
// repeated poisoning indicators, relevance collapse.
type Monitor struct {
	mu  sync.Mutex
	log []behaviorEntry
}

// NewMonitor returns an empty Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// Record scores a response and appends it to the behavior trail.
func (m *Monitor) Record(response, userInput string) QualityReport {
	lower := strings.ToLower(response)

	keywordHits := 0
	for _, kw := range dbKeywords {
		if strings.Contains(lower, kw) {
			keywordHits++
		}
	}
	relevance := float64(keywordHits) / float64(len(dbKeywords))

	poisoned := false
	for _, phrase := range poisonedAdvice {
		if strings.Contains(lower, phrase) {
			poisoned = true
			break
		}
	}

	actionable := false
	for _, w := range actionableWords {
		if strings.Contains(lower, w) {
			actionable = true
			break
		}
	}

	checks := map[string]bool{
		"length_appropriate":         len(response) >= 50 && len(response) <= 3000,
		"database_relevant":          relevance >= 0.1,
		"no_poisoning_indicators":    !poisoned,
		"contains_actionable_advice": actionable,
	}

	passed := 0
	var issues []string
	for name, ok := range checks {
		if ok {
			passed++
		} else {
			issues = append(issues, name)
		}
	}
	score := float64(passed) / float64(len(checks))

	inputSum := sha256.Sum256([]byte(userInput))
	m.mu.Lock()
	m.log = append(m.log, behaviorEntry{
		at:          time.Now(),
		inputHash:   hex.EncodeToString(inputSum[:])[:8],
		length:      len(response),
		relevance:   relevance,
		score:       score,
		hasPoisoned: poisoned,
	})
	m.mu.Unlock()

	return QualityReport{Score: score, Acceptable: score >= 0.75, Issues: issues}
}

// DetectAnomalies inspects the recent behavior trail for drift. Fewer
// than ten recorded responses is not enough signal.
func (m *Monitor) DetectAnomalies() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.log) < behaviorWindow {
		return nil
	}
	recent := m.log[len(m.log)-behaviorWindow:]

	var anomalies []string

	avgScore := 0.0
	for _, e := range recent {
		avgScore += e.score
	}
	avgScore /= float64(len(recent))
	if avgScore < 0.5 {
		anomalies = append(anomalies, "Significant quality degradation detected")
	}

	poisonedCount := 0
	for _, e := range recent {
		if e.hasPoisoned {
			poisonedCount++
		}
	}
	if poisonedCount > 2 {
		anomalies = append(anomalies, "Multiple poisoning indicators detected")
	}

	avgRelevance := 0.0
	for _, e := range recent {
		avgRelevance += e.relevance
	}
	avgRelevance /= float64(len(recent))
	if avgRelevance < 0.1 {
		anomalies = append(anomalies, "Database relevance significantly decreased")
	}

	return anomalies
}

// Health describes model health derived from the behavior trail.
type Health struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation,omitempty"`
	TotalResponses int    `json:"total_responses,omitempty"`
}

// HealthStatus summarizes the monitor's view of the model.
func (m *Monitor) HealthStatus() Health {
	m.mu.Lock()
	total := len(m.log)
	m.mu.Unlock()

	if total == 0 {
		return Health{Status: "unknown", Message: "No data available"}
	}

	if anomalies := m.DetectAnomalies(); len(anomalies) > 0 {
		return Health{
			Status:         "warning",
			Message:        "Potential issues detected: " + strings.Join(anomalies, ", "),
			Recommendation: "Monitor responses closely, consider switching to backup model",
		}
	}

	return Health{
		Status:         "healthy",
		Message:        "Model responses within expected parameters",
		TotalResponses: total,
	}
}
