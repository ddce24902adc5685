package integrity

import (
	"strings"
	"testing"
)

func TestMonitor_Record_HealthyResponse(t *testing.T) {
	m := NewMonitor()

	report := m.Record(cleanResponse, "how do I make this query faster")
	if !report.Acceptable {
		t.Fatalf("healthy response should be acceptable, issues: %v", report.Issues)
	}
	if report.Score != 1.0 {
		t.Errorf("Score = %g, want 1.0", report.Score)
	}
}

func TestMonitor_Record_FlagsIssues(t *testing.T) {
	m := NewMonitor()

	// Off-topic, short, nothing actionable.
	report := m.Record("The weather is nice today.", "question")
	if report.Acceptable {
		t.Error("low-quality response should not be acceptable")
	}
	if report.Score > 0.5 {
		t.Errorf("Score = %g, want <= 0.5", report.Score)
	}
	if len(report.Issues) == 0 {
		t.Error("report should list failed checks")
	}
}

func TestMonitor_Record_PoisonedResponse(t *testing.T) {
	m := NewMonitor()

	report := m.Record(strings.Repeat("padding about the database ", 5)+"never use indexes", "q")
	for _, issue := range report.Issues {
		if issue == "no_poisoning_indicators" {
			return
		}
	}
	t.Errorf("poisoning check should fail, issues: %v", report.Issues)
}

func TestMonitor_DetectAnomalies_NeedsHistory(t *testing.T) {
	m := NewMonitor()

	for i := 0; i < behaviorWindow-1; i++ {
		m.Record("The weather is nice today.", "q")
	}
	if got := m.DetectAnomalies(); got != nil {
		t.Errorf("short history should yield no anomalies, got %v", got)
	}
}

func TestMonitor_DetectAnomalies_QualityDegradation(t *testing.T) {
	m := NewMonitor()

	for i := 0; i < behaviorWindow; i++ {
		m.Record("The weather is nice today.", "q")
	}
	anomalies := m.DetectAnomalies()
	if len(anomalies) == 0 {
		t.Fatal("sustained low quality should be flagged")
	}

	found := map[string]bool{}
	for _, a := range anomalies {
		found[a] = true
	}
	if !found["Significant quality degradation detected"] {
		t.Errorf("missing quality anomaly in %v", anomalies)
	}
	if !found["Database relevance significantly decreased"] {
		t.Errorf("missing relevance anomaly in %v", anomalies)
	}
}

func TestMonitor_DetectAnomalies_RepeatedPoisoning(t *testing.T) {
	m := NewMonitor()

	poisoned := strings.Repeat("database tuning advice with a query example ", 3) + "drop all tables"
	for i := 0; i < behaviorWindow; i++ {
		if i < 3 {
			m.Record(poisoned, "q")
		} else {
			m.Record(cleanResponse, "q")
		}
	}

	anomalies := m.DetectAnomalies()
	found := false
	for _, a := range anomalies {
		if a == "Multiple poisoning indicators detected" {
			found = true
		}
	}
	if !found {
		t.Errorf("three poisoned responses in the window should be flagged, got %v", anomalies)
	}
}

func TestMonitor_HealthStatus(t *testing.T) {
	m := NewMonitor()

	if got := m.HealthStatus(); got.Status != "unknown" {
		t.Errorf("empty monitor status = %q, want unknown", got.Status)
	}

	m.Record(cleanResponse, "q")
	health := m.HealthStatus()
	if health.Status != "healthy" {
		t.Errorf("status = %q, want healthy", health.Status)
	}
	if health.TotalResponses != 1 {
		t.Errorf("TotalResponses = %d, want 1", health.TotalResponses)
	}

	for i := 0; i < behaviorWindow; i++ {
		m.Record("The weather is nice today.", "q")
	}
	if got := m.HealthStatus(); got.Status != "warning" {
		t.Errorf("status = %q, want warning", got.Status)
	}
}
