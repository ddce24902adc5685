package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestComplete(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "Try VACUUM ANALYZE.\n"})
	}))
	defer srv.Close()

	p, err := NewProvider(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	out, err := p.Complete(context.Background(), "You are a database assistant.", "ctx", "bloated table")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "Try VACUUM ANALYZE." {
		t.Errorf("content = %q", out)
	}
	if got.Model != DefaultModel {
		t.Errorf("model = %q", got.Model)
	}
	if got.Stream {
		t.Error("stream should be disabled")
	}
	if got.Options.NumPredict != defaultNumPredict {
		t.Errorf("num_predict = %d", got.Options.NumPredict)
	}
}

func TestComplete_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p, _ := NewProvider(Config{BaseURL: srv.URL})
	if _, err := p.Complete(context.Background(), "sys", "", "q"); err == nil {
		t.Fatal("expected error on 404")
	}
	if p.IsHealthy() {
		t.Error("provider should be unhealthy")
	}
}

func TestHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p, _ := NewProvider(Config{BaseURL: srv.URL})
	if err := p.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}
