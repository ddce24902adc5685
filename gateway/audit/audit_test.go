package audit

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"dbassist/platform/gateway/events"
)

func shutdown(t *testing.T, q *Queue) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := q.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestNewQueue_InvalidFallbackPath(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := NewQueue(db, 10, 1, "/nonexistent/dir/audit.log", nil); err == nil {
		t.Fatal("expected error for unwritable fallback path")
	}
}

func TestQueue_PersistsEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO security_events").
		WithArgs("PROMPT_INJECTION", "user-1", "pattern ignore_previous matched", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	q, err := NewQueue(db, 10, 1, filepath.Join(t.TempDir(), "audit.log"), nil)
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}

	q.Record(events.New(events.TypePromptInjection, "user-1", "pattern ignore_previous matched"))
	shutdown(t, q)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
	if got := q.Stats()["processed"].(uint64); got != 1 {
		t.Errorf("processed = %d, want 1", got)
	}
}

func TestQueue_RetriesThenFallsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer func() { _ = db.Close() }()

	for i := 0; i < 3; i++ {
		mock.ExpectExec("INSERT INTO security_events").
			WillReturnError(errors.New("connection refused"))
	}

	path := filepath.Join(t.TempDir(), "audit.log")
	q, err := NewQueue(db, 10, 1, path, nil)
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}

	q.Record(events.New(events.TypeRateLimit, "user-2", "30 requests in 60s"))
	shutdown(t, q)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
	if got := q.Stats()["failed"].(uint64); got != 1 {
		t.Errorf("failed = %d, want 1", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fallback: %v", err)
	}
	var ev events.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("fallback line is not valid JSON: %v", err)
	}
	if ev.Type != events.TypeRateLimit || ev.Source != "user-2" {
		t.Errorf("fallback event = %+v", ev)
	}
}

func TestQueue_NilDatabaseGoesToFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	q, err := NewQueue(nil, 10, 2, path, nil)
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}

	q.Record(events.New(events.TypeSensitiveData, "user-3", "AWS Access Key ID detected"))
	q.Record(events.New(events.TypeOffTopic, "user-4", "off-topic request"))
	shutdown(t, q)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fallback: %v", err)
	}
	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	if lines != 2 {
		t.Errorf("fallback holds %d lines, want 2", lines)
	}
}
