package consumption

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_RecordRequest_PerMinute(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	limits := DefaultLimits()
	now := time.Now()

	for i := 0; i < limits.RequestsPerMinute; i++ {
		allowed, _, err := store.RecordRequest(ctx, "user-1", "10.0.0.1", now, limits)
		if err != nil {
			t.Fatalf("RecordRequest failed: %v", err)
		}
		if !allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	allowed, reason, err := store.RecordRequest(ctx, "user-1", "10.0.0.1", now, limits)
	if err != nil {
		t.Fatalf("RecordRequest failed: %v", err)
	}
	if allowed {
		t.Fatal("request over the per-minute limit should be denied")
	}
	if reason == "" {
		t.Error("denial should carry a reason")
	}
}

func TestMemoryStore_RecordRequest_WindowSlides(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	limits := DefaultLimits()
	base := time.Now()

	for i := 0; i < limits.RequestsPerMinute; i++ {
		store.RecordRequest(ctx, "user-1", "", base, limits)
	}

	// Two minutes later the per-minute window is empty again.
	allowed, _, _ := store.RecordRequest(ctx, "user-1", "", base.Add(2*time.Minute), limits)
	if !allowed {
		t.Error("request after window slides should be allowed")
	}
}

func TestMemoryStore_RecordRequest_IPLimitSharedAcrossUsers(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	limits := DefaultLimits()
	now := time.Now()

	// Different user IDs, same client address.
	for i := 0; i < limits.RequestsPerMinute; i++ {
		userID := "user-a"
		if i%2 == 0 {
			userID = "user-b"
		}
		allowed, _, _ := store.RecordRequest(ctx, userID, "192.0.2.7", now, limits)
		if !allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	allowed, reason, _ := store.RecordRequest(ctx, "user-c", "192.0.2.7", now, limits)
	if allowed {
		t.Fatal("shared client address over the limit should be denied")
	}
	if reason != "rate limit exceeded for client address" {
		t.Errorf("unexpected reason: %q", reason)
	}
}

func TestMemoryStore_Tokens(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	limits := DefaultLimits()
	now := time.Now()

	allowed, _, _ := store.CheckTokens(ctx, "user-1", limits.TokensPerHour, now, limits)
	if !allowed {
		t.Fatal("budget-sized request should be allowed")
	}

	if err := store.CommitTokens(ctx, "user-1", limits.TokensPerHour-100, now); err != nil {
		t.Fatalf("CommitTokens failed: %v", err)
	}

	allowed, reason, _ := store.CheckTokens(ctx, "user-1", 200, now, limits)
	if allowed {
		t.Fatal("request exceeding hourly budget should be denied")
	}
	if reason != "token limit exceeded: 50000 tokens per hour" {
		t.Errorf("unexpected reason: %q", reason)
	}

	// The hourly window slides; the daily budget still holds the spend.
	later := now.Add(2 * time.Hour)
	allowed, _, _ = store.CheckTokens(ctx, "user-1", 200, later, limits)
	if !allowed {
		t.Error("request after hourly window slides should be allowed")
	}

	usage, _ := store.Usage(ctx, "user-1", later)
	if usage.TokensLastHour != 0 {
		t.Errorf("TokensLastHour = %d, want 0", usage.TokensLastHour)
	}
	if usage.TokensToday != limits.TokensPerHour-100 {
		t.Errorf("TokensToday = %d, want %d", usage.TokensToday, limits.TokensPerHour-100)
	}
}

func TestMemoryStore_DailyTokenReset(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	store.CommitTokens(ctx, "user-1", 5000, now)

	usage, _ := store.Usage(ctx, "user-1", now.Add(25*time.Hour))
	if usage.TokensToday != 0 {
		t.Errorf("TokensToday after 25h = %d, want 0", usage.TokensToday)
	}
}

func TestMemoryStore_ActiveRequests(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	n, _ := store.BeginRequest(ctx, "user-1")
	if n != 1 {
		t.Errorf("first BeginRequest = %d, want 1", n)
	}
	n, _ = store.BeginRequest(ctx, "user-1")
	if n != 2 {
		t.Errorf("second BeginRequest = %d, want 2", n)
	}
	store.BeginRequest(ctx, "user-2")

	total, _ := store.TotalActive(ctx)
	if total != 3 {
		t.Errorf("TotalActive = %d, want 3", total)
	}

	store.FinishRequest(ctx, "user-1")
	n, _ = store.ActiveRequests(ctx, "user-1")
	if n != 1 {
		t.Errorf("ActiveRequests after finish = %d, want 1", n)
	}
}

func TestMemoryStore_FinishRequest_FloorsAtZero(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.FinishRequest(ctx, "user-1")
	store.FinishRequest(ctx, "user-1")

	n, _ := store.ActiveRequests(ctx, "user-1")
	if n != 0 {
		t.Errorf("ActiveRequests = %d, want 0", n)
	}
}

func TestMemoryStore_PrunesStaleSessions(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	limits := DefaultLimits()
	base := time.Now()

	store.RecordRequest(ctx, "stale-user", "", base, limits)
	store.RecordRequest(ctx, "fresh-user", "", base.Add(25*time.Hour), limits)

	store.mu.Lock()
	_, staleKept := store.sessions["stale-user"]
	_, freshKept := store.sessions["fresh-user"]
	store.mu.Unlock()

	if staleKept {
		t.Error("session with only >24h-old state should be pruned")
	}
	if !freshKept {
		t.Error("fresh session should be kept")
	}
}
