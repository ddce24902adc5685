package consumption

import (
	"context"
	"time"
)

// Usage is a point-in-time snapshot of a user's consumption across every
// tracked window.
type Usage struct {
	RequestsLastMinute int `json:"requests_last_minute"`
	RequestsLastHour   int `json:"requests_last_hour"`
	RequestsLastDay    int `json:"requests_last_day"`
	TokensLastHour     int `json:"tokens_last_hour"`
	TokensToday        int `json:"tokens_today"`
	ActiveRequests     int `json:"active_requests"`
}

// Store tracks sliding-window request counts, token consumption, and
// in-flight request counts per user. Implementations must be safe for
// concurrent use.
type Store interface {
	// RecordRequest checks the per-minute, per-hour, and per-day request
	// windows (user and client IP) against limits and, when all pass,
	// records the request timestamp in every window. The recorded
	// timestamp counts against future windows even if the caller later
	// rejects the request for other reasons.
	RecordRequest(ctx context.Context, userID, clientIP string, now time.Time, limits Limits) (allowed bool, reason string, err error)

	// CheckTokens reports whether charging tokens would exceed the
	// hourly or daily token budgets. It does not consume anything.
	CheckTokens(ctx context.Context, userID string, tokens int, now time.Time, limits Limits) (allowed bool, reason string, err error)

	// CommitTokens charges tokens against the hourly and daily budgets.
	CommitTokens(ctx context.Context, userID string, tokens int, now time.Time) error

	// BeginRequest increments the user's in-flight count and returns the
	// new value.
	BeginRequest(ctx context.Context, userID string) (int, error)

	// FinishRequest decrements the user's in-flight count, flooring at
	// zero. Unmatched calls are tolerated, never propagated as negative
	// counts.
	FinishRequest(ctx context.Context, userID string) error

	// ActiveRequests returns the user's current in-flight count.
	ActiveRequests(ctx context.Context, userID string) (int, error)

	// TotalActive returns the in-flight count across all users.
	TotalActive(ctx context.Context) (int, error)

	// Usage returns a snapshot of the user's consumption.
	Usage(ctx context.Context, userID string, now time.Time) (Usage, error)
}
