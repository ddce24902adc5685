package consumption

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type tokenEvent struct {
	at     time.Time
	tokens int
}

type userSession struct {
	requests    []time.Time
	tokenEvents []tokenEvent
	tokensToday int
	dayStart    time.Time
	active      int
}

// MemoryStore is an in-process Store backed by a single mutex. Suitable
// for single-instance deployments and tests; multi-instance deployments
// should use RedisStore so windows are shared.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*userSession
	ips      map[string][]time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*userSession),
		ips:      make(map[string][]time.Time),
	}
}

func (s *MemoryStore) session(userID string) *userSession {
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &userSession{}
		s.sessions[userID] = sess
	}
	return sess
}

// pruneLocked drops request timestamps and token events older than 24h
// and removes sessions that hold no state at all.
func (s *MemoryStore) pruneLocked(now time.Time) {
	cutoff := now.Add(-24 * time.Hour)
	for id, sess := range s.sessions {
		sess.requests = pruneTimes(sess.requests, cutoff)
		kept := sess.tokenEvents[:0]
		for _, ev := range sess.tokenEvents {
			if ev.at.After(cutoff) {
				kept = append(kept, ev)
			}
		}
		sess.tokenEvents = kept
		if !sess.dayStart.IsZero() && now.Sub(sess.dayStart) >= 24*time.Hour {
			sess.tokensToday = 0
			sess.dayStart = time.Time{}
		}
		if len(sess.requests) == 0 && len(sess.tokenEvents) == 0 && sess.active == 0 && sess.tokensToday == 0 {
			delete(s.sessions, id)
		}
	}
	for ip, times := range s.ips {
		s.ips[ip] = pruneTimes(times, cutoff)
		if len(s.ips[ip]) == 0 {
			delete(s.ips, ip)
		}
	}
}

func pruneTimes(times []time.Time, cutoff time.Time) []time.Time {
	kept := times[:0]
	for _, t := range times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

func countSince(times []time.Time, since time.Time) int {
	n := 0
	for _, t := range times {
		if t.After(since) {
			n++
		}
	}
	return n
}

// RecordRequest implements Store.
func (s *MemoryStore) RecordRequest(_ context.Context, userID, clientIP string, now time.Time, limits Limits) (bool, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	sess := s.session(userID)

	if n := countSince(sess.requests, now.Add(-time.Minute)); n >= limits.RequestsPerMinute {
		return false, fmt.Sprintf("rate limit exceeded: %d requests per minute", limits.RequestsPerMinute), nil
	}
	if n := countSince(sess.requests, now.Add(-time.Hour)); n >= limits.RequestsPerHour {
		return false, fmt.Sprintf("rate limit exceeded: %d requests per hour", limits.RequestsPerHour), nil
	}
	if n := countSince(sess.requests, now.Add(-24*time.Hour)); n >= limits.RequestsPerDay {
		return false, fmt.Sprintf("rate limit exceeded: %d requests per day", limits.RequestsPerDay), nil
	}
	if clientIP != "" {
		if n := countSince(s.ips[clientIP], now.Add(-time.Minute)); n >= limits.RequestsPerMinute {
			return false, "rate limit exceeded for client address", nil
		}
	}

	sess.requests = append(sess.requests, now)
	if clientIP != "" {
		s.ips[clientIP] = append(s.ips[clientIP], now)
	}
	return true, "", nil
}

// CheckTokens implements Store.
func (s *MemoryStore) CheckTokens(_ context.Context, userID string, tokens int, now time.Time, limits Limits) (bool, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(userID)
	if s.tokensLastHourLocked(sess, now)+tokens > limits.TokensPerHour {
		return false, fmt.Sprintf("token limit exceeded: %d tokens per hour", limits.TokensPerHour), nil
	}
	if s.tokensTodayLocked(sess, now)+tokens > limits.TokensPerDay {
		return false, fmt.Sprintf("token limit exceeded: %d tokens per day", limits.TokensPerDay), nil
	}
	return true, "", nil
}

func (s *MemoryStore) tokensLastHourLocked(sess *userSession, now time.Time) int {
	since := now.Add(-time.Hour)
	total := 0
	for _, ev := range sess.tokenEvents {
		if ev.at.After(since) {
			total += ev.tokens
		}
	}
	return total
}

func (s *MemoryStore) tokensTodayLocked(sess *userSession, now time.Time) int {
	if !sess.dayStart.IsZero() && now.Sub(sess.dayStart) >= 24*time.Hour {
		sess.tokensToday = 0
		sess.dayStart = time.Time{}
	}
	return sess.tokensToday
}

// CommitTokens implements Store.
func (s *MemoryStore) CommitTokens(_ context.Context, userID string, tokens int, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(userID)
	sess.tokenEvents = append(sess.tokenEvents, tokenEvent{at: now, tokens: tokens})
	if sess.dayStart.IsZero() || now.Sub(sess.dayStart) >= 24*time.Hour {
		sess.tokensToday = 0
		sess.dayStart = now
	}
	sess.tokensToday += tokens
	return nil
}

// BeginRequest implements Store.
func (s *MemoryStore) BeginRequest(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(userID)
	sess.active++
	return sess.active, nil
}

// FinishRequest implements Store.
func (s *MemoryStore) FinishRequest(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok && sess.active > 0 {
		sess.active--
	}
	return nil
}

// ActiveRequests implements Store.
func (s *MemoryStore) ActiveRequests(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		return sess.active, nil
	}
	return 0, nil
}

// TotalActive implements Store.
func (s *MemoryStore) TotalActive(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, sess := range s.sessions {
		total += sess.active
	}
	return total, nil
}

// Usage implements Store.
func (s *MemoryStore) Usage(_ context.Context, userID string, now time.Time) (Usage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return Usage{}, nil
	}
	return Usage{
		RequestsLastMinute: countSince(sess.requests, now.Add(-time.Minute)),
		RequestsLastHour:   countSince(sess.requests, now.Add(-time.Hour)),
		RequestsLastDay:    countSince(sess.requests, now.Add(-24*time.Hour)),
		TokensLastHour:     s.tokensLastHourLocked(sess, now),
		TokensToday:        s.tokensTodayLocked(sess, now),
		ActiveRequests:     sess.active,
	}, nil
}
