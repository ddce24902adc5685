package consumption

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore is a Store backed by Redis so that request windows, token
// budgets, and in-flight counts are shared across gateway instances.
//
// Request windows are sliding windows implemented as sorted sets keyed by
// unix-nano members scored with unix seconds. Token budgets are plain
// counters with TTLs. Redis errors fail open: a broken limiter must not
// take the whole gateway down with it.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to redisURL (redis://host:port or
// redis://host:port/db) and verifies the connection with a short ping.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, prefix: "consumption"}, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "consumption"}
}

// Close closes the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) requestsKey(userID string) string {
	return fmt.Sprintf("%s:requests:%s", s.prefix, userID)
}

func (s *RedisStore) ipKey(clientIP string) string {
	return fmt.Sprintf("%s:iprequests:%s", s.prefix, clientIP)
}

func (s *RedisStore) tokensHourKey(userID string) string {
	return fmt.Sprintf("%s:tokens:hour:%s", s.prefix, userID)
}

func (s *RedisStore) tokensDayKey(userID string) string {
	return fmt.Sprintf("%s:tokens:day:%s", s.prefix, userID)
}

func (s *RedisStore) activeKey(userID string) string {
	return fmt.Sprintf("%s:active:%s", s.prefix, userID)
}

// windowCount counts sorted-set members newer than the window start after
// pruning members older than the retention horizon.
func (s *RedisStore) windowCount(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	pipe := s.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now.Add(-24*time.Hour).Unix()))
	count := pipe.ZCount(ctx, key, fmt.Sprintf("%d", now.Add(-window).Unix()), "+inf")
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return 0, err
	}
	return count.Val(), nil
}

// RecordRequest implements Store. Redis failures fail open.
func (s *RedisStore) RecordRequest(ctx context.Context, userID, clientIP string, now time.Time, limits Limits) (bool, string, error) {
	key := s.requestsKey(userID)

	checks := []struct {
		window time.Duration
		limit  int
		reason string
	}{
		{time.Minute, limits.RequestsPerMinute, fmt.Sprintf("rate limit exceeded: %d requests per minute", limits.RequestsPerMinute)},
		{time.Hour, limits.RequestsPerHour, fmt.Sprintf("rate limit exceeded: %d requests per hour", limits.RequestsPerHour)},
		{24 * time.Hour, limits.RequestsPerDay, fmt.Sprintf("rate limit exceeded: %d requests per day", limits.RequestsPerDay)},
	}
	for _, c := range checks {
		count, err := s.windowCount(ctx, key, now, c.window)
		if err != nil {
			return true, "", nil
		}
		if count >= int64(c.limit) {
			return false, c.reason, nil
		}
	}

	if clientIP != "" {
		count, err := s.windowCount(ctx, s.ipKey(clientIP), now, time.Minute)
		if err == nil && count >= int64(limits.RequestsPerMinute) {
			return false, "rate limit exceeded for client address", nil
		}
	}

	pipe := s.client.Pipeline()
	member := fmt.Sprintf("%d", now.UnixNano())
	pipe.ZAdd(ctx, key, &redis.Z{Score: float64(now.Unix()), Member: member})
	pipe.Expire(ctx, key, 25*time.Hour)
	if clientIP != "" {
		ipKey := s.ipKey(clientIP)
		pipe.ZAdd(ctx, ipKey, &redis.Z{Score: float64(now.Unix()), Member: member})
		pipe.Expire(ctx, ipKey, 25*time.Hour)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return true, "", nil
	}
	return true, "", nil
}

// CheckTokens implements Store. Redis failures fail open.
func (s *RedisStore) CheckTokens(ctx context.Context, userID string, tokens int, now time.Time, limits Limits) (bool, string, error) {
	pipe := s.client.Pipeline()
	hour := pipe.Get(ctx, s.tokensHourKey(userID))
	day := pipe.Get(ctx, s.tokensDayKey(userID))
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return true, "", nil
	}

	hourUsed, _ := hour.Int()
	dayUsed, _ := day.Int()
	if hourUsed+tokens > limits.TokensPerHour {
		return false, fmt.Sprintf("token limit exceeded: %d tokens per hour", limits.TokensPerHour), nil
	}
	if dayUsed+tokens > limits.TokensPerDay {
		return false, fmt.Sprintf("token limit exceeded: %d tokens per day", limits.TokensPerDay), nil
	}
	return true, "", nil
}

// CommitTokens implements Store. The hourly counter expires after one
// hour and the daily counter after 24 hours, each measured from first
// consumption in the period.
func (s *RedisStore) CommitTokens(ctx context.Context, userID string, tokens int, _ time.Time) error {
	pipe := s.client.Pipeline()
	hourKey := s.tokensHourKey(userID)
	dayKey := s.tokensDayKey(userID)
	pipe.IncrBy(ctx, hourKey, int64(tokens))
	pipe.ExpireNX(ctx, hourKey, time.Hour)
	pipe.IncrBy(ctx, dayKey, int64(tokens))
	pipe.ExpireNX(ctx, dayKey, 24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to commit tokens: %w", err)
	}
	return nil
}

// BeginRequest implements Store.
func (s *RedisStore) BeginRequest(ctx context.Context, userID string) (int, error) {
	n, err := s.client.Incr(ctx, s.activeKey(userID)).Result()
	if err != nil {
		return 1, nil
	}
	return int(n), nil
}

// FinishRequest implements Store. A decrement that would go negative is
// undone so stale state never blocks a user permanently.
func (s *RedisStore) FinishRequest(ctx context.Context, userID string) error {
	n, err := s.client.Decr(ctx, s.activeKey(userID)).Result()
	if err != nil {
		return nil
	}
	if n < 0 {
		s.client.Set(ctx, s.activeKey(userID), 0, 0)
	}
	return nil
}

// ActiveRequests implements Store.
func (s *RedisStore) ActiveRequests(ctx context.Context, userID string) (int, error) {
	n, err := s.client.Get(ctx, s.activeKey(userID)).Int()
	if err != nil {
		return 0, nil
	}
	if n < 0 {
		return 0, nil
	}
	return n, nil
}

// TotalActive implements Store.
func (s *RedisStore) TotalActive(ctx context.Context) (int, error) {
	var total int
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+":active:*", 100).Result()
		if err != nil {
			return total, nil
		}
		for _, key := range keys {
			if n, err := s.client.Get(ctx, key).Int(); err == nil && n > 0 {
				total += n
			}
		}
		if next == 0 {
			return total, nil
		}
		cursor = next
	}
}

// Usage implements Store.
func (s *RedisStore) Usage(ctx context.Context, userID string, now time.Time) (Usage, error) {
	var u Usage
	key := s.requestsKey(userID)
	windows := []struct {
		window time.Duration
		dst    *int
	}{
		{time.Minute, &u.RequestsLastMinute},
		{time.Hour, &u.RequestsLastHour},
		{24 * time.Hour, &u.RequestsLastDay},
	}
	for _, w := range windows {
		count, err := s.client.ZCount(ctx, key, fmt.Sprintf("%d", now.Add(-w.window).Unix()), "+inf").Result()
		if err != nil {
			continue
		}
		*w.dst = int(count)
	}
	if n, err := s.client.Get(ctx, s.tokensHourKey(userID)).Int(); err == nil {
		u.TokensLastHour = n
	}
	if n, err := s.client.Get(ctx, s.tokensDayKey(userID)).Int(); err == nil {
		u.TokensToday = n
	}
	u.ActiveRequests, _ = s.ActiveRequests(ctx, userID)
	return u, nil
}
