package session

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of a rate limit check.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// RedisLimiter counts attempts in a sorted set per key, scored by the
// attempt's unix second, and trims entries older than the window.
type RedisLimiter struct {
	client *redis.Client
	cfg    config.LoginLimit
	now    func() time.Time
	logger *slog.Logger
}

func NewRedisLimiter(client *redis.Client, cfg config.LoginLimit) *RedisLimiter {
	return &RedisLimiter{client: client, cfg: cfg, now: time.Now, logger: slog.Default()}
}

// WithClock replaces the time source.
func (r *RedisLimiter) WithClock(now func() time.Time) *RedisLimiter {
	r.now = now
	return r
}

func (r *RedisLimiter) Allow(ctx context.Context, username string) (Decision, error) {
	key := "login_attempts:" + username

	now := r.now()
	window := int64(r.cfg.WindowSize.Seconds())
	windowStart := now.Unix() - window

	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.Unix()), Member: strconv.FormatInt(now.UnixNano(), 10)})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, r.cfg.WindowSize)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Redis pipeline failed for login rate limit", slog.String("key", key), slog.Any("error", err))
		return Decision{}, fmt.Errorf("login rate limit pipeline: %w", err)
	}

	attempts := count.Val()
	if attempts <= r.cfg.MaxAttempts {
		return Decision{Allowed: true, Remaining: int(r.cfg.MaxAttempts - attempts)}, nil
	}

	scores, err := r.client.ZRangeArgsWithScores(ctx, redis.ZRangeArgs{Key: key, Start: 0, Stop: 0}).Result()
	if err != nil || len(scores) == 0 {
		r.logger.Error("Failed to read oldest login attempt", slog.String("key", key), slog.Any("error", err))
		return Decision{RetryAfter: r.cfg.WindowSize}, nil
	}

	retryAfter := max(int64(scores[0].Score)+window-now.Unix(), 0)

	r.logger.Warn("Login rate limit exceeded", slog.String("username", username), slog.Int64("attempts", attempts))

	return Decision{RetryAfter: time.Duration(retryAfter) * time.Second}, nil
}

// MemoryLimiter is the in-process variant used when no redis is configured.
type MemoryLimiter struct {
	mu       sync.Mutex
	cfg      config.LoginLimit
	now      func() time.Time
	attempts map[string][]time.Time

	lastSweep time.Time
}

func NewMemoryLimiter(cfg config.LoginLimit) *MemoryLimiter {
	return &MemoryLimiter{cfg: cfg, now: time.Now, attempts: make(map[string][]time.Time)}
}

func (m *MemoryLimiter) WithClock(now func() time.Time) *MemoryLimiter {
	m.now = now
	return m
}

func (m *MemoryLimiter) Allow(_ context.Context, username string) (Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cutoff := now.Add(-m.cfg.WindowSize)
	m.sweepLocked(now, cutoff)

	kept := m.attempts[username][:0]
	for _, at := range m.attempts[username] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	kept = append(kept, now)
	m.attempts[username] = kept

	attempts := int64(len(kept))
	if attempts <= m.cfg.MaxAttempts {
		return Decision{Allowed: true, Remaining: int(m.cfg.MaxAttempts - attempts)}, nil
	}

	return Decision{RetryAfter: max(kept[0].Add(m.cfg.WindowSize).Sub(now), 0)}, nil
}

// sweepLocked forgets usernames whose attempts have all left the window.
// It runs at most once per window.
func (m *MemoryLimiter) sweepLocked(now, cutoff time.Time) {
	if now.Sub(m.lastSweep) < m.cfg.WindowSize {
		return
	}
	m.lastSweep = now

	for username, attempts := range m.attempts {
		if len(attempts) == 0 || !attempts[len(attempts)-1].After(cutoff) {
			delete(m.attempts, username)
		}
	}
}

// Tracked reports how many usernames currently hold attempts.
func (m *MemoryLimiter) Tracked() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.attempts)
}
