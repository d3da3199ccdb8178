package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisEvaler struct {
	count    int64
	err      error
	lastKeys []string
	lastArgs []interface{}
	calls    int
}

func (m *mockRedisEvaler) Eval(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	m.calls++
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	m.count++
	cmd.SetVal(m.count)
	return cmd
}

func TestRedisLoginRateLimiterNilClientFailsOpen(t *testing.T) {
	limiter := NewRedisLoginRateLimiter(nil, time.Minute, 5)
	if limiter != nil {
		t.Fatalf("expected nil limiter for nil client")
	}
}

func TestRedisLoginRateLimiterRejectsEmptyKey(t *testing.T) {
	evaler := &mockRedisEvaler{}
	limiter := &redisLoginRateLimiter{client: evaler, window: time.Minute, max: 5, prefix: "login:rl:"}

	if limiter.Allow("   ") {
		t.Fatalf("expected blank key to be rejected")
	}
	if evaler.calls != 0 {
		t.Fatalf("expected no redis calls for blank key, got %d", evaler.calls)
	}
}

func TestRedisLoginRateLimiterAllowsWithinMax(t *testing.T) {
	evaler := &mockRedisEvaler{}
	limiter := &redisLoginRateLimiter{client: evaler, window: 2 * time.Minute, max: 3, prefix: "login:rl:"}

	for i := 0; i < 3; i++ {
		if !limiter.Allow("  Ada@Example.COM ") {
			t.Fatalf("expected attempt %d to be allowed", i+1)
		}
	}
	if len(evaler.lastKeys) != 1 || evaler.lastKeys[0] != "login:rl:ada@example.com" {
		t.Fatalf("expected normalized prefixed key, got %v", evaler.lastKeys)
	}
	if len(evaler.lastArgs) != 1 || evaler.lastArgs[0] != 120 {
		t.Fatalf("expected window seconds as TTL arg, got %v", evaler.lastArgs)
	}
}

func TestRedisLoginRateLimiterDeniesOverMax(t *testing.T) {
	evaler := &mockRedisEvaler{}
	limiter := &redisLoginRateLimiter{client: evaler, window: time.Minute, max: 2, prefix: "login:rl:"}

	limiter.Allow("ada@example.com")
	limiter.Allow("ada@example.com")
	if limiter.Allow("ada@example.com") {
		t.Fatalf("expected third attempt to be denied")
	}
}

func TestRedisLoginRateLimiterFailsOpenOnRedisError(t *testing.T) {
	evaler := &mockRedisEvaler{err: errors.New("redis down")}
	limiter := &redisLoginRateLimiter{client: evaler, window: time.Minute, max: 1, prefix: "login:rl:"}

	if !limiter.Allow("ada@example.com") {
		t.Fatalf("expected fail-open when redis errors")
	}
}
