package service

import (
	"strings"
	"sync"
	"time"
)

// LoginRateLimiter acota intentos de login por clave (email normalizado).
type LoginRateLimiter interface {
	Allow(key string) bool
}

type memoryLoginRateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	buckets map[string]*loginBucket
}

type loginBucket struct {
	count   int
	resetAt time.Time
}

func NewLoginRateLimiter(window time.Duration, max int) LoginRateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &memoryLoginRateLimiter{
		window:  window,
		max:     max,
		buckets: make(map[string]*loginBucket),
	}
}

func (l *memoryLoginRateLimiter) Allow(key string) bool {
	normalizedKey := strings.ToLower(strings.TrimSpace(key))
	if normalizedKey == "" {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now().UTC()
	bucket, ok := l.buckets[normalizedKey]
	if !ok || now.After(bucket.resetAt) {
		l.buckets[normalizedKey] = &loginBucket{count: 1, resetAt: now.Add(l.window)}
		return true
	}
	bucket.count++
	return bucket.count <= l.max
}
