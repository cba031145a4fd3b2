package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

// Limiter is a set of token buckets keyed by destination (one per chat).
type Limiter struct {
	mu         sync.Mutex
	m          map[string]*bucket
	capacity   float64
	refillRate float64
	now        func() time.Time
}

// New creates buckets holding capacity tokens, refilled at perMinute/60 per second.
func New(capacity, perMinute float64) *Limiter {
	if capacity <= 0 {
		capacity = 1
	}
	return &Limiter{
		m:          make(map[string]*bucket),
		capacity:   capacity,
		refillRate: perMinute / 60,
		now:        time.Now,
	}
}

// Allow consumes one token for key if available.
func (l *Limiter) Allow(key string) bool {
	ok, _ := l.reserve(key)
	return ok
}

// Wait blocks until a token is available for key or ctx ends.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	for {
		ok, wait := l.reserve(key)
		if ok {
			return nil
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

func (l *Limiter) reserve(key string) (bool, time.Duration) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: l.capacity, capacity: l.capacity, refillRate: l.refillRate, last: now}
		l.m[key] = b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	if b.refillRate <= 0 {
		return false, time.Second
	}
	return false, time.Duration((1 - b.tokens) / b.refillRate * float64(time.Second))
}
