package ratelimit

import (
	"sync"
	"time"
)

// TokenBucket is a thread-safe token bucket.
type TokenBucket struct {
	capacity   int
	tokens     float64
	refillRate float64
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a bucket allowing bursts of capacity requests,
// refilled at refillRate tokens per second.
func NewTokenBucket(capacity int, refillRate float64) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     float64(capacity),
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow consumes one token if available.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.tokens = min(float64(tb.capacity), tb.tokens+elapsed*tb.refillRate)
	tb.lastRefill = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// KeyedLimiter keeps one token bucket per key, typically a client IP.
// Inactive buckets are dropped after ttl.
type KeyedLimiter struct {
	buckets    map[string]*bucketEntry
	capacity   int
	refillRate float64
	ttl        time.Duration
	mu         sync.Mutex
}

type bucketEntry struct {
	bucket   *TokenBucket
	lastSeen time.Time
}

// NewKeyedLimiter creates a per-key limiter. A ttl of 0 keeps buckets
// forever.
func NewKeyedLimiter(capacity int, refillRate float64, ttl time.Duration) *KeyedLimiter {
	kl := &KeyedLimiter{
		buckets:    make(map[string]*bucketEntry),
		capacity:   capacity,
		refillRate: refillRate,
		ttl:        ttl,
	}
	if ttl > 0 {
		go kl.cleanup()
	}
	return kl
}

// Allow consumes one token for the key.
func (kl *KeyedLimiter) Allow(key string) bool {
	kl.mu.Lock()
	entry, ok := kl.buckets[key]
	if !ok {
		entry = &bucketEntry{bucket: NewTokenBucket(kl.capacity, kl.refillRate)}
		kl.buckets[key] = entry
	}
	entry.lastSeen = time.Now()
	kl.mu.Unlock()

	return entry.bucket.Allow()
}

// Reset restores the bucket for a key to full capacity. Used after a
// successful sign-in so a legitimate user is not penalized for earlier
// typos.
func (kl *KeyedLimiter) Reset(key string) {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	delete(kl.buckets, key)
}

func (kl *KeyedLimiter) cleanup() {
	ticker := time.NewTicker(kl.ttl)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-kl.ttl)
		kl.mu.Lock()
		for key, entry := range kl.buckets {
			if entry.lastSeen.Before(cutoff) {
				delete(kl.buckets, key)
			}
		}
		kl.mu.Unlock()
	}
}
