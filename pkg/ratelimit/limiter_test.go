package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketBurst(t *testing.T) {
	tb := NewTokenBucket(3, 0.001)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow(), "bucket should be empty after the burst")
}

func TestTokenBucketRefills(t *testing.T) {
	// 100 tokens/s so the refill is observable without a long sleep.
	tb := NewTokenBucket(1, 100)

	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	time.Sleep(20 * time.Millisecond)
	assert.True(t, tb.Allow(), "bucket should refill over time")
}

func TestKeyedLimiterIsolatesKeys(t *testing.T) {
	kl := NewKeyedLimiter(1, 0.001, 0)

	assert.True(t, kl.Allow("10.0.0.1"))
	assert.False(t, kl.Allow("10.0.0.1"))
	assert.True(t, kl.Allow("10.0.0.2"), "a different key has its own bucket")
}

func TestKeyedLimiterReset(t *testing.T) {
	kl := NewKeyedLimiter(1, 0.001, 0)

	assert.True(t, kl.Allow("10.0.0.1"))
	assert.False(t, kl.Allow("10.0.0.1"))

	kl.Reset("10.0.0.1")
	assert.True(t, kl.Allow("10.0.0.1"))
}

func TestLoginLimiterHandler(t *testing.T) {
	limiter := NewLoginLimiter(Config{Capacity: 2, RefillRate: 0.001, BucketTTL: 0})

	handler := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	doReq := func(ip string) int {
		r := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		r.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, doReq("203.0.113.7"))
	assert.Equal(t, http.StatusOK, doReq("203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, doReq("203.0.113.7"))
	assert.Equal(t, http.StatusOK, doReq("203.0.113.8"), "other clients are unaffected")
}
