package ratelimit

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
)

// Config holds the limits applied to credential endpoints.
type Config struct {
	// Per-IP burst capacity and sustained rate.
	Capacity   int
	RefillRate float64

	// How long to keep inactive per-IP buckets.
	BucketTTL time.Duration
}

// DefaultConfig allows short bursts of 10 requests per IP, sustained at
// one request per 6 seconds. Tight on purpose: these limits guard the
// password-guessing surface, not general traffic.
func DefaultConfig() Config {
	return Config{
		Capacity:   10,
		RefillRate: 10.0 / 60.0,
		BucketTTL:  1 * time.Hour,
	}
}

// LoginLimiter throttles credential endpoints per client IP.
type LoginLimiter struct {
	limiter *KeyedLimiter
}

// NewLoginLimiter creates a login rate limiter from config.
func NewLoginLimiter(config Config) *LoginLimiter {
	return &LoginLimiter{
		limiter: NewKeyedLimiter(config.Capacity, config.RefillRate, config.BucketTTL),
	}
}

// Handler is a chi middleware rejecting over-limit requests with 429.
func (l *LoginLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.limiter.Allow(ip) {
			slog.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path, "method", r.Method)
			w.Header().Set("Retry-After", "60")
			render.Status(r, http.StatusTooManyRequests)
			render.JSON(w, r, map[string]string{"error": "too many requests, please try again later"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Forgive clears the counter for the request's client IP.
func (l *LoginLimiter) Forgive(r *http.Request) {
	l.limiter.Reset(clientIP(r))
}

// clientIP prefers proxy headers over RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
