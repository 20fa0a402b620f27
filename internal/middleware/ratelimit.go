package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dajeong-labs/dajeong/internal/api"
	"github.com/dajeong-labs/dajeong/internal/metrics"
)

// RateLimiter provides per-client fixed-window rate limiting in process
// memory. It is a soft abuse guard, not a security boundary: state is lost
// on restart, and the client map is never evicted.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*windowEntry
	maxReqs int
	window  time.Duration
	now     func() time.Time
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter creates a rate limiter that allows maxReqs per window.
// All state lives in the returned limiter.
func NewRateLimiter(maxReqs int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*windowEntry),
		maxReqs: maxReqs,
		window:  window,
		now:     time.Now,
	}
}

// Allow reports whether clientID may make another request in the current
// window, counting the request if so. Denials do not mutate the entry.
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	entry, ok := rl.clients[clientID]
	if !ok || now.After(entry.resetAt) {
		rl.clients[clientID] = &windowEntry{count: 1, resetAt: now.Add(rl.window)}
		return true
	}
	if entry.count >= rl.maxReqs {
		return false
	}
	entry.count++
	return true
}

// Middleware returns an HTTP middleware that enforces the rate limit per
// client IP, responding 429 with a Retry-After hint on denial.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			metrics.RateLimitedTotal.Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			api.HandleError(w, api.ErrTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	// Check X-Forwarded-For first (trusted reverse proxy)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take the first IP
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
