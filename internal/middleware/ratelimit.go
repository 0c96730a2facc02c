package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/personalhub/hub/internal/respond"
)

const sweepInterval = 5 * time.Minute

// RateLimiter is a sliding-window limiter keyed by client IP.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
	go rl.sweepLoop()
	return rl
}

// Allow records a hit for key when it fits in the window. Otherwise it
// reports how long until the oldest hit in the window expires.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	hits := rl.prune(rl.hits[key], now)
	if len(hits) >= rl.limit {
		rl.hits[key] = hits
		return false, hits[0].Add(rl.window).Sub(now)
	}

	rl.hits[key] = append(hits, now)
	return true, 0
}

func (rl *RateLimiter) prune(hits []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	return slices.DeleteFunc(hits, func(t time.Time) bool { return !t.After(cutoff) })
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		rl.sweep()
	}
}

// sweep drops keys with no hits left in the window.
func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, hits := range rl.hits {
		if hits = rl.prune(hits, now); len(hits) == 0 {
			delete(rl.hits, key)
		} else {
			rl.hits[key] = hits
		}
	}
}

// RateLimitAuth allows limit requests per window per client IP and answers
// the rest with 429 and a Retry-After in whole seconds.
func RateLimitAuth(limit int, window time.Duration) func(http.HandlerFunc) http.HandlerFunc {
	limiter := NewRateLimiter(limit, window)

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ip := getClientIP(r)
			ok, wait := limiter.Allow(ip)
			if !ok {
				slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
				respond.Error(w, http.StatusTooManyRequests, respond.CodeRateLimited, "Too many requests. Please try again later.")
				return
			}

			next(w, r)
		}
	}
}

func retryAfterSeconds(wait time.Duration) int {
	return max(1, int(math.Ceil(wait.Seconds())))
}

// getClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then
// the connection address.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
