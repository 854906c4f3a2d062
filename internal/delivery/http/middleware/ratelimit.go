package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	h "eventmanagement/internal/delivery/http/helpers"
)

const (
	limiterTTL      = 15 * time.Minute
	cleanupInterval = 5 * time.Minute
)

// RateLimiter throttles requests per client IP with a token bucket.
type RateLimiter struct {
	perMinute int
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	stop      chan struct{}
	stopOnce  sync.Once
	now       func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perMinute requests per client, with a burst of the same size.
// perMinute <= 0 disables limiting. Call Stop to end the cleanup goroutine.
func NewRateLimiter(perMinute int) *RateLimiter {
	rl := &RateLimiter{
		perMinute: perMinute,
		limiters:  make(map[string]*limiterEntry),
		stop:      make(chan struct{}),
		now:       time.Now,
	}
	if perMinute > 0 {
		go rl.cleanupLoop()
	}
	return rl
}

// Limit wraps next, answering 429 with Retry-After once the client's bucket is empty.
func (rl *RateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rl.perMinute <= 0 {
			next(w, r)
			return
		}
		if !rl.limiter(clientIP(r)).Allow() {
			retry := time.Minute / time.Duration(rl.perMinute)
			w.Header().Set("Retry-After", strconv.Itoa(max(1, int(retry.Seconds()))))
			h.WriteJSONError(w, http.StatusTooManyRequests, h.ErrCodeRateLimited, "too many requests")
			return
		}
		next(w, r)
	}
}

// Stop ends the background cleanup.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if entry, ok := rl.limiters[key]; ok {
		entry.lastSeen = now
		return entry.limiter
	}
	interval := time.Minute / time.Duration(rl.perMinute)
	l := rate.NewLimiter(rate.Every(interval), rl.perMinute)
	rl.limiters[key] = &limiterEntry{limiter: l, lastSeen: now}
	return l
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for key, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > limiterTTL {
			delete(rl.limiters, key)
		}
	}
}

// clientIP keys on the connection address; forwarded headers are not trusted.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
