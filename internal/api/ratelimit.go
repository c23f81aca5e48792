package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig bounds one IPRateLimiter's per-IP token bucket and the
// interval at which idle buckets are swept.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	CleanupInterval   time.Duration
}

// DefaultRateLimitConfig is the control surface's baseline: generous enough
// for a matchmaking client polling /rooms, tight enough to blunt a naive
// scraping loop.
var DefaultRateLimitConfig = RateLimitConfig{
	RequestsPerSecond: 10,
	Burst:             20,
	CleanupInterval:   5 * time.Minute,
}

type ipBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter is a per-source-IP token bucket set for the HTTP control
// surface. Buckets are created lazily on first sight of an IP and swept
// once they've sat idle past two cleanup intervals, so a long-running
// server doesn't accumulate one bucket per IP it has ever seen.
type IPRateLimiter struct {
	buckets  sync.Map // map[string]*ipBucket
	cfg      RateLimitConfig
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewIPRateLimiter(cfg RateLimitConfig) *IPRateLimiter {
	rl := &IPRateLimiter{cfg: cfg, stopChan: make(chan struct{})}
	go rl.sweepLoop()
	return rl
}

// Stop ends the background sweep goroutine. Safe to call more than once.
func (rl *IPRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopChan) })
}

func (rl *IPRateLimiter) bucketFor(ip string) *rate.Limiter {
	if v, ok := rl.buckets.Load(ip); ok {
		b := v.(*ipBucket)
		b.lastSeen = time.Now()
		return b.limiter
	}
	fresh := &ipBucket{
		limiter:  rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst),
		lastSeen: time.Now(),
	}
	actual, _ := rl.buckets.LoadOrStore(ip, fresh)
	return actual.(*ipBucket).limiter
}

func (rl *IPRateLimiter) sweepLoop() {
	ticker := time.NewTicker(rl.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stopChan:
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *IPRateLimiter) sweep() {
	cutoff := time.Now().Add(-rl.cfg.CleanupInterval * 2)
	rl.buckets.Range(func(key, value interface{}) bool {
		if value.(*ipBucket).lastSeen.Before(cutoff) {
			rl.buckets.Delete(key)
		}
		return true
	})
}

// Allow reports whether a request from ip may proceed right now, consuming
// a token from its bucket if so. Allow/reject counts surface through the
// shared rate_limit_decisions_total vector (limiter "http_ip"), rather than
// a limiter-private tally.
func (rl *IPRateLimiter) Allow(ip string) bool {
	if rl.bucketFor(ip).Allow() {
		rateLimitDecisions.WithLabelValues("http_ip", "allowed").Inc()
		return true
	}
	rateLimitDecisions.WithLabelValues("http_ip", "rejected").Inc()
	return false
}

// Middleware rejects with 429 any request whose source IP has exhausted
// its bucket, recording the rejection into the observability counters.
func (rl *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := GetClientIP(r)
		if !rl.Allow(ip) {
			RecordConnectionRejected("rate_limit")
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClientIP resolves the request's source IP, preferring the
// X-Forwarded-For / X-Real-IP headers a reverse proxy sets (trusting them
// is the deployer's call, not this function's) and falling back to the
// raw connection's RemoteAddr.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx >= 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// WSConnLimiter caps concurrently open WebSocket connections per source IP,
// independent of the per-message token buckets the net edge already runs
// for input and chat: a client can hold its input rate well under its
// bucket's limit while still opening far more sockets than one player's
// session should ever need. The hub calls Acquire on upgrade and Release
// once the connection's read loop returns.
type WSConnLimiter struct {
	mu       sync.Mutex
	counts   map[string]int
	maxPerIP int
}

func NewWSConnLimiter(maxPerIP int) *WSConnLimiter {
	return &WSConnLimiter{counts: map[string]int{}, maxPerIP: maxPerIP}
}

// Acquire reports whether ip may open one more connection, reserving the
// slot if so.
func (l *WSConnLimiter) Acquire(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.maxPerIP > 0 && l.counts[ip] >= l.maxPerIP {
		rateLimitDecisions.WithLabelValues("ws_conn", "rejected").Inc()
		return false
	}
	l.counts[ip]++
	rateLimitDecisions.WithLabelValues("ws_conn", "allowed").Inc()
	return true
}

// Release frees the slot an earlier Acquire(ip) reserved, dropping the IP's
// entry entirely once its count reaches zero so a long-lived server doesn't
// retain one map entry per IP it has ever seen.
func (l *WSConnLimiter) Release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.counts[ip] <= 1 {
		delete(l.counts, ip)
		return
	}
	l.counts[ip]--
}
