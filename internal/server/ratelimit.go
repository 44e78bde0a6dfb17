package server

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Bucket is a token bucket. It is safe for concurrent use.
type Bucket struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	rate     float64 // tokens per second
	last     time.Time
	now      func() time.Time
}

// NewBucket returns a full bucket.
func NewBucket(capacity, perSecond float64) *Bucket {
	return newBucket(capacity, perSecond, time.Now)
}

func newBucket(capacity, perSecond float64, now func() time.Time) *Bucket {
	return &Bucket{tokens: capacity, capacity: capacity, rate: perSecond, last: now(), now: now}
}

// refill must be called with b.mu held.
func (b *Bucket) refill() time.Time {
	t := b.now()
	b.tokens = min(b.capacity, b.tokens+t.Sub(b.last).Seconds()*b.rate)
	b.last = t
	return t
}

// Allow takes a token if one is available.
func (b *Bucket) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill()
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Remaining returns the whole tokens left.
func (b *Bucket) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill()
	return int(b.tokens)
}

// FullAt returns when the bucket will be full again.
func (b *Bucket) FullAt() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.refill()
	if b.tokens >= b.capacity || b.rate <= 0 {
		return t
	}
	return t.Add(time.Duration((b.capacity - b.tokens) / b.rate * float64(time.Second)))
}

func (b *Bucket) idleSince() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// RateLimitConfig holds per-client HTTP rate limits.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int // defaults to 10
}

// RateLimiter keeps one bucket per client IP.
type RateLimiter struct {
	cfg     RateLimitConfig
	mu      sync.Mutex
	buckets map[string]*Bucket
	ttl     time.Duration
}

// NewRateLimiter creates a limiter. Idle buckets are dropped by Run.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	return &RateLimiter{cfg: cfg, buckets: map[string]*Bucket{}, ttl: 5 * time.Minute}
}

func (rl *RateLimiter) bucket(ip string) *Bucket {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.buckets[ip]
	if !ok {
		b = NewBucket(float64(rl.cfg.Burst), float64(rl.cfg.RequestsPerMinute)/60)
		rl.buckets[ip] = b
	}
	return b
}

// Allow reports whether a request from ip may proceed.
func (rl *RateLimiter) Allow(ip string) bool {
	return rl.bucket(ip).Allow()
}

// Run drops idle buckets every minute until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep(time.Now())
		}
	}
}

func (rl *RateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, b := range rl.buckets {
		if now.Sub(b.idleSince()) > rl.ttl {
			delete(rl.buckets, ip)
		}
	}
}

// Middleware enforces the limit and sets X-RateLimit-* headers. Rejected
// requests are passed to reject with the seconds to wait.
func (rl *RateLimiter) Middleware(reject func(w http.ResponseWriter, r *http.Request, retryAfter int)) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b := rl.bucket(ClientIP(r))
			full := b.FullAt()

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(rl.cfg.RequestsPerMinute))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(b.Remaining()))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(full.Unix(), 10))

			if !b.Allow() {
				retry := int(time.Until(full).Seconds()) + 1
				h.Set("Retry-After", strconv.Itoa(retry))
				reject(w, r, retry)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
