package httpmiddleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/jx"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures the per-client token bucket limiter.
type RateLimitConfig struct {
	// RPS is the sustained request rate per client.
	RPS float64
	// Burst is the bucket size: how many requests a client may make at once.
	Burst int
	// Idle is how long an unused client bucket is kept. Defaults to ten
	// minutes.
	Idle time.Duration
	// KeyFunc extracts the rate limit key from a request.
	// If nil, the client IP address is used.
	KeyFunc func(*http.Request) string
}

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// limiters holds one token bucket per client key.
type limiters struct {
	cfg RateLimitConfig
	now func() time.Time

	mu      sync.Mutex
	clients map[string]*client
}

func newLimiters(cfg RateLimitConfig) *limiters {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = ClientIP
	}
	if cfg.Idle <= 0 {
		cfg.Idle = 10 * time.Minute
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &limiters{
		cfg:     cfg,
		now:     time.Now,
		clients: make(map[string]*client),
	}
}

// reserve takes a token for key. When none is available it returns the
// time until one will be.
func (l *limiters) reserve(key string) (allowed bool, retryAfter time.Duration, remaining int) {
	now := l.now()

	l.mu.Lock()
	c, ok := l.clients[key]
	if !ok {
		c = &client{lim: rate.NewLimiter(rate.Limit(l.cfg.RPS), l.cfg.Burst)}
		l.clients[key] = c
	}
	c.seen = now
	l.mu.Unlock()

	res := c.lim.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second, 0
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay, 0
	}
	remaining = int(math.Floor(c.lim.TokensAt(now)))
	return true, 0, max(remaining, 0)
}

// sweep forgets clients idle for longer than the configured period.
func (l *limiters) sweep() int {
	cutoff := l.now().Add(-l.cfg.Idle)

	l.mu.Lock()
	defer l.mu.Unlock()

	var n int
	for key, c := range l.clients {
		if c.seen.Before(cutoff) {
			delete(l.clients, key)
			n++
		}
	}
	return n
}

func (l *limiters) run(ctx context.Context) {
	ticker := time.NewTicker(l.cfg.Idle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

// RateLimit returns a middleware that enforces a per-client token bucket.
// Rejected requests get 429 Too Many Requests with a Retry-After header and
// a JSON error body. Idle client buckets are evicted in the background
// until ctx is cancelled.
func RateLimit(ctx context.Context, cfg RateLimitConfig) Middleware {
	l := newLimiters(cfg)
	go l.run(ctx)
	return l.middleware
}

func (l *limiters) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, retryAfter, remaining := l.reserve(l.cfg.KeyFunc(r))

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Burst))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WriteError writes a {"code":N,"message":"..."} JSON error body.
func WriteError(w http.ResponseWriter, code int, message string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(code)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(e.Bytes())
}

// ClientIP extracts the client address from the request, checking
// X-Forwarded-For first, then X-Real-IP, then falling back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
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
