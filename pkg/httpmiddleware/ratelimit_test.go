package httpmiddleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doFrom(h http.Handler, remote string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remote
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func newTestLimiters(cfg RateLimitConfig) (*limiters, *time.Time) {
	l := newLimiters(cfg)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestRateLimit_Burst(t *testing.T) {
	l, _ := newTestLimiters(RateLimitConfig{RPS: 1, Burst: 3})
	h := l.middleware(okHandler())

	for i := range 3 {
		w := doFrom(h, "192.168.1.1:12345", nil)
		require.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	}

	w := doFrom(h, "192.168.1.1:12345", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	var (
		code int
		msg  string
	)
	require.NoError(t, jx.DecodeBytes(w.Body.Bytes()).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "code":
			code, err = d.Int()
		case "message":
			msg, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	}))
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "rate limit exceeded", msg)
}

func TestRateLimit_Refill(t *testing.T) {
	l, now := newTestLimiters(RateLimitConfig{RPS: 2, Burst: 1})
	h := l.middleware(okHandler())

	require.Equal(t, http.StatusOK, doFrom(h, "10.0.0.1:1", nil).Code)
	require.Equal(t, http.StatusTooManyRequests, doFrom(h, "10.0.0.1:1", nil).Code)

	*now = now.Add(500 * time.Millisecond)
	assert.Equal(t, http.StatusOK, doFrom(h, "10.0.0.1:1", nil).Code)
}

func TestRateLimit_DifferentIPs(t *testing.T) {
	l, _ := newTestLimiters(RateLimitConfig{RPS: 1, Burst: 1})
	h := l.middleware(okHandler())

	assert.Equal(t, http.StatusOK, doFrom(h, "10.0.0.1:1234", nil).Code)
	assert.Equal(t, http.StatusOK, doFrom(h, "10.0.0.2:1234", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, doFrom(h, "10.0.0.1:5678", nil).Code)
}

func TestRateLimit_XForwardedFor(t *testing.T) {
	l, _ := newTestLimiters(RateLimitConfig{RPS: 1, Burst: 1})
	h := l.middleware(okHandler())

	xff := map[string]string{"X-Forwarded-For": "203.0.113.50, 70.41.3.18"}
	assert.Equal(t, http.StatusOK, doFrom(h, "192.168.1.1:4444", xff).Code)
	assert.Equal(t, http.StatusTooManyRequests, doFrom(h, "192.168.1.2:5555", xff).Code)
}

func TestRateLimit_Sweep(t *testing.T) {
	l, now := newTestLimiters(RateLimitConfig{RPS: 1, Burst: 1, Idle: time.Minute})
	h := l.middleware(okHandler())

	doFrom(h, "10.0.0.1:1", nil)
	*now = now.Add(30 * time.Second)
	doFrom(h, "10.0.0.2:1", nil)
	*now = now.Add(45 * time.Second)

	assert.Equal(t, 1, l.sweep())
	assert.Len(t, l.clients, 1)
	assert.Contains(t, l.clients, "10.0.0.2")
}

func TestRateLimit_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := RateLimit(ctx, RateLimitConfig{RPS: 100, Burst: 10})(okHandler())
	assert.Equal(t, http.StatusOK, doFrom(h, "10.0.0.1:1", nil).Code)
	cancel()
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.1.1.1:999"
	assert.Equal(t, "10.1.1.1", ClientIP(r))

	r.Header.Set("X-Real-IP", "10.2.2.2")
	assert.Equal(t, "10.2.2.2", ClientIP(r))

	r.Header.Set("X-Forwarded-For", " 10.3.3.3 ,10.4.4.4")
	assert.Equal(t, "10.3.3.3", ClientIP(r))
}
