package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/litego/internal/app/system/auth"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(t *testing.T, limit int, d time.Duration) (*Limiter, *time.Time) {
	t.Helper()
	l := New(limit, d)
	t.Cleanup(l.Stop)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_AllowWithinWindow(t *testing.T) {
	l, now := newTestLimiter(t, 2, time.Minute)

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.Equal(t, 0, l.Remaining("a"))

	// Other keys are independent.
	assert.True(t, l.Allow("b"))
	assert.Equal(t, 1, l.Remaining("b"))

	*now = now.Add(time.Minute + time.Second)
	assert.True(t, l.Allow("a"), "window should reset")
	assert.Equal(t, 1, l.Remaining("a"))
}

func TestLimiter_RetryAfterAndReset(t *testing.T) {
	l, now := newTestLimiter(t, 1, time.Minute)

	assert.Equal(t, time.Duration(0), l.RetryAfter("a"))
	l.Allow("a")
	*now = now.Add(20 * time.Second)
	assert.Equal(t, 40*time.Second, l.RetryAfter("a"))

	l.Reset("a")
	assert.True(t, l.Allow("a"))
}

func TestMiddleware(t *testing.T) {
	l, _ := newTestLimiter(t, 1, time.Minute)
	denied := 0
	h := Middleware(l, func(w http.ResponseWriter, r *http.Request) {
		denied++
		w.WriteHeader(http.StatusTooManyRequests)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	alice := func() *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/menu", nil)
		return auth.WithTestUser(r, &auth.SessionUser{ID: "alice"})
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, alice())
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, alice())
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, 1, denied)

	// A different user from the same address is counted separately.
	rec = httptest.NewRecorder()
	bob := auth.WithTestUser(httptest.NewRequest(http.MethodPost, "/menu", nil), &auth.SessionUser{ID: "bob"})
	h.ServeHTTP(rec, bob)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequestKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "ip:10.0.0.1", RequestKey(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "ip:203.0.113.9", RequestKey(r))

	r = auth.WithTestUser(r, &auth.SessionUser{ID: "u1"})
	assert.Equal(t, "user:u1", RequestKey(r))
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		header map[string]string
		want   string
	}{
		{"remote addr", "192.0.2.1:1234", nil, "192.0.2.1"},
		{"remote without port", "192.0.2.1", nil, "192.0.2.1"},
		{"x-real-ip", "10.0.0.1:1", map[string]string{"X-Real-IP": " 198.51.100.2 "}, "198.51.100.2"},
		{"forwarded wins", "10.0.0.1:1", map[string]string{
			"X-Forwarded-For": "203.0.113.5",
			"X-Real-IP":       "198.51.100.2",
		}, "203.0.113.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(r))
		})
	}
}
