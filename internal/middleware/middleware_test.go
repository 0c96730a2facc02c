package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personalhub/hub/internal/ctxkeys"
	"github.com/personalhub/hub/internal/model"
)

var noContent = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestCSRFDoubleSubmit(t *testing.T) {
	h := CSRFProtection(noContent)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/todos", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	token := cookies[0]
	assert.Equal(t, csrfCookieName, token.Name)

	// Missing header.
	req := httptest.NewRequest(http.MethodPost, "/api/todos", nil)
	req.AddCookie(token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"forbidden"`)

	// Wrong header.
	req = httptest.NewRequest(http.MethodPost, "/api/todos", nil)
	req.AddCookie(token)
	req.Header.Set(csrfHeader, "nope")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/todos/1", nil)
	req.AddCookie(token)
	req.Header.Set(csrfHeader, token.Value)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(noContent)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/todos", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"unauthorized","message":"Authentication required"}}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	req = req.WithContext(ctxkeys.WithUser(req.Context(), &model.User{ID: "u1"}))
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimitAuth(t *testing.T) {
	h := RateLimitAuth(2, time.Minute)(noContent)

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		rec := httptest.NewRecorder()
		h(rec, req)
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			assert.Equal(t, "60", rec.Header().Get("Retry-After"))
			assert.Contains(t, rec.Body.String(), `"code":"rate_limited"`)
		}
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	// Another client is unaffected.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "198.51.100.2:5555"
	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	now := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	rl := &RateLimiter{
		hits:   map[string][]time.Time{},
		limit:  2,
		window: time.Minute,
		now:    func() time.Time { return now },
	}

	ok, _ := rl.Allow("a")
	assert.True(t, ok)
	now = now.Add(20 * time.Second)
	ok, _ = rl.Allow("a")
	assert.True(t, ok)

	ok, wait := rl.Allow("a")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, wait)
	assert.Equal(t, 40, retryAfterSeconds(wait))

	now = now.Add(41 * time.Second)
	ok, _ = rl.Allow("a")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	rl.sweep()
	assert.Empty(t, rl.hits)
}

func TestRecovery(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), Recovery, RequestID)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/todos", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"internal"`)
	assert.Len(t, rec.Header().Get(requestIDHeader), 32)
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", getClientIP(req))

	req.Header.Set("X-Real-IP", " 192.0.2.9 ")
	assert.Equal(t, "192.0.2.9", getClientIP(req))
}
