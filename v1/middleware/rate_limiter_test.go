package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	t.Run("AllowsUpToTheLimit", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.IsAllowed("10.0.0.1"))
		}
		assert.False(t, limiter.IsAllowed("10.0.0.1"))
	})

	t.Run("LimitsPerIP", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)

		assert.True(t, limiter.IsAllowed("10.0.0.1"))
		assert.False(t, limiter.IsAllowed("10.0.0.1"))
		assert.True(t, limiter.IsAllowed("10.0.0.2"))
	})

	t.Run("WindowSlides", func(t *testing.T) {
		limiter := NewRateLimiter(1, 20*time.Millisecond)

		assert.True(t, limiter.IsAllowed("10.0.0.1"))
		assert.False(t, limiter.IsAllowed("10.0.0.1"))

		time.Sleep(30 * time.Millisecond)
		assert.True(t, limiter.IsAllowed("10.0.0.1"))
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := RateLimitMiddleware(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
