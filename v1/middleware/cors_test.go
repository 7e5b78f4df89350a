package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("DefaultsToAnyOrigin", func(t *testing.T) {
		handler := CORSMiddleware()(okHandler)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/suppliers", nil))

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-User-ID")
	})

	t.Run("EchoesOriginForCredentialedRequests", func(t *testing.T) {
		// A wildcard allow-origin is rejected by browsers when credentials
		// are allowed, so an open configuration echoes the caller's origin
		handler := CORSMiddleware()(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/suppliers", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, rec.Header().Values("Vary"), "Origin")
	})

	t.Run("PreflightShortCircuits", func(t *testing.T) {
		called := false
		handler := CORSMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/orders", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, called)
	})

	t.Run("HonoursConfiguredOrigins", func(t *testing.T) {
		t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
		handler := CORSMiddleware()(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/suppliers", nil)
		req.Header.Set("Origin", "https://admin.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "https://admin.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest(http.MethodGet, "/api/v1/suppliers", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.NotEqual(t, "https://evil.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
