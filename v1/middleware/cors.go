package middleware

import (
	"net/http"
	"os"
	"strconv"
	"strings"
)

// CORSMiddleware creates a CORS middleware. Allowed origins come from the
// ALLOWED_ORIGINS environment variable (comma-separated); when unset every
// origin is allowed
func CORSMiddleware() func(http.Handler) http.Handler {
	allowed := parseAllowedOrigins()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			w.Header().Set("Access-Control-Allow-Origin", resolveOrigin(allowed, origin))
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Accept, Origin, X-User-ID, X-User-Email")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Max-Age", getCORSMaxAge())

			// Handle preflight (OPTIONS) requests
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// parseAllowedOrigins reads ALLOWED_ORIGINS into a set
func parseAllowedOrigins() []string {
	raw := os.Getenv("ALLOWED_ORIGINS")
	if raw == "" {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// resolveOrigin picks the Access-Control-Allow-Origin value for a request.
// With no allow-list the request origin is echoed back rather than "*":
// browsers refuse a wildcard on credentialed responses
func resolveOrigin(allowed []string, origin string) string {
	if len(allowed) == 0 {
		if origin != "" {
			return origin
		}
		return "*"
	}
	for _, o := range allowed {
		if o == origin {
			return origin
		}
	}
	// Not in the allow-list: echo the first configured origin so the
	// browser rejects the cross-origin response
	return allowed[0]
}

// getCORSMaxAge gets the CORS max age from environment variable or returns default
func getCORSMaxAge() string {
	if value := os.Getenv("CORS_MAX_AGE"); value != "" {
		if _, err := strconv.Atoi(value); err == nil {
			return value
		}
	}
	return "86400" // Default: 24 hours
}
