package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFMiddleware wraps gorilla/csrf for use with Gin.
// It skips CSRF validation for exempt paths (health check, login).
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	protect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		if isCSRFExempt(c.Request.URL.Path) {
			c.Next()
			return
		}

		// For plaintext HTTP, mark the request so gorilla/csrf skips Referer checks
		if !secure {
			c.Request = csrf.PlaintextHTTPRequest(c.Request)
		}

		// Wrap gin's ResponseWriter for gorilla/csrf
		handler := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token and expose it so the dashboard can echo it back
			token := csrf.Token(r)
			c.Set("csrf_token", token)
			c.Header("X-CSRF-Token", token)

			// Update the request in gin context (gorilla/csrf stores data in context)
			c.Request = r

			c.Next()
		}))

		handler.ServeHTTP(c.Writer, c.Request)

		// If gorilla/csrf aborted (403), prevent Gin from continuing
		if c.Writer.Status() == http.StatusForbidden {
			c.Abort()
		}
	}
}

// isCSRFExempt returns true for paths that should bypass CSRF validation.
func isCSRFExempt(path string) bool {
	exemptPaths := []string{"/healthz", "/api/auth/login"}
	for _, p := range exemptPaths {
		if path == p {
			return true
		}
	}
	return false
}

// csrfErrorHandler handles CSRF validation failures.
func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	slog.Warn("CSRF validation failed",
		"method", r.Method,
		"path", r.URL.Path,
		"reason", csrf.FailureReason(r),
	)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	w.Write([]byte(`{"error":"CSRF token invalid"}`))
}
