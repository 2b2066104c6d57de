package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revenda/internal/service"
)

// authExemptPaths are reachable without a session even when auth is enabled.
var authExemptPaths = map[string]bool{
	"/healthz":         true,
	"/api/auth/login":  true,
	"/api/auth/status": true,
}

// AuthMiddleware rejects unauthenticated requests when authentication is
// enabled. When auth is disabled every request passes through.
func AuthMiddleware(auth *service.AuthService, sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.IsAuthEnabled() {
			c.Next()
			return
		}

		if authExemptPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		if !sessions.IsAuthenticated(c.Request) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
