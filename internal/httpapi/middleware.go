package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stablemate/stablemate/internal/session"
)

const (
	ctxKeyIdentity  = "identity"
	ctxKeySessionID = "session_id"
)

// RequireSession authenticates the bearer token and places the
// resolved identity into the request context. Every route behind it
// can trust identityFrom(c) instead of anything client-supplied.
func RequireSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		identity, sessionID, err := store.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		c.Set(ctxKeyIdentity, identity)
		c.Set(ctxKeySessionID, sessionID)
		c.Next()
	}
}

// identityFrom returns the authenticated identity for the request.
// Only valid behind RequireSession.
func identityFrom(c *gin.Context) session.Identity {
	identity, _ := c.MustGet(ctxKeyIdentity).(session.Identity)
	return identity
}

func sessionIDFrom(c *gin.Context) string {
	return c.GetString(ctxKeySessionID)
}

// requestLogger emits one structured line per request.
func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
