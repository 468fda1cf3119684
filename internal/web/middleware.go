package web

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/solacehq/solace/internal/auth"
)

const (
	principalKey   = "solace_principal"
	requestIDKey   = "solace_request_id"
	requestIDField = "X-Request-ID"
)

// Principal returns the authenticated caller principal, or the empty
// string (the anonymous sentinel) when the request carried no valid
// token.
func Principal(c *gin.Context) string {
	if v, exists := c.Get(principalKey); exists {
		if principal, ok := v.(string); ok {
			return principal
		}
	}
	return ""
}

// Authenticate resolves the caller identity from the Authorization
// header. It never rejects a request itself: an absent or invalid token
// leaves the principal anonymous and the service layer decides what
// that means for the operation.
func Authenticate(a *auth.Authenticator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.Next()
			return
		}

		principal, err := a.Validate(token)
		if err != nil {
			logger.Debug("rejected bearer token", "error", err)
			c.Next()
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequestID tags every request with an identifier, honouring one the
// caller already supplied.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDField)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDField, id)
		c.Next()
	}
}

// RequestLogger emits one structured log line per request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(requestIDKey),
		)
	}
}
