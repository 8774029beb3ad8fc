package apihandlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	userIDKey       = "user_id"
)

// TokenVerifier validates a session token and returns the user id it carries.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequireSession rejects requests without a valid bearer token. A nil
// verifier rejects everything.
func RequireSession(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v == nil {
			Unavailable(c, "Sessions are not configured")
			c.Abort()
			return
		}
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			Unauthorized(c, "Missing bearer token")
			c.Abort()
			return
		}
		userID, err := v.Verify(strings.TrimSpace(token))
		if err != nil {
			Unauthorized(c, "Invalid or expired session")
			c.Abort()
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id set by RequireSession.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
