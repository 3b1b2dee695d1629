package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	ownerIDKey = contextKey("ownerID")
	userIDKey  = contextKey("userID")

	// Headers stamped by the authenticating gateway in front of this service.
	ownerIDHeader = "X-Owner-ID"
	userIDHeader  = "X-User-ID"
)

// IdentityMiddleware reads the owner and user identity that the upstream
// gateway attaches after authenticating the caller. Authentication itself
// happens outside this service; requests arriving without an owner are
// rejected rather than guessed at.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := c.GetHeader(ownerIDHeader)
		if ownerID == "" {
			GetLoggerFromCtx(c.Request.Context()).Warn("Request missing owner identity header")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "X-Owner-ID header required"})
			return
		}
		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			userID = ownerID
		}

		enrichedLogger := GetLoggerFromCtx(c.Request.Context()).With(
			slog.String("owner_id", ownerID),
			slog.String("user_id", userID),
		)

		ctx := context.WithValue(c.Request.Context(), ownerIDKey, ownerID)
		ctx = context.WithValue(ctx, userIDKey, userID)
		ctx = context.WithValue(ctx, loggerKey, enrichedLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetOwnerIDFromContext retrieves the owning business's ID from the Gin context.
func GetOwnerIDFromContext(c *gin.Context) (string, bool) {
	ownerID, ok := c.Request.Context().Value(ownerIDKey).(string)
	return ownerID, ok && ownerID != ""
}

// GetUserIDFromContext retrieves the acting user's ID from the Gin context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}
