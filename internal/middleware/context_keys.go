package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey     = contextKey("userID")
	authMethodKey = "authMethod"
)

// Auth methods recorded under authMethodKey.
const (
	AuthMethodJWT    = "jwt"
	AuthMethodAPIKey = "api_key"
)

// WithUserID returns a copy of ctx carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userIDVal, exists := c.Get(string(userIDKey)); exists {
		userID, ok := userIDVal.(string)
		return userID, ok && userID != ""
	}
	// check in the request context as well
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// setAuthenticatedUser stores the user in both the Gin and request contexts
// and enriches the request logger with it.
func setAuthenticatedUser(c *gin.Context, userID, method string) {
	c.Set(string(userIDKey), userID)
	c.Set(authMethodKey, method)

	ctx := WithUserID(c.Request.Context(), userID)
	logger := GetLoggerFromCtx(ctx).With("user_id", userID, "auth_method", method)
	c.Request = c.Request.WithContext(WithLogger(ctx, logger))
}
