package middleware

import (
	"github.com/ALANAK777/erp_finance_system/internal/utils/credentials"
	"github.com/gin-gonic/gin"
)

// APIKeyHeader is the header machine callers put their key in.
const APIKeyHeader = "x-api-key"

// ServiceActorID is the user ID recorded for requests authenticated by API key.
const ServiceActorID = "service:api-key"

// APIKeyAuth authenticates machine callers whose x-api-key matches the bcrypt
// hash. Requests without the header, or with a wrong key, fall through to the
// JWT middleware. An empty hash disables key auth.
func APIKeyAuth(keyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)
		if keyHash == "" || key == "" {
			c.Next()
			return
		}

		if !credentials.VerifyAPIKey(key, keyHash) {
			GetLoggerFromCtx(c.Request.Context()).Warn("API key rejected")
			c.Next()
			return
		}

		setAuthenticatedUser(c, ServiceActorID, AuthMethodAPIKey)
		c.Next()
	}
}
