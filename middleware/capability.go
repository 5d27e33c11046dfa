// middleware/capability.go

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dairyops/herdwise/api/flags"
	logger "github.com/dairyops/herdwise/api/logging"
	"github.com/dairyops/herdwise/api/model"
)

// RequireCapability rejects the request with 403 when the named capability is
// disabled for the calling user/tenant. The caller identity comes from the
// auth middleware and the X-Tenant-ID header, so this must be registered
// after AdminAuthMiddleware.
func RequireCapability(engine *flags.Engine, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := model.Caller{
			TenantID: c.GetHeader("X-Tenant-ID"),
		}
		if userID, exists := c.Get("requestingUserID"); exists {
			caller.UserID, _ = userID.(string)
		}

		if !engine.Resolve(c.Request.Context(), key, caller) {
			logger.Warn("Capability disabled for caller",
				zap.String("key", key),
				zap.String("userID", caller.UserID),
				zap.String("tenantID", caller.TenantID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Capability not enabled"})
			c.Abort()
			return
		}

		c.Next()
	}
}
