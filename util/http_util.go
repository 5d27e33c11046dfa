// util/http_util.go
package util

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	herd_errors "github.com/dairyops/herdwise/api/errors"
	logger "github.com/dairyops/herdwise/api/logging"
)

func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, gin.H{"error": message})
}

// BindStrictJSON decodes the request body into v, rejecting unknown fields so
// typos in admin payloads fail instead of silently passing through.
func BindStrictJSON(c *gin.Context, v interface{}) error {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// GetActorIDFromContext returns the authenticated user id placed on the
// context by the auth middleware. Mutating endpoints refuse to proceed
// without it, so the audit trail never records an empty actor.
func GetActorIDFromContext(c *gin.Context) (string, error) {
	value, exists := c.Get("requestingUserID")
	if !exists {
		return "", herd_errors.ErrUnauthorized
	}
	actorID, ok := value.(string)
	if !ok || actorID == "" {
		return "", herd_errors.ErrUnauthorized
	}
	return actorID, nil
}
