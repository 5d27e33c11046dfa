// router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dairyops/herdwise/api/controller"
	"github.com/dairyops/herdwise/api/flags"
	"github.com/dairyops/herdwise/api/middleware"
)

func SetupRouter(
	controllers *controller.Controllers,
	engine *flags.Engine,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))
	router.Use(middleware.AdminAuthMiddleware([]string{"herdwise-admin"}))

	api := router.Group("/api/v1")

	controllers.Flag.RegisterRoutes(api)
	controllers.Audit.RegisterRoutes(api)

	// The operations dashboard itself ships behind a capability flag.
	controllers.Metrics.RegisterRoutes(api, middleware.RequireCapability(engine, flags.KeyDashboardCompositeV2))

	return router
}
