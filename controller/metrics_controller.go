// controller/metrics_controller.go

package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dairyops/herdwise/api/cache"
)

type MetricsController struct {
	tracker *cache.Tracker
}

func NewMetricsController(tracker *cache.Tracker) *MetricsController {
	return &MetricsController{tracker: tracker}
}

// RegisterRoutes accepts extra middleware so the router can gate this surface
// behind a capability check.
func (ctrl *MetricsController) RegisterRoutes(r *gin.RouterGroup, mw ...gin.HandlerFunc) {
	metricsGroup := r.Group("/metrics", mw...)
	{
		metricsGroup.GET("/operations", ctrl.GetOperationStats)
		metricsGroup.DELETE("/operations", ctrl.ResetOperationStats)
	}
}

// GetOperationStats handles GET /metrics/operations.
func (ctrl *MetricsController) GetOperationStats(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.tracker.Snapshot())
}

// ResetOperationStats handles DELETE /metrics/operations.
func (ctrl *MetricsController) ResetOperationStats(c *gin.Context) {
	ctrl.tracker.Reset()
	c.JSON(http.StatusOK, gin.H{"message": "Operation statistics reset"})
}
