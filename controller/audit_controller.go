// controller/audit_controller.go

package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dairyops/herdwise/api/audit"
	herd_errors "github.com/dairyops/herdwise/api/errors"
	"github.com/dairyops/herdwise/api/util"
	helper_util "github.com/dairyops/herdwise/api/util/helper"
)

type AuditController struct {
	service audit.Service
}

func NewAuditController(service audit.Service) *AuditController {
	return &AuditController{service: service}
}

func (ctrl *AuditController) RegisterRoutes(r *gin.RouterGroup) {
	auditGroup := r.Group("/audit")
	{
		auditGroup.GET("/flags", ctrl.QueryFlagChanges)
	}
}

// QueryFlagChanges handles GET /audit/flags with optional from/to/actorId/key
// filters and limit/offset pagination.
func (ctrl *AuditController) QueryFlagChanges(c *gin.Context) {
	from, to, err := helper_util.GetTimeRangeParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid time range", err)
		return
	}

	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil || limit < 0 || offset < 0 {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", herd_errors.ErrInvalidPagination)
		return
	}

	query := audit.ChangeQuery{
		From:    from,
		To:      to,
		ActorID: c.Query("actorId"),
		FlagKey: c.Query("key"),
		Limit:   limit,
		Offset:  offset,
	}

	changes, err := ctrl.service.QueryChanges(c.Request.Context(), query)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to query flag audit log", err)
		return
	}
	c.JSON(http.StatusOK, changes)
}
