// controller/flag_controller.go

package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	herd_errors "github.com/dairyops/herdwise/api/errors"
	"github.com/dairyops/herdwise/api/model"
	"github.com/dairyops/herdwise/api/service"
	"github.com/dairyops/herdwise/api/util"
)

type FlagController struct {
	service service.IFlagService
}

func NewFlagController(service service.IFlagService) *FlagController {
	return &FlagController{service: service}
}

func (ctrl *FlagController) RegisterRoutes(r *gin.RouterGroup) {
	flagGroup := r.Group("/flags")
	{
		flagGroup.GET("", ctrl.ListFlags)
		flagGroup.POST("/bulk", ctrl.BulkUpdateFlags)
		flagGroup.GET("/:key", ctrl.GetFlag)
		flagGroup.PUT("/:key", ctrl.UpdateFlag)
		flagGroup.POST("/:key/reset", ctrl.ResetFlag)
		flagGroup.GET("/:key/resolve", ctrl.ResolveFlag)
	}
}

// ListFlags handles GET /flags. Every registered capability key appears in the
// response, stored or not.
func (ctrl *FlagController) ListFlags(c *gin.Context) {
	allFlags, err := ctrl.service.ListFlags(c.Request.Context())
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list capability flags", err)
		return
	}
	c.JSON(http.StatusOK, allFlags)
}

// GetFlag handles GET /flags/:key. Optional previewUserId/previewTenantId
// query params return the decision the engine would make for that caller.
func (ctrl *FlagController) GetFlag(c *gin.Context) {
	key := c.Param("key")

	var preview *model.Caller
	previewUserID := c.Query("previewUserId")
	previewTenantID := c.Query("previewTenantId")
	if previewUserID != "" || previewTenantID != "" {
		preview = &model.Caller{UserID: previewUserID, TenantID: previewTenantID}
	}

	state, err := ctrl.service.GetFlag(c.Request.Context(), key, preview)
	if err != nil {
		if err == herd_errors.ErrUnknownFlagKey {
			util.RespondWithError(c, http.StatusNotFound, "Unknown capability key", err)
			return
		}
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to get capability flag", err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// UpdateFlag handles PUT /flags/:key with a partial patch body.
func (ctrl *FlagController) UpdateFlag(c *gin.Context) {
	key := c.Param("key")

	var patch model.FlagPatch
	if err := util.BindStrictJSON(c, &patch); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid flag patch payload", err)
		return
	}

	actorID, err := util.GetActorIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unable to identify requesting user", err)
		return
	}

	updated, err := ctrl.service.UpdateFlag(c.Request.Context(), key, patch, actorID)
	if err != nil {
		if err == herd_errors.ErrDatabaseOperation {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update capability flag", err)
			return
		}
		util.RespondWithError(c, http.StatusBadRequest, "Invalid capability flag update", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// BulkUpdateFlags handles POST /flags/bulk. Always 200 with per-key results.
func (ctrl *FlagController) BulkUpdateFlags(c *gin.Context) {
	var patches []model.BulkFlagPatch
	if err := util.BindStrictJSON(c, &patches); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid bulk patch payload", err)
		return
	}
	if len(patches) == 0 {
		util.RespondWithError(c, http.StatusBadRequest, "Bulk patch payload cannot be empty", nil)
		return
	}

	actorID, err := util.GetActorIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unable to identify requesting user", err)
		return
	}

	results := ctrl.service.BulkUpdateFlags(c.Request.Context(), patches, actorID)
	c.JSON(http.StatusOK, results)
}

// ResetFlag handles POST /flags/:key/reset.
func (ctrl *FlagController) ResetFlag(c *gin.Context) {
	key := c.Param("key")

	actorID, err := util.GetActorIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unable to identify requesting user", err)
		return
	}

	reset, err := ctrl.service.ResetFlag(c.Request.Context(), key, actorID)
	if err != nil {
		if err == herd_errors.ErrUnknownFlagKey {
			util.RespondWithError(c, http.StatusNotFound, "Unknown capability key", err)
			return
		}
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to reset capability flag", err)
		return
	}
	c.JSON(http.StatusOK, reset)
}

// ResolveFlag handles GET /flags/:key/resolve?userId=&tenantId=.
func (ctrl *FlagController) ResolveFlag(c *gin.Context) {
	key := c.Param("key")
	caller := model.Caller{
		UserID:   c.Query("userId"),
		TenantID: c.Query("tenantId"),
	}

	enabled, err := ctrl.service.Resolve(c.Request.Context(), key, caller)
	if err != nil {
		if err == herd_errors.ErrUnknownFlagKey {
			util.RespondWithError(c, http.StatusNotFound, "Unknown capability key", err)
			return
		}
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve capability flag", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "enabled": enabled})
}
