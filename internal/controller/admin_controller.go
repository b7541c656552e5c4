package controller

import (
	"alifbe_backend/internal/service"
	"alifbe_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	ContentService *service.ContentService
}

func NewAdminController(contentService *service.ContentService) *AdminController {
	return &AdminController{ContentService: contentService}
}

// SyncContent godoc
// @Summary Bulk upsert curriculum content
// @Description Replicates externally authored paths, modules, lessons, prompts and skills. Guarded by X-Admin-Token.
// @Tags admin
// @Accept json
// @Produce json
// @Param X-Admin-Token header string true "Static sync token"
// @Param body body service.ContentPayload true "Curriculum payload"
// @Success 200 {object} util.Response{data=service.SyncStats}
// @Failure 403 {object} util.Response
// @Router /api/admin/content [post]
func (c *AdminController) SyncContent(ctx *gin.Context) {
	var payload service.ContentPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	stats, err := c.ContentService.Sync(payload)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
