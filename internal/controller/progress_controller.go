package controller

import (
	"strconv"

	"alifbe_backend/internal/model"
	"alifbe_backend/internal/service"
	"alifbe_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	LearningService *service.LearningService
	AuthService     *service.AuthService
}

func NewProgressController(learningService *service.LearningService, authService *service.AuthService) *ProgressController {
	return &ProgressController{LearningService: learningService, AuthService: authService}
}

// Overview godoc
// @Summary Progress overview for one learner
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param userID path int true "Learner ID"
// @Success 200 {object} util.Response{data=service.ProgressOverview}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/progress/{userID} [get]
func (c *ProgressController) Overview(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("userID"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}
	if !c.authorize(ctx, uint(id)) {
		return
	}

	overview, err := c.LearningService.Overview(uint(id))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

type UpdateProgressRequest struct {
	UserID   uint   `json:"userId" binding:"required"`
	LessonID uint   `json:"lessonId" binding:"required"`
	Status   string `json:"status" binding:"required,oneof=locked available in_progress completed"`
}

// UpdateProgress godoc
// @Summary Manually set a lesson's progress status
// @Description Transitions may only move forward (locked, available, in_progress, completed).
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProgressRequest true "Status change"
// @Success 200 {object} util.Response{data=model.UserProgress}
// @Failure 400 {object} util.Response "Backwards transition"
// @Router /api/progress/update [post]
func (c *ProgressController) UpdateProgress(ctx *gin.Context) {
	var req UpdateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !c.authorize(ctx, req.UserID) {
		return
	}

	rec, err := c.LearningService.UpdateProgress(req.UserID, req.LessonID, model.ProgressStatus(req.Status))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, rec)
}

func (c *ProgressController) authorize(ctx *gin.Context, learnerID uint) bool {
	claims := util.GetUserFromContext(ctx)
	ok, err := c.AuthService.CanAccessLearner(claims, learnerID)
	if err != nil {
		respondError(ctx, err)
		return false
	}
	if !ok {
		util.Forbidden(ctx)
		return false
	}
	return true
}
