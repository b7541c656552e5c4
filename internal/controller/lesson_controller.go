package controller

import (
	"strconv"

	"alifbe_backend/internal/service"
	"alifbe_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LearningService *service.LearningService
	AuthService     *service.AuthService
}

func NewLessonController(learningService *service.LearningService, authService *service.AuthService) *LessonController {
	return &LessonController{LearningService: learningService, AuthService: authService}
}

// ListPaths godoc
// @Summary List active learning paths
// @Tags lessons
// @Produce json
// @Success 200 {object} util.Response{data=[]model.LearningPath}
// @Router /api/paths [get]
func (c *LessonController) ListPaths(ctx *gin.Context) {
	paths, err := c.LearningService.ListPaths()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, paths)
}

// GetLesson godoc
// @Summary Get one lesson with its prompts
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id} [get]
func (c *LessonController) GetLesson(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	lesson, err := c.LearningService.GetLesson(uint(id))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

type NextLessonRequest struct {
	UserID  uint   `json:"userId" binding:"required"`
	PathKey string `json:"pathKey" binding:"required"`
	Resume  bool   `json:"resume"`
}

// NextLesson godoc
// @Summary Select the learner's next lesson for a path
// @Description Resumes where the learner left off; a finished path replays its last lesson.
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body NextLessonRequest true "Selection request"
// @Success 200 {object} util.Response{data=service.NextLessonResult}
// @Failure 404 {object} util.Response
// @Router /api/lessons/next [post]
func (c *LessonController) NextLesson(ctx *gin.Context) {
	var req NextLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !c.authorize(ctx, req.UserID) {
		return
	}

	result, err := c.LearningService.NextLesson(req.UserID, req.PathKey, req.Resume)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

type SubmitAttemptRequest struct {
	UserID     uint   `json:"userId" binding:"required"`
	LessonID   uint   `json:"lessonId" binding:"required"`
	Transcript string `json:"transcript"`
	AudioURL   string `json:"audioUrl"`
	LatencyMS  *int   `json:"latencyMs"`
}

// SubmitAttempt godoc
// @Summary Submit a lesson attempt
// @Description Scores the attempt, applies XP/level/streak changes and unlocks the next lesson when earned.
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitAttemptRequest true "Attempt payload"
// @Success 200 {object} util.Response{data=service.AttemptResult}
// @Failure 400 {object} util.Response "Missing transcript and audio"
// @Failure 404 {object} util.Response
// @Router /api/lessons/attempts [post]
func (c *LessonController) SubmitAttempt(ctx *gin.Context) {
	var req SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !c.authorize(ctx, req.UserID) {
		return
	}

	result, err := c.LearningService.SubmitAttempt(ctx.Request.Context(), service.SubmitAttemptInput{
		UserID:     req.UserID,
		LessonID:   req.LessonID,
		AudioURL:   req.AudioURL,
		Transcript: req.Transcript,
		LatencyMS:  req.LatencyMS,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

func (c *LessonController) authorize(ctx *gin.Context, learnerID uint) bool {
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
