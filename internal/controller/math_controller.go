package controller

import (
	"alifbe_backend/internal/service"
	"alifbe_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MathController struct {
	MathService *service.MathService
	AuthService *service.AuthService
}

func NewMathController(mathService *service.MathService, authService *service.AuthService) *MathController {
	return &MathController{MathService: mathService, AuthService: authService}
}

type MathAttemptRequest struct {
	UserID     uint                       `json:"userId" binding:"required"`
	PathKey    string                     `json:"pathKey" binding:"required"`
	SkillKey   string                     `json:"skillKey" binding:"required"`
	ActivityID *uint                      `json:"activityId"`
	Answers    []service.AnswerSubmission `json:"answers" binding:"required"`
}

// EvaluateAttempt godoc
// @Summary Grade a numeracy activity submission
// @Description Compares answers against the activity's problem set; mistakes come back as strings, never errors.
// @Tags math
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body MathAttemptRequest true "Answers keyed by problem id"
// @Success 200 {object} util.Response{data=service.MathEvalResult}
// @Failure 400 {object} util.Response "Empty submission"
// @Failure 404 {object} util.Response
// @Router /api/math/attempts [post]
func (c *MathController) EvaluateAttempt(ctx *gin.Context) {
	var req MathAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	ok, err := c.AuthService.CanAccessLearner(claims, req.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if !ok {
		util.Forbidden(ctx)
		return
	}

	result, err := c.MathService.EvaluateAttempt(req.UserID, req.PathKey, req.SkillKey, req.ActivityID, req.Answers)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
