package controller

import (
	"errors"

	"alifbe_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError maps service sentinel errors onto the response envelope.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrLearningPathNotFound),
		errors.Is(err, util.ErrModuleNotFound),
		errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrSkillNotFound),
		errors.Is(err, util.ErrActivityNotFound),
		errors.Is(err, util.ErrProgressNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrEmailRegistered),
		errors.Is(err, util.ErrPhoneRegistered):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Unauthorized(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrBackwardsTransition),
		errors.Is(err, util.ErrMissingAudio),
		errors.Is(err, util.ErrEmptySubmission),
		errors.Is(err, util.ErrLessonLocked):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
