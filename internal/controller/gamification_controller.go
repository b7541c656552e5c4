package controller

import (
	"strconv"

	"alifbe_backend/internal/service"
	"alifbe_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GamificationController struct {
	GamificationService *service.GamificationService
	LeaderboardService  *service.LeaderboardService
	AuthService         *service.AuthService
}

func NewGamificationController(gamify *service.GamificationService, leaderboard *service.LeaderboardService, authService *service.AuthService) *GamificationController {
	return &GamificationController{
		GamificationService: gamify,
		LeaderboardService:  leaderboard,
		AuthService:         authService,
	}
}

// Snapshot godoc
// @Summary Gamification card for one learner
// @Tags gamification
// @Produce json
// @Security BearerAuth
// @Param userID path int true "Learner ID"
// @Success 200 {object} util.Response{data=service.GamificationSnapshot}
// @Failure 404 {object} util.Response
// @Router /api/gamification/{userID} [get]
func (c *GamificationController) Snapshot(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("userID"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	claims := util.GetUserFromContext(ctx)
	ok, err := c.AuthService.CanAccessLearner(claims, uint(id))
	if err != nil {
		respondError(ctx, err)
		return
	}
	if !ok {
		util.Forbidden(ctx)
		return
	}

	snapshot, err := c.GamificationService.Snapshot(uint(id))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, snapshot)
}

// Leaderboard godoc
// @Summary Top learners by XP
// @Tags gamification
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries (default 10)"
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Router /api/leaderboard [get]
func (c *GamificationController) Leaderboard(ctx *gin.Context) {
	limit := 10
	if raw := ctx.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	entries, err := c.LeaderboardService.Top(ctx.Request.Context(), limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
