package controller

import (
	"alifbe_backend/internal/service"
	"alifbe_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Register godoc
// @Summary Register a guardian account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.RegisterInput true "Guardian registration"
// @Success 201 {object} util.Response{data=service.AuthResult}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response "Email already registered"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var input service.RegisterInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Register(input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// Login godoc
// @Summary Guardian login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.LoginInput true "Credentials"
// @Success 200 {object} util.Response{data=service.AuthResult}
// @Failure 401 {object} util.Response
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var input service.LoginInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Login(input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// OnboardChild godoc
// @Summary Create a learner profile under the signed-in guardian
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.OnboardChildInput true "Child profile"
// @Success 201 {object} util.Response{data=model.User}
// @Failure 403 {object} util.Response
// @Router /api/children [post]
func (c *AuthController) OnboardChild(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.OnboardChildInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	child, err := c.AuthService.OnboardChild(claims.UserID, input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, child)
}

// ListChildren godoc
// @Summary List the guardian's learners
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/children [get]
func (c *AuthController) ListChildren(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	children, err := c.AuthService.ListChildren(claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, children)
}
