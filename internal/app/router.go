package app

import (
	"alifbe_backend/docs"
	"alifbe_backend/internal/config"
	"alifbe_backend/internal/middleware"
	"alifbe_backend/internal/model"
	"alifbe_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Health)

	api := router.Group("/api")

	// Public routes
	api.POST("/auth/register", c.auth.Register)
	api.POST("/auth/login", c.auth.Login)
	api.GET("/paths", c.lesson.ListPaths)

	// Authenticated routes
	auth := api.Group("")
	auth.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware())
	{
		auth.POST("/children", middleware.RoleMiddleware(model.Guardian), c.auth.OnboardChild)
		auth.GET("/children", middleware.RoleMiddleware(model.Guardian), c.auth.ListChildren)

		auth.GET("/lessons/:id", c.lesson.GetLesson)
		auth.POST("/lessons/next", c.lesson.NextLesson)
		auth.POST("/lessons/attempts", c.lesson.SubmitAttempt)

		auth.POST("/math/attempts", c.math.EvaluateAttempt)

		auth.GET("/progress/:userID", c.progress.Overview)
		auth.POST("/progress/update", c.progress.UpdateProgress)

		auth.GET("/gamification/:userID", c.gamification.Snapshot)
		auth.GET("/leaderboard", c.gamification.Leaderboard)

		auth.POST("/speech/transcribe", c.speech.Transcribe)
		auth.POST("/speech/synthesize", c.speech.Synthesize)
		auth.POST("/speech/audio", c.speech.UploadAudio)
	}

	// Content sync for CI pipelines, guarded by a static token.
	admin := api.Group("/admin")
	admin.Use(middleware.AdminTokenMiddleware(cfg))
	{
		admin.POST("/content", c.admin.SyncContent)
	}
}
