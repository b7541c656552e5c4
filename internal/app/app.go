package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alifbe_backend/internal/config"
	"alifbe_backend/internal/controller"
	"alifbe_backend/internal/repository"
	"alifbe_backend/internal/service"
	"alifbe_backend/pkg/configwatcher"
	"alifbe_backend/pkg/database"
	"alifbe_backend/pkg/logger"
	"alifbe_backend/pkg/monitoring"
	"alifbe_backend/pkg/security"
	"alifbe_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type services struct {
	auth         *service.AuthService
	gamification *service.GamificationService
	learning     *service.LearningService
	math         *service.MathService
	leaderboard  *service.LeaderboardService
	content      *service.ContentService
	speech       *service.SpeechService
	storage      *service.StorageService
}

type controllers struct {
	auth         *controller.AuthController
	lesson       *controller.LessonController
	math         *controller.MathController
	progress     *controller.ProgressController
	gamification *controller.GamificationController
	speech       *controller.SpeechController
	admin        *controller.AdminController
	health       *controller.HealthController
}

func (a *App) initServices(store *repository.Store, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	policy := service.NewLevelPolicy(cfg.Gamification.XPThresholds)
	evaluator := service.NewAIEvaluator(cfg.Evaluator)

	s.gamification = service.NewGamificationService(store, policy)
	s.learning = service.NewLearningService(store, s.gamification, evaluator)
	s.math = service.NewMathService(store, s.gamification)
	s.auth = service.NewAuthService(store, cfg.JWT)
	s.leaderboard = service.NewLeaderboardService(store, rdb)
	s.content = service.NewContentService(store)
	s.speech = service.NewSpeechService(cfg.Speech)
	s.storage = service.NewStorageService(cfg)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		lesson:       controller.NewLessonController(s.learning, s.auth),
		math:         controller.NewMathController(s.math, s.auth),
		progress:     controller.NewProgressController(s.learning, s.auth),
		gamification: controller.NewGamificationController(s.gamification, s.leaderboard, s.auth),
		speech:       controller.NewSpeechController(s.speech, s.storage),
		admin:        controller.NewAdminController(s.content),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}
	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	// Keep the leaderboard cache warm so the first request after TTL expiry
	// does not pay the query.
	go func() {
		ticker := time.NewTicker(45 * time.Second)
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if _, err := s.leaderboard.Refresh(ctx); err != nil {
				logger.Log.Warn("leaderboard refresh failed", zap.Error(err))
			}
			cancel()
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("logger initialized")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("failed to initialize database", zap.Error(err))
	}

	rdb := database.InitRedis(&cfg.Redis)

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.MigrateOnly {
		return app
	}

	store := repository.NewStore(db)
	services := app.initServices(store, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("alifbe-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	// JWT secret and admin sync token are read through the shared config
	// pointer on every request, so edits to the config file apply without a
	// restart. Anything captured at construction time still needs one.
	go configwatcher.WatchConfig("configs/config.yaml", func(updated *config.Config) {
		cfg.JWT = updated.JWT
		cfg.Admin = updated.Admin
		logger.Log.Info("configuration reloaded")
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
