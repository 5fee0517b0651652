package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"podlab_backend/internal/config"
	"podlab_backend/internal/controller"
	"podlab_backend/internal/repository"
	"podlab_backend/internal/service"
	"podlab_backend/pkg/database"
	"podlab_backend/pkg/logger"
	"podlab_backend/pkg/monitoring"
	"podlab_backend/pkg/security"
	"podlab_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	problem   *repository.ProblemRepository
	pod       *repository.PodRepository
	stage     *repository.StageRepository
	attempt   *repository.AttemptRepository
	progress  *repository.StageProgressRepository
	profile   *repository.UserProfileRepository
	artefact  *repository.ArtefactRepository
	analytics *repository.AnalyticsRepository
}

type services struct {
	identity  *service.IdentityService
	content   *service.ContentService
	problem   *service.ProblemService
	pod       *service.PodService
	stage     *service.StageService
	progress  *service.ProgressService
	profile   *service.ProfileService
	artefact  *service.ArtefactService
	analytics *service.AnalyticsService
}

type controllers struct {
	problem   *controller.ProblemController
	pod       *controller.PodController
	stage     *controller.StageController
	user      *controller.UserController
	content   *controller.ContentController
	artefact  *controller.ArtefactController
	analytics *controller.AnalyticsController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置热更新回调入口
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("配置已热更新")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		problem:   repository.NewProblemRepository(db),
		pod:       repository.NewPodRepository(db),
		stage:     repository.NewStageRepository(db),
		attempt:   repository.NewAttemptRepository(db),
		progress:  repository.NewStageProgressRepository(db),
		profile:   repository.NewUserProfileRepository(db),
		artefact:  repository.NewArtefactRepository(db),
		analytics: repository.NewAnalyticsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	s := &services{}

	s.identity = service.NewIdentityService(cfg.Identity, rdb)

	content, err := service.NewContentService(cfg.Content, rdb)
	if err != nil {
		return nil, err
	}
	s.content = content

	s.problem = service.NewProblemService(repos.problem, repos.pod, repos.stage, repos.progress, s.content)
	s.pod = service.NewPodService(repos.pod, repos.problem, repos.stage, s.content)
	s.stage = service.NewStageService(repos.stage, repos.pod, repos.progress, s.content)
	s.progress = service.NewProgressService(repos.stage, repos.pod, repos.attempt, repos.progress)
	s.profile = service.NewProfileService(repos.profile)
	s.artefact = service.NewArtefactService(repos.artefact, repos.attempt)
	s.analytics = service.NewAnalyticsService(repos.analytics)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		problem:   controller.NewProblemController(s.problem),
		pod:       controller.NewPodController(s.pod),
		stage:     controller.NewStageController(s.stage, s.progress),
		user:      controller.NewUserController(s.profile),
		content:   controller.NewContentController(s.stage),
		artefact:  controller.NewArtefactController(s.artefact),
		analytics: controller.NewAnalyticsController(s.analytics),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}
	logger.Log.Info("数据库迁移完成")
	if cfg.MigrateOnly {
		os.Exit(0)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	ctrls := app.initControllers(services, db, rdb)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("podlab-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, ctrls, services)

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

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
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
