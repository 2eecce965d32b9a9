package app

import (
	"context"
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/controller"
	"coursehub_backend/internal/locale"
	"coursehub_backend/internal/payload"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/configwatcher"
	"coursehub_backend/pkg/database"
	"coursehub_backend/pkg/logger"
	"coursehub_backend/pkg/monitoring"
	"coursehub_backend/pkg/security"
	"coursehub_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	services        *services
	tracer          *sdktrace.TracerProvider
	limiter         *security.Limiter
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	content         *repository.ContentRepository
	progress        *repository.ProgressRepository
	sectionProgress *repository.SectionProgressRepository
	quizAttempt     *repository.QuizAttemptRepository
	reflection      *repository.ReflectionRepository
}

type services struct {
	locales    *locale.Resolver
	payloads   *payload.Validator
	auth       service.Authorizer
	storage    service.StorageProvider
	progress   *service.ProgressService
	content    *service.ContentService
	quiz       *service.QuizService
	reflection *service.ReflectionService
}

type controllers struct {
	group   *controller.GroupController
	course  *controller.CourseController
	module  *controller.ModuleController
	section *controller.SectionController
	health  *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()
	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		content:         repository.NewContentRepository(db),
		progress:        repository.NewProgressRepository(db),
		sectionProgress: repository.NewSectionProgressRepository(db),
		quizAttempt:     repository.NewQuizAttemptRepository(db),
		reflection:      repository.NewReflectionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, storage service.StorageProvider) *services {
	s := &services{storage: storage}

	s.locales = locale.NewResolver(cfg.Locale.Default, cfg.Locale.Supported)
	s.payloads = payload.NewValidator(cfg.Content.ReflectionMinChars)
	s.auth = service.NewGroupRoleAuthorizer(repos.content)

	s.progress = service.NewProgressService(repos.content, repos.progress, repos.sectionProgress, s.auth, cfg.Content.VisitTimeout())
	s.content = service.NewContentService(repos.content, s.locales, s.payloads, s.auth, s.progress, repos.sectionProgress, s.storage)
	s.quiz = service.NewQuizService(s.content, repos.quizAttempt, repos.sectionProgress, s.progress)
	s.reflection = service.NewReflectionService(s.content, repos.reflection, repos.sectionProgress, s.progress)

	// 热更新：语言列表和反思默认最少字数
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.locales.Update(newCfg.Locale.Default, newCfg.Locale.Supported)
		s.payloads.SetDefaultMinChars(newCfg.Content.ReflectionMinChars)
		logger.ApplyMode(newCfg.Server.Mode)
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		group:   controller.NewGroupController(s.content),
		course:  controller.NewCourseController(s.content, s.progress),
		module:  controller.NewModuleController(s.content),
		section: controller.NewSectionController(s.content, s.progress, s.quiz, s.reflection),
		health:  controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	a.limiter = security.NewLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// release 模式默认不自动迁移，需要 -migrate 显式开启
	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	storage, err := service.NewStorageProvider(context.Background(), &cfg.Storage)
	if err != nil {
		logger.Log.Fatal("Failed to initialize storage", zap.Error(err))
	}

	repos := app.initRepositories(db)
	svcs := app.initServices(repos, cfg, storage)
	app.services = svcs
	ctrls := app.initControllers(svcs, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("coursehub", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	gin.SetMode(cfg.Server.Mode)
	util.RegisterBindingFieldNames()

	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, ctrls, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go func() {
		if err := configwatcher.WatchConfig(watchCtx, filepath.Join("configs", "config.yaml"), a.applyConfig); err != nil {
			logger.Log.Warn("Config watcher disabled", zap.Error(err))
		}
	}()

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.limiter != nil {
		a.limiter.Stop()
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	logger.Log.Info("Server exiting")
}
