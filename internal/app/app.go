package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tutorhub_backend/internal/config"
	"tutorhub_backend/internal/controller"
	"tutorhub_backend/internal/repository"
	"tutorhub_backend/internal/service"
	"tutorhub_backend/pkg/database"
	"tutorhub_backend/pkg/logger"
	"tutorhub_backend/pkg/monitoring"
	"tutorhub_backend/pkg/security"
	"tutorhub_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user          *repository.UserRepository
	child         *repository.ChildRepository
	access        *repository.AccessRepository
	lesson        *repository.LessonRepository
	contentLesson *repository.ContentLessonRepository
	attendance    *repository.AttendanceRepository
	progress      *repository.ProgressRepository
	question      *repository.QuestionRepository
	notification  *repository.NotificationRepository
	upload        *repository.UploadRepository
}

type services struct {
	auth         *service.AuthService
	roster       *service.RosterService
	access       *service.AccessService
	attendance   *service.AttendanceService
	child        *service.ChildService
	progress     *service.ProgressService
	question     *service.QuestionService
	lesson       *service.LessonService
	notification *service.NotificationService
	upload       *service.UploadService
	storage      service.StorageProvider
}

type controllers struct {
	auth         *controller.AuthController
	attendance   *controller.AttendanceController
	player       *controller.LessonPlayerController
	question     *controller.LessonQuestionController
	lesson       *controller.LessonController
	access       *controller.AccessController
	child        *controller.ChildController
	upload       *controller.UploadController
	notification *controller.NotificationController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:          repository.NewUserRepository(db),
		child:         repository.NewChildRepository(db),
		access:        repository.NewAccessRepository(db),
		lesson:        repository.NewLessonRepository(db),
		contentLesson: repository.NewContentLessonRepository(db),
		attendance:    repository.NewAttendanceRepository(db),
		progress:      repository.NewProgressRepository(db),
		question:      repository.NewQuestionRepository(db),
		notification:  repository.NewNotificationRepository(db),
		upload:        repository.NewUploadRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	storage, err := service.NewStorageProvider(cfg)
	if err != nil {
		logger.Log.Fatal("初始化存储后端失败", zap.Error(err))
	}
	s.storage = storage

	s.auth = service.NewAuthService(repos.user, cfg)
	s.child = service.NewChildService(repos.child)
	s.roster = service.NewRosterService(repos.access, repos.child, repos.lesson, rdb, cfg)
	s.access = service.NewAccessService(repos.access, repos.child, s.roster)
	s.attendance = service.NewAttendanceService(repos.attendance, repos.lesson, s.roster)
	s.progress = service.NewProgressService(repos.progress, repos.contentLesson, repos.upload, s.roster)
	s.notification = service.NewNotificationService(repos.notification, repos.child)
	s.question = service.NewQuestionService(repos.question, repos.progress, repos.contentLesson, s.progress, s.notification)
	s.lesson = service.NewLessonService(repos.contentLesson, repos.lesson, repos.question, s.roster)
	s.upload = service.NewUploadService(repos.upload, repos.progress, s.progress, s.storage)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		attendance:   controller.NewAttendanceController(s.attendance, s.roster, s.child),
		player:       controller.NewLessonPlayerController(s.lesson, s.progress, s.child),
		question:     controller.NewLessonQuestionController(s.question, s.child),
		lesson:       controller.NewLessonController(s.lesson),
		access:       controller.NewAccessController(s.access),
		child:        controller.NewChildController(s.child),
		upload:       controller.NewUploadController(s.upload, s.child),
		notification: controller.NewNotificationController(s.notification),
		health:       controller.NewHealthController(db, rdb),
	}
}

// ApplyConfig 配置热加载回调；只接管可以在运行中安全变更的字段
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config.CORS = cfg.CORS
	a.Config.RateLimit = cfg.RateLimit
	a.Config.Roster = cfg.Roster
	logger.Log.Info("配置已热加载",
		zap.Int("rosterCacheTTL", cfg.Roster.CacheTTLSeconds),
		zap.Int("rateLimitMax", cfg.RateLimit.MaxRequests))
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
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
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("tutoring-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" || cfg.Storage.Type == "" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

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
