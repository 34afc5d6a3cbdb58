package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"skillpath_backend/internal/config"
	"skillpath_backend/internal/controller"
	"skillpath_backend/internal/planner"
	"skillpath_backend/internal/repository"
	"skillpath_backend/internal/resource"
	"skillpath_backend/internal/service"
	"skillpath_backend/internal/util"
	"skillpath_backend/pkg/configwatcher"
	"skillpath_backend/pkg/database"
	"skillpath_backend/pkg/logger"
	"skillpath_backend/pkg/monitoring"
	"skillpath_backend/pkg/security"
	"skillpath_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	KB       *planner.KnowledgeBase
	Searcher *resource.YouTubeSearcher
	Resolver *resource.Resolver

	cfgMu           sync.RWMutex
	cfg             *config.Config
	configCallbacks []func(*config.Config)

	services       *services
	tracerProvider *sdktrace.TracerProvider
	stopBackground context.CancelFunc
}

type repositories struct {
	user         *repository.UserRepository
	achievement  *repository.AchievementRepository
	profile      *repository.ProfileRepository
	learningPath *repository.LearningPathRepository
	dailyGoal    *repository.DailyGoalRepository
}

type services struct {
	auth         *service.AuthService
	storage      *service.StorageService
	profile      *service.ProfileService
	achievement  *service.AchievementService
	learningPath *service.LearningPathService
	dailyGoal    *service.DailyGoalService
}

type controllers struct {
	auth            *controller.AuthController
	health          *controller.HealthController
	learningProfile *controller.LearningProfileController
	learningPath    *controller.LearningPathController
	dailyGoal       *controller.DailyGoalController
	achievement     *controller.AchievementController
	knowledge       *controller.KnowledgeController
	resource        *controller.ResourceController
}

// Config 当前生效的配置（热更新后会替换）
func (a *App) Config() *config.Config {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.cfg
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	a.cfgMu.Lock()
	a.cfg = cfg
	a.cfgMu.Unlock()

	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		achievement:  repository.NewAchievementRepository(db),
		profile:      repository.NewProfileRepository(db),
		learningPath: repository.NewLearningPathRepository(db),
		dailyGoal:    repository.NewDailyGoalRepository(db),
	}
}

func (a *App) initResources(cfg *config.Config) {
	a.Searcher = resource.NewYouTubeSearcher(cfg.Resources)

	var cache resource.Cache = resource.NewMemoryCache()
	if cfg.Resources.Cache == util.CacheRedis && a.Redis != nil {
		cache = resource.NewRedisCache(a.Redis)
	}

	a.Resolver = resource.NewResolver(a.Searcher, cache,
		resource.WithMaxAttempts(cfg.Resources.MaxAttempts),
		resource.WithInitialBackoff(cfg.Resources.InitialBackoff()),
	)
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	p := planner.NewPlanner(a.KB, a.Resolver)
	if cfg.Planner.ResourcesPerWeek > 0 {
		p.ResourcesPerWeek = cfg.Planner.ResourcesPerWeek
	}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, a.Config)
	s.profile = service.NewProfileService(repos.profile)
	s.achievement = service.NewAchievementService(repos.achievement, repos.user, repos.dailyGoal)
	s.learningPath = service.NewLearningPathService(repos.learningPath, repos.profile, p, s.storage, s.achievement)
	s.learningPath.Timeout = time.Duration(cfg.Planner.TimeoutSeconds) * time.Second
	s.dailyGoal = service.NewDailyGoalService(repos.dailyGoal, s.learningPath, s.achievement, cfg.Goals)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:            controller.NewAuthController(s.auth),
		health:          controller.NewHealthController(a.DB, a.Redis, a.KB),
		learningProfile: controller.NewLearningProfileController(s.profile),
		learningPath:    controller.NewLearningPathController(s.learningPath),
		dailyGoal:       controller.NewDailyGoalController(s.dailyGoal),
		achievement:     controller.NewAchievementController(s.achievement),
		knowledge:       controller.NewKnowledgeController(a.KB),
		resource:        controller.NewResourceController(a.Resolver),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// registerConfigCallbacks 热更新：轮换检索密钥、调整日志级别
func (a *App) registerConfigCallbacks() {
	a.RegisterConfigCallback(func(c *config.Config) {
		a.Searcher.SetAPIKey(c.Resources.APIKey)
	})
	a.RegisterConfigCallback(func(c *config.Config) {
		if c.Log.Level != "" && !logger.SetLevel(c.Log.Level) {
			logger.Log.Warn("Ignoring unknown log level", zap.String("level", c.Log.Level))
		}
	})
}

func (a *App) startBackgroundTasks(ctx context.Context, s *services, cfg config.GoalsConfig) {
	if !cfg.AutoGenerate {
		return
	}
	interval := time.Duration(cfg.AutoGenerateMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.dailyGoal.GenerateForActiveUsers(ctx, time.Now())
				if err != nil {
					logger.Log.Error("daily goal generation error", zap.Error(err))
					continue
				}
				logger.Log.Debug("daily goals pre-generated", zap.Int("users", n))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	kb, err := planner.LoadKnowledgeBase(cfg.Planner.KnowledgeBasePath)
	if err != nil {
		logger.Log.Fatal("Failed to load knowledge base", zap.Error(err))
	}
	logger.Log.Info("Knowledge base loaded",
		zap.Int("version", kb.Version()),
		zap.Int("skills", len(kb.Skills())),
		zap.Int("career_paths", len(kb.CareerPaths())),
	)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
	}

	if cfg.MigrateOnly {
		return &App{cfg: cfg, DB: db, Redis: rdb, KB: kb}
	}

	app := newApp(cfg, db, rdb, kb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.stopBackground = cancel
	app.startBackgroundTasks(ctx, app.services, cfg.Goals)

	return app
}

// newApp 组装仓储、服务、控制器与路由，不做任何外部连接
func newApp(cfg *config.Config, db *gorm.DB, rdb *redis.Client, kb *planner.KnowledgeBase) *App {
	app := &App{
		cfg:   cfg,
		DB:    db,
		Redis: rdb,
		KB:    kb,
	}

	app.initResources(cfg)
	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg)
	app.registerConfigCallbacks()
	controllers := app.initControllers(app.services)

	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, repos)

	if cfg.Storage.Type == util.StorageLocal && cfg.Storage.LocalPath != "" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// WatchConfig 监听配置文件并在变更时应用回调
func (a *App) WatchConfig(ctx context.Context, configPath string) {
	go func() {
		if err := configwatcher.WatchConfig(ctx, configPath, a.applyConfig); err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

func (a *App) Run() {
	cfg := a.Config()
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	if a.stopBackground != nil {
		a.stopBackground()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
