package app

import (
	"time"

	"skillpath_backend/docs"
	"skillpath_backend/internal/middleware"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/util"
	"skillpath_backend/pkg/monitoring"
	"skillpath_backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	// 规划涉及外部检索，单用户限流
	planRequestsPerWindow = 5
	planRequestWindow     = time.Minute
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(a.Config), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		knowledge := public.Group("/knowledge")
		knowledge.GET("/skills", c.knowledge.ListSkills)
		knowledge.GET("/career-paths", c.knowledge.ListCareerPaths)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	rg.GET("/learning-profile", c.learningProfile.GetLearningProfile)
	rg.PUT("/learning-profile", c.learningProfile.UpsertLearningProfile)

	paths := rg.Group("/learning-paths")
	{
		paths.POST("", security.KeyedRateLimiter(planRequestsPerWindow, planRequestWindow, userKey), c.learningPath.GenerateLearningPath)
		paths.GET("", c.learningPath.ListLearningPaths)
		paths.GET("/active", c.learningPath.GetActiveLearningPath)
		paths.GET("/active/current-week", c.learningPath.GetCurrentWeek)
		paths.POST("/:id/export", c.learningPath.ExportLearningPath)
	}

	goals := rg.Group("/daily-goals")
	{
		goals.POST("/recommended", c.dailyGoal.GenerateRecommended)
		goals.GET("", c.dailyGoal.ListDailyGoals)
		goals.PATCH("/:id/complete", c.dailyGoal.CompleteDailyGoal)
	}

	rg.GET("/achievements", c.achievement.GetUserAchievements)
	rg.GET("/leaderboard", c.achievement.GetLeaderboard)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(a.Config), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/resources/cache/clear", c.resource.ClearCache)
	}
}

func userKey(c *gin.Context) string {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return ""
	}
	return "user:" + util.FormatUint(claims.UserID)
}
