package app

import (
	"podlab_backend/docs"
	"podlab_backend/internal/middleware"
	"podlab_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.Auth(s.identity))
	{
		// 内容交付
		authGroup.GET("/problems/:slug", c.problem.GetBySlug)
		authGroup.GET("/pods/:podId/stages", c.stage.ListForPod)
		authGroup.GET("/pods/:podId/stages/:stageId", c.stage.Get)
		authGroup.GET("/content/pods/:podId/content", c.content.PodContent)
		authGroup.GET("/content/pods/:podId/stages/:stageId/content", c.content.StageContent)

		// 学习进度状态机
		authGroup.POST("/pods/:podId/stages/:stageId/start", c.stage.Start)
		authGroup.POST("/pods/:podId/stages/:stageId/complete", c.stage.Complete)
		authGroup.PATCH("/pods/:podId/stages/:stageId/progress", c.stage.UpdateProgress)
		authGroup.POST("/pods/:podId/stages/:stageId/practice/submit", c.stage.SubmitPractice)
		authGroup.POST("/pods/:podId/stages/:stageId/assessment/submit", c.stage.SubmitMCQ)

		// 个人资料
		authGroup.GET("/profile", c.user.GetProfile)
		authGroup.PUT("/profile", c.user.UpdateProfile)
		authGroup.POST("/profile/api-key", c.user.IssueAPIKey)

		// 产物
		authGroup.GET("/attempts/:attemptId/artefacts", c.artefact.List)
		authGroup.POST("/attempts/:attemptId/artefacts", c.artefact.Create)
		authGroup.PUT("/artefacts/:id", c.artefact.Update)
		authGroup.DELETE("/artefacts/:id", c.artefact.Delete)
	}

	// 管理端路由
	admin := router.Group("/api/admin")
	admin.Use(middleware.Auth(s.identity), middleware.RequireAdmin())
	{
		admin.GET("/problems", c.problem.List)
		admin.GET("/problems/:id", c.problem.Get)
		admin.POST("/problems", c.problem.Create)
		admin.PUT("/problems/:id", c.problem.Update)
		admin.DELETE("/problems/:id", c.problem.Delete)

		admin.GET("/pods", c.pod.List)
		admin.GET("/pods/:id", c.pod.Get)
		admin.POST("/pods", c.pod.Create)
		admin.PUT("/pods/:id", c.pod.Update)
		admin.DELETE("/pods/:id", c.pod.Delete)

		admin.GET("/stages", c.stage.List)
		admin.POST("/stages", c.stage.Create)
		admin.PUT("/stages/:id", c.stage.Update)
		admin.DELETE("/stages/:id", c.stage.Delete)

		admin.GET("/users", c.user.List)
		admin.GET("/users/:id", c.user.Get)
		admin.PUT("/users/:id/subscription", c.user.UpdateSubscription)
		admin.DELETE("/users/:id", c.user.Delete)

		analytics := admin.Group("/analytics")
		{
			analytics.GET("/users", c.analytics.Users)
			analytics.GET("/problems", c.analytics.Problems)
			analytics.GET("/pods", c.analytics.Pods)
			analytics.GET("/stages", c.analytics.Stages)
			analytics.GET("/progress", c.analytics.Progress)
		}
	}
}
