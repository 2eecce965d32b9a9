package app

import (
	"coursehub_backend/docs"
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/middleware"
	"coursehub_backend/internal/service"
	"coursehub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerLearnerRoutes(authGroup, c)
		a.registerAuthoringRoutes(authGroup, c)
	}
}

// registerLearnerRoutes 内容读取与学习交互
func (a *App) registerLearnerRoutes(api *gin.RouterGroup, c *controllers) {
	api.GET("/groups/:id", c.group.GetGroup)
	api.GET("/courses/:id", c.course.GetCourse)
	api.GET("/courses/:id/progress", c.course.GetProgress)

	sections := api.Group("/sections/:id")
	{
		sections.GET("", c.section.GetSection)
		sections.POST("/complete", c.section.CompleteSection)
		sections.POST("/quiz-attempts", c.section.SubmitQuizAttempt)
		sections.GET("/quiz-attempts", c.section.ListQuizAttempts)
		sections.PUT("/reflection", c.section.SaveReflection)
		sections.GET("/reflection", c.section.GetReflection)
	}
}

// registerAuthoringRoutes 内容编辑，权限在服务层按群组判定
func (a *App) registerAuthoringRoutes(api *gin.RouterGroup, c *controllers) {
	api.POST("/groups", middleware.RoleMiddleware(service.RoleTeacher), c.group.CreateGroup)
	api.PUT("/groups/:id/translations", c.group.SaveTranslations)
	api.POST("/groups/:id/courses", c.course.CreateCourse)

	api.PUT("/courses/:id", c.course.UpdateCourse)
	api.DELETE("/courses/:id", c.course.DeleteCourse)
	api.PUT("/courses/:id/translations", c.course.SaveTranslations)
	api.POST("/courses/:id/thumbnail", c.course.UploadThumbnail)
	api.POST("/courses/:id/modules", c.course.CreateModule)
	api.PUT("/courses/:id/modules/order", c.course.ReorderModules)

	api.PUT("/modules/:id", c.module.UpdateModule)
	api.DELETE("/modules/:id", c.module.DeleteModule)
	api.POST("/modules/:id/sections", c.module.CreateSection)
	api.PUT("/modules/:id/sections/order", c.module.ReorderSections)

	api.PUT("/sections/:id", c.section.UpdateSection)
	api.DELETE("/sections/:id", c.section.DeleteSection)
	api.PUT("/sections/:id/content", c.section.SaveContent)
	api.PUT("/sections/:id/payload", c.section.SavePayload)
}
