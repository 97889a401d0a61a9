package app

import (
	"tutorhub_backend/docs"
	"tutorhub_backend/internal/config"
	"tutorhub_backend/internal/middleware"
	"tutorhub_backend/internal/model"
	"tutorhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/auth/profile", c.auth.Profile)

		// 学员管理（监护人限自己名下）
		authGroup.POST("/children", c.child.Create)
		authGroup.GET("/children", c.child.List)
		authGroup.GET("/children/:id", c.child.Get)
		authGroup.PUT("/children/:id", c.child.Update)
		authGroup.DELETE("/children/:id", c.child.Delete)
		authGroup.GET("/children/:id/attendance", c.attendance.ChildHistory)

		// 课件播放与学习进度
		player := authGroup.Group("/player/lessons")
		{
			player.GET("", c.player.ListLessons)
			player.GET("/:id", c.player.PlayerContent)
			player.POST("/:id/start", c.player.Start)
			player.POST("/:id/slides/view", c.player.RecordSlideView)
			player.POST("/:id/progress", c.player.UpdateProgress)
			player.POST("/:id/interactions", c.player.RecordInteraction)
			player.POST("/:id/confidence", c.player.SubmitConfidence)
			player.POST("/:id/check-completion", c.player.CheckCompletion)
			player.GET("/:id/summary", c.player.Summary)

			// 课件内答题
			player.POST("/:id/questions/submit", c.question.Submit)
			player.GET("/:id/questions/responses", c.question.Responses)
			player.GET("/:id/slides/:slideId/responses", c.question.SlideResponses)

			// 作业附件
			player.POST("/:id/uploads", c.upload.Submit)
			player.GET("/:id/uploads", c.upload.List)
		}
		authGroup.DELETE("/uploads/:uuid", c.upload.Delete)

		// 通知
		authGroup.GET("/notifications", c.notification.List)
		authGroup.GET("/notifications/unread-count", c.notification.UnreadCount)
		authGroup.POST("/notifications/:id/read", c.notification.MarkRead)
		authGroup.POST("/notifications/read-all", c.notification.MarkAllRead)

		// 排课查询
		authGroup.GET("/lessons", c.lesson.ListLessons)
		authGroup.GET("/lessons/:id", c.lesson.GetLesson)

		// 考勤（导师/管理员）
		tutorOnly := authGroup.Group("")
		tutorOnly.Use(middleware.RoleMiddleware(model.Tutor))
		{
			tutorOnly.GET("/lessons/:id/roster", c.attendance.LessonRoster)
			tutorOnly.GET("/lessons/:id/attendance/sheet", c.attendance.Sheet)
			tutorOnly.GET("/lessons/:id/attendance/overview", c.attendance.Overview)
			tutorOnly.POST("/attendance", c.attendance.Record)
			tutorOnly.POST("/attendance/mark-all", c.attendance.MarkAll)
		}

		// 内容管理（导师/管理员）
		tutor := authGroup.Group("/tutor")
		tutor.Use(middleware.RoleMiddleware(model.Tutor))
		{
			tutor.POST("/lessons", c.lesson.CreateLesson)
			tutor.PUT("/lessons/:id", c.lesson.UpdateLesson)
			tutor.DELETE("/lessons/:id", c.lesson.DeleteLesson)

			tutor.POST("/content-lessons", c.lesson.CreateContentLesson)
			tutor.GET("/content-lessons/:id", c.lesson.GetContentLesson)
			tutor.PUT("/content-lessons/:id", c.lesson.UpdateContentLesson)
			tutor.DELETE("/content-lessons/:id", c.lesson.DeleteContentLesson)
			tutor.POST("/content-lessons/:id/slides", c.lesson.CreateSlide)
			tutor.PUT("/slides/:id", c.lesson.UpdateSlide)
			tutor.DELETE("/slides/:id", c.lesson.DeleteSlide)

			tutor.POST("/questions", c.lesson.CreateQuestion)
			tutor.GET("/questions", c.lesson.ListQuestions)
			tutor.GET("/questions/:id", c.lesson.GetQuestion)
			tutor.PUT("/questions/:id", c.lesson.UpdateQuestion)
			tutor.DELETE("/questions/:id", c.lesson.DeleteQuestion)
		}

		// 管理员
		admin := authGroup.Group("/admin")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			admin.POST("/attendance/:id/approve", c.attendance.Approve)
			admin.POST("/lessons/:id/attendance/approve-all", c.attendance.ApproveAll)

			admin.POST("/access-grants", c.access.Create)
			admin.GET("/access-grants", c.access.List)
			admin.GET("/access-grants/:id", c.access.Get)
			admin.PUT("/access-grants/:id", c.access.Update)
			admin.DELETE("/access-grants/:id", c.access.Delete)
			admin.GET("/children/:id/access-grants", c.access.ListByChild)
		}
	}
}
