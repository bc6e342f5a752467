package app

import (
	"meetup_bot/internal/config"
	"meetup_bot/internal/middleware"
	"meetup_bot/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/login", c.auth.Login)
	}

	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.AdminOnly(cfg))
	{
		admin.GET("/me", c.auth.Me)

		admin.GET("/interests", c.reference.GetInterests)
		admin.GET("/regions", c.reference.GetRegions)
		admin.POST("/references/upload", c.reference.UploadWorkbook)

		admin.GET("/reports/users", c.report.UsersReport)
		admin.GET("/reports/events", c.report.EventsReport)

		admin.GET("/users", c.user.ListUsers)
		admin.GET("/users/:phone", c.user.GetUser)

		admin.GET("/events", c.event.ListEvents)
		admin.GET("/events/:id", c.event.GetEvent)
	}
}
