package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/figures-analytics/figures/internal/interfaces/http/middleware"
	"github.com/figures-analytics/figures/internal/interfaces/http/routes"
	"github.com/figures-analytics/figures/internal/shared/biztime"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	// legacy course keys arrive with "/" escaped as %2F in :course_id
	c.engine.UseRawPath = true
	c.engine.UnescapePathValues = true

	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(c.log.Named("http")))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())

	c.engine.GET("/health", c.healthCheck)

	routes.SetupFiguresRoutes(c.engine, &routes.FiguresRouteConfig{
		MetricsHandler:       c.hdlrs.metricsHandler,
		CourseHandler:        c.hdlrs.courseHandler,
		UserHandler:          c.hdlrs.userHandler,
		SiteMiddleware:       c.siteMiddleware,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}

// GetEngine returns the gin engine
func (c *Container) GetEngine() *gin.Engine {
	return c.engine
}

func (c *Container) healthCheck(ctx *gin.Context) {
	status := http.StatusOK
	database := "ok"
	if sqlDB, err := c.db.DB(); err != nil || sqlDB.PingContext(ctx.Request.Context()) != nil {
		status = http.StatusServiceUnavailable
		database = "unavailable"
	}

	ctx.JSON(status, gin.H{
		"status":   http.StatusText(status),
		"database": database,
		"time":     biztime.FormatDateTime(biztime.NowUTC()),
	})
}
