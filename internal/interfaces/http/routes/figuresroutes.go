package routes

import (
	"github.com/gin-gonic/gin"

	figureshandlers "github.com/figures-analytics/figures/internal/interfaces/http/handlers/figures"
	"github.com/figures-analytics/figures/internal/interfaces/http/middleware"
	"github.com/figures-analytics/figures/internal/shared/constants"
)

type FiguresRouteConfig struct {
	MetricsHandler *figureshandlers.MetricsHandler
	CourseHandler  *figureshandlers.CourseHandler
	UserHandler    *figureshandlers.UserHandler
	SiteMiddleware *middleware.SiteMiddleware
	// AuthMiddleware and PermissionMiddleware are nil when authentication
	// is disabled.
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupFiguresRoutes(engine *gin.Engine, config *FiguresRouteConfig) {
	api := engine.Group(constants.APIPrefix)
	if config.AuthMiddleware != nil {
		api.Use(config.AuthMiddleware.RequireAuth())
		if config.PermissionMiddleware != nil {
			api.Use(config.PermissionMiddleware.RequirePermission())
		}
	}
	api.Use(config.SiteMiddleware.ResolveSite())
	{
		api.GET("/site-daily-metrics", config.MetricsHandler.ListSiteDailyMetrics)
		api.GET("/site-daily-metrics/:id", config.MetricsHandler.GetSiteDailyMetrics)
		api.GET("/course-daily-metrics", config.MetricsHandler.ListCourseDailyMetrics)
		api.GET("/course-daily-metrics/:id", config.MetricsHandler.GetCourseDailyMetrics)

		// /live must come BEFORE any parameterized MAU route
		api.GET("/site-mau-metrics", config.MetricsHandler.ListSiteMauMetrics)
		api.GET("/site-mau-metrics/live", config.MetricsHandler.GetSiteMauLiveMetrics)
		api.GET("/course-mau-metrics", config.MetricsHandler.ListCourseMauMetrics)
		api.GET("/course-mau-metrics/live", config.MetricsHandler.GetCourseMauLiveMetrics)

		api.GET("/courses-general", config.CourseHandler.ListGeneralCourseData)
		api.GET("/courses-general/:course_id", config.CourseHandler.GetGeneralCourseData)
		api.GET("/courses-detailed/:course_id", config.CourseHandler.GetCourseDetails)
		api.GET("/course-enrollments", config.CourseHandler.ListCourseEnrollments)

		api.GET("/user-index", config.UserHandler.ListUserIndex)
		api.GET("/users-general", config.UserHandler.ListGeneralUserData)
		api.GET("/learners-detailed/:id", config.UserHandler.GetLearnerDetails)
	}
}
