package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/figures-analytics/figures/internal/application/figures/pipeline"
	"github.com/figures-analytics/figures/internal/application/figures/usecases"
	"github.com/figures-analytics/figures/internal/infrastructure/auth"
	"github.com/figures-analytics/figures/internal/infrastructure/cache"
	"github.com/figures-analytics/figures/internal/infrastructure/config"
	"github.com/figures-analytics/figures/internal/infrastructure/permission"
	"github.com/figures-analytics/figures/internal/infrastructure/scheduler"
	"github.com/figures-analytics/figures/internal/interfaces/http/middleware"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

// Container holds the infrastructure components, repositories, use cases,
// handlers and background services, and wires them together. Shutdown
// releases what it started.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Repositories
	repos *repositories

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers

	// Middlewares
	siteMiddleware       *middleware.SiteMiddleware
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware

	// Auth infrastructure
	jwtSvc   *auth.JWTService
	enforcer *permission.Enforcer

	// Caches
	latestCache cache.LatestMetricsCache

	// Background services
	pipeline         *pipeline.Pipeline
	schedulerManager *scheduler.SchedulerManager
}

// NewContainer creates a Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, Repositories, Caches
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Use cases and the metrics pipeline
	c.initUseCases()
	c.initPipeline()

	// Section 3: Auth - JWT, casbin policies, site resolution
	if err := c.initAuth(); err != nil {
		c.closeRedis()
		return nil, err
	}

	// Section 4: Handlers
	c.initHandlers()

	return c, nil
}

// Pipeline returns the metrics pipeline shared by the scheduler and the CLI.
func (c *Container) Pipeline() *pipeline.Pipeline {
	return c.pipeline
}

// SiteMetricsWriter stores site daily records with get-or-create semantics.
func (c *Container) SiteMetricsWriter() *usecases.GetOrCreateSiteDailyMetricsUseCase {
	return c.ucs.getOrCreateSiteDaily
}

// CourseMetricsWriter stores course daily records with get-or-create semantics.
func (c *Container) CourseMetricsWriter() *usecases.GetOrCreateCourseDailyMetricsUseCase {
	return c.ucs.getOrCreateCourseDaily
}

// StartScheduler registers the daily pipeline job and starts the scheduler.
// It does nothing when the pipeline is disabled in config.
func (c *Container) StartScheduler() error {
	if !c.cfg.Figures.PipelineEnabled {
		c.log.Infow("pipeline scheduler disabled")
		return nil
	}

	manager, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if _, err := manager.RegisterPipelineJob(c.pipeline, c.cfg.Figures.PipelineHour); err != nil {
		return fmt.Errorf("failed to register pipeline job: %w", err)
	}
	manager.Start()
	c.schedulerManager = manager

	c.log.Infow("pipeline scheduler started", "hour", c.cfg.Figures.PipelineHour)
	return nil
}

// Shutdown stops background services and closes the Redis client.
func (c *Container) Shutdown() {
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Warnw("failed to stop scheduler", "error", err)
		}
	}
	c.closeRedis()
}

func (c *Container) closeRedis() {
	if c.redis == nil {
		return
	}
	if err := c.redis.Close(); err != nil {
		c.log.Warnw("failed to close redis client", "error", err)
	}
	c.redis = nil
}
