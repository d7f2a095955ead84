package http

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/figures-analytics/figures/internal/application/figures/pipeline"
	"github.com/figures-analytics/figures/internal/application/figures/usecases"
	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/infrastructure/auth"
	"github.com/figures-analytics/figures/internal/infrastructure/cache"
	"github.com/figures-analytics/figures/internal/infrastructure/config"
	"github.com/figures-analytics/figures/internal/infrastructure/permission"
	"github.com/figures-analytics/figures/internal/infrastructure/repository"
	figureshandlers "github.com/figures-analytics/figures/internal/interfaces/http/handlers/figures"
	"github.com/figures-analytics/figures/internal/interfaces/http/middleware"
	"github.com/figures-analytics/figures/internal/shared/db"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

const defaultLatestCacheTTL = 10 * time.Minute

// repositories holds all repository instances used by the application.
type repositories struct {
	siteRepo        platform.SiteRepository
	userRepo        platform.UserRepository
	courseRepo      platform.CourseRepository
	enrollmentRepo  platform.EnrollmentRepository
	accessRoleRepo  platform.AccessRoleRepository
	certificateRepo platform.CertificateRepository
	activityRepo    platform.ActivityRepository
	siteDailyRepo   metrics.SiteDailyMetricsRepository
	courseDailyRepo metrics.CourseDailyMetricsRepository
	mauRepo         metrics.MauMetricsRepository
	gradeRepo       metrics.LearnerGradeRepository
}

type allUseCases struct {
	latest                 *usecases.LatestMetricsReader
	getOrCreateSiteDaily   *usecases.GetOrCreateSiteDailyMetricsUseCase
	getOrCreateCourseDaily *usecases.GetOrCreateCourseDailyMetricsUseCase

	listSiteDaily   *usecases.ListSiteDailyMetricsUseCase
	getSiteDaily    *usecases.GetSiteDailyMetricsUseCase
	listCourseDaily *usecases.ListCourseDailyMetricsUseCase
	getCourseDaily  *usecases.GetCourseDailyMetricsUseCase
	listSiteMau     *usecases.ListSiteMauMetricsUseCase
	listCourseMau   *usecases.ListCourseMauMetricsUseCase
	siteMauLive     *usecases.GetSiteMauLiveMetricsUseCase
	courseMauLive   *usecases.GetCourseMauLiveMetricsUseCase

	listGeneralCourses *usecases.ListGeneralCourseDataUseCase
	getGeneralCourse   *usecases.GetGeneralCourseDataUseCase
	getCourseDetails   *usecases.GetCourseDetailsUseCase
	listEnrollments    *usecases.ListCourseEnrollmentsUseCase

	listUserIndex   *usecases.ListUserIndexUseCase
	listGeneralUser *usecases.ListGeneralUserDataUseCase
	getLearner      *usecases.GetLearnerDetailsUseCase
}

type allHandlers struct {
	metricsHandler *figureshandlers.MetricsHandler
	courseHandler  *figureshandlers.CourseHandler
	userHandler    *figureshandlers.UserHandler
}

// ============================================================
// Section 1: Infrastructure - Redis, Repositories, Caches
// ============================================================

func (c *Container) initInfrastructure() error {
	c.repos = newRepositories(c.db, c.log)

	c.latestCache = cache.NoopLatestMetricsCache{}
	if !c.cfg.Redis.Enabled {
		c.log.Infow("redis disabled, latest metrics are read from the database")
		return nil
	}

	client, err := initRedis(c.cfg, c.log)
	if err != nil {
		return err
	}
	c.redis = client

	ttl := time.Duration(c.cfg.Redis.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultLatestCacheTTL
	}
	c.latestCache = cache.NewRedisLatestMetricsCache(client, ttl, c.log.Named("cache"))
	return nil
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.GetAddr(), err)
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())

	return redisClient, nil
}

func newRepositories(gdb *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		siteRepo:        repository.NewSiteRepository(gdb, log),
		userRepo:        repository.NewUserRepository(gdb, log),
		courseRepo:      repository.NewCourseRepository(gdb, log),
		enrollmentRepo:  repository.NewEnrollmentRepository(gdb, log),
		accessRoleRepo:  repository.NewAccessRoleRepository(gdb, log),
		certificateRepo: repository.NewCertificateRepository(gdb, log),
		activityRepo:    repository.NewActivityRepository(gdb, log),
		siteDailyRepo:   repository.NewSiteDailyMetricsRepository(gdb, log),
		courseDailyRepo: repository.NewCourseDailyMetricsRepository(gdb, log),
		mauRepo:         repository.NewMauMetricsRepository(gdb, log),
		gradeRepo:       repository.NewLearnerGradeRepository(gdb, log),
	}
}

// ============================================================
// Section 2: Use cases and the metrics pipeline
// ============================================================

func (c *Container) initUseCases() {
	r := c.repos
	log := c.log

	latest := usecases.NewLatestMetricsReader(r.siteDailyRepo, r.courseDailyRepo, c.latestCache, log)

	c.ucs = &allUseCases{
		latest:                 latest,
		getOrCreateSiteDaily:   usecases.NewGetOrCreateSiteDailyMetricsUseCase(r.siteDailyRepo, log),
		getOrCreateCourseDaily: usecases.NewGetOrCreateCourseDailyMetricsUseCase(r.courseDailyRepo, log),

		listSiteDaily:   usecases.NewListSiteDailyMetricsUseCase(r.siteDailyRepo, log),
		getSiteDaily:    usecases.NewGetSiteDailyMetricsUseCase(r.siteDailyRepo, log),
		listCourseDaily: usecases.NewListCourseDailyMetricsUseCase(r.courseDailyRepo, log),
		getCourseDaily:  usecases.NewGetCourseDailyMetricsUseCase(r.courseDailyRepo, log),
		listSiteMau:     usecases.NewListSiteMauMetricsUseCase(r.mauRepo, log),
		listCourseMau:   usecases.NewListCourseMauMetricsUseCase(r.mauRepo, log),
		siteMauLive:     usecases.NewGetSiteMauLiveMetricsUseCase(r.activityRepo, log),
		courseMauLive:   usecases.NewGetCourseMauLiveMetricsUseCase(r.activityRepo, r.courseRepo, log),

		listGeneralCourses: usecases.NewListGeneralCourseDataUseCase(r.courseRepo, r.accessRoleRepo, latest, log),
		getGeneralCourse:   usecases.NewGetGeneralCourseDataUseCase(r.courseRepo, r.accessRoleRepo, latest, log),
		getCourseDetails:   usecases.NewGetCourseDetailsUseCase(r.courseRepo, r.accessRoleRepo, latest, log),
		listEnrollments:    usecases.NewListCourseEnrollmentsUseCase(r.enrollmentRepo, log),

		listUserIndex:   usecases.NewListUserIndexUseCase(r.userRepo, log),
		listGeneralUser: usecases.NewListGeneralUserDataUseCase(r.userRepo, r.enrollmentRepo, log),
		getLearner: usecases.NewGetLearnerDetailsUseCase(
			r.userRepo,
			r.enrollmentRepo,
			r.certificateRepo,
			r.gradeRepo,
			c.cfg.Figures.ProfileImageURL,
			log,
		),
	}
}

func (c *Container) initPipeline() {
	r := c.repos
	c.pipeline = pipeline.NewPipeline(
		pipeline.Repositories{
			Sites:        r.siteRepo,
			Users:        r.userRepo,
			Courses:      r.courseRepo,
			Enrollments:  r.enrollmentRepo,
			Certificates: r.certificateRepo,
			Activity:     r.activityRepo,
			Grades:       r.gradeRepo,
			SiteDaily:    r.siteDailyRepo,
			Mau:          r.mauRepo,
		},
		c.ucs.getOrCreateSiteDaily,
		c.ucs.getOrCreateCourseDaily,
		c.ucs.latest,
		db.NewTransactionManager(c.db),
		c.log,
	)
}

// ============================================================
// Section 3: Auth - JWT, casbin policies, site resolution
// ============================================================

func (c *Container) initAuth() error {
	cfg := c.cfg
	log := c.log

	c.siteMiddleware = middleware.NewSiteMiddleware(
		c.repos.siteRepo,
		cfg.Figures.DefaultSiteDomain,
		cfg.Figures.Multisite,
		log,
	)

	if !cfg.Auth.Enabled {
		log.Warnw("authentication disabled, the metrics API is readable without a token")
		return nil
	}
	if cfg.Auth.JWT.Secret == "" {
		return fmt.Errorf("auth.jwt.secret is required when auth is enabled")
	}

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer, cfg.Auth.JWT.AccessExpMinutes)

	enforcer, err := permission.NewEnforcer(c.db, log.Named("permission"))
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	if err := enforcer.InitMetricsPolicies(); err != nil {
		return err
	}
	c.enforcer = enforcer

	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(enforcer, log)
	return nil
}

// ============================================================
// Section 4: Handlers
// ============================================================

func (c *Container) initHandlers() {
	u := c.ucs
	log := c.log.Named("http")

	c.hdlrs = &allHandlers{
		metricsHandler: figureshandlers.NewMetricsHandler(
			u.listSiteDaily,
			u.getSiteDaily,
			u.listCourseDaily,
			u.getCourseDaily,
			u.listSiteMau,
			u.listCourseMau,
			u.siteMauLive,
			u.courseMauLive,
			log,
		),
		courseHandler: figureshandlers.NewCourseHandler(
			u.listGeneralCourses,
			u.getGeneralCourse,
			u.getCourseDetails,
			u.listEnrollments,
			log,
		),
		userHandler: figureshandlers.NewUserHandler(
			u.listUserIndex,
			u.listGeneralUser,
			u.getLearner,
			log,
		),
	}
}
