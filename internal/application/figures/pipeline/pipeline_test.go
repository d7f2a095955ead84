package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/figures-analytics/figures/internal/application/figures/usecases"
	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/models"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/seeds"
	"github.com/figures-analytics/figures/internal/infrastructure/repository"
	"github.com/figures-analytics/figures/internal/shared/biztime"
	"github.com/figures-analytics/figures/internal/shared/db"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

const (
	demoCourse  = "course-v1:edX+DemoX+2018"
	introCourse = "course-v1:edX+Intro+2018"
)

const platformFixtures = `
sites:
  - id: 1
    domain: example.com
    name: Example
users:
  - {id: 10, site_id: 1, username: alpha, email: alpha@example.com, date_joined: 2018-01-01}
  - {id: 11, site_id: 1, username: beta, email: beta@example.com, date_joined: 2018-01-02}
  - {id: 12, site_id: 1, username: gamma, email: gamma@example.com, date_joined: 2018-03-01}
courses:
  - {id: "course-v1:edX+DemoX+2018", site_id: 1, display_name: Demo, number: DemoX, org: edX}
  - {id: "course-v1:edX+Intro+2018", site_id: 1, display_name: Intro, number: Intro, org: edX}
enrollments:
  - {id: 100, user_id: 10, course_id: "course-v1:edX+DemoX+2018", created: 2018-01-03}
  - {id: 101, user_id: 11, course_id: "course-v1:edX+DemoX+2018", created: 2018-01-03}
  - {id: 102, user_id: 11, course_id: "course-v1:edX+Intro+2018", created: 2018-02-10}
certificates:
  - {id: 1, user_id: 10, course_id: "course-v1:edX+DemoX+2018", created_date: 2018-02-01, status: downloadable}
activity:
  - {id: 1, user_id: 10, course_id: "course-v1:edX+DemoX+2018", modified: "2018-02-05T12:00:00Z"}
  - {id: 2, user_id: 11, course_id: "course-v1:edX+DemoX+2018", modified: "2018-02-02T09:00:00Z"}
  - {id: 3, user_id: 11, course_id: "course-v1:edX+DemoX+2018", modified: "2018-01-20T09:00:00Z"}
  - {id: 4, user_id: 11, course_id: "course-v1:edX+DemoX+2018", modified: "2018-02-06T09:00:00Z"}
`

type harness struct {
	db       *gorm.DB
	pipeline *Pipeline
	site     *platform.Site
	repos    Repositories
	courses  metrics.CourseDailyMetricsRepository
}

func setup(t *testing.T) *harness {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(models.MetricsModels()...))
	require.NoError(t, gdb.AutoMigrate(models.PlatformModels()...))

	log := logger.NewNop()
	ctx := context.Background()

	fixtures, err := seeds.ParseFixtures([]byte(platformFixtures))
	require.NoError(t, err)
	_, err = seeds.SeedPlatform(ctx, gdb, fixtures, log)
	require.NoError(t, err)

	repos := Repositories{
		Sites:        repository.NewSiteRepository(gdb, log),
		Users:        repository.NewUserRepository(gdb, log),
		Courses:      repository.NewCourseRepository(gdb, log),
		Enrollments:  repository.NewEnrollmentRepository(gdb, log),
		Certificates: repository.NewCertificateRepository(gdb, log),
		Activity:     repository.NewActivityRepository(gdb, log),
		Grades:       repository.NewLearnerGradeRepository(gdb, log),
		SiteDaily:    repository.NewSiteDailyMetricsRepository(gdb, log),
		Mau:          repository.NewMauMetricsRepository(gdb, log),
	}
	courseDaily := repository.NewCourseDailyMetricsRepository(gdb, log)

	grade := func(userID uint, date time.Time, worked, possible int) {
		_, _, err := repos.Grades.GetOrCreate(ctx, 1, userID, demoCourse, date, metrics.GradeCounts{
			SectionsWorked: worked, SectionsPossible: possible,
		})
		require.NoError(t, err)
	}
	grade(10, biztime.Date(2018, time.February, 4), 4, 4)
	grade(11, biztime.Date(2018, time.February, 1), 2, 4)
	// after the measured day, must be ignored
	grade(11, biztime.Date(2018, time.February, 9), 4, 4)

	site, err := repos.Sites.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, site)

	p := NewPipeline(
		repos,
		usecases.NewGetOrCreateSiteDailyMetricsUseCase(repos.SiteDaily, log),
		usecases.NewGetOrCreateCourseDailyMetricsUseCase(courseDaily, log),
		usecases.NewLatestMetricsReader(repos.SiteDaily, courseDaily, nil, log),
		db.NewTransactionManager(gdb),
		log,
	)
	return &harness{db: gdb, pipeline: p, site: site, repos: repos, courses: courseDaily}
}

func TestRunSite_ComputesDailyMetrics(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	date := biztime.Date(2018, time.February, 5)

	result, err := h.pipeline.RunSite(ctx, h.site, date, false)
	require.NoError(t, err)

	assert.True(t, result.SiteCreated)
	assert.Equal(t, 2, result.CoursesCreated)

	demo, err := h.courses.GetByKey(ctx, 1, demoCourse, date)
	require.NoError(t, err)
	require.NotNil(t, demo)
	assert.Equal(t, 2, demo.EnrollmentCount())
	assert.Equal(t, 1, demo.ActiveLearnersToday())
	require.NotNil(t, demo.AverageProgress())
	assert.Equal(t, "0.75", demo.AverageProgress().StringFixed(2))
	assert.Equal(t, 1, demo.NumLearnersCompleted())
	require.NotNil(t, demo.AverageDaysToComplete())
	assert.Equal(t, 29, *demo.AverageDaysToComplete())

	intro, err := h.courses.GetByKey(ctx, 1, introCourse, date)
	require.NoError(t, err)
	require.NotNil(t, intro)
	assert.Zero(t, intro.EnrollmentCount())
	assert.Nil(t, intro.AverageProgress())
	assert.Nil(t, intro.AverageDaysToComplete())

	site, err := h.repos.SiteDaily.GetByKey(ctx, 1, date)
	require.NoError(t, err)
	require.NotNil(t, site)
	assert.Equal(t, 1, *site.TodaysActiveUserCount())
	assert.Equal(t, 1, *site.CumulativeActiveUserCount())
	assert.Equal(t, 2, site.TotalUserCount())
	assert.Equal(t, 2, site.CourseCount())
	assert.Equal(t, 2, site.TotalEnrollmentCount())
	assert.Equal(t, 2, *site.MAU())

	siteMau, err := h.repos.Mau.LatestSite(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, siteMau)
	assert.Equal(t, 2, siteMau.MAU())

	courseMau, err := h.repos.Mau.LatestCourse(ctx, 1, introCourse)
	require.NoError(t, err)
	require.NotNil(t, courseMau)
	assert.Zero(t, courseMau.MAU())
}

func TestRunSite_KeepsExistingUnlessForced(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	date := biztime.Date(2018, time.February, 5)

	_, err := h.pipeline.RunSite(ctx, h.site, date, false)
	require.NoError(t, err)

	require.NoError(t, h.db.Model(&models.CourseEnrollmentModel{}).
		Where("id = ?", 102).
		Update("created", time.Date(2018, time.February, 4, 0, 0, 0, 0, time.UTC)).Error)

	again, err := h.pipeline.RunSite(ctx, h.site, date, false)
	require.NoError(t, err)
	assert.False(t, again.SiteCreated)
	assert.Zero(t, again.CoursesCreated)
	intro, err := h.courses.GetByKey(ctx, 1, introCourse, date)
	require.NoError(t, err)
	assert.Zero(t, intro.EnrollmentCount())

	forced, err := h.pipeline.RunSite(ctx, h.site, date, true)
	require.NoError(t, err)
	assert.False(t, forced.SiteCreated)
	intro, err = h.courses.GetByKey(ctx, 1, introCourse, date)
	require.NoError(t, err)
	assert.Equal(t, 1, intro.EnrollmentCount())
	assert.Equal(t, 3, forced.Site.TotalEnrollmentCount)
}

func TestRunAllSites_AccumulatesActiveUsers(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	require.NoError(t, h.pipeline.RunAllSites(ctx, biztime.Date(2018, time.February, 5)))
	require.NoError(t, h.pipeline.RunAllSites(ctx, biztime.Date(2018, time.February, 6)))

	next, err := h.repos.SiteDaily.GetByKey(ctx, 1, biztime.Date(2018, time.February, 6))
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, 1, *next.TodaysActiveUserCount())
	assert.Equal(t, 2, *next.CumulativeActiveUserCount())
}

func TestAverageDaysToComplete(t *testing.T) {
	enrolled := []*platform.CourseEnrollment{
		{UserID: 1, Created: biztime.Date(2024, time.January, 1)},
		{UserID: 2, Created: biztime.Date(2024, time.January, 10)},
	}
	certs := []*platform.GeneratedCertificate{
		{UserID: 1, CreatedDate: biztime.Date(2024, time.January, 11)},
		{UserID: 2, CreatedDate: biztime.Date(2024, time.January, 15)},
		{UserID: 3, CreatedDate: biztime.Date(2024, time.January, 15)},
	}

	got := averageDaysToComplete(enrolled, certs)
	require.NotNil(t, got)
	assert.Equal(t, 8, *got)
	assert.Nil(t, averageDaysToComplete(enrolled, nil))
	assert.Nil(t, averageProgress(nil, nil))
}
