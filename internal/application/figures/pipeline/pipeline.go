// Package pipeline computes the daily metrics records of a site from the
// platform tables.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/figures-analytics/figures/internal/application/figures/dto"
	"github.com/figures-analytics/figures/internal/application/figures/usecases"
	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/shared/biztime"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

// courseFanout bounds the concurrent per-course reads of one run.
const courseFanout = 4

// Transactor runs fn in one database transaction carried by ctx.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repositories groups the read side the pipeline measures.
type Repositories struct {
	Sites        platform.SiteRepository
	Users        platform.UserRepository
	Courses      platform.CourseRepository
	Enrollments  platform.EnrollmentRepository
	Certificates platform.CertificateRepository
	Activity     platform.ActivityRepository
	Grades       metrics.LearnerGradeRepository
	SiteDaily    metrics.SiteDailyMetricsRepository
	Mau          metrics.MauMetricsRepository
}

// SiteResult summarises one site run.
type SiteResult struct {
	SiteID         uint
	DateFor        time.Time
	SiteCreated    bool
	CoursesCreated int
	Site           *dto.SiteDailyMetricsDTO
	Courses        []*dto.CourseDailyMetricsDTO
}

type Pipeline struct {
	repos         Repositories
	siteMetrics   *usecases.GetOrCreateSiteDailyMetricsUseCase
	courseMetrics *usecases.GetOrCreateCourseDailyMetricsUseCase
	latest        *usecases.LatestMetricsReader
	tx            Transactor
	logger        logger.Interface
}

func NewPipeline(
	repos Repositories,
	siteMetrics *usecases.GetOrCreateSiteDailyMetricsUseCase,
	courseMetrics *usecases.GetOrCreateCourseDailyMetricsUseCase,
	latest *usecases.LatestMetricsReader,
	tx Transactor,
	log logger.Interface,
) *Pipeline {
	return &Pipeline{
		repos:         repos,
		siteMetrics:   siteMetrics,
		courseMetrics: courseMetrics,
		latest:        latest,
		tx:            tx,
		logger:        log.Named("pipeline"),
	}
}

// RunAllSites runs the pipeline for every site. A failing site does not stop
// the others; the first failure is returned after all sites ran.
func (p *Pipeline) RunAllSites(ctx context.Context, date time.Time) error {
	sites, err := p.repos.Sites.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sites: %w", err)
	}

	var firstErr error
	failed := 0
	for _, site := range sites {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := p.RunSite(ctx, site, date, false); err != nil {
			p.logger.Errorw("site pipeline failed", "site_id", site.ID, "domain", site.Domain, "error", err)
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return fmt.Errorf("pipeline failed for %d of %d sites: %w", failed, len(sites), firstErr)
	}
	return nil
}

// RunSite computes and stores the metrics of one site for date. Existing
// records are kept unless force is set.
func (p *Pipeline) RunSite(ctx context.Context, site *platform.Site, date time.Time, force bool) (*SiteResult, error) {
	date = biztime.Date(date.Year(), date.Month(), date.Day())
	log := p.logger.With("site_id", site.ID, "date_for", biztime.FormatDate(date))
	started := time.Now()

	courseIDs, err := p.repos.Courses.ListIDs(ctx, site.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	courseCounts, err := p.measureCourses(ctx, site.ID, courseIDs, date)
	if err != nil {
		return nil, err
	}
	siteCounts, err := p.measureSite(ctx, site.ID, date)
	if err != nil {
		return nil, err
	}
	siteCounts.CourseCount = len(courseIDs)
	courseMau, err := p.measureCourseMau(ctx, site.ID, courseIDs, date)
	if err != nil {
		return nil, err
	}

	result := &SiteResult{SiteID: site.ID, DateFor: date, Courses: make([]*dto.CourseDailyMetricsDTO, 0, len(courseIDs))}
	err = p.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		for i, courseID := range courseIDs {
			res, err := p.courseMetrics.Execute(txCtx, usecases.CourseDailyMetricsCommand{
				SiteID:   site.ID,
				CourseID: courseID,
				DateFor:  date,
				Counts:   courseCounts[i],
				Force:    force,
			})
			if err != nil {
				return fmt.Errorf("course %s: %w", courseID, err)
			}
			if res.Created {
				result.CoursesCreated++
			}
			siteCounts.TotalEnrollmentCount += res.Metrics.EnrollmentCount
			result.Courses = append(result.Courses, res.Metrics)
		}

		res, err := p.siteMetrics.Execute(txCtx, usecases.SiteDailyMetricsCommand{
			SiteID:  site.ID,
			DateFor: date,
			Counts:  siteCounts,
			Force:   force,
		})
		if err != nil {
			return fmt.Errorf("site: %w", err)
		}
		result.SiteCreated = res.Created
		result.Site = res.Metrics

		return p.storeMau(txCtx, site.ID, date, *siteCounts.MAU, courseIDs, courseMau)
	})
	if err != nil {
		return nil, err
	}

	p.latest.Invalidate(ctx, site.ID, courseIDs...)
	log.Infow("site pipeline finished",
		"courses", len(courseIDs),
		"courses_created", result.CoursesCreated,
		"site_created", result.SiteCreated,
		"duration", time.Since(started),
	)
	return result, nil
}

func (p *Pipeline) measureCourses(ctx context.Context, siteID uint, courseIDs []string, date time.Time) ([]metrics.CourseDailyCounts, error) {
	counts := make([]metrics.CourseDailyCounts, len(courseIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(courseFanout)
	for i, courseID := range courseIDs {
		g.Go(func() error {
			c, err := p.measureCourse(gctx, siteID, courseID, date)
			if err != nil {
				return fmt.Errorf("failed to measure course %s: %w", courseID, err)
			}
			counts[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (p *Pipeline) measureCourse(ctx context.Context, siteID uint, courseID string, date time.Time) (metrics.CourseDailyCounts, error) {
	var c metrics.CourseDailyCounts
	start, end := biztime.DayBoundsUTC(date)

	enrollments, err := p.repos.Enrollments.ActiveForCourse(ctx, courseID, end)
	if err != nil {
		return c, err
	}
	c.EnrollmentCount = len(enrollments)

	active, err := p.repos.Activity.CountActiveUsers(ctx, siteID, start, end, courseID)
	if err != nil {
		return c, err
	}
	c.ActiveLearnersToday = int(active)

	grades, err := p.repos.Grades.LatestForCourse(ctx, siteID, courseID, date)
	if err != nil {
		return c, err
	}
	c.AverageProgress = averageProgress(enrollments, grades)

	certs, err := p.repos.Certificates.ListForCourse(ctx, courseID, end)
	if err != nil {
		return c, err
	}
	c.NumLearnersCompleted = len(certs)
	c.AverageDaysToComplete = averageDaysToComplete(enrollments, certs)

	return c, nil
}

func (p *Pipeline) measureSite(ctx context.Context, siteID uint, date time.Time) (metrics.SiteDailyCounts, error) {
	var c metrics.SiteDailyCounts
	start, end := biztime.DayBoundsUTC(date)

	today, err := p.repos.Activity.CountActiveUsers(ctx, siteID, start, end, "")
	if err != nil {
		return c, fmt.Errorf("failed to count active users: %w", err)
	}
	todays := int(today)
	c.TodaysActiveUserCount = &todays

	prev, err := p.repos.SiteDaily.Latest(ctx, siteID, date.AddDate(0, 0, -1))
	if err != nil {
		return c, fmt.Errorf("failed to load previous site metrics: %w", err)
	}
	cumulative := todays
	if prev != nil && prev.CumulativeActiveUserCount() != nil {
		cumulative += *prev.CumulativeActiveUserCount()
	}
	c.CumulativeActiveUserCount = &cumulative

	users, err := p.repos.Users.CountJoinedBefore(ctx, siteID, end)
	if err != nil {
		return c, fmt.Errorf("failed to count users: %w", err)
	}
	c.TotalUserCount = int(users)

	from, to := biztime.MonthToDateBoundsUTC(date)
	mau, err := p.repos.Activity.CountActiveUsers(ctx, siteID, from, to, "")
	if err != nil {
		return c, fmt.Errorf("failed to count monthly active users: %w", err)
	}
	m := int(mau)
	c.MAU = &m

	return c, nil
}

// measureCourseMau counts month-to-date active learners per course.
func (p *Pipeline) measureCourseMau(ctx context.Context, siteID uint, courseIDs []string, date time.Time) ([]int, error) {
	from, to := biztime.MonthToDateBoundsUTC(date)
	counts := make([]int, len(courseIDs))
	for i, courseID := range courseIDs {
		n, err := p.repos.Activity.CountActiveUsers(ctx, siteID, from, to, courseID)
		if err != nil {
			return nil, fmt.Errorf("failed to count course mau %s: %w", courseID, err)
		}
		counts[i] = int(n)
	}
	return counts, nil
}

func (p *Pipeline) storeMau(ctx context.Context, siteID uint, date time.Time, siteCount int, courseIDs []string, courseCounts []int) error {
	siteMau, err := metrics.NewSiteMauMetrics(siteID, date, siteCount)
	if err != nil {
		return err
	}
	if err := p.repos.Mau.UpsertSite(ctx, siteMau); err != nil {
		return fmt.Errorf("failed to store site mau: %w", err)
	}

	for i, courseID := range courseIDs {
		courseMau, err := metrics.NewCourseMauMetrics(siteID, courseID, date, courseCounts[i])
		if err != nil {
			return err
		}
		if err := p.repos.Mau.UpsertCourse(ctx, courseMau); err != nil {
			return fmt.Errorf("failed to store course mau %s: %w", courseID, err)
		}
	}
	return nil
}
