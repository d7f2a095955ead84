package usecases

import (
	"context"
	"time"

	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/infrastructure/cache"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

// LatestMetricsReader resolves the newest daily record of a site or course,
// reading through the cache. Cache failures fall back to the repository.
type LatestMetricsReader struct {
	siteRepo   metrics.SiteDailyMetricsRepository
	courseRepo metrics.CourseDailyMetricsRepository
	cache      cache.LatestMetricsCache
	logger     logger.Interface
}

func NewLatestMetricsReader(
	siteRepo metrics.SiteDailyMetricsRepository,
	courseRepo metrics.CourseDailyMetricsRepository,
	latestCache cache.LatestMetricsCache,
	logger logger.Interface,
) *LatestMetricsReader {
	if latestCache == nil {
		latestCache = cache.NoopLatestMetricsCache{}
	}
	return &LatestMetricsReader{
		siteRepo:   siteRepo,
		courseRepo: courseRepo,
		cache:      latestCache,
		logger:     logger,
	}
}

func (r *LatestMetricsReader) Site(ctx context.Context, siteID uint) (*metrics.SiteDailyMetrics, error) {
	m, found, err := r.cache.GetSite(ctx, siteID)
	if err != nil {
		r.logger.Warnw("latest site metrics cache read failed", "site_id", siteID, "error", err)
	} else if found {
		return m, nil
	}

	m, err = r.siteRepo.Latest(ctx, siteID, time.Time{})
	if err != nil {
		return nil, err
	}
	if err := r.cache.SetSite(ctx, siteID, m); err != nil {
		r.logger.Warnw("latest site metrics cache write failed", "site_id", siteID, "error", err)
	}
	return m, nil
}

func (r *LatestMetricsReader) Course(ctx context.Context, siteID uint, courseID string) (*metrics.CourseDailyMetrics, error) {
	m, found, err := r.cache.GetCourse(ctx, siteID, courseID)
	if err != nil {
		r.logger.Warnw("latest course metrics cache read failed", "site_id", siteID, "course_id", courseID, "error", err)
	} else if found {
		return m, nil
	}

	m, err = r.courseRepo.Latest(ctx, siteID, courseID)
	if err != nil {
		return nil, err
	}
	if err := r.cache.SetCourse(ctx, siteID, courseID, m); err != nil {
		r.logger.Warnw("latest course metrics cache write failed", "site_id", siteID, "course_id", courseID, "error", err)
	}
	return m, nil
}

// Courses returns the latest record per course. Courses without records are
// absent from the map. Cache misses are loaded with one query.
func (r *LatestMetricsReader) Courses(ctx context.Context, siteID uint, courseIDs []string) (map[string]*metrics.CourseDailyMetrics, error) {
	result := make(map[string]*metrics.CourseDailyMetrics, len(courseIDs))
	misses := make([]string, 0, len(courseIDs))

	for _, courseID := range courseIDs {
		m, found, err := r.cache.GetCourse(ctx, siteID, courseID)
		if err != nil || !found {
			misses = append(misses, courseID)
			continue
		}
		if m != nil {
			result[courseID] = m
		}
	}
	if len(misses) == 0 {
		return result, nil
	}

	loaded, err := r.courseRepo.LatestForCourses(ctx, siteID, misses)
	if err != nil {
		return nil, err
	}
	for _, courseID := range misses {
		m := loaded[courseID]
		if m != nil {
			result[courseID] = m
		}
		if err := r.cache.SetCourse(ctx, siteID, courseID, m); err != nil {
			r.logger.Warnw("latest course metrics cache write failed", "site_id", siteID, "course_id", courseID, "error", err)
		}
	}
	return result, nil
}

// Invalidate drops cached entries after the pipeline wrote new records.
func (r *LatestMetricsReader) Invalidate(ctx context.Context, siteID uint, courseIDs ...string) {
	if err := r.cache.Invalidate(ctx, siteID, courseIDs...); err != nil {
		r.logger.Warnw("latest metrics cache invalidation failed", "site_id", siteID, "error", err)
	}
}
