package metrics

import (
	"context"
	"time"

	"github.com/figures-analytics/figures/internal/shared/query"
)

// SiteDailyMetricsFilter selects site daily records.
type SiteDailyMetricsFilter struct {
	SiteID uint
	Dates  query.DateFilter
	Page   query.PageFilter
}

// CourseDailyMetricsFilter selects course daily records. An empty CourseID
// matches every course of the site.
type CourseDailyMetricsFilter struct {
	SiteID   uint
	CourseID string
	Dates    query.DateFilter
	Page     query.PageFilter
}

// MauMetricsFilter selects site or course MAU records.
type MauMetricsFilter struct {
	SiteID   uint
	CourseID string
	Dates    query.DateFilter
	Page     query.PageFilter
}

// SiteDailyMetricsRepository persists SiteDailyMetrics. Lookups return
// (nil, nil) when nothing matches.
type SiteDailyMetricsRepository interface {
	// Create inserts m and fails with ErrDuplicateMetrics when (site, date_for) exists.
	Create(ctx context.Context, m *SiteDailyMetrics) error
	// GetOrCreate returns the record for the key, creating it from defaults
	// when absent. created reports whether an insert happened.
	GetOrCreate(ctx context.Context, siteID uint, dateFor time.Time, defaults SiteDailyCounts) (m *SiteDailyMetrics, created bool, err error)
	Update(ctx context.Context, m *SiteDailyMetrics) error
	GetByID(ctx context.Context, siteID, id uint) (*SiteDailyMetrics, error)
	GetByKey(ctx context.Context, siteID uint, dateFor time.Time) (*SiteDailyMetrics, error)
	// Latest returns the record with the greatest date_for, optionally not after before.
	Latest(ctx context.Context, siteID uint, before time.Time) (*SiteDailyMetrics, error)
	List(ctx context.Context, filter SiteDailyMetricsFilter) ([]*SiteDailyMetrics, int64, error)
}

// CourseDailyMetricsRepository persists CourseDailyMetrics. Lookups return
// (nil, nil) when nothing matches.
type CourseDailyMetricsRepository interface {
	// Create inserts m and fails with ErrDuplicateMetrics when (site, course_id, date_for) exists.
	Create(ctx context.Context, m *CourseDailyMetrics) error
	GetOrCreate(ctx context.Context, siteID uint, courseID string, dateFor time.Time, defaults CourseDailyCounts) (m *CourseDailyMetrics, created bool, err error)
	Update(ctx context.Context, m *CourseDailyMetrics) error
	GetByID(ctx context.Context, siteID, id uint) (*CourseDailyMetrics, error)
	GetByKey(ctx context.Context, siteID uint, courseID string, dateFor time.Time) (*CourseDailyMetrics, error)
	// Latest returns the course record with the greatest date_for.
	Latest(ctx context.Context, siteID uint, courseID string) (*CourseDailyMetrics, error)
	// LatestForCourses returns the latest record per course, keyed by course id.
	LatestForCourses(ctx context.Context, siteID uint, courseIDs []string) (map[string]*CourseDailyMetrics, error)
	ListForDate(ctx context.Context, siteID uint, dateFor time.Time) ([]*CourseDailyMetrics, error)
	List(ctx context.Context, filter CourseDailyMetricsFilter) ([]*CourseDailyMetrics, int64, error)
}

// MauMetricsRepository persists site and course MAU records with
// update-or-create semantics.
type MauMetricsRepository interface {
	UpsertSite(ctx context.Context, m *SiteMauMetrics) error
	UpsertCourse(ctx context.Context, m *CourseMauMetrics) error
	ListSite(ctx context.Context, filter MauMetricsFilter) ([]*SiteMauMetrics, int64, error)
	ListCourse(ctx context.Context, filter MauMetricsFilter) ([]*CourseMauMetrics, int64, error)
	LatestSite(ctx context.Context, siteID uint) (*SiteMauMetrics, error)
	LatestCourse(ctx context.Context, siteID uint, courseID string) (*CourseMauMetrics, error)
}

// LearnerGradeRepository persists learner grade snapshots.
type LearnerGradeRepository interface {
	GetOrCreate(ctx context.Context, siteID, userID uint, courseID string, dateFor time.Time, defaults GradeCounts) (m *LearnerCourseGradeMetrics, created bool, err error)
	// Latest returns the newest snapshot for the enrollment.
	Latest(ctx context.Context, siteID, userID uint, courseID string) (*LearnerCourseGradeMetrics, error)
	// History returns all snapshots for the enrollment, oldest first.
	History(ctx context.Context, siteID, userID uint, courseID string) ([]*LearnerCourseGradeMetrics, error)
	// LatestForCourse returns, per learner, the newest snapshot dated on or before asOf.
	LatestForCourse(ctx context.Context, siteID uint, courseID string, asOf time.Time) ([]*LearnerCourseGradeMetrics, error)
}
