package metrics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/figures-analytics/figures/internal/shared/biztime"
)

// ProgressPlaces is the number of decimal places kept for average progress.
const ProgressPlaces = 2

var progressMax = decimal.NewFromInt(1)

// CourseDailyCounts are the measured values of a course for one day.
type CourseDailyCounts struct {
	EnrollmentCount       int
	ActiveLearnersToday   int
	AverageProgress       *decimal.Decimal
	AverageDaysToComplete *int
	NumLearnersCompleted  int
}

func (c CourseDailyCounts) validate() error {
	if err := checkCounts(map[string]int{
		"enrollment_count":       c.EnrollmentCount,
		"active_learners_today":  c.ActiveLearnersToday,
		"num_learners_completed": c.NumLearnersCompleted,
	}); err != nil {
		return err
	}
	if err := checkOptionalCounts(map[string]*int{
		"average_days_to_complete": c.AverageDaysToComplete,
	}); err != nil {
		return err
	}
	if p := c.AverageProgress; p != nil && (p.IsNegative() || p.GreaterThan(progressMax)) {
		return fmt.Errorf("%w: %s", ErrInvalidProgress, p.String())
	}
	return nil
}

func (c CourseDailyCounts) normalized() CourseDailyCounts {
	if c.AverageProgress != nil {
		rounded := c.AverageProgress.Round(ProgressPlaces)
		c.AverageProgress = &rounded
	}
	return c
}

// ProgressFromFloat converts a ratio into the stored decimal form.
func ProgressFromFloat(ratio float64) *decimal.Decimal {
	d := decimal.NewFromFloat(ratio).Round(ProgressPlaces)
	return &d
}

// CourseDailyMetrics is the daily summary of a course run.
// Unique on (site, course_id, date_for).
type CourseDailyMetrics struct {
	id        uint
	siteID    uint
	courseID  string
	dateFor   time.Time
	counts    CourseDailyCounts
	createdAt time.Time
	updatedAt time.Time
}

// NewCourseDailyMetrics creates an unsaved record. AverageProgress is rounded
// to ProgressPlaces.
func NewCourseDailyMetrics(siteID uint, courseID string, dateFor time.Time, counts CourseDailyCounts) (*CourseDailyMetrics, error) {
	if siteID == 0 {
		return nil, ErrInvalidSite
	}
	key, err := ParseCourseKey(courseID)
	if err != nil {
		return nil, err
	}
	date, err := normalizeDate(dateFor)
	if err != nil {
		return nil, err
	}
	counts = counts.normalized()
	if err := counts.validate(); err != nil {
		return nil, err
	}

	now := biztime.NowUTC()
	return &CourseDailyMetrics{
		siteID:    siteID,
		courseID:  key.String(),
		dateFor:   date,
		counts:    counts,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructCourseDailyMetrics rebuilds a persisted record.
func ReconstructCourseDailyMetrics(
	id, siteID uint,
	courseID string,
	dateFor time.Time,
	counts CourseDailyCounts,
	createdAt, updatedAt time.Time,
) (*CourseDailyMetrics, error) {
	if id == 0 {
		return nil, fmt.Errorf("course daily metrics ID cannot be zero")
	}
	m, err := NewCourseDailyMetrics(siteID, courseID, dateFor, counts)
	if err != nil {
		return nil, err
	}
	m.id = id
	m.createdAt = createdAt
	m.updatedAt = updatedAt
	return m, nil
}

func (m *CourseDailyMetrics) ID() uint                  { return m.id }
func (m *CourseDailyMetrics) SiteID() uint              { return m.siteID }
func (m *CourseDailyMetrics) CourseID() string          { return m.courseID }
func (m *CourseDailyMetrics) DateFor() time.Time        { return m.dateFor }
func (m *CourseDailyMetrics) Counts() CourseDailyCounts { return m.counts }
func (m *CourseDailyMetrics) CreatedAt() time.Time      { return m.createdAt }
func (m *CourseDailyMetrics) UpdatedAt() time.Time      { return m.updatedAt }

func (m *CourseDailyMetrics) EnrollmentCount() int              { return m.counts.EnrollmentCount }
func (m *CourseDailyMetrics) ActiveLearnersToday() int          { return m.counts.ActiveLearnersToday }
func (m *CourseDailyMetrics) AverageProgress() *decimal.Decimal { return m.counts.AverageProgress }
func (m *CourseDailyMetrics) AverageDaysToComplete() *int       { return m.counts.AverageDaysToComplete }
func (m *CourseDailyMetrics) NumLearnersCompleted() int         { return m.counts.NumLearnersCompleted }

// SetID assigns the persisted ID (only for persistence layer use).
func (m *CourseDailyMetrics) SetID(id uint) error {
	if m.id != 0 {
		return fmt.Errorf("course daily metrics ID already set")
	}
	m.id = id
	return nil
}

// ReplaceCounts overwrites the measured values. Used by forced pipeline runs.
func (m *CourseDailyMetrics) ReplaceCounts(counts CourseDailyCounts) error {
	counts = counts.normalized()
	if err := counts.validate(); err != nil {
		return err
	}
	m.counts = counts
	m.updatedAt = biztime.NowUTC()
	return nil
}
