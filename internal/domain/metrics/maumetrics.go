package metrics

import (
	"fmt"
	"time"

	"github.com/figures-analytics/figures/internal/shared/biztime"
)

// SiteMauMetrics holds the month-to-date monthly active users of a site as of
// date_for. Unique on (site, date_for); later runs in the same day overwrite mau.
type SiteMauMetrics struct {
	id        uint
	siteID    uint
	dateFor   time.Time
	mau       int
	createdAt time.Time
	updatedAt time.Time
}

func NewSiteMauMetrics(siteID uint, dateFor time.Time, mau int) (*SiteMauMetrics, error) {
	if siteID == 0 {
		return nil, ErrInvalidSite
	}
	date, err := normalizeDate(dateFor)
	if err != nil {
		return nil, err
	}
	if mau < 0 {
		return nil, negativeCount("mau", mau)
	}
	now := biztime.NowUTC()
	return &SiteMauMetrics{siteID: siteID, dateFor: date, mau: mau, createdAt: now, updatedAt: now}, nil
}

func ReconstructSiteMauMetrics(id, siteID uint, dateFor time.Time, mau int, createdAt, updatedAt time.Time) (*SiteMauMetrics, error) {
	if id == 0 {
		return nil, fmt.Errorf("site mau metrics ID cannot be zero")
	}
	m, err := NewSiteMauMetrics(siteID, dateFor, mau)
	if err != nil {
		return nil, err
	}
	m.id, m.createdAt, m.updatedAt = id, createdAt, updatedAt
	return m, nil
}

func (m *SiteMauMetrics) ID() uint             { return m.id }
func (m *SiteMauMetrics) SiteID() uint         { return m.siteID }
func (m *SiteMauMetrics) DateFor() time.Time   { return m.dateFor }
func (m *SiteMauMetrics) MAU() int             { return m.mau }
func (m *SiteMauMetrics) CreatedAt() time.Time { return m.createdAt }
func (m *SiteMauMetrics) UpdatedAt() time.Time { return m.updatedAt }

func (m *SiteMauMetrics) SetID(id uint) {
	m.id = id
}

// CourseMauMetrics holds the month-to-date monthly active users of a course.
// Unique on (site, course_id, date_for).
type CourseMauMetrics struct {
	id        uint
	siteID    uint
	courseID  string
	dateFor   time.Time
	mau       int
	createdAt time.Time
	updatedAt time.Time
}

func NewCourseMauMetrics(siteID uint, courseID string, dateFor time.Time, mau int) (*CourseMauMetrics, error) {
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
	if mau < 0 {
		return nil, negativeCount("mau", mau)
	}
	now := biztime.NowUTC()
	return &CourseMauMetrics{
		siteID:    siteID,
		courseID:  key.String(),
		dateFor:   date,
		mau:       mau,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructCourseMauMetrics(id, siteID uint, courseID string, dateFor time.Time, mau int, createdAt, updatedAt time.Time) (*CourseMauMetrics, error) {
	if id == 0 {
		return nil, fmt.Errorf("course mau metrics ID cannot be zero")
	}
	m, err := NewCourseMauMetrics(siteID, courseID, dateFor, mau)
	if err != nil {
		return nil, err
	}
	m.id, m.createdAt, m.updatedAt = id, createdAt, updatedAt
	return m, nil
}

func (m *CourseMauMetrics) ID() uint             { return m.id }
func (m *CourseMauMetrics) SiteID() uint         { return m.siteID }
func (m *CourseMauMetrics) CourseID() string     { return m.courseID }
func (m *CourseMauMetrics) DateFor() time.Time   { return m.dateFor }
func (m *CourseMauMetrics) MAU() int             { return m.mau }
func (m *CourseMauMetrics) CreatedAt() time.Time { return m.createdAt }
func (m *CourseMauMetrics) UpdatedAt() time.Time { return m.updatedAt }

func (m *CourseMauMetrics) SetID(id uint) {
	m.id = id
}

// SiteMauLiveMetrics is a month-to-date active user count computed on request
// and never stored.
type SiteMauLiveMetrics struct {
	MonthFor time.Time
	Count    int
	Domain   string
}

// CourseMauLiveMetrics is the course level counterpart of SiteMauLiveMetrics.
type CourseMauLiveMetrics struct {
	MonthFor time.Time
	Count    int
	CourseID string
	Domain   string
}
