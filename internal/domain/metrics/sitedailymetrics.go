package metrics

import (
	"fmt"
	"time"

	"github.com/figures-analytics/figures/internal/shared/biztime"
)

// SiteDailyCounts are the measured values of a site for one day. They are the
// defaults applied when a record is created through get-or-create.
type SiteDailyCounts struct {
	CumulativeActiveUserCount *int
	TodaysActiveUserCount     *int
	TotalUserCount            int
	CourseCount               int
	TotalEnrollmentCount      int
	MAU                       *int
}

func (c SiteDailyCounts) validate() error {
	if err := checkCounts(map[string]int{
		"total_user_count":       c.TotalUserCount,
		"course_count":           c.CourseCount,
		"total_enrollment_count": c.TotalEnrollmentCount,
	}); err != nil {
		return err
	}
	return checkOptionalCounts(map[string]*int{
		"cumulative_active_user_count": c.CumulativeActiveUserCount,
		"todays_active_user_count":     c.TodaysActiveUserCount,
		"mau":                          c.MAU,
	})
}

// SiteDailyMetrics is the daily summary of a site. Unique on (site, date_for).
type SiteDailyMetrics struct {
	id        uint
	siteID    uint
	dateFor   time.Time
	counts    SiteDailyCounts
	createdAt time.Time
	updatedAt time.Time
}

// NewSiteDailyMetrics creates an unsaved record.
func NewSiteDailyMetrics(siteID uint, dateFor time.Time, counts SiteDailyCounts) (*SiteDailyMetrics, error) {
	if siteID == 0 {
		return nil, ErrInvalidSite
	}
	date, err := normalizeDate(dateFor)
	if err != nil {
		return nil, err
	}
	if err := counts.validate(); err != nil {
		return nil, err
	}

	now := biztime.NowUTC()
	return &SiteDailyMetrics{
		siteID:    siteID,
		dateFor:   date,
		counts:    counts,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructSiteDailyMetrics rebuilds a persisted record.
func ReconstructSiteDailyMetrics(
	id, siteID uint,
	dateFor time.Time,
	counts SiteDailyCounts,
	createdAt, updatedAt time.Time,
) (*SiteDailyMetrics, error) {
	if id == 0 {
		return nil, fmt.Errorf("site daily metrics ID cannot be zero")
	}
	m, err := NewSiteDailyMetrics(siteID, dateFor, counts)
	if err != nil {
		return nil, err
	}
	m.id = id
	m.createdAt = createdAt
	m.updatedAt = updatedAt
	return m, nil
}

func (m *SiteDailyMetrics) ID() uint                { return m.id }
func (m *SiteDailyMetrics) SiteID() uint            { return m.siteID }
func (m *SiteDailyMetrics) DateFor() time.Time      { return m.dateFor }
func (m *SiteDailyMetrics) Counts() SiteDailyCounts { return m.counts }
func (m *SiteDailyMetrics) CreatedAt() time.Time    { return m.createdAt }
func (m *SiteDailyMetrics) UpdatedAt() time.Time    { return m.updatedAt }

func (m *SiteDailyMetrics) CumulativeActiveUserCount() *int {
	return m.counts.CumulativeActiveUserCount
}
func (m *SiteDailyMetrics) TodaysActiveUserCount() *int { return m.counts.TodaysActiveUserCount }
func (m *SiteDailyMetrics) TotalUserCount() int         { return m.counts.TotalUserCount }
func (m *SiteDailyMetrics) CourseCount() int            { return m.counts.CourseCount }
func (m *SiteDailyMetrics) TotalEnrollmentCount() int   { return m.counts.TotalEnrollmentCount }
func (m *SiteDailyMetrics) MAU() *int                   { return m.counts.MAU }

// SetID assigns the persisted ID (only for persistence layer use).
func (m *SiteDailyMetrics) SetID(id uint) error {
	if m.id != 0 {
		return fmt.Errorf("site daily metrics ID already set")
	}
	m.id = id
	return nil
}

// ReplaceCounts overwrites the measured values. Used by forced pipeline runs.
func (m *SiteDailyMetrics) ReplaceCounts(counts SiteDailyCounts) error {
	if err := counts.validate(); err != nil {
		return err
	}
	m.counts = counts
	m.updatedAt = biztime.NowUTC()
	return nil
}
