package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/figures-analytics/figures/internal/shared/biztime"
)

// GradeCounts is a learner's grade snapshot for one course on one day.
type GradeCounts struct {
	PointsPossible   float64
	PointsEarned     float64
	SectionsWorked   int
	SectionsPossible int
}

func (g GradeCounts) validate() error {
	if g.PointsPossible < 0 || g.PointsEarned < 0 {
		return fmt.Errorf("%w: points", ErrNegativeCount)
	}
	return checkCounts(map[string]int{
		"sections_worked":   g.SectionsWorked,
		"sections_possible": g.SectionsPossible,
	})
}

// LearnerCourseGradeMetrics records a learner's progress in a course.
// Unique on (site, user, course_id, date_for).
type LearnerCourseGradeMetrics struct {
	id        uint
	siteID    uint
	userID    uint
	courseID  string
	dateFor   time.Time
	grades    GradeCounts
	createdAt time.Time
	updatedAt time.Time
}

func NewLearnerCourseGradeMetrics(siteID, userID uint, courseID string, dateFor time.Time, grades GradeCounts) (*LearnerCourseGradeMetrics, error) {
	if siteID == 0 {
		return nil, ErrInvalidSite
	}
	if userID == 0 {
		return nil, fmt.Errorf("user is required")
	}
	key, err := ParseCourseKey(courseID)
	if err != nil {
		return nil, err
	}
	date, err := normalizeDate(dateFor)
	if err != nil {
		return nil, err
	}
	if err := grades.validate(); err != nil {
		return nil, err
	}

	now := biztime.NowUTC()
	return &LearnerCourseGradeMetrics{
		siteID:    siteID,
		userID:    userID,
		courseID:  key.String(),
		dateFor:   date,
		grades:    grades,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructLearnerCourseGradeMetrics(
	id, siteID, userID uint,
	courseID string,
	dateFor time.Time,
	grades GradeCounts,
	createdAt, updatedAt time.Time,
) (*LearnerCourseGradeMetrics, error) {
	if id == 0 {
		return nil, fmt.Errorf("learner course grade metrics ID cannot be zero")
	}
	m, err := NewLearnerCourseGradeMetrics(siteID, userID, courseID, dateFor, grades)
	if err != nil {
		return nil, err
	}
	m.id, m.createdAt, m.updatedAt = id, createdAt, updatedAt
	return m, nil
}

func (m *LearnerCourseGradeMetrics) ID() uint             { return m.id }
func (m *LearnerCourseGradeMetrics) SiteID() uint         { return m.siteID }
func (m *LearnerCourseGradeMetrics) UserID() uint         { return m.userID }
func (m *LearnerCourseGradeMetrics) CourseID() string     { return m.courseID }
func (m *LearnerCourseGradeMetrics) DateFor() time.Time   { return m.dateFor }
func (m *LearnerCourseGradeMetrics) Grades() GradeCounts  { return m.grades }
func (m *LearnerCourseGradeMetrics) CreatedAt() time.Time { return m.createdAt }
func (m *LearnerCourseGradeMetrics) UpdatedAt() time.Time { return m.updatedAt }

func (m *LearnerCourseGradeMetrics) SetID(id uint) {
	m.id = id
}

// ProgressPercent is sections worked over sections possible, rounded to two
// places. A course without gradable sections has no progress.
func (m *LearnerCourseGradeMetrics) ProgressPercent() float64 {
	if m.grades.SectionsPossible == 0 {
		return 0
	}
	ratio := float64(m.grades.SectionsWorked) / float64(m.grades.SectionsPossible)
	return math.Round(ratio*100) / 100
}

// Completed reports whether every gradable section has been worked.
func (m *LearnerCourseGradeMetrics) Completed() bool {
	return m.grades.SectionsPossible > 0 && m.grades.SectionsWorked >= m.grades.SectionsPossible
}
