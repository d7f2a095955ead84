package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/figures-analytics/figures/internal/shared/constants"
)

// LearnerCourseGradeMetricsModel is a learner's daily grade snapshot.
type LearnerCourseGradeMetricsModel struct {
	ID               uint           `gorm:"primarykey"`
	SiteID           uint           `gorm:"column:site_id;not null;uniqueIndex:uniq_lcgm_site_user_course_date,priority:1"`
	UserID           uint           `gorm:"column:user_id;not null;uniqueIndex:uniq_lcgm_site_user_course_date,priority:2"`
	CourseID         string         `gorm:"column:course_id;not null;size:255;uniqueIndex:uniq_lcgm_site_user_course_date,priority:3;index:idx_lcgm_course_date,priority:1"`
	DateFor          datatypes.Date `gorm:"column:date_for;not null;uniqueIndex:uniq_lcgm_site_user_course_date,priority:4;index:idx_lcgm_course_date,priority:2"`
	PointsPossible   float64        `gorm:"column:points_possible;not null;default:0"`
	PointsEarned     float64        `gorm:"column:points_earned;not null;default:0"`
	SectionsWorked   int            `gorm:"column:sections_worked;not null;default:0"`
	SectionsPossible int            `gorm:"column:sections_possible;not null;default:0"`
	CreatedAt        time.Time      `gorm:"column:created;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:modified;autoUpdateTime"`
}

func (LearnerCourseGradeMetricsModel) TableName() string {
	return constants.TableLearnerCourseGradeMetrics
}
