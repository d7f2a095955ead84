package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/figures-analytics/figures/internal/shared/constants"
)

// CourseDailyMetricsModel is the persistence model for one day of course metrics.
type CourseDailyMetricsModel struct {
	ID                    uint                `gorm:"primarykey"`
	SiteID                uint                `gorm:"column:site_id;not null;uniqueIndex:uniq_coursedaily_site_course_date,priority:1"`
	CourseID              string              `gorm:"column:course_id;not null;size:255;uniqueIndex:uniq_coursedaily_site_course_date,priority:2"`
	DateFor               datatypes.Date      `gorm:"column:date_for;not null;uniqueIndex:uniq_coursedaily_site_course_date,priority:3;index:idx_coursedaily_date"`
	EnrollmentCount       int                 `gorm:"column:enrollment_count;not null;default:0"`
	ActiveLearnersToday   int                 `gorm:"column:active_learners_today;not null;default:0"`
	AverageProgress       decimal.NullDecimal `gorm:"column:average_progress;type:decimal(3,2)"`
	AverageDaysToComplete *int                `gorm:"column:average_days_to_complete"`
	NumLearnersCompleted  int                 `gorm:"column:num_learners_completed;not null;default:0"`
	CreatedAt             time.Time           `gorm:"column:created;autoCreateTime"`
	UpdatedAt             time.Time           `gorm:"column:modified;autoUpdateTime"`
}

func (CourseDailyMetricsModel) TableName() string {
	return constants.TableCourseDailyMetrics
}
