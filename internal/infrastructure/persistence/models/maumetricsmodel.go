package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/figures-analytics/figures/internal/shared/constants"
)

// SiteMauMetricsModel stores the month-to-date active users of a site as of date_for.
type SiteMauMetricsModel struct {
	ID        uint           `gorm:"primarykey"`
	SiteID    uint           `gorm:"column:site_id;not null;uniqueIndex:uniq_sitemau_site_date,priority:1"`
	DateFor   datatypes.Date `gorm:"column:date_for;not null;uniqueIndex:uniq_sitemau_site_date,priority:2"`
	MAU       int            `gorm:"column:mau;not null;default:0"`
	CreatedAt time.Time      `gorm:"column:created;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:modified;autoUpdateTime"`
}

func (SiteMauMetricsModel) TableName() string {
	return constants.TableSiteMauMetrics
}

// CourseMauMetricsModel stores the month-to-date active learners of a course.
type CourseMauMetricsModel struct {
	ID        uint           `gorm:"primarykey"`
	SiteID    uint           `gorm:"column:site_id;not null;uniqueIndex:uniq_coursemau_site_course_date,priority:1"`
	CourseID  string         `gorm:"column:course_id;not null;size:255;uniqueIndex:uniq_coursemau_site_course_date,priority:2"`
	DateFor   datatypes.Date `gorm:"column:date_for;not null;uniqueIndex:uniq_coursemau_site_course_date,priority:3"`
	MAU       int            `gorm:"column:mau;not null;default:0"`
	CreatedAt time.Time      `gorm:"column:created;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:modified;autoUpdateTime"`
}

func (CourseMauMetricsModel) TableName() string {
	return constants.TableCourseMauMetrics
}
