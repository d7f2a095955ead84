package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/figures-analytics/figures/internal/shared/constants"
)

// SiteDailyMetricsModel is the persistence model for one day of site metrics.
type SiteDailyMetricsModel struct {
	ID                        uint           `gorm:"primarykey"`
	SiteID                    uint           `gorm:"column:site_id;not null;uniqueIndex:uniq_sitedaily_site_date,priority:1"`
	DateFor                   datatypes.Date `gorm:"column:date_for;not null;uniqueIndex:uniq_sitedaily_site_date,priority:2"`
	CumulativeActiveUserCount *int           `gorm:"column:cumulative_active_user_count"`
	TodaysActiveUserCount     *int           `gorm:"column:todays_active_user_count"`
	TotalUserCount            int            `gorm:"column:total_user_count;not null;default:0"`
	CourseCount               int            `gorm:"column:course_count;not null;default:0"`
	TotalEnrollmentCount      int            `gorm:"column:total_enrollment_count;not null;default:0"`
	MAU                       *int           `gorm:"column:mau"`
	CreatedAt                 time.Time      `gorm:"column:created;autoCreateTime"`
	UpdatedAt                 time.Time      `gorm:"column:modified;autoUpdateTime"`
}

func (SiteDailyMetricsModel) TableName() string {
	return constants.TableSiteDailyMetrics
}
